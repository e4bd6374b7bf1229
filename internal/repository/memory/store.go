// Package memory is an in-process implementation of the repositories. It enforces
// the same uniqueness and ordering rules as the postgres schema and backs
// DB_DRIVER=memory as well as the usecase scenario tests.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"job-board-backend/internal/domain"
)

// Store holds every table behind one lock, so each repository call is atomic.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users []*domain.User
	jobs  map[int64]*domain.Job
	apps  map[int64]*domain.Application

	nextUserID int64
	nextJobID  int64
	nextAppID  int64
}

type Option func(*Store)

// WithClock replaces time.Now, letting tests control creation order.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		now:  time.Now,
		jobs: make(map[int64]*domain.Job),
		apps: make(map[int64]*domain.Application),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) userByID(id int64) *domain.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// joined returns a copy of app with the job and seeker columns filled in.
func (s *Store) joined(app *domain.Application) domain.Application {
	out := *app
	if job, ok := s.jobs[app.JobID]; ok {
		title, company := job.Title, job.Company
		out.EmployerID = job.EmployerID
		out.JobTitle = &title
		out.Company = &company
	}
	if u := s.userByID(app.SeekerID); u != nil {
		username, email := u.Username, u.Email
		out.SeekerUsername = &username
		out.SeekerEmail = &email
	}
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset > len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// newestFirst orders by timestamp descending, then id descending.
func newestFirst(at func(i int) (time.Time, int64)) func(i, j int) bool {
	return func(i, j int) bool {
		ti, idi := at(i)
		tj, idj := at(j)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	}
}

func sortApplications(apps []domain.Application) {
	sort.SliceStable(apps, newestFirst(func(i int) (time.Time, int64) {
		return apps[i].AppliedAt, apps[i].ID
	}))
}
