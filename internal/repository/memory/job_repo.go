package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"job-board-backend/internal/domain"
)

type jobRepo struct {
	s *Store
}

func NewJobRepository(s *Store) domain.JobRepository {
	return &jobRepo{s: s}
}

func (r *jobRepo) Create(_ context.Context, job *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.userByID(job.EmployerID) == nil {
		return domain.ErrUserNotFound
	}

	r.s.nextJobID++
	now := r.s.now()
	job.ID = r.s.nextJobID
	job.CreatedAt = now
	job.UpdatedAt = now

	stored := *job
	r.s.jobs[job.ID] = &stored
	return nil
}

func (r *jobRepo) GetByID(_ context.Context, id int64) (*domain.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	job, ok := r.s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	out := *job
	return &out, nil
}

func (r *jobRepo) List(_ context.Context, filter domain.JobFilter) ([]domain.Job, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.TrimSpace(filter.Search)
	var jobs []domain.Job
	for _, job := range r.s.jobs {
		if filter.EmployerID != 0 && job.EmployerID != filter.EmployerID {
			continue
		}
		if search != "" && !containsFold(job.Title, search) && !containsFold(job.Company, search) && !containsFold(job.Description, search) {
			continue
		}
		jobs = append(jobs, *job)
	}
	sort.SliceStable(jobs, newestFirst(func(i int) (time.Time, int64) {
		return jobs[i].CreatedAt, jobs[i].ID
	}))
	return page(jobs, filter.Limit, filter.Offset), int64(len(jobs)), nil
}

func (r *jobRepo) Update(_ context.Context, job *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.jobs[job.ID]
	if !ok {
		return domain.ErrJobNotFound
	}
	job.EmployerID = stored.EmployerID
	job.CreatedAt = stored.CreatedAt
	job.UpdatedAt = r.s.now()

	updated := *job
	r.s.jobs[job.ID] = &updated
	return nil
}

func (r *jobRepo) DeleteWithApplications(_ context.Context, id int64) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[id]; !ok {
		return nil, domain.ErrJobNotFound
	}

	var refs []string
	for appID, app := range r.s.apps {
		if app.JobID == id {
			refs = append(refs, app.ResumeRef)
			delete(r.s.apps, appID)
		}
	}
	delete(r.s.jobs, id)
	sort.Strings(refs)
	return refs, nil
}
