package memory

import (
	"context"
	"testing"
	"time"

	"job-board-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

type fixture struct {
	users domain.UserRepository
	jobs  domain.JobRepository
	apps  domain.ApplicationRepository
	admin domain.AdminRepository
}

func newFixture(opts ...Option) fixture {
	s := NewStore(opts...)
	return fixture{
		users: NewUserRepository(s),
		jobs:  NewJobRepository(s),
		apps:  NewApplicationRepository(s),
		admin: NewAdminRepository(s),
	}
}

func (f fixture) user(t *testing.T, name string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@example.com", Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f fixture) job(t *testing.T, employer *domain.User, title, company string) *domain.Job {
	t.Helper()
	j := &domain.Job{EmployerID: employer.ID, Title: title, Company: company, Description: "desc"}
	require.NoError(t, f.jobs.Create(context.Background(), j))
	return j
}

func TestUserRepo_Uniqueness(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.user(t, "alice", domain.RoleSeeker)

	err := f.users.Create(ctx, &domain.User{Username: "alice", Email: "other@example.com", Role: domain.RoleSeeker})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	err = f.users.Create(ctx, &domain.User{Username: "alice2", Email: "ALICE@example.com", Role: domain.RoleSeeker})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	u, err := f.users.GetByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = f.users.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.user(t, "alice", domain.RoleSeeker)

	got, err := f.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	got.Role = domain.RoleEmployer

	again, err := f.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeeker, again.Role)
}

func TestUserRepo_ListAndSetAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(WithClock(tickingClock()))
	f.user(t, "s1", domain.RoleSeeker)
	e1 := f.user(t, "e1", domain.RoleEmployer)
	f.user(t, "e2", domain.RoleEmployer)

	employers, total, err := f.users.List(ctx, domain.UserFilter{Role: domain.RoleEmployer})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "e2", employers[0].Username)

	require.NoError(t, f.users.SetAdmin(ctx, e1.ID, true))
	got, _ := f.users.GetByID(ctx, e1.ID)
	assert.True(t, got.IsAdmin)
	assert.Equal(t, domain.RoleEmployer, got.Role)

	assert.ErrorIs(t, f.users.SetAdmin(ctx, 999, true), domain.ErrUserNotFound)
}

func TestJobRepo_ListOrderAndSearch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(WithClock(tickingClock()))
	e := f.user(t, "emp", domain.RoleEmployer)
	old := f.job(t, e, "Backend Engineer", "Acme")
	mid := f.job(t, e, "Designer", "Globex")
	newest := f.job(t, e, "Frontend Engineer", "Initech")

	all, total, err := f.jobs.List(ctx, domain.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []int64{newest.ID, mid.ID, old.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

	acme, _, err := f.jobs.List(ctx, domain.JobFilter{Search: "acme"})
	require.NoError(t, err)
	require.Len(t, acme, 1)
	assert.Equal(t, old.ID, acme[0].ID)

	engineers, _, err := f.jobs.List(ctx, domain.JobFilter{Search: "ENGINEER"})
	require.NoError(t, err)
	assert.Len(t, engineers, 2)

	none, total, err := f.jobs.List(ctx, domain.JobFilter{Search: "nonexistent"})
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.Equal(t, int64(0), total)

	paged, total, err := f.jobs.List(ctx, domain.JobFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, paged, 1)
	assert.Equal(t, mid.ID, paged[0].ID)
}

func TestJobRepo_SameTimestampTieBreaksOnID(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(WithClock(func() time.Time { return fixed }))
	e := f.user(t, "emp", domain.RoleEmployer)
	first := f.job(t, e, "A", "X")
	second := f.job(t, e, "B", "X")

	jobs, _, err := f.jobs.List(context.Background(), domain.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, second.ID, jobs[0].ID)
	assert.Equal(t, first.ID, jobs[1].ID)
}

func TestJobRepo_UpdateKeepsOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	e := f.user(t, "emp", domain.RoleEmployer)
	job := f.job(t, e, "A", "X")

	update := &domain.Job{ID: job.ID, EmployerID: 999, Title: "B", Company: "Y"}
	require.NoError(t, f.jobs.Update(ctx, update))

	got, err := f.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Title)
	assert.Equal(t, e.ID, got.EmployerID)

	assert.ErrorIs(t, f.jobs.Update(ctx, &domain.Job{ID: 404}), domain.ErrJobNotFound)
}

func TestApplicationRepo_UniquePair(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	e := f.user(t, "emp", domain.RoleEmployer)
	s := f.user(t, "seek", domain.RoleSeeker)
	job := f.job(t, e, "A", "X")

	app := &domain.Application{JobID: job.ID, SeekerID: s.ID, ResumeRef: "r1"}
	require.NoError(t, f.apps.Create(ctx, app))
	assert.Equal(t, domain.StatusApplied, app.Status)

	err := f.apps.Create(ctx, &domain.Application{JobID: job.ID, SeekerID: s.ID, ResumeRef: "r2"})
	assert.ErrorIs(t, err, domain.ErrDuplicateApplication)

	all, total, err := f.apps.List(ctx, domain.ApplicationFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "r1", all[0].ResumeRef)

	err = f.apps.Create(ctx, &domain.Application{JobID: 404, SeekerID: s.ID})
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestApplicationRepo_JoinsAndOrdering(t *testing.T) {
	ctx := context.Background()
	f := newFixture(WithClock(tickingClock()))
	e := f.user(t, "emp", domain.RoleEmployer)
	s1 := f.user(t, "s1", domain.RoleSeeker)
	s2 := f.user(t, "s2", domain.RoleSeeker)
	job := f.job(t, e, "Backend Engineer", "Acme")
	job2 := f.job(t, e, "Designer", "Acme")

	first := &domain.Application{JobID: job.ID, SeekerID: s1.ID}
	second := &domain.Application{JobID: job.ID, SeekerID: s2.ID}
	third := &domain.Application{JobID: job2.ID, SeekerID: s1.ID}
	require.NoError(t, f.apps.Create(ctx, first))
	require.NoError(t, f.apps.Create(ctx, second))
	require.NoError(t, f.apps.Create(ctx, third))

	forJob, err := f.apps.ListByJobID(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, forJob, 2)
	assert.Equal(t, second.ID, forJob[0].ID)
	assert.Equal(t, e.ID, forJob[0].EmployerID)
	assert.Equal(t, "s2", *forJob[0].SeekerUsername)
	assert.Equal(t, "Backend Engineer", *forJob[0].JobTitle)

	forSeeker, err := f.apps.ListBySeekerID(ctx, s1.ID)
	require.NoError(t, err)
	require.Len(t, forSeeker, 2)
	assert.Equal(t, third.ID, forSeeker[0].ID)

	ids, err := f.apps.AppliedJobIDs(ctx, s1.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{job.ID, job2.ID}, ids)

	count, err := f.apps.CountByEmployer(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	exists, err := f.apps.CheckExists(ctx, job2.ID, s2.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestApplicationRepo_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	e := f.user(t, "emp", domain.RoleEmployer)
	s := f.user(t, "seek", domain.RoleSeeker)
	job := f.job(t, e, "A", "X")
	app := &domain.Application{JobID: job.ID, SeekerID: s.ID}
	require.NoError(t, f.apps.Create(ctx, app))

	require.NoError(t, f.apps.UpdateStatus(ctx, app.ID, domain.StatusShortlisted))
	got, err := f.apps.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShortlisted, got.Status)

	shortlisted, total, err := f.apps.List(ctx, domain.ApplicationFilter{Status: domain.StatusShortlisted})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, shortlisted, 1)

	assert.ErrorIs(t, f.apps.UpdateStatus(ctx, 404, domain.StatusAccepted), domain.ErrApplicationNotFound)
}

func TestJobRepo_DeleteWithApplications(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	e := f.user(t, "emp", domain.RoleEmployer)
	s1 := f.user(t, "s1", domain.RoleSeeker)
	s2 := f.user(t, "s2", domain.RoleSeeker)
	job := f.job(t, e, "A", "X")
	other := f.job(t, e, "B", "X")

	require.NoError(t, f.apps.Create(ctx, &domain.Application{JobID: job.ID, SeekerID: s1.ID, ResumeRef: "a"}))
	require.NoError(t, f.apps.Create(ctx, &domain.Application{JobID: job.ID, SeekerID: s2.ID, ResumeRef: "b"}))
	require.NoError(t, f.apps.Create(ctx, &domain.Application{JobID: other.ID, SeekerID: s1.ID, ResumeRef: "c"}))

	refs, err := f.jobs.DeleteWithApplications(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, refs)

	_, err = f.jobs.GetByID(ctx, job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)

	remaining, err := f.apps.ListByJobID(ctx, job.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	left, _, err := f.apps.List(ctx, domain.ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, left, 1)

	_, err = f.jobs.DeleteWithApplications(ctx, job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestAdminRepo_Stats(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	e := f.user(t, "emp", domain.RoleEmployer)
	s := f.user(t, "seek", domain.RoleSeeker)
	require.NoError(t, f.users.SetAdmin(ctx, e.ID, true))
	job := f.job(t, e, "A", "X")
	require.NoError(t, f.apps.Create(ctx, &domain.Application{JobID: job.ID, SeekerID: s.ID}))

	stats, err := f.admin.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.UsersByRole.Admin)
	assert.Equal(t, int64(1), stats.UsersByRole.Employer)
	assert.Equal(t, int64(1), stats.UsersByRole.Seeker)
	assert.Equal(t, int64(1), stats.TotalJobs)
	assert.Equal(t, int64(1), stats.ApplicationsByStatus[domain.StatusApplied])
	assert.Equal(t, int64(0), stats.ApplicationsByStatus[domain.StatusRejected])
}
