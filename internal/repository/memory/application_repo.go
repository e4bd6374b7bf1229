package memory

import (
	"context"
	"sort"

	"job-board-backend/internal/domain"
)

type applicationRepo struct {
	s *Store
}

func NewApplicationRepository(s *Store) domain.ApplicationRepository {
	return &applicationRepo{s: s}
}

func (r *applicationRepo) Create(_ context.Context, app *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobs[app.JobID]; !ok {
		return domain.ErrJobNotFound
	}
	if r.s.userByID(app.SeekerID) == nil {
		return domain.ErrUserNotFound
	}
	for _, existing := range r.s.apps {
		if existing.JobID == app.JobID && existing.SeekerID == app.SeekerID {
			return domain.ErrDuplicateApplication
		}
	}

	r.s.nextAppID++
	now := r.s.now()
	app.ID = r.s.nextAppID
	app.AppliedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = domain.StatusApplied
	}

	stored := *app
	stored.EmployerID, stored.JobTitle, stored.Company = 0, nil, nil
	stored.SeekerUsername, stored.SeekerEmail = nil, nil
	r.s.apps[app.ID] = &stored
	return nil
}

func (r *applicationRepo) GetByID(_ context.Context, id int64) (*domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	app, ok := r.s.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	out := r.s.joined(app)
	return &out, nil
}

func (r *applicationRepo) ListByJobID(_ context.Context, jobID int64) ([]domain.Application, error) {
	return r.filter(func(a *domain.Application) bool { return a.JobID == jobID }), nil
}

func (r *applicationRepo) ListBySeekerID(_ context.Context, seekerID int64) ([]domain.Application, error) {
	return r.filter(func(a *domain.Application) bool { return a.SeekerID == seekerID }), nil
}

func (r *applicationRepo) List(_ context.Context, filter domain.ApplicationFilter) ([]domain.Application, int64, error) {
	apps := r.filter(func(a *domain.Application) bool {
		return filter.Status == "" || a.Status == filter.Status
	})
	return page(apps, filter.Limit, filter.Offset), int64(len(apps)), nil
}

func (r *applicationRepo) filter(match func(*domain.Application) bool) []domain.Application {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var apps []domain.Application
	for _, app := range r.s.apps {
		if match(app) {
			apps = append(apps, r.s.joined(app))
		}
	}
	sortApplications(apps)
	return apps
}

func (r *applicationRepo) CheckExists(_ context.Context, jobID, seekerID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, app := range r.s.apps {
		if app.JobID == jobID && app.SeekerID == seekerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *applicationRepo) UpdateStatus(_ context.Context, id int64, status domain.ApplicationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	app, ok := r.s.apps[id]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	app.Status = status
	app.UpdatedAt = r.s.now()
	return nil
}

func (r *applicationRepo) AppliedJobIDs(_ context.Context, seekerID int64) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := []int64{}
	for _, app := range r.s.apps {
		if app.SeekerID == seekerID {
			ids = append(ids, app.JobID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *applicationRepo) CountByEmployer(_ context.Context, employerID int64) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var count int64
	for _, app := range r.s.apps {
		if job, ok := r.s.jobs[app.JobID]; ok && job.EmployerID == employerID {
			count++
		}
	}
	return count, nil
}
