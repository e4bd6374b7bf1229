package memory

import (
	"context"

	"job-board-backend/internal/domain"
)

type adminRepo struct {
	s *Store
}

func NewAdminRepository(s *Store) domain.AdminRepository {
	return &adminRepo{s: s}
}

func (r *adminRepo) GetStats(_ context.Context) (*domain.AdminStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := &domain.AdminStats{
		TotalUsers:           int64(len(r.s.users)),
		TotalJobs:            int64(len(r.s.jobs)),
		TotalApplications:    int64(len(r.s.apps)),
		ApplicationsByStatus: make(map[domain.ApplicationStatus]int64),
	}
	for _, u := range r.s.users {
		if u.IsAdmin {
			stats.UsersByRole.Admin++
		}
		switch u.Role {
		case domain.RoleEmployer:
			stats.UsersByRole.Employer++
		case domain.RoleSeeker:
			stats.UsersByRole.Seeker++
		}
	}
	for _, s := range domain.AllStatuses {
		stats.ApplicationsByStatus[s] = 0
	}
	for _, app := range r.s.apps {
		stats.ApplicationsByStatus[app.Status]++
	}
	return stats, nil
}
