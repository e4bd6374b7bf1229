package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/internal/policy"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/export"
	"job-board-backend/pkg/logger"
)

type adminUsecase struct {
	userRepo  domain.UserRepository
	jobRepo   domain.JobRepository
	appRepo   domain.ApplicationRepository
	adminRepo domain.AdminRepository
}

func NewAdminUsecase(
	userRepo domain.UserRepository,
	jobRepo domain.JobRepository,
	appRepo domain.ApplicationRepository,
	adminRepo domain.AdminRepository,
) domain.AdminUsecase {
	return &adminUsecase{
		userRepo:  userRepo,
		jobRepo:   jobRepo,
		appRepo:   appRepo,
		adminRepo: adminRepo,
	}
}

// GetStats returns dashboard statistics
func (u *adminUsecase) GetStats(ctx context.Context, actor domain.Actor) (*domain.AdminStats, error) {
	if err := authorize(ctx, actor, policy.AdminRead, policy.Target{}); err != nil {
		return nil, err
	}

	stats, err := u.adminRepo.GetStats(ctx)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("fetch statistics: %w", err))
	}
	return stats, nil
}

// ListUsers returns paginated users, optionally filtered by role.
func (u *adminUsecase) ListUsers(ctx context.Context, actor domain.Actor, role string, page, pageSize int) (*domain.PaginatedResult[domain.User], error) {
	if err := authorize(ctx, actor, policy.AdminRead, policy.Target{}); err != nil {
		return nil, err
	}

	filter := domain.UserFilter{}
	if strings.TrimSpace(role) != "" {
		r, err := domain.ParseRole(role)
		if err != nil {
			return nil, toAppError(err)
		}
		filter.Role = r
	}
	return u.listUsers(ctx, filter, page, pageSize)
}

func (u *adminUsecase) ListEmployers(ctx context.Context, actor domain.Actor, page, pageSize int) (*domain.PaginatedResult[domain.User], error) {
	if err := authorize(ctx, actor, policy.AdminRead, policy.Target{}); err != nil {
		return nil, err
	}
	return u.listUsers(ctx, domain.UserFilter{Role: domain.RoleEmployer}, page, pageSize)
}

func (u *adminUsecase) listUsers(ctx context.Context, filter domain.UserFilter, page, pageSize int) (*domain.PaginatedResult[domain.User], error) {
	page, pageSize, offset := normalizePage(page, pageSize)
	filter.Limit, filter.Offset = pageSize, offset

	users, total, err := u.userRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("fetch users: %w", err))
	}
	return domain.NewPaginatedResult(users, total, page, pageSize), nil
}

func (u *adminUsecase) ListJobs(ctx context.Context, actor domain.Actor, page, pageSize int) (*domain.PaginatedResult[domain.Job], error) {
	if err := authorize(ctx, actor, policy.AdminRead, policy.Target{}); err != nil {
		return nil, err
	}

	page, pageSize, offset := normalizePage(page, pageSize)
	jobs, total, err := u.jobRepo.List(ctx, domain.JobFilter{Limit: pageSize, Offset: offset})
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("fetch jobs: %w", err))
	}
	return domain.NewPaginatedResult(jobs, total, page, pageSize), nil
}

func (u *adminUsecase) ListApplications(ctx context.Context, actor domain.Actor, status string, page, pageSize int) (*domain.PaginatedResult[domain.Application], error) {
	if err := authorize(ctx, actor, policy.AdminRead, policy.Target{}); err != nil {
		return nil, err
	}

	filter := domain.ApplicationFilter{}
	if strings.TrimSpace(status) != "" {
		s, err := domain.ParseApplicationStatus(status)
		if err != nil {
			return nil, toAppError(err)
		}
		filter.Status = s
	}

	page, pageSize, offset := normalizePage(page, pageSize)
	filter.Limit, filter.Offset = pageSize, offset

	apps, total, err := u.appRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("fetch applications: %w", err))
	}
	return domain.NewPaginatedResult(apps, total, page, pageSize), nil
}

// ExportWorkbook dumps users, jobs and applications into an xlsx workbook.
func (u *adminUsecase) ExportWorkbook(ctx context.Context, actor domain.Actor) ([]byte, error) {
	if err := authorize(ctx, actor, policy.AdminRead, policy.Target{}); err != nil {
		return nil, err
	}

	users, _, err := u.userRepo.List(ctx, domain.UserFilter{})
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("export users: %w", err))
	}
	jobs, _, err := u.jobRepo.List(ctx, domain.JobFilter{})
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("export jobs: %w", err))
	}
	apps, _, err := u.appRepo.List(ctx, domain.ApplicationFilter{})
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("export applications: %w", err))
	}

	data, err := export.Workbook(userSheet(users), jobSheet(jobs), applicationSheet(apps))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	logger.Log.Info("Admin export generated",
		"admin_id", actor.UserID,
		"users", len(users),
		"jobs", len(jobs),
		"applications", len(apps),
	)
	return data, nil
}

func userSheet(users []domain.User) export.Sheet {
	s := export.Sheet{
		Name:    "Users",
		Headers: []string{"ID", "Username", "Email", "Role", "Admin", "Joined"},
	}
	for _, usr := range users {
		s.Rows = append(s.Rows, []interface{}{
			usr.ID, usr.Username, usr.Email, string(usr.Role), usr.IsAdmin, usr.CreatedAt.Format(time.RFC3339),
		})
	}
	return s
}

func jobSheet(jobs []domain.Job) export.Sheet {
	s := export.Sheet{
		Name:    "Jobs",
		Headers: []string{"ID", "Employer ID", "Title", "Company", "Location", "Category", "Salary", "Posted"},
	}
	for _, j := range jobs {
		s.Rows = append(s.Rows, []interface{}{
			j.ID, j.EmployerID, j.Title, j.Company, j.Location, j.Category, j.Salary, j.CreatedAt.Format(time.RFC3339),
		})
	}
	return s
}

func applicationSheet(apps []domain.Application) export.Sheet {
	s := export.Sheet{
		Name:    "Applications",
		Headers: []string{"ID", "Job ID", "Job Title", "Seeker ID", "Seeker", "Status", "Applied"},
	}
	for _, a := range apps {
		s.Rows = append(s.Rows, []interface{}{
			a.ID, a.JobID, deref(a.JobTitle), a.SeekerID, deref(a.SeekerUsername), a.Status.Label(), a.AppliedAt.Format(time.RFC3339),
		})
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
