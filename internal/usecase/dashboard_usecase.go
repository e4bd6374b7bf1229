package usecase

import (
	"context"

	"job-board-backend/internal/domain"
	"job-board-backend/internal/policy"
	"job-board-backend/pkg/apperror"
)

type dashboardUsecase struct {
	userRepo domain.UserRepository
	jobRepo  domain.JobRepository
	appRepo  domain.ApplicationRepository
}

func NewDashboardUsecase(
	userRepo domain.UserRepository,
	jobRepo domain.JobRepository,
	appRepo domain.ApplicationRepository,
) domain.DashboardUsecase {
	return &dashboardUsecase{
		userRepo: userRepo,
		jobRepo:  jobRepo,
		appRepo:  appRepo,
	}
}

func (u *dashboardUsecase) GetDashboard(ctx context.Context, actor domain.Actor) (*domain.Dashboard, error) {
	if err := authorize(ctx, actor, policy.ViewDashboard, policy.Target{}); err != nil {
		return nil, err
	}

	user, err := u.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, toAppError(err)
	}

	dash := &domain.Dashboard{User: user}

	switch user.Role {
	case domain.RoleSeeker:
		apps, err := u.appRepo.ListBySeekerID(ctx, user.ID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if apps == nil {
			apps = []domain.Application{}
		}
		dash.Applications = apps
		dash.TotalApplications = int64(len(apps))

	case domain.RoleEmployer:
		jobs, _, err := u.jobRepo.List(ctx, domain.JobFilter{EmployerID: user.ID})
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if jobs == nil {
			jobs = []domain.Job{}
		}
		received, err := u.appRepo.CountByEmployer(ctx, user.ID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		dash.Jobs = jobs
		dash.TotalApplications = received
	}

	return dash, nil
}
