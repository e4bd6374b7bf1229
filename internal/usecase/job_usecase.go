package usecase

import (
	"context"
	"strings"

	"job-board-backend/internal/domain"
	"job-board-backend/internal/policy"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/logger"
	"job-board-backend/pkg/metrics"
)

type jobUsecase struct {
	jobRepo domain.JobRepository
	appRepo domain.ApplicationRepository
	storage domain.ResumeStorage
}

func NewJobUsecase(
	jobRepo domain.JobRepository,
	appRepo domain.ApplicationRepository,
	storage domain.ResumeStorage,
) domain.JobUsecase {
	return &jobUsecase{
		jobRepo: jobRepo,
		appRepo: appRepo,
		storage: storage,
	}
}

func (u *jobUsecase) PostJob(ctx context.Context, actor domain.Actor, fields domain.JobFields) (*domain.Job, error) {
	if err := authorize(ctx, actor, policy.PostJob, policy.Target{}); err != nil {
		return nil, err
	}

	job := &domain.Job{EmployerID: actor.UserID}
	normalizeFields(&fields).Apply(job)

	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, toAppError(err)
	}

	metrics.JobsPostedTotal.Inc()
	logger.Log.Info("Job posted", "job_id", job.ID, "employer_id", job.EmployerID)
	return job, nil
}

func (u *jobUsecase) EditJob(ctx context.Context, actor domain.Actor, id int64, fields domain.JobFields) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, toAppError(err)
	}

	if err := authorize(ctx, actor, policy.EditJob, policy.JobTarget(job)); err != nil {
		return nil, err
	}

	normalizeFields(&fields).Apply(job)
	if err := u.jobRepo.Update(ctx, job); err != nil {
		return nil, toAppError(err)
	}

	logger.Log.Info("Job updated", "job_id", job.ID, "employer_id", actor.UserID)
	return job, nil
}

// DeleteJob removes the job and its applications in one transaction. Stored
// resumes of the removed applications are cleaned up afterwards; a failed file
// removal is logged and does not fail the delete.
func (u *jobUsecase) DeleteJob(ctx context.Context, actor domain.Actor, id int64) error {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return toAppError(err)
	}

	if err := authorize(ctx, actor, policy.DeleteJob, policy.JobTarget(job)); err != nil {
		return err
	}

	refs, err := u.jobRepo.DeleteWithApplications(ctx, id)
	if err != nil {
		return toAppError(err)
	}

	metrics.JobsDeletedTotal.Inc()
	metrics.ApplicationsCascadedTotal.Add(float64(len(refs)))
	logger.Log.Info("Job deleted", "job_id", id, "employer_id", actor.UserID, "applications_removed", len(refs))

	if u.storage != nil {
		for _, ref := range refs {
			if ref == "" {
				continue
			}
			if err := u.storage.Delete(ctx, ref); err != nil {
				logger.Log.Warn("Failed to delete resume file", "job_id", id, "ref", ref, "error", err)
			}
		}
	}
	return nil
}

// ListJobs returns every match when pageSize is zero.
func (u *jobUsecase) ListJobs(ctx context.Context, actor domain.Actor, search string, page, pageSize int) ([]domain.Job, int64, error) {
	if err := authorize(ctx, actor, policy.ListJobs, policy.Target{}); err != nil {
		return nil, 0, err
	}

	filter := domain.JobFilter{Search: strings.TrimSpace(search)}
	if pageSize > 0 {
		_, filter.Limit, filter.Offset = normalizePage(page, pageSize)
	}

	jobs, total, err := u.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jobs, total, nil
}

func (u *jobUsecase) GetJob(ctx context.Context, actor domain.Actor, id int64) (*domain.JobDetail, error) {
	if err := authorize(ctx, actor, policy.ViewJob, policy.Target{}); err != nil {
		return nil, err
	}

	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, toAppError(err)
	}

	detail := &domain.JobDetail{
		Job:     *job,
		IsOwner: actor.IsEmployer() && job.EmployerID == actor.UserID,
	}

	if actor.IsSeeker() {
		applied, err := u.appRepo.CheckExists(ctx, job.ID, actor.UserID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		detail.HasApplied = applied
	}
	return detail, nil
}

func (u *jobUsecase) ListEmployerJobs(ctx context.Context, actor domain.Actor) ([]domain.Job, error) {
	if err := authorize(ctx, actor, policy.ManageJobs, policy.Target{}); err != nil {
		return nil, err
	}

	jobs, _, err := u.jobRepo.List(ctx, domain.JobFilter{EmployerID: actor.UserID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jobs, nil
}

func normalizeFields(f *domain.JobFields) domain.JobFields {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Salary = strings.TrimSpace(f.Salary)
	f.Location = strings.TrimSpace(f.Location)
	f.Category = strings.TrimSpace(f.Category)
	f.Company = strings.TrimSpace(f.Company)
	return *f
}
