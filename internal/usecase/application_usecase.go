package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"job-board-backend/internal/domain"
	"job-board-backend/internal/policy"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/logger"
	"job-board-backend/pkg/metrics"
	"job-board-backend/pkg/security"
)

// ApplicationConfig carries the resume limits.
type ApplicationConfig struct {
	MaxResumeBytes int64
	ResumeURLTTL   time.Duration
}

const (
	defaultMaxResumeBytes = 5 << 20
	defaultResumeURLTTL   = 15 * time.Minute
)

type applicationUsecase struct {
	appRepo domain.ApplicationRepository
	jobRepo domain.JobRepository
	storage domain.ResumeStorage
	cfg     ApplicationConfig
}

func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	jobRepo domain.JobRepository,
	storage domain.ResumeStorage,
	cfg ApplicationConfig,
) domain.ApplicationUsecase {
	if cfg.MaxResumeBytes <= 0 {
		cfg.MaxResumeBytes = defaultMaxResumeBytes
	}
	if cfg.ResumeURLTTL <= 0 {
		cfg.ResumeURLTTL = defaultResumeURLTTL
	}
	return &applicationUsecase{
		appRepo: appRepo,
		jobRepo: jobRepo,
		storage: storage,
		cfg:     cfg,
	}
}

// Apply submits a seeker's application. The duplicate pre-check gives an early
// answer; the (job, seeker) unique index decides concurrent submissions, and the
// losing request's stored resume is removed again.
func (u *applicationUsecase) Apply(ctx context.Context, actor domain.Actor, jobID int64, coverLetter string, resume *domain.ResumeFile) (*domain.Application, error) {
	if err := authorize(ctx, actor, policy.Apply, policy.Target{}); err != nil {
		return nil, err
	}

	if _, err := u.jobRepo.GetByID(ctx, jobID); err != nil {
		return nil, toAppError(err)
	}

	exists, err := u.appRepo.CheckExists(ctx, jobID, actor.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		metrics.DuplicateApplicationsTotal.Inc()
		return nil, toAppError(domain.ErrDuplicateApplication)
	}

	if resume == nil || len(resume.Data) == 0 {
		return nil, toAppError(domain.ErrResumeRequired)
	}
	result := security.ValidateResume(resume.Filename, resume.Data, u.cfg.MaxResumeBytes)
	if !result.Valid {
		security.DefaultLogger().LogUploadRejected(ctx, actor.UserID, resume.Filename, result.Error)
		return nil, apperror.New(http.StatusBadRequest, result.Error, domain.ErrInvalidResume)
	}

	key := fmt.Sprintf("resumes/%d/%d/%s%s", jobID, actor.UserID, uuid.NewString(), result.Extension)
	ref, err := u.storage.Save(ctx, key, result.ContentType, resume.Data)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("store resume: %w", err))
	}

	app := &domain.Application{
		JobID:       jobID,
		SeekerID:    actor.UserID,
		CoverLetter: strings.TrimSpace(coverLetter),
		ResumeRef:   ref,
		Status:      domain.StatusApplied,
	}
	if err := u.appRepo.Create(ctx, app); err != nil {
		if delErr := u.storage.Delete(ctx, ref); delErr != nil {
			logger.Log.Warn("Failed to remove orphaned resume", "ref", ref, "error", delErr)
		}
		if errors.Is(err, domain.ErrDuplicateApplication) {
			metrics.DuplicateApplicationsTotal.Inc()
		}
		return nil, toAppError(err)
	}

	metrics.ApplicationsCreatedTotal.Inc()
	logger.Log.Info("Application submitted", "application_id", app.ID, "job_id", jobID, "seeker_id", actor.UserID)
	return app, nil
}

func (u *applicationUsecase) ListForSeeker(ctx context.Context, actor domain.Actor) ([]domain.Application, error) {
	if err := authorize(ctx, actor, policy.ListOwnApplications, policy.Target{}); err != nil {
		return nil, err
	}

	apps, err := u.appRepo.ListBySeekerID(ctx, actor.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	return apps, nil
}

func (u *applicationUsecase) AppliedJobIDs(ctx context.Context, actor domain.Actor) ([]int64, error) {
	if err := authorize(ctx, actor, policy.ListOwnApplications, policy.Target{}); err != nil {
		return nil, err
	}

	ids, err := u.appRepo.AppliedJobIDs(ctx, actor.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (u *applicationUsecase) ListForJob(ctx context.Context, actor domain.Actor, jobID int64) ([]domain.Application, error) {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, toAppError(err)
	}

	if err := authorize(ctx, actor, policy.ListJobApplications, policy.JobTarget(job)); err != nil {
		return nil, err
	}

	apps, err := u.appRepo.ListByJobID(ctx, jobID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	return apps, nil
}

// UpdateStatus checks the status value, then that the application exists, then
// that the actor owns its job. Nothing is written when any check fails.
func (u *applicationUsecase) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status string) (*domain.Application, error) {
	next, err := domain.ParseApplicationStatus(status)
	if err != nil {
		return nil, toAppError(err)
	}

	app, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, toAppError(err)
	}

	if err := authorize(ctx, actor, policy.UpdateApplicationStatus, policy.ApplicationTarget(app)); err != nil {
		return nil, err
	}

	if !app.Status.CanTransitionTo(next) {
		return nil, toAppError(domain.ErrInvalidStatus)
	}
	if app.Status == next {
		return app, nil
	}

	if err := u.appRepo.UpdateStatus(ctx, id, next); err != nil {
		return nil, toAppError(err)
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(app.Status), string(next)).Inc()
	logger.Log.Info("Application status updated",
		"application_id", id,
		"from", app.Status,
		"to", next,
		"employer_id", actor.UserID,
	)

	updated, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, toAppError(err)
	}
	return updated, nil
}

func (u *applicationUsecase) GetApplication(ctx context.Context, actor domain.Actor, id int64) (*domain.Application, error) {
	app, err := u.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, toAppError(err)
	}

	if err := authorize(ctx, actor, policy.ViewApplication, policy.ApplicationTarget(app)); err != nil {
		return nil, err
	}
	return app, nil
}

// ResumeLink returns a time-limited download URL for the application's resume.
func (u *applicationUsecase) ResumeLink(ctx context.Context, actor domain.Actor, id int64) (string, error) {
	app, err := u.GetApplication(ctx, actor, id)
	if err != nil {
		return "", err
	}
	if app.ResumeRef == "" {
		return "", apperror.NotFound("Resume not found")
	}

	url, err := u.storage.URL(ctx, app.ResumeRef, u.cfg.ResumeURLTTL)
	if err != nil {
		return "", apperror.Internal(fmt.Errorf("resume url: %w", err))
	}
	return url, nil
}
