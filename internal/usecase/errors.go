package usecase

import (
	"context"
	"errors"
	"net/http"

	"job-board-backend/internal/domain"
	"job-board-backend/internal/policy"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/logger"
	"job-board-backend/pkg/metrics"
	"job-board-backend/pkg/security"
)

// Client-facing status and message per domain error. More specific errors come
// before the ones they wrap.
var errorResponses = []struct {
	target  error
	code    int
	message string
}{
	{domain.ErrJobNotFound, http.StatusNotFound, "Job not found"},
	{domain.ErrApplicationNotFound, http.StatusNotFound, "Application not found"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrNotFound, http.StatusNotFound, "Resource not found"},

	{domain.ErrUnauthenticated, http.StatusUnauthorized, "Authentication required"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid username or password"},

	{domain.ErrNotSeeker, http.StatusForbidden, "Only job seekers can perform this action"},
	{domain.ErrNotEmployer, http.StatusForbidden, "Only employers can perform this action"},
	{domain.ErrNotJobOwner, http.StatusForbidden, "Only the employer who posted this job can do this"},
	{domain.ErrNotOwner, http.StatusForbidden, "You do not own this resource"},
	{domain.ErrNotAdmin, http.StatusForbidden, "Administrator access required"},

	{domain.ErrDuplicateApplication, http.StatusConflict, "You have already applied to this job"},
	{domain.ErrDuplicateUsername, http.StatusConflict, "Username is already taken"},
	{domain.ErrDuplicateEmail, http.StatusConflict, "Email is already registered"},

	{domain.ErrInvalidStatus, http.StatusBadRequest, "Invalid application status"},
	{domain.ErrInvalidRole, http.StatusBadRequest, "Role must be either seeker or employer"},
	{domain.ErrResumeRequired, http.StatusBadRequest, "A resume file is required"},
	{domain.ErrInvalidResume, http.StatusBadRequest, "Resume must be a PDF, DOC or DOCX file"},
}

// toAppError maps domain errors to AppErrors that still unwrap to the domain error.
// Anything unrecognised becomes a 500.
func toAppError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	for _, r := range errorResponses {
		if errors.Is(err, r.target) {
			return apperror.New(r.code, r.message, err)
		}
	}
	return apperror.Internal(err)
}

// authorize consults the gate. Denials are counted, logged as security events
// and returned as AppErrors.
func authorize(ctx context.Context, actor domain.Actor, action policy.Action, target policy.Target) error {
	decision := policy.Authorize(actor, action, target)
	if decision.Allowed {
		return nil
	}

	reason := decision.Reason
	metrics.AccessDeniedTotal.WithLabelValues(string(action), reason.Error()).Inc()
	security.DefaultLogger().LogAccessDenied(ctx, actor.UserID, string(action), reason.Error())
	logger.Log.Debug("Access denied", "action", action, "user_id", actor.UserID, "reason", reason.Error())

	return toAppError(reason)
}

// normalizePage clamps paging input: page starts at 1, page size defaults to 20 and caps at 100.
func normalizePage(page, pageSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize, (page - 1) * pageSize
}
