package domain

import (
	"errors"
	"fmt"
)

// Domain errors returned by repositories, the authorization gate and usecases.
// Usecases wrap them in apperror.AppError, so match with errors.Is.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUserNotFound        = fmt.Errorf("%w: user", ErrNotFound)
	ErrJobNotFound         = fmt.Errorf("%w: job", ErrNotFound)
	ErrApplicationNotFound = fmt.Errorf("%w: application", ErrNotFound)

	ErrUnauthenticated = errors.New("authentication required")
	ErrNotSeeker       = errors.New("only job seekers can perform this action")
	ErrNotEmployer     = errors.New("only employers can perform this action")
	ErrNotOwner        = errors.New("resource belongs to another user")
	ErrNotJobOwner     = fmt.Errorf("%w: only the employer who posted the job can do this", ErrNotOwner)
	ErrNotAdmin        = errors.New("administrator access required")

	ErrDuplicateApplication = errors.New("you have already applied to this job")
	ErrInvalidStatus        = errors.New("invalid application status")
	ErrResumeRequired       = errors.New("a resume file is required")
	ErrInvalidResume        = errors.New("resume must be a PDF, DOC or DOCX file")

	ErrDuplicateUsername  = errors.New("username is already taken")
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidRole        = errors.New("role must be either seeker or employer")
)
