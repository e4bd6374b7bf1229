package domain

import (
	"context"
	"strings"
	"time"
)

// ApplicationStatus is the lifecycle state of an application.
//
// Any valid status may be set from any other, terminal states included. Accepted
// and Rejected are terminal only in the sense that no further step is expected.
type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "applied"
	StatusPending     ApplicationStatus = "pending"
	StatusReviewed    ApplicationStatus = "reviewed"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusAccepted    ApplicationStatus = "accepted"
	StatusRejected    ApplicationStatus = "rejected"
)

// AllStatuses lists the canonical set in progression order.
var AllStatuses = []ApplicationStatus{
	StatusApplied,
	StatusPending,
	StatusReviewed,
	StatusShortlisted,
	StatusAccepted,
	StatusRejected,
}

// ParseApplicationStatus is case-insensitive, so "Shortlisted" and "shortlisted" are the same status.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	status := ApplicationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransitionTo reports whether an application in status s may be moved to next.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	return s.Valid() && next.Valid()
}

// Label is the display form, e.g. "Shortlisted".
func (s ApplicationStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

type Application struct {
	ID          int64             `json:"id"`
	JobID       int64             `json:"job_id"`
	SeekerID    int64             `json:"seeker_id"`
	CoverLetter string            `json:"cover_letter,omitempty"`
	ResumeRef   string            `json:"resume_ref"`
	Status      ApplicationStatus `json:"status"`
	AppliedAt   time.Time         `json:"applied_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Joined data for list responses
	EmployerID     int64   `json:"employer_id,omitempty"`
	JobTitle       *string `json:"job_title,omitempty"`
	Company        *string `json:"company,omitempty"`
	SeekerUsername *string `json:"seeker_username,omitempty"`
	SeekerEmail    *string `json:"seeker_email,omitempty"`
}

// ResumeFile is an uploaded resume held in memory.
type ResumeFile struct {
	Filename string
	Data     []byte
}

type ApplicationFilter struct {
	Status ApplicationStatus
	Limit  int
	Offset int
}

type ApplicationRepository interface {
	// Create fails with ErrDuplicateApplication when the seeker already applied to the job.
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	ListByJobID(ctx context.Context, jobID int64) ([]Application, error)
	ListBySeekerID(ctx context.Context, seekerID int64) ([]Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]Application, int64, error)
	CheckExists(ctx context.Context, jobID, seekerID int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status ApplicationStatus) error
	AppliedJobIDs(ctx context.Context, seekerID int64) ([]int64, error)
	CountByEmployer(ctx context.Context, employerID int64) (int64, error)
}

type ApplicationUsecase interface {
	// Seeker operations
	Apply(ctx context.Context, actor Actor, jobID int64, coverLetter string, resume *ResumeFile) (*Application, error)
	ListForSeeker(ctx context.Context, actor Actor) ([]Application, error)
	AppliedJobIDs(ctx context.Context, actor Actor) ([]int64, error)

	// Employer operations
	ListForJob(ctx context.Context, actor Actor, jobID int64) ([]Application, error)
	UpdateStatus(ctx context.Context, actor Actor, id int64, status string) (*Application, error)

	GetApplication(ctx context.Context, actor Actor, id int64) (*Application, error)
	ResumeLink(ctx context.Context, actor Actor, id int64) (string, error)
}
