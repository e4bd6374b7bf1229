package domain

import (
	"context"
	"time"
)

type Job struct {
	ID          int64     `json:"id"`
	EmployerID  int64     `json:"employer_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Salary      string    `json:"salary,omitempty"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Company     string    `json:"company"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobFields are the employer-editable attributes of a posting.
type JobFields struct {
	Title       string `json:"title" binding:"required,max=120,no_emoji"`
	Description string `json:"description" binding:"required"`
	Salary      string `json:"salary" binding:"max=50"`
	Location    string `json:"location" binding:"required,max=120"`
	Category    string `json:"category" binding:"required,max=120"`
	Company     string `json:"company" binding:"required,max=120"`
}

// Apply copies the fields onto the job.
func (f JobFields) Apply(job *Job) {
	job.Title = f.Title
	job.Description = f.Description
	job.Salary = f.Salary
	job.Location = f.Location
	job.Category = f.Category
	job.Company = f.Company
}

// JobFilter selects jobs for listing. A zero EmployerID matches every employer
// and a zero Limit returns every match.
type JobFilter struct {
	Search     string
	EmployerID int64
	Limit      int
	Offset     int
}

// JobDetail is a job as seen by a particular actor.
type JobDetail struct {
	Job
	HasApplied bool `json:"has_applied"`
	IsOwner    bool `json:"is_owner"`
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id int64) (*Job, error)
	// List returns matches newest first together with the total match count.
	List(ctx context.Context, filter JobFilter) ([]Job, int64, error)
	Update(ctx context.Context, job *Job) error
	// DeleteWithApplications removes the job's applications and then the job in a
	// single transaction. It returns the resume references of the removed applications.
	DeleteWithApplications(ctx context.Context, id int64) ([]string, error)
}

type JobUsecase interface {
	PostJob(ctx context.Context, actor Actor, fields JobFields) (*Job, error)
	EditJob(ctx context.Context, actor Actor, id int64, fields JobFields) (*Job, error)
	DeleteJob(ctx context.Context, actor Actor, id int64) error
	ListJobs(ctx context.Context, actor Actor, search string, page, pageSize int) ([]Job, int64, error)
	GetJob(ctx context.Context, actor Actor, id int64) (*JobDetail, error)
	ListEmployerJobs(ctx context.Context, actor Actor) ([]Job, error)
}
