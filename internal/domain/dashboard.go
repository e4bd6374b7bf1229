package domain

import "context"

// Dashboard is the landing view for a signed-in user. Seekers get their
// applications, employers get their jobs and the number of applications received.
type Dashboard struct {
	User              *User         `json:"user"`
	Applications      []Application `json:"applications,omitempty"`
	Jobs              []Job         `json:"jobs,omitempty"`
	TotalApplications int64         `json:"total_applications"`
}

type DashboardUsecase interface {
	GetDashboard(ctx context.Context, actor Actor) (*Dashboard, error)
}
