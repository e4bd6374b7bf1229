package domain

import "context"

// AdminStats contains dashboard statistics
type AdminStats struct {
	TotalUsers           int64                       `json:"totalUsers"`
	UsersByRole          UsersByRole                 `json:"usersByRole"`
	TotalJobs            int64                       `json:"totalJobs"`
	TotalApplications    int64                       `json:"totalApplications"`
	ApplicationsByStatus map[ApplicationStatus]int64 `json:"applicationsByStatus"`
}

type UsersByRole struct {
	Admin    int64 `json:"admin"`
	Employer int64 `json:"employer"`
	Seeker   int64 `json:"seeker"`
}

// PaginatedResult for list responses
type PaginatedResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// NewPaginatedResult fills in the page count.
func NewPaginatedResult[T any](data []T, total int64, page, pageSize int) *PaginatedResult[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &PaginatedResult[T]{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// AdminRepository defines admin-specific data access
type AdminRepository interface {
	GetStats(ctx context.Context) (*AdminStats, error)
}

// AdminUsecase is read-only: administrators see every record but gain no mutation rights.
type AdminUsecase interface {
	GetStats(ctx context.Context, actor Actor) (*AdminStats, error)
	ListUsers(ctx context.Context, actor Actor, role string, page, pageSize int) (*PaginatedResult[User], error)
	ListEmployers(ctx context.Context, actor Actor, page, pageSize int) (*PaginatedResult[User], error)
	ListJobs(ctx context.Context, actor Actor, page, pageSize int) (*PaginatedResult[Job], error)
	ListApplications(ctx context.Context, actor Actor, status string, page, pageSize int) (*PaginatedResult[Application], error)
	ExportWorkbook(ctx context.Context, actor Actor) ([]byte, error)
}
