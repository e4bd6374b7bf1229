package postgres

import (
	"context"

	"job-board-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type adminRepo struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) domain.AdminRepository {
	return &adminRepo{db: db}
}

// GetStats fetches dashboard statistics
func (r *adminRepo) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	stats := &domain.AdminStats{ApplicationsByStatus: make(map[domain.ApplicationStatus]int64)}

	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_admin),
			COUNT(*) FILTER (WHERE role = 'employer'),
			COUNT(*) FILTER (WHERE role = 'seeker')
		FROM users`,
	).Scan(&stats.TotalUsers, &stats.UsersByRole.Admin, &stats.UsersByRole.Employer, &stats.UsersByRole.Seeker)
	if err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&stats.TotalJobs); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for _, s := range domain.AllStatuses {
		stats.ApplicationsByStatus[s] = 0
	}
	for rows.Next() {
		var (
			status domain.ApplicationStatus
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ApplicationsByStatus[status] = count
		stats.TotalApplications += count
	}
	return stats, rows.Err()
}
