package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-board-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const pgForeignKeyViolation = "23503"

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Every read joins the job (owner, title, company) and the seeker.
const applicationSelect = `
		SELECT
			a.id, a.job_id, a.seeker_id, a.cover_letter, a.resume_ref, a.status, a.applied_at, a.updated_at,
			j.employer_id, j.title, j.company, u.username, u.email
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN users u ON u.id = a.seeker_id`

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	err := row.Scan(
		&app.ID, &app.JobID, &app.SeekerID, &app.CoverLetter, &app.ResumeRef, &app.Status, &app.AppliedAt, &app.UpdatedAt,
		&app.EmployerID, &app.JobTitle, &app.Company, &app.SeekerUsername, &app.SeekerEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepo) queryApplications(ctx context.Context, query string, args ...interface{}) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applications []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, *app)
	}
	return applications, rows.Err()
}

// Create inserts a new application. The (job_id, seeker_id) unique index decides
// races between concurrent applies.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (job_id, seeker_id, cover_letter, resume_ref, status, applied_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	now := time.Now()
	app.AppliedAt = now
	app.UpdatedAt = now
	if app.Status == "" {
		app.Status = domain.StatusApplied
	}

	err := r.db.QueryRow(ctx, query,
		app.JobID, app.SeekerID, app.CoverLetter, app.ResumeRef, app.Status, app.AppliedAt, app.UpdatedAt,
	).Scan(&app.ID)
	if err != nil {
		if uniqueViolation(err) == constraintJobSeekerPair {
			return domain.ErrDuplicateApplication
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return domain.ErrJobNotFound
		}
		return err
	}
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
}

func (r *applicationRepo) ListByJobID(ctx context.Context, jobID int64) ([]domain.Application, error) {
	return r.queryApplications(ctx, applicationSelect+` WHERE a.job_id = $1 ORDER BY a.applied_at DESC, a.id DESC`, jobID)
}

func (r *applicationRepo) ListBySeekerID(ctx context.Context, seekerID int64) ([]domain.Application, error) {
	return r.queryApplications(ctx, applicationSelect+` WHERE a.seeker_id = $1 ORDER BY a.applied_at DESC, a.id DESC`, seekerID)
}

func (r *applicationRepo) List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.Application, int64, error) {
	var (
		where string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = ` WHERE a.status = $1`
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications a`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := applicationSelect + where + ` ORDER BY a.applied_at DESC, a.id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	apps, err := r.queryApplications(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *applicationRepo) CheckExists(ctx context.Context, jobID, seekerID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND seeker_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, jobID, seekerID).Scan(&exists)
	return exists, err
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	query := `UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *applicationRepo) AppliedJobIDs(ctx context.Context, seekerID int64) ([]int64, error) {
	query := `SELECT COALESCE(array_agg(job_id ORDER BY job_id), '{}') FROM applications WHERE seeker_id = $1`
	var ids []int64
	if err := r.db.QueryRow(ctx, query, seekerID).Scan(pq.Array(&ids)); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *applicationRepo) CountByEmployer(ctx context.Context, employerID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id WHERE j.employer_id = $1`
	var count int64
	err := r.db.QueryRow(ctx, query, employerID).Scan(&count)
	return count, err
}
