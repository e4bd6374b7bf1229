package usecase

import (
	"context"
	"time"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

// HealthCheck probes one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

type healthUsecase struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

func NewHealthUsecase(checks map[string]HealthCheck) HealthUsecase {
	return &healthUsecase{checks: checks, timeout: 2 * time.Second}
}

// Check reports "ok" per dependency, or the error text. The overall status is
// "degraded" when any dependency fails.
func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	result := map[string]string{"status": "ok"}

	for name, check := range u.checks {
		if check == nil {
			continue
		}
		cctx, cancel := context.WithTimeout(ctx, u.timeout)
		err := check(cctx)
		cancel()

		if err != nil {
			result[name] = err.Error()
			result["status"] = "degraded"
			continue
		}
		result[name] = "ok"
	}
	return result
}
