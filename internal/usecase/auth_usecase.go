package usecase

import (
	"context"
	"errors"
	"strings"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/logger"
)

type authUsecase struct {
	userRepo domain.UserRepository
	hasher   domain.PasswordHasher
}

func NewAuthUsecase(userRepo domain.UserRepository, hasher domain.PasswordHasher) domain.AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// Register creates an account with an explicit role. Uniqueness is checked up front
// for friendly errors; the unique indexes still decide concurrent registrations.
func (u *authUsecase) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, toAppError(err)
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, apperror.BadRequest("Username, email and password are required")
	}

	if err := u.ensureAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperror.BadRequest("Password could not be accepted")
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, toAppError(err)
	}

	logger.Log.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (u *authUsecase) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := u.userRepo.GetByUsername(ctx, username); err == nil {
		return toAppError(domain.ErrDuplicateUsername)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return apperror.Internal(err)
	}

	if _, err := u.userRepo.GetByEmail(ctx, email); err == nil {
		return toAppError(domain.ErrDuplicateEmail)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return apperror.Internal(err)
	}
	return nil
}

// Authenticate does not reveal whether the username exists.
func (u *authUsecase) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := u.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, toAppError(domain.ErrInvalidCredentials)
		}
		return nil, apperror.Internal(err)
	}

	if !u.hasher.Verify(password, user.PasswordHash) {
		return nil, toAppError(domain.ErrInvalidCredentials)
	}
	return user, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, toAppError(err)
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap administrator if needed and makes sure it
// carries the administrator flag. An existing account keeps its role.
func (u *authUsecase) EnsureAdmin(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	user, err := u.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		user, err = u.Register(ctx, input)
		if err != nil {
			return nil, err
		}
	default:
		return nil, apperror.Internal(err)
	}

	if !user.IsAdmin {
		if err := u.userRepo.SetAdmin(ctx, user.ID, true); err != nil {
			return nil, toAppError(err)
		}
		user.IsAdmin = true
		logger.Log.Info("Administrator flag granted", "user_id", user.ID)
	}
	return user, nil
}
