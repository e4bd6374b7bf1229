package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"job-board-backend/internal/domain"
)

type userRepo struct {
	s *Store
}

func NewUserRepository(s *Store) domain.UserRepository {
	return &userRepo{s: s}
}

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return domain.ErrDuplicateUsername
		}
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrDuplicateEmail
		}
	}

	r.s.nextUserID++
	now := r.s.now()
	user.ID = r.s.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.s.users = append(r.s.users, &stored)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepo) List(_ context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var users []domain.User
	for _, u := range r.s.users {
		if filter.Role == "" || u.Role == filter.Role {
			users = append(users, *u)
		}
	}
	sort.SliceStable(users, newestFirst(func(i int) (time.Time, int64) {
		return users[i].CreatedAt, users[i].ID
	}))
	return page(users, filter.Limit, filter.Offset), int64(len(users)), nil
}

func (r *userRepo) SetAdmin(_ context.Context, id int64, isAdmin bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u := r.s.userByID(id)
	if u == nil {
		return domain.ErrUserNotFound
	}
	u.IsAdmin = isAdmin
	u.UpdatedAt = r.s.now()
	return nil
}
