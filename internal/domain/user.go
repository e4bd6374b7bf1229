package domain

import (
	"context"
	"strings"
	"time"
)

// Role is the exclusive account type chosen at registration. It never changes afterwards.
type Role string

const (
	RoleSeeker   Role = "seeker"
	RoleEmployer Role = "employer"
)

// ParseRole accepts only the two account types; there is no default.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleSeeker:
		return RoleSeeker, nil
	case RoleEmployer:
		return RoleEmployer, nil
	}
	return "", ErrInvalidRole
}

func (r Role) Valid() bool {
	return r == RoleSeeker || r == RoleEmployer
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsSeeker() bool {
	return u != nil && u.Role == RoleSeeker
}

func (u *User) IsEmployer() bool {
	return u != nil && u.Role == RoleEmployer
}

// Actor returns the acting identity for this user.
func (u *User) Actor() Actor {
	if u == nil {
		return Anonymous
	}
	return Actor{UserID: u.ID, Role: u.Role, IsAdmin: u.IsAdmin}
}

type UserFilter struct {
	Role   Role
	Limit  int
	Offset int
}

// UserRepository has no method that writes the role column.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	SetAdmin(ctx context.Context, id int64, isAdmin bool) error
}

// PasswordHasher is the credential verifier.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,username,min=3,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required"`
}

type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	GetCurrentUser(ctx context.Context, id int64) (*User, error)
	EnsureAdmin(ctx context.Context, input RegisterInput) (*User, error)
}
