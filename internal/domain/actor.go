package domain

// Actor is the identity performing an operation. It is passed explicitly to every
// usecase call; the zero value is an anonymous visitor.
type Actor struct {
	UserID  int64
	Role    Role
	IsAdmin bool
}

var Anonymous = Actor{}

func (a Actor) IsAnonymous() bool {
	return a.UserID == 0
}

func (a Actor) IsSeeker() bool {
	return !a.IsAnonymous() && a.Role == RoleSeeker
}

func (a Actor) IsEmployer() bool {
	return !a.IsAnonymous() && a.Role == RoleEmployer
}
