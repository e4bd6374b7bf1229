package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserRole  CtxKey = "Role"
	KeyIsAdmin   CtxKey = "IsAdmin"
	KeyActor     CtxKey = "Actor"
	KeyRequestID CtxKey = "RequestID"
)
