package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginSuccess       EventType = "login_success"
	EventRegistered         EventType = "user_registered"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventAccessDenied       EventType = "access_denied"
	EventInvalidToken       EventType = "invalid_token"
	EventUploadRejected     EventType = "upload_rejected"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Event        EventType
	SubjectType  string // "username", "ip", "user_id"
	SubjectValue string // masked or hashed when it is PII
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]interface{}
}

// SecurityLogger writes security events as structured zap entries, separate
// from the application log.
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var (
	defaultLogger *SecurityLogger
	defaultMu     sync.Mutex
)

// InitSecurityLogger builds the production zap logger and makes it the default.
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.DPanicLevel))
	if err != nil {
		logger = zap.NewNop()
	}

	sl := NewSecurityLogger(logger, serviceName, environment)
	defaultMu.Lock()
	defaultLogger = sl
	defaultMu.Unlock()
	return sl
}

// NewSecurityLogger wraps an existing zap logger. Tests pass an observer core here.
func NewSecurityLogger(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// DefaultLogger returns the process-wide security logger, or a no-op one before InitSecurityLogger.
func DefaultLogger() *SecurityLogger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		return NewSecurityLogger(zap.NewNop(), "job-board", "development")
	}
	return defaultLogger
}

// Log logs a security event
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	level := zapcore.WarnLevel
	switch event.Event {
	case EventLoginSuccess, EventRegistered:
		level = zapcore.InfoLevel
	}

	fields := []zap.Field{
		zap.String("service", sl.serviceName),
		zap.String("env", sl.environment),
		zap.String("event", string(event.Event)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)
}

func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, username, ip, userAgent, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginFailed,
		SubjectType:  "username",
		SubjectValue: MaskUsername(username),
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
	})
}

func (sl *SecurityLogger) LogLoginSuccess(ctx context.Context, userID int64, ip, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginSuccess,
		SubjectType:  "user_id",
		SubjectValue: HashValue(itoa(userID)),
		IP:           ip,
		RequestID:    requestID,
	})
}

func (sl *SecurityLogger) LogRegistered(ctx context.Context, userID int64, email, role, ip, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRegistered,
		SubjectType:  "email",
		SubjectValue: MaskEmail(email),
		IP:           ip,
		RequestID:    requestID,
		Details:      map[string]interface{}{"user_id": userID, "role": role},
	})
}

func (sl *SecurityLogger) LogInvalidToken(ctx context.Context, ip, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:       EventInvalidToken,
		SubjectType: "ip",
		IP:          ip,
		RequestID:   requestID,
		Details:     map[string]interface{}{"reason": reason},
	})
}

// LogAccessDenied records an authorization gate denial.
func (sl *SecurityLogger) LogAccessDenied(ctx context.Context, userID int64, action, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventAccessDenied,
		SubjectType:  "user_id",
		SubjectValue: itoa(userID),
		RequestID:    requestIDFrom(ctx),
		Details:      map[string]interface{}{"action": action, "reason": reason},
	})
}

func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

func (sl *SecurityLogger) LogUploadRejected(ctx context.Context, userID int64, filename, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventUploadRejected,
		SubjectType:  "user_id",
		SubjectValue: itoa(userID),
		RequestID:    requestIDFrom(ctx),
		Details:      map[string]interface{}{"filename": filename, "reason": reason},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

type requestIDKey struct{}

// WithRequestID stores the request id so events logged deeper in the stack carry it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func requestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// MaskUsername keeps the first character, e.g. "a***".
func MaskUsername(username string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return "***"
	}
	return username[:1] + "***"
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return "***"
	}
	if at <= 1 {
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue returns a short SHA-256 prefix for logging identifiers without exposing them.
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func itoa(id int64) string {
	if id == 0 {
		return "anonymous"
	}
	return strconv.FormatInt(id, 10)
}
