package middleware

import (
	"net/http"
	"strings"

	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"
	"job-board-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const AuthCookieName = "auth_token"

// TokenValidator resolves a bearer token to a user id.
type TokenValidator interface {
	Validate(token string) (int64, error)
}

// AuthMiddleware rejects requests without a valid token. The user is reloaded on
// every request so the role and administrator flag always come from storage.
func AuthMiddleware(tokens TokenValidator, authUC domain.AuthUsecase) gin.HandlerFunc {
	return authenticate(tokens, authUC, true)
}

// OptionalAuth identifies the caller when a valid token is present and
// continues as an anonymous visitor otherwise.
func OptionalAuth(tokens TokenValidator, authUC domain.AuthUsecase) gin.HandlerFunc {
	return authenticate(tokens, authUC, false)
}

func authenticate(tokens TokenValidator, authUC domain.AuthUsecase, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			if required {
				response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
				c.Abort()
				return
			}
			setActor(c, domain.Anonymous)
			c.Next()
			return
		}

		userID, err := tokens.Validate(tokenString)
		if err != nil {
			security.DefaultLogger().LogInvalidToken(c.Request.Context(), c.ClientIP(), c.GetString(string(domain.KeyRequestID)), err.Error())
			if required {
				response.Error(c, http.StatusUnauthorized, "Invalid or expired token", nil)
				c.Abort()
				return
			}
			setActor(c, domain.Anonymous)
			c.Next()
			return
		}

		user, err := authUC.GetCurrentUser(c.Request.Context(), userID)
		if err != nil {
			if required {
				response.Error(c, http.StatusUnauthorized, "User not found", nil)
				c.Abort()
				return
			}
			setActor(c, domain.Anonymous)
			c.Next()
			return
		}

		setActor(c, user.Actor())
		c.Next()
	}
}

// extractToken reads the Authorization header first and falls back to the cookie.
func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		return ""
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}
	return ""
}

func setActor(c *gin.Context, actor domain.Actor) {
	c.Set(string(domain.KeyActor), actor)
	c.Set(string(domain.KeyUserID), actor.UserID)
	c.Set(string(domain.KeyUserRole), string(actor.Role))
	c.Set(string(domain.KeyIsAdmin), actor.IsAdmin)
}

// ActorFrom returns the actor stored by the auth middleware, or Anonymous.
func ActorFrom(c *gin.Context) domain.Actor {
	if v, ok := c.Get(string(domain.KeyActor)); ok {
		if actor, ok := v.(domain.Actor); ok {
			return actor
		}
	}
	return domain.Anonymous
}
