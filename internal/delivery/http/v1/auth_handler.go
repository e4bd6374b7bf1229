package v1

import (
	"net/http"
	"strings"
	"time"

	"job-board-backend/internal/delivery/http/middleware"
	"job-board-backend/internal/delivery/http/response"
	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"
	"job-board-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Generate(userID int64) (string, error)
	TTL() time.Duration
}

type AuthHandler struct {
	authUC       domain.AuthUsecase
	tokens       TokenIssuer
	cookieSecure bool
}

func NewAuthHandler(public, protected *gin.RouterGroup, loginLimit gin.HandlerFunc, authUC domain.AuthUsecase, tokens TokenIssuer, cookieSecure bool) {
	handler := &AuthHandler{
		authUC:       authUC,
		tokens:       tokens,
		cookieSecure: cookieSecure,
	}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/login", loginLimit, handler.Login)
		publicAuth.POST("/register", loginLimit, handler.Register)
		publicAuth.POST("/logout", handler.Logout)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", handler.Me)
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required,max=72"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// Register godoc
// @Summary      User Registration
// @Description  Register a seeker or employer account. The role is fixed for the life of the account. Signs the user in.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      domain.RegisterInput  true  "Registration Details"
// @Success      201       {object}  response.Response{data=AuthResponse}
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	user, err := h.authUC.Register(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	security.DefaultLogger().LogRegistered(c.Request.Context(), user.ID, user.Email, string(user.Role), c.ClientIP(), c.GetString(string(domain.KeyRequestID)))

	session, err := h.startSession(c, user)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Registration successful", session)
}

// Login godoc
// @Summary      User Login
// @Description  Authenticate with username and password. Returns a bearer token and sets the auth_token cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Credentials"
// @Success      200    {object}  response.Response{data=AuthResponse}
// @Failure      401    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	reqID := c.GetString(string(domain.KeyRequestID))
	user, err := h.authUC.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if apperror.CodeOf(err) == http.StatusUnauthorized {
			security.DefaultLogger().LogLoginFailed(c.Request.Context(), strings.TrimSpace(req.Username), c.ClientIP(), c.Request.UserAgent(), reqID)
		}
		c.Error(err)
		return
	}

	security.DefaultLogger().LogLoginSuccess(c.Request.Context(), user.ID, c.ClientIP(), reqID)

	session, err := h.startSession(c, user)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Login successful", session)
}

func (h *AuthHandler) startSession(c *gin.Context, user *domain.User) (*AuthResponse, error) {
	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	ttl := h.tokens.TTL()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, token, int(ttl.Seconds()), "/", "", h.cookieSecure, true)

	return &AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(ttl).UTC(),
		User:      user,
	}, nil
}

// Logout godoc
// @Summary      Logout
// @Description  Clear the auth_token cookie. Bearer tokens expire on their own.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", h.cookieSecure, true)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current user
// @Description  Get the signed-in user's account
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), actor.UserID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved", user)
}
