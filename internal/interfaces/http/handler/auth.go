package handler

import (
	"github.com/bizsuite/backend/internal/application/identity"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/bizsuite/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	limiter     *middleware.RateLimiter
}

// NewAuthHandler creates a new auth handler. A nil limiter leaves the
// credential routes unthrottled.
func NewAuthHandler(authService *identity.AuthService, limiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		limiter:     limiter,
	}
}

// RegisterRoutes mounts the auth routes on rg.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	credentials := []gin.HandlerFunc{}
	if h.limiter != nil {
		credentials = append(credentials, middleware.AuthRateLimit(h.limiter))
	}
	g.POST("/register", append(credentials, h.Register)...)
	g.POST("/login", append(credentials, h.Login)...)
	g.POST("/refresh", append(credentials, h.RefreshToken)...)
	g.POST("/logout", h.Logout)
	g.GET("/me", h.GetCurrentUser)
}

// Register creates an account and returns its first token pair.
//
// @Summary      Register an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Account"
// @Success      201 {object} dto.Response{data=identity.TokenResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identity.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IP:        c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result, "%s created successfully.", middleware.T(c, "User"))
}

// Login exchanges credentials for a token pair acting for one company.
//
// @Summary      User login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=identity.TokenResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		CompanyID: req.CompanyID,
		IP:        c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RefreshToken rotates a refresh token into a new pair.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} dto.Response{data=identity.TokenResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout revokes the access token of the request and the refresh token
// in the body, if any.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body LogoutRequest false "Refresh token to revoke"
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.ErrorWithCode(c, dto.ErrCodeUnauthorized, "Authentication required.")
		return
	}
	var req LogoutRequest
	if c.Request.ContentLength > 0 && !h.bind(c, &req) {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims, req.RefreshToken); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, nil, "Logged out successfully.")
}

// GetCurrentUser returns the acting user and their memberships.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=identity.CurrentUserResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	p, ok := middleware.RequirePrincipal(c)
	if !ok {
		return
	}

	result, err := h.authService.Me(c.Request.Context(), p)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// bind decodes the JSON body into req, writing the error response on
// failure.
func (h *AuthHandler) bind(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	if ve, ok := middleware.BindingError(err); ok {
		h.HandleError(c, ve)
		return false
	}
	h.BadRequest(c, "Invalid request body.")
	return false
}
