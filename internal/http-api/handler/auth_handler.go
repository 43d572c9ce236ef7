package handler

import (
	"net/http"
	"time"

	"moviereviews/internal/http-api/dto"
	"moviereviews/internal/http-api/middleware"
	"moviereviews/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	timeout     time.Duration
	logger      *zap.Logger
}

func NewAuthHandler(authService service.AuthService, userService service.UserService, timeout time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		timeout:     timeout,
		logger:      logger,
	}
}

func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)

		auth.GET("/me", requireAuth, h.Me)
		auth.GET("/profile", requireAuth, h.Me)
		auth.PATCH("/profile", requireAuth, h.UpdateProfile)
		auth.PUT("/profile", requireAuth, h.UpdateProfile)
		auth.DELETE("/profile", requireAuth, h.DeleteProfile)
	}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	user, err := h.authService.Register(ctx, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	tokens, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Refresh POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	resp, err := h.authService.Refresh(ctx, req.Refresh)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.authService.Logout(ctx, req.Refresh); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Logged out."})
}

// Me GET /api/auth/me and GET /api/auth/profile
func (h *AuthHandler) Me(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	me, err := h.userService.Me(ctx, middleware.Actor(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, me)
}

// UpdateProfile PATCH /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	me, err := h.userService.UpdateProfile(ctx, middleware.Actor(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, me)
}

// DeleteProfile DELETE /api/auth/profile
func (h *AuthHandler) DeleteProfile(c *gin.Context) {
	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.userService.DeleteAccount(ctx, middleware.Actor(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
