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

type MovieHandler struct {
	movieService service.MovieService
	timeout      time.Duration
	logger       *zap.Logger
}

func NewMovieHandler(movieService service.MovieService, timeout time.Duration, logger *zap.Logger) *MovieHandler {
	return &MovieHandler{movieService: movieService, timeout: timeout, logger: logger}
}

// RegisterRoutes registers movie routes. Reads are open; writes go through
// requireAuth.
func (h *MovieHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	movies := rg.Group("/movies")
	{
		movies.GET("", h.List)
		movies.POST("", requireAuth, h.Create)
		movies.GET("/:id", h.Get)
		movies.PATCH("/:id", requireAuth, h.Update)
		movies.PUT("/:id", requireAuth, h.Update)
		movies.DELETE("/:id", requireAuth, h.Delete)
	}
}

// List GET /api/movies
func (h *MovieHandler) List(c *gin.Context) {
	var q dto.MovieListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	res, err := h.movieService.List(ctx, q)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	writePage(c, res)
}

// Create POST /api/movies
func (h *MovieHandler) Create(c *gin.Context) {
	var req dto.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	movie, err := h.movieService.Create(ctx, middleware.Actor(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, movie)
}

// Get GET /api/movies/:id
func (h *MovieHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	movie, err := h.movieService.Get(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

// Update PATCH /api/movies/:id
func (h *MovieHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	movie, err := h.movieService.Update(ctx, middleware.Actor(c), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, movie)
}

// Delete DELETE /api/movies/:id
func (h *MovieHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.movieService.Delete(ctx, middleware.Actor(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
