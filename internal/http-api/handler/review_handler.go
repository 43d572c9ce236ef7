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

type ReviewHandler struct {
	reviewService service.ReviewService
	timeout       time.Duration
	logger        *zap.Logger
}

func NewReviewHandler(reviewService service.ReviewService, timeout time.Duration, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, timeout: timeout, logger: logger}
}

// RegisterRoutes registers review routes. Reads are open and show the
// caller's own reaction when a token is sent.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	reviews := rg.Group("/reviews")
	{
		reviews.GET("", h.List)
		reviews.POST("", requireAuth, h.Create)
		reviews.GET("/by-movie", h.ByMovie)
		reviews.GET("/top-liked", h.TopLiked)
		reviews.GET("/:id", h.Get)
		reviews.PATCH("/:id", requireAuth, h.Update)
		reviews.PUT("/:id", requireAuth, h.Update)
		reviews.DELETE("/:id", requireAuth, h.Delete)
	}
}

// listing runs one of the paginated review queries.
func (h *ReviewHandler) listing(c *gin.Context, run func(*gin.Context, dto.ReviewListQuery) (*service.PageResult[dto.ReviewResponse], error)) {
	var q dto.ReviewListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, h.logger, err)
		return
	}
	res, err := run(c, q)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	writePage(c, res)
}

// List GET /api/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	h.listing(c, func(c *gin.Context, q dto.ReviewListQuery) (*service.PageResult[dto.ReviewResponse], error) {
		ctx, cancel := requestContext(c, h.timeout)
		defer cancel()
		return h.reviewService.List(ctx, middleware.Actor(c), q)
	})
}

// ByMovie GET /api/reviews/by-movie?title=Inception
func (h *ReviewHandler) ByMovie(c *gin.Context) {
	h.listing(c, func(c *gin.Context, q dto.ReviewListQuery) (*service.PageResult[dto.ReviewResponse], error) {
		ctx, cancel := requestContext(c, h.timeout)
		defer cancel()
		return h.reviewService.ByMovieTitle(ctx, middleware.Actor(c), q)
	})
}

// TopLiked GET /api/reviews/top-liked
func (h *ReviewHandler) TopLiked(c *gin.Context) {
	h.listing(c, func(c *gin.Context, q dto.ReviewListQuery) (*service.PageResult[dto.ReviewResponse], error) {
		ctx, cancel := requestContext(c, h.timeout)
		defer cancel()
		return h.reviewService.TopLiked(ctx, middleware.Actor(c), q)
	})
}

// Create POST /api/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	review, err := h.reviewService.Create(ctx, middleware.Actor(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// Get GET /api/reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	review, err := h.reviewService.Get(ctx, middleware.Actor(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Update PATCH /api/reviews/:id (author only)
func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	review, err := h.reviewService.Update(ctx, middleware.Actor(c), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Delete DELETE /api/reviews/:id (author only)
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	if err := h.reviewService.Delete(ctx, middleware.Actor(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
