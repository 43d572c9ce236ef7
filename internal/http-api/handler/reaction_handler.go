package handler

import (
	"net/http"
	"time"

	"moviereviews/internal/http-api/dto"
	"moviereviews/internal/http-api/middleware"
	"moviereviews/internal/http-api/service"
	"moviereviews/internal/reaction"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReactionHandler struct {
	reactionService service.ReactionService
	timeout         time.Duration
	logger          *zap.Logger
}

func NewReactionHandler(reactionService service.ReactionService, timeout time.Duration, logger *zap.Logger) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService, timeout: timeout, logger: logger}
}

func (h *ReactionHandler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	reviews := rg.Group("/reviews/:id")
	{
		reviews.POST("/like", requireAuth, h.Like)
		reviews.POST("/dislike", requireAuth, h.Dislike)
		reviews.GET("/reactions", h.List)
	}
}

// Like POST /api/reviews/:id/like
func (h *ReactionHandler) Like(c *gin.Context) {
	h.react(c, reaction.Like)
}

// Dislike POST /api/reviews/:id/dislike
func (h *ReactionHandler) Dislike(c *gin.Context) {
	h.react(c, reaction.Dislike)
}

// react answers 201 when a reaction row was created and 200 when an
// existing one was removed or flipped.
func (h *ReactionHandler) react(c *gin.Context, action reaction.Kind) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	t, err := h.reactionService.React(ctx, middleware.Actor(c), id, action)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if t.Created() {
		status = http.StatusCreated
	}
	c.JSON(status, dto.FromTransition(t))
}

// List GET /api/reviews/:id/reactions
func (h *ReactionHandler) List(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, h.timeout)
	defer cancel()

	summary, err := h.reactionService.Reactions(ctx, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
