package plans

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/common"
	"github.com/vibetravels/backend/internal/app/domain/auth"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// GetPlan handles GET /api/plans/:id. The route uses optional auth, so the
// viewer may be anonymous.
func (h *Handler) GetPlan(c *gin.Context) {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.Error(c, http.StatusBadRequest, "Invalid planId format")
		return
	}

	var viewerID *uuid.UUID
	if id, ok := auth.UserIDFromContext(c); ok {
		viewerID = &id
	}

	plan, err := h.service.GetPlanByID(c.Request.Context(), planID, viewerID)
	if err != nil {
		common.DomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// GeneratePlan handles POST /api/notes/:id/generate-plan.
func (h *Handler) GeneratePlan(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		common.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	plan, err := h.service.GeneratePlanFromNote(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		common.DomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// GenerationLimit handles GET /api/users/me/generation-limit.
func (h *Handler) GenerationLimit(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		common.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit, err := h.service.GenerationLimit(c.Request.Context(), userID)
	if err != nil {
		common.DomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, limit)
}

// LikePlan handles POST /api/plans/:id/like.
func (h *Handler) LikePlan(c *gin.Context) {
	h.toggleLike(c, h.service.LikePlan)
}

// UnlikePlan handles DELETE /api/plans/:id/like.
func (h *Handler) UnlikePlan(c *gin.Context) {
	h.toggleLike(c, h.service.UnlikePlan)
}

func (h *Handler) toggleLike(c *gin.Context, op func(ctx context.Context, planID, userID uuid.UUID) error) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		common.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.Error(c, http.StatusBadRequest, "Invalid planId format")
		return
	}

	if err := op(c.Request.Context(), planID, userID); err != nil {
		common.DomainError(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
