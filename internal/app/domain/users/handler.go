package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/common"
	"github.com/vibetravels/backend/internal/app/domain/auth"
	"github.com/vibetravels/backend/internal/app/models"
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

// GetMe handles GET /api/users/me.
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		common.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		common.DomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateMe handles PUT /api/users/me.
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		common.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		common.DomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, profile)
}
