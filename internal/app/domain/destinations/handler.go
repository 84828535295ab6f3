package destinations

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vibetravels/backend/internal/app/common"
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

// ListDestinations handles GET /api/destinations with optional city/country
// filters.
func (h *Handler) ListDestinations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	list, err := h.service.ListDestinations(c.Request.Context(), Filter{
		City:    c.Query("city"),
		Country: c.Query("country"),
	}, page, limit)
	if err != nil {
		common.DomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetDestination handles GET /api/destinations/:id.
func (h *Handler) GetDestination(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		common.Error(c, http.StatusBadRequest, "Invalid destination id")
		return
	}

	dest, err := h.service.GetDestination(c.Request.Context(), id)
	if err != nil {
		common.DomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dest)
}
