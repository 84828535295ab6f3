package notes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
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

// CreateNote handles POST /api/notes.
func (h *Handler) CreateNote(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		common.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.NoteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.service.CreateNote(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			common.Error(c, http.StatusNotFound, models.ErrDestinationNotFound.Error())
			return
		}
		common.DomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// GetNote handles GET /api/notes/:id.
func (h *Handler) GetNote(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		common.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.Error(c, http.StatusBadRequest, models.ErrInvalidNoteID.Error())
		return
	}

	note, err := h.service.GetNote(c.Request.Context(), noteID, userID)
	if err != nil {
		common.DomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, note)
}

// ListNotes handles GET /api/notes with page/limit query parameters.
func (h *Handler) ListNotes(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		common.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	list, err := h.service.ListNotes(c.Request.Context(), userID, page, limit)
	if err != nil {
		common.DomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, list)
}

// UpdateNote handles PUT /api/notes/:id.
func (h *Handler) UpdateNote(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		common.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.Error(c, http.StatusBadRequest, models.ErrInvalidNoteID.Error())
		return
	}

	var req models.NoteUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := h.service.UpdateNote(c.Request.Context(), noteID, userID, req)
	if err != nil {
		common.DomainError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/:id.
func (h *Handler) DeleteNote(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		common.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.Error(c, http.StatusBadRequest, models.ErrInvalidNoteID.Error())
		return
	}

	if err := h.service.DeleteNote(c.Request.Context(), noteID, userID); err != nil {
		common.DomainError(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
