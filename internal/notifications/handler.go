package notifications

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schedo/server/internal/middleware"
	"github.com/schedo/server/internal/models"
	"github.com/schedo/server/pkg/response"
)

// Store is the notification persistence contract.
type Store interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

// Handler handles notification HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a notifications handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /notifications/.
func (h *Handler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.store.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list notifications failed", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "failed to list notifications")
		return
	}
	response.OK(c, gin.H{"notifications": list})
}

// MarkRead handles POST /notifications/:id/read/.
func (h *Handler) MarkRead(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid notification id")
		return
	}
	ok, err := h.store.MarkRead(c.Request.Context(), id, userID)
	if err != nil {
		h.logger.Error("mark notification read failed", zap.Error(err), zap.String("id", id.String()))
		response.Internal(c, "failed to update notification")
		return
	}
	if !ok {
		response.NotFound(c, "Notification not found")
		return
	}
	response.OKMessage(c, "Notification marked as read")
}
