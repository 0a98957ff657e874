package events

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schedo/server/internal/middleware"
	"github.com/schedo/server/internal/models"
	"github.com/schedo/server/pkg/response"
	"github.com/schedo/server/pkg/storage"
)

// EventStore is the persistence contract the event handlers depend on.
type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListPublic(ctx context.Context) ([]models.Event, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetArchiveByID(ctx context.Context, id uuid.UUID) (*models.ArchivedEvent, error)
	ListArchivesByCreator(ctx context.Context, userID uuid.UUID) ([]models.ArchivedEvent, error)
	Archive(ctx context.Context, eventID uuid.UUID) (*models.ArchivedEvent, error)
	Restore(ctx context.Context, archiveID uuid.UUID) (*models.Event, error)
	DeleteArchive(ctx context.Context, id uuid.UUID) error
	RestoreAllByCreator(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteAllArchivesByCreator(ctx context.Context, userID uuid.UUID) (int, error)
}

// ThumbnailStore is the image-host contract: upload returns a public URL,
// delete takes that URL back.
type ThumbnailStore interface {
	UploadThumbnail(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	DeleteThumbnail(ctx context.Context, thumbnailURL string) bool
}

// AttendanceCounter reports registration and redemption counts per event.
type AttendanceCounter interface {
	CountByEvent(ctx context.Context, eventID uuid.UUID) (total, redeemed int, err error)
}

// EmailLogStore lists email delivery records per event.
type EmailLogStore interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EmailLog, error)
}

// CreateRequest is the multipart form for POST /events/create/. The thumbnail
// file rides alongside as form field "thumbnail".
type CreateRequest struct {
	Title       string `form:"title" binding:"required"`
	OnlineLink  string `form:"online_link"`
	Description string `form:"description"`
	StartDate   string `form:"start_date" binding:"required"`
	EndDate     string `form:"end_date" binding:"required"`
	StartTime   string `form:"start_time" binding:"required"`
	EndTime     string `form:"end_time" binding:"required"`
	Location    string `form:"location" binding:"required"`
	Category    string `form:"category" binding:"required"`
	MeetingID   string `form:"meeting_id"`
	IsPublic    bool   `form:"is_public"`
	IsOnline    bool   `form:"is_online"`
}

// UpdateRequest is the body for PUT /events/update/:id/. All fields optional.
type UpdateRequest struct {
	Title       *string `json:"title"`
	OnlineLink  *string `json:"online_link"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Location    *string `json:"location"`
	Category    *string `json:"category"`
	MeetingID   *string `json:"meeting_id"`
	IsActive    *bool   `json:"is_active"`
	IsPublic    *bool   `json:"is_public"`
	IsOnline    *bool   `json:"is_online"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo       EventStore
	thumbnails ThumbnailStore
	attendance AttendanceCounter
	emailLogs  EmailLogStore
	logger     *zap.Logger
}

// NewHandler creates an events handler. thumbnails may be nil when the image
// host is not configured.
func NewHandler(repo EventStore, thumbnails ThumbnailStore, attendance AttendanceCounter, emailLogs EmailLogStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, thumbnails: thumbnails, attendance: attendance, emailLogs: emailLogs, logger: logger}
}

// Create handles POST /events/create/. The thumbnail is uploaded to the image
// host before the event row is written; an upload failure fails the request.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	thumbnailURL := ""
	if file, err := c.FormFile("thumbnail"); err == nil && file != nil {
		if h.thumbnails == nil {
			response.Internal(c, "image host not configured")
			return
		}
		if file.Size > storage.MaxThumbnailSize {
			response.BadRequest(c, "thumbnail too large")
			return
		}
		contentType := file.Header.Get("Content-Type")
		if !storage.ValidateImageType(contentType, file.Filename) {
			response.BadRequest(c, "unsupported thumbnail type")
			return
		}
		src, err := file.Open()
		if err != nil {
			response.Internal(c, "failed to read thumbnail")
			return
		}
		defer src.Close()

		key := storage.ThumbnailKey(uuid.New().String(), file.Filename)
		thumbnailURL, err = h.thumbnails.UploadThumbnail(c.Request.Context(), key, contentType, src)
		if err != nil {
			h.logger.Error("thumbnail upload failed", zap.Error(err))
			response.Internal(c, "failed to upload thumbnail")
			return
		}
	}

	meetingID := req.MeetingID
	if meetingID == "" {
		meetingID = "000"
	}
	event := &models.Event{
		Title:       req.Title,
		OnlineLink:  req.OnlineLink,
		Description: req.Description,
		Thumbnail:   thumbnailURL,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Category:    req.Category,
		MeetingID:   meetingID,
		CreatedBy:   userID,
		IsPublic:    req.IsPublic,
		IsOnline:    req.IsOnline,
	}
	if err := h.repo.Create(c.Request.Context(), event); err != nil {
		h.logger.Error("create event failed", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, gin.H{"event": event})
}

// ListPublic handles GET /events/public/. No authentication required.
func (h *Handler) ListPublic(c *gin.Context) {
	list, err := h.repo.ListPublic(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, gin.H{"events": list})
}

// ListUserEvents handles GET /events/user/.
func (h *Handler) ListUserEvents(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.repo.ListByCreator(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, gin.H{"events": list})
}

// ListArchives handles GET /events/archives/.
func (h *Handler) ListArchives(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.repo.ListArchivesByCreator(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list archives")
		return
	}
	response.OK(c, gin.H{"archives": list})
}

// GetByID handles GET /events/event/:id/. No authentication required.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	event, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Event not found")
		return
	}
	response.OK(c, gin.H{"event": event})
}

// Update handles PUT /events/update/:id/. Partial update, owner-only.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	event, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Event not found")
		return
	}
	if event.CreatedBy != userID {
		response.Forbidden(c, "You are not authorized to edit this event")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	applyUpdate(event, &req)

	if err := h.repo.Update(c.Request.Context(), event); err != nil {
		h.logger.Error("update event failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "failed to update event")
		return
	}
	response.OK(c, gin.H{"event": event})
}

func applyUpdate(e *models.Event, req *UpdateRequest) {
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.OnlineLink != nil {
		e.OnlineLink = *req.OnlineLink
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Thumbnail != nil {
		e.Thumbnail = *req.Thumbnail
	}
	if req.StartDate != nil {
		e.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		e.EndDate = *req.EndDate
	}
	if req.StartTime != nil {
		e.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		e.EndTime = *req.EndTime
	}
	if req.Location != nil {
		e.Location = *req.Location
	}
	if req.Category != nil {
		e.Category = *req.Category
	}
	if req.MeetingID != nil {
		e.MeetingID = *req.MeetingID
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
	}
	if req.IsPublic != nil {
		e.IsPublic = *req.IsPublic
	}
	if req.IsOnline != nil {
		e.IsOnline = *req.IsOnline
	}
}

// Archive handles POST /events/archive/:id/. Moves the event into the
// archive table; owner-only.
func (h *Handler) Archive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	event, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Event not found")
		return
	}
	if event.CreatedBy != userID {
		response.Forbidden(c, "You are not authorized to archive this event")
		return
	}

	archived, err := h.repo.Archive(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("archive event failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "failed to archive event")
		return
	}
	response.OKPayload(c, "Event archived successfully", gin.H{"archive": archived})
}

// Restore handles POST /events/restore/:id/. Moves an archived event back
// into the active table; owner-only.
func (h *Handler) Restore(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid archive id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	archived, err := h.repo.GetArchiveByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Archived event not found")
		return
	}
	if archived.CreatedBy != userID {
		response.Forbidden(c, "You are not authorized to restore this event")
		return
	}

	restored, err := h.repo.Restore(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("restore event failed", zap.Error(err), zap.String("archive_id", id.String()))
		response.Internal(c, "failed to restore event")
		return
	}
	response.OKPayload(c, "Event restored successfully", gin.H{"event": restored})
}

// Delete handles DELETE /events/delete/:id/. Permanent, owner-only. The
// thumbnail is removed from the image host best-effort.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	event, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Event not found")
		return
	}
	if event.CreatedBy != userID {
		response.Forbidden(c, "You are not authorized to delete this event")
		return
	}

	if event.Thumbnail != "" && h.thumbnails != nil {
		h.thumbnails.DeleteThumbnail(c.Request.Context(), event.Thumbnail)
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("delete event failed", zap.Error(err), zap.String("event_id", id.String()))
		response.Internal(c, "failed to delete event")
		return
	}
	response.OKMessage(c, "Event deleted successfully")
}

// RestoreAll handles POST /events/archives/restore/all/. Restores every archived
// event owned by the caller.
func (h *Handler) RestoreAll(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	restored, err := h.repo.RestoreAllByCreator(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("restore all failed", zap.Error(err), zap.String("user_id", userID.String()), zap.Int("restored", restored))
		response.Internal(c, "failed to restore all archived events")
		return
	}
	response.OKPayload(c, "Archived events restored successfully", gin.H{"restored": restored})
}

// DeleteAll handles DELETE /events/archives/delete/all/. Deletes every archived event
// owned by the caller.
func (h *Handler) DeleteAll(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	deleted, err := h.repo.DeleteAllArchivesByCreator(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("delete all archives failed", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "failed to delete archived events")
		return
	}
	response.OKPayload(c, "Archived events deleted successfully", gin.H{"deleted": deleted})
}

// Attendance handles GET /events/attendance/. Registration and redemption
// counts for each of the caller's events.
func (h *Handler) Attendance(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list, err := h.repo.ListByCreator(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	type entry struct {
		EventID   uuid.UUID `json:"event_id"`
		Title     string    `json:"title"`
		Attendees int       `json:"attendees"`
		Redeemed  int       `json:"redeemed"`
	}
	summary := make([]entry, 0, len(list))
	for _, e := range list {
		total, redeemed, err := h.attendance.CountByEvent(c.Request.Context(), e.ID)
		if err != nil {
			response.Internal(c, "failed to count attendance")
			return
		}
		summary = append(summary, entry{EventID: e.ID, Title: e.Title, Attendees: total, Redeemed: redeemed})
	}
	response.OK(c, gin.H{"attendance": summary})
}

// ListEmailLogs handles GET /events/event/:id/emails/. Owner-only.
func (h *Handler) ListEmailLogs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	event, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Event not found")
		return
	}
	if event.CreatedBy != userID {
		response.Forbidden(c, "You are not authorized to view these email logs")
		return
	}

	logs, err := h.emailLogs.ListByEvent(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load email logs")
		return
	}
	response.OK(c, gin.H{"emails": logs})
}
