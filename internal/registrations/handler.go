package registrations

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schedo/server/internal/mailer"
	"github.com/schedo/server/internal/middleware"
	"github.com/schedo/server/internal/models"
	"github.com/schedo/server/pkg/response"
)

// AttendeeStore is the attendee persistence contract.
type AttendeeStore interface {
	CreateAttendee(ctx context.Context, a *models.Attendee) error
	AttendeeExists(ctx context.Context, eventID uuid.UUID, email string) (bool, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Attendee, error)
}

// TicketStore is the ticket persistence contract.
type TicketStore interface {
	CreateTicket(ctx context.Context, t *models.Ticket) error
	GetTicketByCode(ctx context.Context, code string) (*models.Ticket, error)
	RedeemTicket(ctx context.Context, code string) (bool, error)
}

// EventGetter resolves the event an attendee registers for.
type EventGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

// EmailLogWriter records the outcome of each dispatch attempt.
type EmailLogWriter interface {
	Create(ctx context.Context, l *models.EmailLog) error
}

// NotificationWriter creates in-app notifications.
type NotificationWriter interface {
	Create(ctx context.Context, n *models.Notification) error
}

// CreateAttendeeRequest is the body for POST /registrations/attendee/create/.
type CreateAttendeeRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender" binding:"omitempty,oneof=male female other"`
	EventID     string `json:"event" binding:"required,uuid"`
}

// Handler handles registration and ticket HTTP endpoints.
type Handler struct {
	attendees     AttendeeStore
	tickets       TicketStore
	events        EventGetter
	mail          mailer.Service
	emailLogs     EmailLogWriter
	notifications NotificationWriter
	logger        *zap.Logger
}

// NewHandler creates a registrations handler. mail, emailLogs and
// notifications may be nil; registration succeeds without them.
func NewHandler(attendees AttendeeStore, tickets TicketStore, events EventGetter,
	mail mailer.Service, emailLogs EmailLogWriter, notifications NotificationWriter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		attendees:     attendees,
		tickets:       tickets,
		events:        events,
		mail:          mail,
		emailLogs:     emailLogs,
		notifications: notifications,
		logger:        logger,
	}
}

// CreateAttendee handles POST /registrations/attendee/create/. Registers the
// attendee, issues their ticket and dispatches the confirmation email. Email
// failure never fails the registration.
func (h *Handler) CreateAttendee(c *gin.Context) {
	var req CreateAttendeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}

	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil {
		response.NotFound(c, "Event not found")
		return
	}

	exists, err := h.attendees.AttendeeExists(c.Request.Context(), eventID, req.Email)
	if err != nil {
		response.Internal(c, "failed to register")
		return
	}
	if exists {
		response.BadRequest(c, "This email is already registered for this event")
		return
	}

	gender := req.Gender
	if gender == "" {
		gender = models.GenderOther
	}
	attendee := &models.Attendee{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Gender:      gender,
		EventID:     eventID,
		Status:      models.StatusConfirmed,
	}
	if err := h.attendees.CreateAttendee(c.Request.Context(), attendee); err != nil {
		h.logger.Error("create attendee failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to register")
		return
	}

	ticket, err := h.issueTicket(c.Request.Context(), attendee, event)
	if err != nil {
		h.logger.Error("issue ticket failed", zap.Error(err), zap.String("attendee_id", attendee.ID.String()))
		response.Internal(c, "failed to issue ticket")
		return
	}

	h.sendConfirmation(c.Request.Context(), attendee, event, ticket)
	h.notifyCreator(c.Request.Context(), attendee, event)

	response.Created(c, gin.H{"attendee": attendee, "ticket": ticket})
}

// issueTicket persists a ticket for the attendee, regenerating the code on a
// unique-constraint collision.
func (h *Handler) issueTicket(ctx context.Context, attendee *models.Attendee, event *models.Event) (*models.Ticket, error) {
	var lastErr error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := GenerateTicketCode()
		if err != nil {
			return nil, err
		}
		ticket := &models.Ticket{
			EventID:    event.ID,
			AttendeeID: attendee.ID,
			EventTitle: event.Title,
			FirstName:  attendee.FirstName,
			LastName:   attendee.LastName,
			TicketCode: code,
			CreatedBy:  event.CreatedBy,
		}
		err = h.tickets.CreateTicket(ctx, ticket)
		if err == nil {
			return ticket, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("ticket code collisions exhausted retries: %w", lastErr)
}

// sendConfirmation dispatches the ticket email and records the outcome. The
// caller's response does not depend on the result.
func (h *Handler) sendConfirmation(ctx context.Context, attendee *models.Attendee, event *models.Event, ticket *models.Ticket) {
	if h.mail == nil {
		return
	}
	fullName := attendee.FirstName + " " + attendee.LastName
	subject := "Your ticket for " + event.Title
	text := fmt.Sprintf("Hi %s,\n\nYou are registered for %s on %s at %s.\nYour ticket code is %s. Present it at the entrance.",
		fullName, event.Title, event.StartDate, event.StartTime, ticket.TicketCode)
	html := fmt.Sprintf("<p>Hi %s,</p><p>You are registered for <b>%s</b> on %s at %s.</p><p>Your ticket code is <b>%s</b>. Present it at the entrance.</p>",
		fullName, event.Title, event.StartDate, event.StartTime, ticket.TicketCode)

	entry := &models.EmailLog{
		EventID:    &event.ID,
		AttendeeID: &attendee.ID,
		Recipient:  attendee.Email,
		Subject:    subject,
		Status:     models.EmailStatusSent,
	}
	if _, err := h.mail.Send(attendee.Email, fullName, subject, text, html); err != nil {
		h.logger.Warn("confirmation email failed",
			zap.Error(err),
			zap.String("recipient", attendee.Email),
			zap.String("event_id", event.ID.String()))
		entry.Status = models.EmailStatusFailed
		entry.ErrorMessage = err.Error()
	}
	if h.emailLogs != nil {
		if err := h.emailLogs.Create(ctx, entry); err != nil {
			h.logger.Warn("record email log failed", zap.Error(err))
		}
	}
}

// notifyCreator leaves an in-app notification for the event's creator.
func (h *Handler) notifyCreator(ctx context.Context, attendee *models.Attendee, event *models.Event) {
	if h.notifications == nil {
		return
	}
	n := &models.Notification{
		UserID:  event.CreatedBy,
		Message: fmt.Sprintf("%s %s registered for %s", attendee.FirstName, attendee.LastName, event.Title),
		EventID: &event.ID,
	}
	if err := h.notifications.Create(ctx, n); err != nil {
		h.logger.Warn("create notification failed", zap.Error(err))
	}
}

// ListAttendees handles GET /registrations/attendees/:event_id/.
func (h *Handler) ListAttendees(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	list, err := h.attendees.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to list attendees")
		return
	}
	response.OK(c, gin.H{"attendees": list})
}

// FetchTicket handles GET /registrations/ticket/:code/. Returns the ticket
// only while unused; a used ticket reports a conflict, not the payload.
func (h *Handler) FetchTicket(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, "Ticket code is required")
		return
	}
	ticket, err := h.tickets.GetTicketByCode(c.Request.Context(), code)
	if err != nil {
		response.NotFound(c, "Ticket not found")
		return
	}
	if ticket.IsUsed {
		response.BadRequest(c, "Ticket has been used")
		return
	}
	response.OK(c, gin.H{"ticket": ticket})
}

// ScanTicket handles GET /registrations/scan/:code/. One-shot
// redemption gate: the first scan reports Registered, every later scan
// reports Ticket used. Only the ticket's owning creator may scan it.
func (h *Handler) ScanTicket(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, "Ticket code is required")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	ticket, err := h.tickets.GetTicketByCode(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "Not Registered"})
		return
	}
	if ticket.CreatedBy != userID {
		response.Forbidden(c, "You are not authorized to scan this ticket")
		return
	}

	redeemed, err := h.tickets.RedeemTicket(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("redeem ticket failed", zap.Error(err), zap.String("code", code))
		response.Internal(c, "failed to scan ticket")
		return
	}
	if !redeemed {
		c.JSON(http.StatusOK, gin.H{"status": "Ticket used"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Registered"})
}
