package accounts

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/schedo/server/internal/middleware"
	"github.com/schedo/server/internal/models"
	"github.com/schedo/server/pkg/response"
	"github.com/schedo/server/pkg/utils"
)

// UserStore is the persistence contract the account handlers depend on.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	CreateProfile(ctx context.Context, p *models.Profile) error
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, p *models.Profile) (int64, error)
}

// SignupRequest is the body for POST /accounts/signup/.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the body for POST /accounts/login/.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileRequest is the body for profile create/edit.
type ProfileRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	PhoneNumber    string `json:"phone_number"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
	Location       string `json:"location"`
}

// Handler handles account HTTP endpoints.
type Handler struct {
	users  UserStore
	tokens *TokenService
	logger *zap.Logger
}

// NewHandler creates an accounts handler.
func NewHandler(users UserStore, tokens *TokenService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{users: users, tokens: tokens, logger: logger}
}

// Signup handles POST /accounts/signup/. Creates the user and returns a
// bearer token so the client is logged in immediately.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if _, err := h.users.GetByEmail(c.Request.Context(), req.Email); err == nil {
		response.BadRequest(c, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to hash password")
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Email, hash)
	if err != nil {
		h.logger.Error("create user failed", zap.Error(err))
		response.Internal(c, "failed to create user")
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	response.CreatedMessage(c, "User account created successfully", gin.H{"token": token})
}

// Login handles POST /accounts/login/.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Unauthorized(c, "Invalid email or password")
		return
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "Invalid email or password")
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}

	response.OKPayload(c, "Login successful", gin.H{
		"token": token,
		"user":  user.ToPublic(),
	})
}

// Logout handles POST /accounts/logout/. Revokes the presented token for the
// rest of its lifetime.
func (h *Handler) Logout(c *gin.Context) {
	tokenID := c.MustGet(middleware.ContextTokenID).(string)
	expiresAt := c.MustGet(middleware.ContextTokenExpiresAt).(time.Time)

	if err := h.tokens.Revoke(c.Request.Context(), tokenID, expiresAt); err != nil {
		h.logger.Error("revoke token failed", zap.Error(err))
		response.BadRequest(c, "failed to log out")
		return
	}
	response.OKMessage(c, "Logged out successfully")
}

// CreateProfile handles POST /accounts/profile/create/.
func (h *Handler) CreateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	profile := &models.Profile{
		UserID:         userID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PhoneNumber:    req.PhoneNumber,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
		Location:       req.Location,
	}
	if err := h.users.CreateProfile(c.Request.Context(), profile); err != nil {
		h.logger.Error("create profile failed", zap.Error(err), zap.String("user_id", userID.String()))
		response.BadRequest(c, "failed to create profile")
		return
	}
	response.CreatedMessage(c, "Profile created successfully", gin.H{"profile": profile})
}

// GetProfile handles GET /accounts/profile/.
func (h *Handler) GetProfile(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	profile, err := h.users.GetProfileByUserID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "Profile not found")
		return
	}
	response.OK(c, gin.H{"profile": profile})
}

// EditProfile handles PUT /accounts/profile/edit/. Full update.
func (h *Handler) EditProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	profile := &models.Profile{
		UserID:         userID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PhoneNumber:    req.PhoneNumber,
		Bio:            req.Bio,
		ProfilePicture: req.ProfilePicture,
		Location:       req.Location,
	}
	n, err := h.users.UpdateProfile(c.Request.Context(), profile)
	if err != nil {
		h.logger.Error("update profile failed", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "failed to update profile")
		return
	}
	if n == 0 {
		response.NotFound(c, "Profile not found")
		return
	}
	updated, err := h.users.GetProfileByUserID(c.Request.Context(), userID)
	if err != nil {
		response.NotFound(c, "Profile not found")
		return
	}
	response.OKPayload(c, "Profile updated successfully", gin.H{"profile": updated})
}
