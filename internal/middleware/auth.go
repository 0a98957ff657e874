package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/schedo/server/pkg/response"
)

const (
	// ContextUserID is the key for the authenticated user ID in gin context.
	ContextUserID = "user_id"
	// ContextUserEmail is the key for the authenticated user email in gin context.
	ContextUserEmail = "user_email"
	// ContextTokenID is the key for the bearer token's ID (jti) in gin context.
	ContextTokenID = "token_id"
	// ContextTokenExpiresAt is the key for the bearer token's expiry in gin context.
	ContextTokenExpiresAt = "token_expires_at"
)

// Identity describes an authenticated caller as resolved from a bearer token.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// TokenValidator resolves a bearer token string into an Identity. It must
// reject revoked tokens as well as malformed or expired ones.
type TokenValidator func(ctx context.Context, token string) (*Identity, error)

// Auth returns a middleware that validates the Authorization header and sets
// the caller's identity in the gin context.
func Auth(validate TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		identity, err := validate(c.Request.Context(), parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextUserEmail, identity.Email)
		c.Set(ContextTokenID, identity.TokenID)
		c.Set(ContextTokenExpiresAt, identity.ExpiresAt)
		c.Next()
	}
}
