package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/infrastructure/auth"
	"github.com/bizfin/backend/internal/interfaces/http/dto"
)

// Context keys set by the auth middleware
const (
	ClaimsKey     = "auth_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthConfig holds auth middleware configuration
type AuthConfig struct {
	JWTService *auth.JWTService
	// Blacklist is optional; when set, revoked tokens and all-session
	// logouts are enforced on every request
	Blacklist auth.TokenBlacklist
	Logger    *zap.Logger
}

// Auth validates the bearer token and stores its claims in the context
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			abortUnauthorized(c, "TOKEN_INVALID", "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "TOKEN_INVALID", "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(header, BearerPrefix)

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			code := "TOKEN_INVALID"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = "TOKEN_EXPIRED"
			}
			abortUnauthorized(c, code, "Token validation failed")
			return
		}

		if cfg.Blacklist != nil {
			ctx := c.Request.Context()

			if claims.ID != "" {
				revoked, err := cfg.Blacklist.IsBlacklisted(ctx, claims.ID)
				if err != nil {
					// Fail open so a cache outage does not lock everyone out
					if cfg.Logger != nil {
						cfg.Logger.Error("Token blacklist check failed",
							zap.String("jti", claims.ID), zap.Error(err))
					}
				} else if revoked {
					abortUnauthorized(c, "TOKEN_REVOKED", "Token has been revoked")
					return
				}
			}

			if claims.IssuedAt != nil {
				invalidated, err := cfg.Blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAt.Time)
				if err != nil {
					if cfg.Logger != nil {
						cfg.Logger.Error("User invalidation check failed",
							zap.String("user_id", claims.UserID), zap.Error(err))
					}
				} else if invalidated {
					abortUnauthorized(c, "TOKEN_REVOKED", "Session has been terminated")
					return
				}
			}
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetClaims returns the authenticated claims, or nil before Auth ran
func GetClaims(c *gin.Context) *auth.Claims {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetUserID returns the authenticated profile ID
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	claims := GetClaims(c)
	if claims == nil {
		return uuid.Nil, errors.New("no authenticated user in context")
	}
	return claims.GetUserUUID()
}
