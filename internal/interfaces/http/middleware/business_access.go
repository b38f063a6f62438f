package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bizfin/backend/internal/domain/business"
	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/bizfin/backend/internal/interfaces/http/dto"
)

// BusinessIDKey is the gin context key for the verified business ID
const BusinessIDKey = "business_id"

// BusinessAccess verifies that the business named in the URL exists and
// is owned by the authenticated profile. Must run after Auth.
func BusinessAccess(repo business.BusinessRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		businessID, err := uuid.Parse(c.Param("businessID"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, "Invalid business ID", GetRequestID(c)))
			return
		}

		userID, err := GetUserID(c)
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		b, err := repo.FindByID(c.Request.Context(), businessID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound,
					dto.NewErrorResponseWithRequestID("BUSINESS_NOT_FOUND", "Business not found", GetRequestID(c)))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "Failed to load business", GetRequestID(c)))
			return
		}

		if !b.IsOwnedBy(userID) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "No access to this business", GetRequestID(c)))
			return
		}

		c.Set(BusinessIDKey, businessID)
		c.Next()
	}
}

// GetBusinessID returns the business ID verified by BusinessAccess
func GetBusinessID(c *gin.Context) (uuid.UUID, error) {
	value, exists := c.Get(BusinessIDKey)
	if !exists {
		return uuid.Nil, errors.New("no verified business in context")
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("no verified business in context")
	}
	return id, nil
}
