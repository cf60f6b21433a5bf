package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/smallbiznis/cloudbill/internal/billing/domain"
	pricedomain "github.com/smallbiznis/cloudbill/internal/price/domain"
	recorddomain "github.com/smallbiznis/cloudbill/internal/record/domain"
	resourcedomain "github.com/smallbiznis/cloudbill/internal/resource/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    err.Error(),
			Message: "validation error",
		}
	case errors.Is(err, billingdomain.ErrEventDuplicate):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Code:    billingdomain.ErrEventDuplicate.Error(),
			Message: "duplicate event",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Code:    err.Error(),
			Message: "not found",
		}
	case errors.Is(err, billingdomain.ErrStoreTimeout):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Code:    billingdomain.ErrStoreTimeout.Error(),
			Message: "store timeout",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, billingdomain.ErrResourceTypeUnknown),
		errors.Is(err, billingdomain.ErrEventTypeInvalid),
		errors.Is(err, billingdomain.ErrContentInvalid),
		errors.Is(err, billingdomain.ErrVolumeSizeInvalid),
		errors.Is(err, billingdomain.ErrEventTimeInvalid),
		errors.Is(err, pricedomain.ErrInvalidResourceType),
		errors.Is(err, pricedomain.ErrInvalidUnitPrice),
		errors.Is(err, pricedomain.ErrInvalidPriceID),
		errors.Is(err, resourcedomain.ErrInvalidResourceID),
		errors.Is(err, recorddomain.ErrInvalidResourceID):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, pricedomain.ErrPriceNotFound),
		errors.Is(err, resourcedomain.ErrResourceNotFound),
		errors.Is(err, recorddomain.ErrNoRecords),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

// classifyErrorForLog tags request log lines without leaking messages.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "internal_error", payload.Code
	case status == http.StatusNotFound:
		return "not_found", payload.Code
	case status == http.StatusConflict:
		return "conflict", payload.Code
	default:
		return "validation_error", payload.Code
	}
}
