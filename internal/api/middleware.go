package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"inventory-ledger/internal/models"
)

// Response provides REST-native response helpers
var Response = &ResponseHelpers{}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// ResponseHelpers provides methods for REST-native responses
type ResponseHelpers struct{}

// Success sends the resource directly (no wrapper)
func (h *ResponseHelpers) Success(c *gin.Context, resource interface{}) {
	c.JSON(200, resource)
}

// ValidationError sends a 400 single-field validation problem
func (h *ResponseHelpers) ValidationError(c *gin.Context, field, message string) {
	c.JSON(400, models.NewValidationProblem(field, message, models.ErrorCodeInvalidField))
}

// BindingError maps request binding failures to validation problems
func (h *ResponseHelpers) BindingError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		violations := make([]models.ValidationError, 0, len(validationErrors))
		for _, ve := range validationErrors {
			violations = append(violations, models.ValidationError{
				Field:   strings.ToLower(ve.Field()),
				Message: validationMessage(ve),
				Code:    ve.Tag(),
			})
		}
		c.JSON(400, models.NewMultiValidationProblem(violations))
		return
	}

	c.JSON(400, models.NewProblemDetails(400, "Bad Request", err.Error()))
}

// BusinessError sends a business logic error
func (h *ResponseHelpers) BusinessError(c *gin.Context, status int, title, detail string, code models.ErrorCode) {
	c.JSON(status, models.NewBusinessLogicProblem(status, title, detail, code))
}

// NotFound sends a 404 not found response
func (h *ResponseHelpers) NotFound(c *gin.Context, resource string) {
	c.JSON(404, models.NewNotFoundProblem(resource))
}

// ServiceUnavailable sends a 503 response for store outages
func (h *ResponseHelpers) ServiceUnavailable(c *gin.Context, detail string) {
	problem := models.NewProblemDetails(503, "Service Unavailable", detail)
	problem.Code = string(models.ErrorCodeStoreUnavailable)
	c.JSON(503, problem)
}

// InternalError sends a 500 internal server error response
func (h *ResponseHelpers) InternalError(c *gin.Context, detail string) {
	log.Error().
		Str("request_id", getRequestID(c)).
		Str("detail", detail).
		Msg("Internal server error")

	c.JSON(500, models.NewProblemDetails(500, "Internal Server Error", "An unexpected error occurred"))
}

// OperationError maps a ledger error to its HTTP problem response so that
// callers can distinguish not-found, bad-input, and transient/injected
// failure categories
func (h *ResponseHelpers) OperationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		h.NotFound(c, "Inventory")
	case errors.Is(err, models.ErrInvalidQuantity):
		c.JSON(400, models.NewValidationProblem("quantity", err.Error(), models.ErrorCodeInvalidQuantity))
	case errors.Is(err, models.ErrInsufficientStock):
		h.BusinessError(c, 409, "Insufficient Stock", err.Error(), models.ErrorCodeInsufficientStock)
	case errors.Is(err, models.ErrDuplicateReservation):
		h.BusinessError(c, 409, "Duplicate Reservation", err.Error(), models.ErrorCodeDuplicateReservation)
	case errors.Is(err, models.ErrNotReserved):
		h.BusinessError(c, 409, "Not Reserved", err.Error(), models.ErrorCodeNotReserved)
	case errors.Is(err, models.ErrStoreUnavailable):
		h.ServiceUnavailable(c, err.Error())
	case errors.Is(err, models.ErrInjectedFailure):
		problem := models.NewProblemDetails(500, "Injected Failure", err.Error())
		problem.Code = string(models.ErrorCodeInjectedFailure)
		c.JSON(500, problem)
	default:
		h.InternalError(c, err.Error())
	}
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		return requestID.(string)
	}
	return ""
}

func validationMessage(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is below the allowed minimum"
	default:
		return "Invalid value"
	}
}
