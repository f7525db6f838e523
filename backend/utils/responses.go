package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/parallelme/parallelme/backend/models"
	"github.com/parallelme/parallelme/parallelme/apperror"
	"github.com/parallelme/parallelme/parallelme/logger"
)

// LocalUserID is the Fiber local holding the authenticated user's id.
const LocalUserID = "userID"

// SendJSON sends a JSON response using Fiber
func SendJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

// SendSuccess sends a successful JSON response
func SendSuccess(c *fiber.Ctx, data interface{}, message string) error {
	response := models.NewSuccessResponse(data, message)
	return SendJSON(c, http.StatusOK, response)
}

// SendCreated sends a created resource JSON response
func SendCreated(c *fiber.Ctx, data interface{}, message string) error {
	response := models.NewSuccessResponse(data, message)
	return SendJSON(c, http.StatusCreated, response)
}

// SendError sends an error JSON response
func SendError(c *fiber.Ctx, statusCode int, code, message string, details map[string]string) error {
	response := models.NewErrorResponse(code, message, details)
	return SendJSON(c, statusCode, response)
}

// SendUnauthorized sends an unauthorized error response
func SendUnauthorized(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

// SendNotFound sends a not found error response
func SendNotFound(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

type errorStatus struct {
	status int
	code   string
}

var kindStatus = map[apperror.Kind]errorStatus{
	apperror.KindValidation:   {http.StatusBadRequest, "VALIDATION_ERROR"},
	apperror.KindUnauthorized: {http.StatusUnauthorized, "UNAUTHORIZED"},
	apperror.KindForbidden:    {http.StatusForbidden, "FORBIDDEN"},
	apperror.KindNotFound:     {http.StatusNotFound, "NOT_FOUND"},
	apperror.KindDuplicate:    {http.StatusConflict, "DUPLICATE_RESOURCE"},
	apperror.KindConflict:     {http.StatusConflict, "STATE_CONFLICT"},
	apperror.KindRateLimited:  {http.StatusTooManyRequests, "UPSTREAM_RATE_LIMITED"},
	apperror.KindUpstreamAuth: {http.StatusBadGateway, "UPSTREAM_AUTH"},
	apperror.KindUpstream:     {http.StatusBadGateway, "UPSTREAM_ERROR"},
	apperror.KindUnavailable:  {http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE"},
	apperror.KindInternal:     {http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
}

// StatusOf returns the HTTP status and error code for err.
func StatusOf(err error) (int, string) {
	st, ok := kindStatus[apperror.KindOf(err)]
	if !ok {
		st = kindStatus[apperror.KindInternal]
	}
	return st.status, st.code
}

// SendAppError writes err as an error envelope. Unclassified errors are
// logged and reported without their internals.
func SendAppError(c *fiber.Ctx, err error) error {
	status, code := StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.LogError("Request failed", err,
			"method", c.Method(),
			"path", c.Path(),
			"request_id", RequestID(c))
	}
	return SendError(c, status, code, apperror.Message(err), apperror.DetailsOf(err))
}

// UserID returns the authenticated user set by the auth middleware.
func UserID(c *fiber.Ctx) (primitive.ObjectID, bool) {
	id, ok := c.Locals(LocalUserID).(primitive.ObjectID)
	return id, ok
}

// RequestID returns the id assigned by the requestid middleware.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// GetIPAddress extracts the client IP address
func GetIPAddress(c *fiber.Ctx) string {
	// Check X-Forwarded-For header first
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	// Check X-Real-IP header
	if xri := c.Get("X-Real-IP"); xri != "" {
		return xri
	}
	// Fallback to connection remote address
	return c.IP()
}

// GetUserAgent extracts the user agent
func GetUserAgent(c *fiber.Ctx) string {
	return c.Get("User-Agent")
}
