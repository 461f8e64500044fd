package utils

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const genericServerError = "An unexpected error occurred. Please try again later."

// SendJSONError sends a standardized JSON error response and logs the internal error.
// For 5xx errors, it sends a generic public message while logging the actual internalError.
// For 4xx errors, the publicMsg is shown to the client, and internalError (if provided) is logged.
func SendJSONError(c *gin.Context, statusCode int, publicMsg string, internalError error, details ...string) {
	c.AbortWithStatusJSON(statusCode, buildErrorResponse(c, statusCode, publicMsg, internalError, details...))
}

// SendRetryableError is SendJSONError for failures the client may retry
// later; the body carries a "retryable" flag so the UI can offer a retry
// instead of a dead end.
func SendRetryableError(c *gin.Context, statusCode int, publicMsg string, internalError error, retryable bool) {
	response := buildErrorResponse(c, statusCode, publicMsg, internalError)
	response["retryable"] = retryable
	c.AbortWithStatusJSON(statusCode, response)
}

func buildErrorResponse(c *gin.Context, statusCode int, publicMsg string, internalError error, details ...string) gin.H {
	errorDetails := ""
	if len(details) > 0 {
		errorDetails = details[0] // Taking the first detail if multiple are provided for simplicity
	}

	response := gin.H{"error": publicMsg}
	if errorDetails != "" {
		response["details"] = errorDetails
	}

	if internalError != nil {
		log.Printf("ERROR: Handler error: status_code=%d, public_message='%s', internal_error='%v', details='%s', path='%s'",
			statusCode, publicMsg, internalError, errorDetails, c.Request.URL.Path)
	} else {
		log.Printf("INFO: Handler response: status_code=%d, public_message='%s', details='%s', path='%s'",
			statusCode, publicMsg, errorDetails, c.Request.URL.Path)
	}

	// The internal error is logged above and never sent to the client on 5xx.
	if statusCode >= http.StatusInternalServerError && publicMsg == "" {
		response["error"] = genericServerError
	} else if statusCode >= http.StatusInternalServerError && internalError != nil && publicMsg == internalError.Error() {
		response["error"] = genericServerError
		log.Printf("WARN: For 5xx error, public message was same as internal error. Replaced with generic message for client. Original internal error: %v", internalError)
	}
	return response
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// It returns "" when the header is missing or uses another scheme.
func BearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
