package middleware

import (
	"net/http"

	"github.com/kaushalkumar0001/StressLess/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
)

// AuthRequired rejects requests without a valid bearer token: 401 when the
// token is missing, 403 when it does not verify.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			utils.SendJSONError(c, http.StatusUnauthorized, "Access denied", nil)
			return
		}

		claims, err := utils.ValidateJWT(secret, token)
		if err != nil {
			utils.SendJSONError(c, http.StatusForbidden, "Invalid token", err)
			return
		}

		c.Set(ContextUserID, claims.ID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// UserID returns the authenticated user's ID, or "" outside AuthRequired.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
