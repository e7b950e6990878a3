package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/habbitapp/habbit/internal/application"
	"github.com/habbitapp/habbit/pkg/helpers"
	"github.com/habbitapp/habbit/pkg/response"
)

const CtxUserIDKey = "userID"

// SessionAuth reads the session cookie, validates the bearer value
// (signature and expiry first, then the revocable store record) and
// injects the user id into the Gin context.
func SessionAuth(sessions *application.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || bearer == "" {
			resp := response.Error[any](c, http.StatusUnauthorized, "missing session", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		uid, ok := sessions.Validate(c.Request.Context(), bearer)
		if !ok {
			resp := response.Error[any](c, http.StatusUnauthorized, "invalid session", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}
