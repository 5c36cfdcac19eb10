package handler

import (
	"github.com/Linksy/social-service/pkg/utils"
	"github.com/gin-gonic/gin"
)

// notRequiredAuthMiddleware resolves the user when a valid token is present
// but lets anonymous requests through.
func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" || utils.JWTExpired(accessToken) {
		c.Next()
		return
	}

	user, err := h.services.Auth.VerifyToken(c.Request.Context(), accessToken)
	if err != nil {
		c.Next()
		return
	}

	c.Set("user", *user)

	c.Next()
}
