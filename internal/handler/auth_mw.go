package handler

import (
	"net/http"
	"strings"

	"github.com/Linksy/social-service/internal/dto"
	"github.com/Linksy/social-service/pkg/utils"
	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func (h *Handler) authMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	// Expired tokens are rejected locally before a round trip to the
	// identity provider.
	if utils.JWTExpired(accessToken) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	user, err := h.services.Auth.VerifyToken(c.Request.Context(), accessToken)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		return
	}

	c.Set("user", *user)

	c.Next()
}
