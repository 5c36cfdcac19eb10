package handler

import (
	"net/http"

	"github.com/Linksy/social-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) authToken(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, "username and password are required"))
		return
	}

	token, err := h.services.Auth.Login(c.Request.Context(), username, password)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, token)
}

func (h *Handler) authRegister(c *gin.Context) {
	var input dto.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	user, err := h.services.Auth.Register(c.Request.Context(), input)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, userResponse(user))
}
