package handler

import (
	"net/http"

	"github.com/Linksy/social-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) likesToggle(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, ok := pathID(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	status, err := h.services.Like.Toggle(c.Request.Context(), postID, user.ID)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *Handler) likesStatus(c *gin.Context) {
	postID, ok := pathID(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	status, err := h.services.Like.Status(c.Request.Context(), postID, h.viewerID(c))
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, status)
}
