package handler

import (
	"net/http"

	"github.com/Linksy/social-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsGet(c *gin.Context) {
	postID, ok := pathID(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	comments, err := h.services.Comment.FindPostComments(c.Request.Context(), postID)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, commentResponses(comments))
}

func (h *Handler) commentsCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, ok := pathID(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), postID, user.ID, input.Content)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, commentResponse(comment))
}

func (h *Handler) commentsUpdate(c *gin.Context) {
	user := h.getUserFromRequest(c)

	commentID, ok := pathID(c, "commentID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidCommentID.Error()))
		return
	}

	var input dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	comment, err := h.services.Comment.Update(c.Request.Context(), commentID, user.ID, input.Content)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, commentResponse(comment))
}

func (h *Handler) commentsDelete(c *gin.Context) {
	user := h.getUserFromRequest(c)

	commentID, ok := pathID(c, "commentID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidCommentID.Error()))
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), commentID, user.ID); err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.Status(http.StatusNoContent)
}
