package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Linksy/social-service/internal/dto"
	"github.com/Linksy/social-service/internal/service"
	"github.com/gin-gonic/gin"
)

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (h *Handler) postsFeed(c *gin.Context) {
	posts, err := h.services.Post.Feed(c.Request.Context(), h.viewerID(c))
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, postResponses(posts))
}

func (h *Handler) postsGetMine(c *gin.Context) {
	user := h.getUserFromRequest(c)

	posts, err := h.services.Post.FindUserPosts(c.Request.Context(), user.ID, user.ID)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, postResponses(posts))
}

func (h *Handler) postsGetByUser(c *gin.Context) {
	userID, ok := pathID(c, "userID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return
	}

	posts, err := h.services.Post.FindUserPosts(c.Request.Context(), userID, h.viewerID(c))
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, postResponses(posts))
}

func (h *Handler) postsGetByID(c *gin.Context) {
	postID, ok := pathID(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), postID, h.viewerID(c))
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, postResponse(post))
}

func (h *Handler) postsCreate(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	// The image part is optional.
	var image *service.ImageUpload
	if file, fileHeader, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		image = &service.ImageUpload{
			File:        file,
			Size:        fileHeader.Size,
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
		}
	}

	post, err := h.services.Post.Create(c.Request.Context(), user.ID, input, image)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, postResponse(post))
}

func (h *Handler) postsUpdate(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, ok := pathID(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	var input dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	post, err := h.services.Post.Update(c.Request.Context(), postID, user.ID, input)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, postResponse(post))
}

func (h *Handler) postsDelete(c *gin.Context) {
	user := h.getUserFromRequest(c)

	postID, ok := pathID(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), postID, user.ID); err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) postsImageURL(c *gin.Context) {
	postID, ok := pathID(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	image, err := h.services.Post.ImageURL(c.Request.Context(), postID)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, image)
}
