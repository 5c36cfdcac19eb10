package handler

import (
	"net/http"

	"github.com/Linksy/social-service/internal/dto"
	"github.com/Linksy/social-service/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) usersGetMe(c *gin.Context) {
	user := h.getUserFromRequest(c)

	c.JSON(http.StatusOK, userResponse(user))
}

func (h *Handler) usersUpdateProfile(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	updated, err := h.services.User.UpdateProfile(c.Request.Context(), user.ID, input)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, userResponse(updated))
}

func (h *Handler) usersChangePassword(c *gin.Context) {
	user := h.getUserFromRequest(c)

	var input dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.services.User.ChangePassword(c.Request.Context(), user.ID, input); err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "password changed successfully"))
}

func (h *Handler) usersUpdateProfilePicture(c *gin.Context) {
	user := h.getUserFromRequest(c)

	file, fileHeader, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errImageRequired.Error()))
		return
	}
	defer file.Close()

	objectName, err := h.services.User.UpdateProfilePicture(c.Request.Context(), user.ID, service.ImageUpload{
		File:        file,
		Size:        fileHeader.Size,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"object_name": objectName})
}

func (h *Handler) usersMyProfilePictureURL(c *gin.Context) {
	user := h.getUserFromRequest(c)

	image, err := h.services.User.ProfilePictureURL(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, image)
}

func (h *Handler) usersDeleteProfilePicture(c *gin.Context) {
	user := h.getUserFromRequest(c)

	updated, err := h.services.User.DeleteProfilePicture(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, userResponse(updated))
}

func (h *Handler) usersProfilePictureURL(c *gin.Context) {
	userID, ok := pathID(c, "userID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidUserID.Error()))
		return
	}

	image, err := h.services.User.ProfilePictureURL(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusForError(err), dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, image)
}
