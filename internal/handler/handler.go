package handler

import (
	"github.com/Linksy/social-service/internal/dto"
	"github.com/Linksy/social-service/internal/model"
	"github.com/Linksy/social-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

type Handler struct {
	services *service.Service
}

func New(services *service.Service) *Handler {
	return &Handler{
		services: services,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	auth := r.Group("/auth")
	{
		auth.POST("/token", h.authToken)
		auth.POST("/register", h.authRegister)
	}

	posts := r.Group("/posts")
	{
		posts.GET("/", h.notRequiredAuthMiddleware, h.postsFeed)
		posts.POST("/", h.authMiddleware, h.postsCreate)
		posts.GET("/me", h.authMiddleware, h.postsGetMine)

		post := posts.Group("/:postID")
		{
			post.GET("", h.notRequiredAuthMiddleware, h.postsGetByID)
			post.PUT("", h.authMiddleware, h.postsUpdate)
			post.DELETE("", h.authMiddleware, h.postsDelete)
			post.GET("/image-url", h.postsImageURL)
		}
	}

	comments := r.Group("/comments")
	{
		comments.GET("/posts/:postID", h.commentsGet)
		comments.POST("/posts/:postID", h.authMiddleware, h.commentsCreate)
		comments.PUT("/:commentID", h.authMiddleware, h.commentsUpdate)
		comments.DELETE("/:commentID", h.authMiddleware, h.commentsDelete)
	}

	likes := r.Group("/likes")
	{
		likes.POST("/posts/:postID", h.authMiddleware, h.likesToggle)
		likes.GET("/posts/:postID/status", h.notRequiredAuthMiddleware, h.likesStatus)
	}

	users := r.Group("/users")
	{
		users.GET("/me", h.authMiddleware, h.usersGetMe)
		users.PUT("/me", h.authMiddleware, h.usersUpdateProfile)
		users.PUT("/change-password", h.authMiddleware, h.usersChangePassword)
		users.PUT("/me/profile-picture", h.authMiddleware, h.usersUpdateProfilePicture)
		users.GET("/me/profile-picture-url", h.authMiddleware, h.usersMyProfilePictureURL)
		users.DELETE("/me/profile-picture", h.authMiddleware, h.usersDeleteProfilePicture)
		users.GET("/:userID/profile-picture-url", h.usersProfilePictureURL)
		users.GET("/:userID/posts", h.notRequiredAuthMiddleware, h.postsGetByUser)
	}

	return r
}

func (h *Handler) getUserFromRequest(c *gin.Context) *model.User {
	userReq, _ := c.Get("user")

	user, ok := userReq.(model.User)
	if !ok {
		return nil
	}

	return &user
}

// viewerID is 0 for anonymous requests; the repository treats 0 as
// "no viewer" when computing like flags.
func (h *Handler) viewerID(c *gin.Context) int64 {
	user := h.getUserFromRequest(c)
	if user == nil {
		return 0
	}
	return user.ID
}

func postResponse(post *model.FeedPost) dto.PostResponse {
	return dto.PostResponse{
		ID:                post.Post.ID,
		Title:             post.Post.Title,
		Content:           post.Post.Content,
		UserID:            post.Author.ID,
		Username:          post.Author.Username,
		ProfilePictureURL: post.Author.ProfilePictureURL,
		ImageURL:          post.Post.ImageURL,
		CommentCount:      post.CommentCount,
		LikeCount:         post.LikeCount,
		IsLiked:           post.IsLiked,
		CreatedAt:         post.Post.CreatedAt,
		UpdatedAt:         post.Post.UpdatedAt,
	}
}

func postResponses(posts []*model.FeedPost) []dto.PostResponse {
	responses := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, postResponse(post))
	}
	return responses
}

func commentResponse(comment *model.FullComment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:                comment.Comment.ID,
		Content:           comment.Comment.Content,
		PostID:            comment.Comment.PostID,
		UserID:            comment.Author.ID,
		Username:          comment.Author.Username,
		ProfilePictureURL: comment.Author.ProfilePictureURL,
		CreatedAt:         comment.Comment.CreatedAt,
		UpdatedAt:         comment.Comment.UpdatedAt,
	}
}

func commentResponses(comments []*model.FullComment) []dto.CommentResponse {
	responses := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, commentResponse(comment))
	}
	return responses
}

func userResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		ProfilePictureURL: user.ProfilePictureURL,
	}
}
