package service

import (
	"context"
	"io"

	"github.com/Linksy/social-service/internal/dto"
	"github.com/Linksy/social-service/internal/keycloak"
	"github.com/Linksy/social-service/internal/model"
	"github.com/Linksy/social-service/internal/repository"
	"github.com/Linksy/social-service/internal/storage"
	"go.uber.org/zap"
)

// ImageUpload is a file part lifted out of a multipart request.
type ImageUpload struct {
	File        io.Reader
	Size        int64
	Filename    string
	ContentType string
}

type Post interface {
	Create(ctx context.Context, userID int64, input dto.CreatePostRequest, image *ImageUpload) (*model.FeedPost, error)
	Feed(ctx context.Context, viewerID int64) ([]*model.FeedPost, error)
	FindUserPosts(ctx context.Context, userID int64, viewerID int64) ([]*model.FeedPost, error)
	FindByID(ctx context.Context, id int64, viewerID int64) (*model.FeedPost, error)
	Update(ctx context.Context, id int64, userID int64, input dto.UpdatePostRequest) (*model.FeedPost, error)
	Delete(ctx context.Context, id int64, userID int64) error
	ImageURL(ctx context.Context, id int64) (*dto.ImageURLResponse, error)
}

type Comment interface {
	Create(ctx context.Context, postID int64, userID int64, content string) (*model.FullComment, error)
	FindPostComments(ctx context.Context, postID int64) ([]*model.FullComment, error)
	Update(ctx context.Context, commentID int64, userID int64, content string) (*model.FullComment, error)
	Delete(ctx context.Context, commentID int64, userID int64) error
}

type Like interface {
	Toggle(ctx context.Context, postID int64, userID int64) (*dto.LikeStatusResponse, error)
	Status(ctx context.Context, postID int64, userID int64) (*dto.LikeStatusResponse, error)
}

type User interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, input dto.UpdateUserRequest) (*model.User, error)
	ChangePassword(ctx context.Context, userID int64, input dto.ChangePasswordRequest) error
	UpdateProfilePicture(ctx context.Context, userID int64, image ImageUpload) (string, error)
	DeleteProfilePicture(ctx context.Context, userID int64) (*model.User, error)
	ProfilePictureURL(ctx context.Context, userID int64) (*dto.ImageURLResponse, error)
}

type Auth interface {
	Register(ctx context.Context, input dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, username string, password string) (*dto.TokenResponse, error)
	VerifyToken(ctx context.Context, accessToken string) (*model.User, error)
}

type Service struct {
	Post
	Comment
	Like
	User
	Auth
}

func New(logger *zap.Logger, repo *repository.Repository, store *storage.Storage, kc *keycloak.Client) *Service {
	return &Service{
		Post:    newPostService(logger, repo, store),
		Comment: newCommentService(logger, repo, store),
		Like:    newLikeService(logger, repo),
		User:    newUserService(logger, repo, store, kc),
		Auth:    newAuthService(logger, repo, kc),
	}
}
