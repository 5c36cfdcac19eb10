package postgres

import (
	"context"

	"github.com/Linksy/social-service/internal/config"
	"github.com/Linksy/social-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, cfg.URL("postgres"))
}

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id int64, viewerID int64) (*model.FeedPost, error)
	FindAll(ctx context.Context, viewerID int64) ([]*model.FeedPost, error)
	FindUserPosts(ctx context.Context, userID int64, viewerID int64) ([]*model.FeedPost, error)
	Update(ctx context.Context, id int64, title string, content string) error
	SetImageURL(ctx context.Context, id int64, imageURL *string) error
	Delete(ctx context.Context, id int64) error
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.FullComment, error)
	FindPostComments(ctx context.Context, postID int64) ([]*model.FullComment, error)
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	Update(ctx context.Context, id int64, content string) (*model.FullComment, error)
	Delete(ctx context.Context, id int64) error
}

type Like interface {
	Toggle(ctx context.Context, postID int64, userID int64) (liked bool, err error)
	Count(ctx context.Context, postID int64) (int64, error)
	IsLiked(ctx context.Context, postID int64, userID int64) (bool, error)
}

type User interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByKeycloakID(ctx context.Context, keycloakID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, username string, email string) error
	SetProfilePicture(ctx context.Context, id int64, objectName *string) error
	TouchSync(ctx context.Context, id int64) error
}

type PostgresRepository struct {
	Post
	Comment
	Like
	User
}

func New(db *pgxpool.Pool, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		Post:    newPostRepo(db),
		Comment: newCommentRepo(db),
		Like:    newLikeRepo(db),
		User:    newUserRepo(db),
	}
}
