package service

import (
	"context"

	"github.com/Linksy/social-service/internal/dto"
	"github.com/Linksy/social-service/internal/model"
	"github.com/Linksy/social-service/internal/repository"
	"github.com/Linksy/social-service/internal/storage"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type postService struct {
	logger *zap.Logger
	repo   *repository.Repository
	store  *storage.Storage
}

func newPostService(logger *zap.Logger, repo *repository.Repository, store *storage.Storage) Post {
	return &postService{
		logger: logger,
		repo:   repo,
		store:  store,
	}
}

// presignAuthor swaps the stored object name for a browser-usable URL. A
// failed resolution drops the picture rather than failing the request.
func presignAuthor(ctx context.Context, store *storage.Storage, author *model.Author) {
	if author.ProfilePictureURL == nil {
		return
	}
	url, err := store.PresignedURL(ctx, *author.ProfilePictureURL)
	if err != nil {
		author.ProfilePictureURL = nil
		return
	}
	author.ProfilePictureURL = &url
}

func (s *postService) Create(ctx context.Context, userID int64, input dto.CreatePostRequest, image *ImageUpload) (*model.FeedPost, error) {
	post := model.Post{
		Title:   input.Title,
		Content: input.Content,
		UserID:  userID,
	}

	created, err := s.repo.Postgres.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%d) post: %s", userID, err.Error())
		return nil, ErrInternal
	}

	// The image is uploaded after the insert so the object name can carry the
	// post ID. A failed upload rolls the post back.
	if image != nil {
		objectName, err := s.store.UploadPostImage(ctx, created.ID, image.File, image.Size, image.Filename, image.ContentType)
		if err != nil {
			if delErr := s.repo.Postgres.Post.Delete(ctx, created.ID); delErr != nil {
				s.logger.Sugar().Errorf("failed to roll back post(%d) after upload failure: %s", created.ID, delErr.Error())
			}
			return nil, err
		}
		if err := s.repo.Postgres.Post.SetImageURL(ctx, created.ID, &objectName); err != nil {
			s.logger.Sugar().Errorf("failed to set post(%d) image: %s", created.ID, err.Error())
			return nil, ErrInternal
		}
	}

	return s.FindByID(ctx, created.ID, userID)
}

func (s *postService) Feed(ctx context.Context, viewerID int64) ([]*model.FeedPost, error) {
	posts, err := s.repo.Postgres.Post.FindAll(ctx, viewerID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to load feed for viewer(%d): %s", viewerID, err.Error())
		return nil, ErrInternal
	}

	for _, post := range posts {
		presignAuthor(ctx, s.store, &post.Author)
	}
	return posts, nil
}

func (s *postService) FindUserPosts(ctx context.Context, userID int64, viewerID int64) ([]*model.FeedPost, error) {
	posts, err := s.repo.Postgres.Post.FindUserPosts(ctx, userID, viewerID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to load user(%d) posts: %s", userID, err.Error())
		return nil, ErrInternal
	}

	for _, post := range posts {
		presignAuthor(ctx, s.store, &post.Author)
	}
	return posts, nil
}

func (s *postService) FindByID(ctx context.Context, id int64, viewerID int64) (*model.FeedPost, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, id, viewerID)
	if err == pgx.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d): %s", id, err.Error())
		return nil, ErrInternal
	}

	presignAuthor(ctx, s.store, &post.Author)
	return post, nil
}

func (s *postService) Update(ctx context.Context, id int64, userID int64, input dto.UpdatePostRequest) (*model.FeedPost, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, id, userID)
	if err == pgx.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d): %s", id, err.Error())
		return nil, ErrInternal
	}
	if post.Post.UserID != userID {
		s.logger.Sugar().Warnf("user(%d) attempted to update post(%d) owned by user(%d)", userID, id, post.Post.UserID)
		return nil, ErrForbidden
	}

	if err := s.repo.Postgres.Post.Update(ctx, id, input.Title, input.Content); err != nil {
		s.logger.Sugar().Errorf("failed to update post(%d): %s", id, err.Error())
		return nil, ErrInternal
	}

	return s.FindByID(ctx, id, userID)
}

func (s *postService) Delete(ctx context.Context, id int64, userID int64) error {
	post, err := s.repo.Postgres.Post.FindByID(ctx, id, userID)
	if err == pgx.ErrNoRows {
		return ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d): %s", id, err.Error())
		return ErrInternal
	}
	if post.Post.UserID != userID {
		s.logger.Sugar().Warnf("user(%d) attempted to delete post(%d) owned by user(%d)", userID, id, post.Post.UserID)
		return ErrForbidden
	}

	// Best-effort object removal; a dangling image is cheaper than a failed
	// delete.
	if post.Post.ImageURL != nil {
		if err := s.store.Delete(ctx, *post.Post.ImageURL); err != nil {
			s.logger.Sugar().Warnf("failed to delete image of post(%d): %s", id, err.Error())
		}
	}

	if err := s.repo.Postgres.Post.Delete(ctx, id); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d): %s", id, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *postService) ImageURL(ctx context.Context, id int64) (*dto.ImageURLResponse, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, id, 0)
	if err == pgx.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d): %s", id, err.Error())
		return nil, ErrInternal
	}
	if post.Post.ImageURL == nil {
		return nil, ErrNoPostImage
	}

	url, err := s.store.PresignedURL(ctx, *post.Post.ImageURL)
	if err != nil {
		return nil, ErrInternal
	}

	return &dto.ImageURLResponse{URL: url, ObjectName: *post.Post.ImageURL}, nil
}
