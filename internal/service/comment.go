package service

import (
	"context"
	"time"

	"github.com/Linksy/social-service/internal/model"
	"github.com/Linksy/social-service/internal/repository"
	"github.com/Linksy/social-service/internal/repository/redisrepo"
	"github.com/Linksy/social-service/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const commentsCacheTTL = time.Minute * 10

type commentService struct {
	logger *zap.Logger
	repo   *repository.Repository
	store  *storage.Storage
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, store *storage.Storage) Comment {
	return &commentService{
		logger: logger,
		repo:   repo,
		store:  store,
	}
}

func (s *commentService) Create(ctx context.Context, postID int64, userID int64, content string) (*model.FullComment, error) {
	if _, err := s.repo.Postgres.Post.FindByID(ctx, postID, 0); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d): %s", postID, err.Error())
		return nil, ErrInternal
	}

	comment, err := s.repo.Postgres.Comment.Create(ctx, model.Comment{
		Content: content,
		PostID:  postID,
		UserID:  userID,
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create comment for post(%d) by user(%d): %s", postID, userID, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostCommentsKey(postID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate comments cache for post(%d): %s", postID, err.Error())
	}

	presignAuthor(ctx, s.store, &comment.Author)
	return comment, nil
}

// FindPostComments returns the full comment list, newest first. The raw list
// is cached with object names; presigned URLs are resolved per request since
// they expire.
func (s *commentService) FindPostComments(ctx context.Context, postID int64) ([]*model.FullComment, error) {
	comments, err := redisrepo.GetMany[model.FullComment](s.repo.Redis.Default, ctx, redisrepo.PostCommentsKey(postID))
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get comments for post(%d) from redis: %s", postID, err.Error())
	}

	if err != nil {
		comments, err = s.repo.Postgres.Comment.FindPostComments(ctx, postID)
		if err != nil {
			s.logger.Sugar().Errorf("failed to find comments for post(%d): %s", postID, err.Error())
			return nil, ErrInternal
		}

		if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.PostCommentsKey(postID), comments, commentsCacheTTL); err != nil {
			s.logger.Sugar().Errorf("failed to cache comments for post(%d): %s", postID, err.Error())
		}
	}

	for _, comment := range comments {
		presignAuthor(ctx, s.store, &comment.Author)
	}
	return comments, nil
}

func (s *commentService) Update(ctx context.Context, commentID int64, userID int64, content string) (*model.FullComment, error) {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, commentID)
	if err == pgx.ErrNoRows {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find comment(%d): %s", commentID, err.Error())
		return nil, ErrInternal
	}
	if comment.UserID != userID {
		s.logger.Sugar().Warnf("user(%d) attempted to update comment(%d) owned by user(%d)", userID, commentID, comment.UserID)
		return nil, ErrForbidden
	}

	updated, err := s.repo.Postgres.Comment.Update(ctx, commentID, content)
	if err != nil {
		s.logger.Sugar().Errorf("failed to update comment(%d): %s", commentID, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostCommentsKey(comment.PostID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate comments cache for post(%d): %s", comment.PostID, err.Error())
	}

	presignAuthor(ctx, s.store, &updated.Author)
	return updated, nil
}

func (s *commentService) Delete(ctx context.Context, commentID int64, userID int64) error {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, commentID)
	if err == pgx.ErrNoRows {
		return ErrCommentNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find comment(%d): %s", commentID, err.Error())
		return ErrInternal
	}
	if comment.UserID != userID {
		s.logger.Sugar().Warnf("user(%d) attempted to delete comment(%d) owned by user(%d)", userID, commentID, comment.UserID)
		return ErrForbidden
	}

	if err := s.repo.Postgres.Comment.Delete(ctx, commentID); err != nil {
		s.logger.Sugar().Errorf("failed to delete comment(%d): %s", commentID, err.Error())
		return ErrInternal
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostCommentsKey(comment.PostID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate comments cache for post(%d): %s", comment.PostID, err.Error())
	}

	return nil
}
