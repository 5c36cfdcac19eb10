package service

import (
	"context"
	"time"

	"github.com/Linksy/social-service/internal/dto"
	"github.com/Linksy/social-service/internal/repository"
	"github.com/Linksy/social-service/internal/repository/redisrepo"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const likeCountCacheTTL = time.Hour

type likeService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newLikeService(logger *zap.Logger, repo *repository.Repository) Like {
	return &likeService{
		logger: logger,
		repo:   repo,
	}
}

// Toggle flips the like and returns the resulting state. The count in the
// response is recomputed after the flip, never derived from the previous
// value, so clients can display it verbatim.
func (s *likeService) Toggle(ctx context.Context, postID int64, userID int64) (*dto.LikeStatusResponse, error) {
	if _, err := s.repo.Postgres.Post.FindByID(ctx, postID, 0); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d): %s", postID, err.Error())
		return nil, ErrInternal
	}

	liked, err := s.repo.Postgres.Like.Toggle(ctx, postID, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to toggle like for post(%d) by user(%d): %s", postID, userID, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostLikesKey(postID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate like count cache for post(%d): %s", postID, err.Error())
	}

	count, err := s.likeCount(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &dto.LikeStatusResponse{IsLiked: liked, LikeCount: count}, nil
}

func (s *likeService) Status(ctx context.Context, postID int64, userID int64) (*dto.LikeStatusResponse, error) {
	liked, err := s.repo.Postgres.Like.IsLiked(ctx, postID, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get like status for post(%d): %s", postID, err.Error())
		return nil, ErrInternal
	}

	count, err := s.likeCount(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &dto.LikeStatusResponse{IsLiked: liked, LikeCount: count}, nil
}

func (s *likeService) likeCount(ctx context.Context, postID int64) (int64, error) {
	cached, err := redisrepo.Get[int64](s.repo.Redis.Default, ctx, redisrepo.PostLikesKey(postID))
	if err == nil && cached != nil {
		return *cached, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get like count for post(%d) from redis: %s", postID, err.Error())
	}

	count, err := s.repo.Postgres.Like.Count(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count likes for post(%d): %s", postID, err.Error())
		return 0, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.PostLikesKey(postID), count, likeCountCacheTTL); err != nil {
		s.logger.Sugar().Errorf("failed to cache like count for post(%d): %s", postID, err.Error())
	}

	return count, nil
}
