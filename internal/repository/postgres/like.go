package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type likeRepo struct {
	db *pgxpool.Pool
}

func newLikeRepo(db *pgxpool.Pool) Like {
	return &likeRepo{
		db: db,
	}
}

// Toggle deletes the like if it exists, otherwise inserts one. Returns the
// resulting liked state.
func (r *likeRepo) Toggle(ctx context.Context, postID int64, userID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM likes WHERE post_id = $1 AND user_id = $2", postID, userID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	// ON CONFLICT keeps a racing double-insert from violating the unique
	// (user_id, post_id) constraint.
	if _, err := r.db.Exec(
		ctx,
		"INSERT INTO likes(user_id, post_id) VALUES($1, $2) ON CONFLICT (user_id, post_id) DO NOTHING",
		userID,
		postID,
	); err != nil {
		return false, err
	}

	return true, nil
}

func (r *likeRepo) Count(ctx context.Context, postID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM likes WHERE post_id = $1", postID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *likeRepo) IsLiked(ctx context.Context, postID int64, userID int64) (bool, error) {
	var liked bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)",
		postID,
		userID,
	).Scan(&liked); err != nil {
		return false, err
	}
	return liked, nil
}
