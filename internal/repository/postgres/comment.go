package postgres

import (
	"context"
	"time"

	"github.com/Linksy/social-service/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type commentRepo struct {
	db *pgxpool.Pool
}

func newCommentRepo(db *pgxpool.Pool) Comment {
	return &commentRepo{
		db: db,
	}
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.FullComment, error) {
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	var full model.FullComment
	full.Comment = comment
	if err := r.db.QueryRow(
		ctx,
		`WITH inserted AS (
			INSERT INTO comments(content, post_id, user_id, created_at, updated_at)
			VALUES($1, $2, $3, $4, $5)
			RETURNING id, user_id
		)
		SELECT i.id, u.username, u.profile_picture_url
		FROM inserted i JOIN users u ON u.id = i.user_id`,
		comment.Content,
		comment.PostID,
		comment.UserID,
		comment.CreatedAt,
		comment.UpdatedAt,
	).Scan(&full.Comment.ID, &full.Author.Username, &full.Author.ProfilePictureURL); err != nil {
		return nil, err
	}
	full.Author.ID = comment.UserID

	return &full, nil
}

func (r *commentRepo) FindPostComments(ctx context.Context, postID int64) ([]*model.FullComment, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT
		c.id, c.content, c.post_id, c.user_id, c.created_at, c.updated_at, u.username, u.profile_picture_url
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*model.FullComment
	for rows.Next() {
		var comment model.FullComment
		if err := rows.Scan(
			&comment.Comment.ID,
			&comment.Comment.Content,
			&comment.Comment.PostID,
			&comment.Comment.UserID,
			&comment.Comment.CreatedAt,
			&comment.Comment.UpdatedAt,
			&comment.Author.Username,
			&comment.Author.ProfilePictureURL,
		); err != nil {
			return nil, err
		}
		comment.Author.ID = comment.Comment.UserID

		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.QueryRow(
		ctx,
		"SELECT id, content, post_id, user_id, created_at, updated_at FROM comments WHERE id = $1",
		id,
	).Scan(
		&comment.ID,
		&comment.Content,
		&comment.PostID,
		&comment.UserID,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) Update(ctx context.Context, id int64, content string) (*model.FullComment, error) {
	var full model.FullComment
	if err := r.db.QueryRow(
		ctx,
		`WITH updated AS (
			UPDATE comments
			SET content = $1, updated_at = $2
			WHERE id = $3
			RETURNING id, content, post_id, user_id, created_at, updated_at
		)
		SELECT c.id, c.content, c.post_id, c.user_id, c.created_at, c.updated_at, u.username, u.profile_picture_url
		FROM updated c JOIN users u ON u.id = c.user_id`,
		content,
		time.Now(),
		id,
	).Scan(
		&full.Comment.ID,
		&full.Comment.Content,
		&full.Comment.PostID,
		&full.Comment.UserID,
		&full.Comment.CreatedAt,
		&full.Comment.UpdatedAt,
		&full.Author.Username,
		&full.Author.ProfilePictureURL,
	); err != nil {
		return nil, err
	}
	full.Author.ID = full.Comment.UserID

	return &full, nil
}

func (r *commentRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM comments WHERE id = $1", id)
	return err
}
