package postgres

import (
	"context"
	"time"

	"github.com/Linksy/social-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

// feedSelect assembles a viewer-specific post row: author fields, counts and
// the viewer's like flag. viewerID 0 means anonymous.
const feedSelect = `SELECT
	p.id, p.title, p.content, p.user_id, p.image_url, p.created_at, p.updated_at,
	u.username, u.profile_picture_url,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
	(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
	EXISTS(SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $1)
	FROM posts p
	JOIN users u ON u.id = p.user_id`

func scanFeedPost(row pgx.Row) (*model.FeedPost, error) {
	var post model.FeedPost
	if err := row.Scan(
		&post.Post.ID,
		&post.Post.Title,
		&post.Post.Content,
		&post.Post.UserID,
		&post.Post.ImageURL,
		&post.Post.CreatedAt,
		&post.Post.UpdatedAt,
		&post.Author.Username,
		&post.Author.ProfilePictureURL,
		&post.CommentCount,
		&post.LikeCount,
		&post.IsLiked,
	); err != nil {
		return nil, err
	}
	post.Author.ID = post.Post.UserID
	return &post, nil
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO posts(title, content, user_id, image_url, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6) RETURNING id",
		post.Title,
		post.Content,
		post.UserID,
		post.ImageURL,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id int64, viewerID int64) (*model.FeedPost, error) {
	row := r.db.QueryRow(ctx, feedSelect+" WHERE p.id = $2", viewerID, id)
	return scanFeedPost(row)
}

func (r *postRepo) FindAll(ctx context.Context, viewerID int64) ([]*model.FeedPost, error) {
	rows, err := r.db.Query(ctx, feedSelect+" ORDER BY p.created_at DESC", viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.FeedPost
	for rows.Next() {
		post, err := scanFeedPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) FindUserPosts(ctx context.Context, userID int64, viewerID int64) ([]*model.FeedPost, error) {
	rows, err := r.db.Query(ctx, feedSelect+" WHERE p.user_id = $2 ORDER BY p.created_at DESC", viewerID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.FeedPost
	for rows.Next() {
		post, err := scanFeedPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) Update(ctx context.Context, id int64, title string, content string) error {
	_, err := r.db.Exec(
		ctx,
		"UPDATE posts SET title = $1, content = $2, updated_at = $3 WHERE id = $4",
		title,
		content,
		time.Now(),
		id,
	)
	return err
}

func (r *postRepo) SetImageURL(ctx context.Context, id int64, imageURL *string) error {
	_, err := r.db.Exec(ctx, "UPDATE posts SET image_url = $1, updated_at = $2 WHERE id = $3", imageURL, time.Now(), id)
	return err
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	return err
}
