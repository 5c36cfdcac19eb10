package postgres

import (
	"context"
	"time"

	"github.com/Linksy/social-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

func newUserRepo(db *pgxpool.Pool) User {
	return &userRepo{
		db: db,
	}
}

const userSelect = "SELECT id, username, email, keycloak_user_id, last_synced_at, profile_picture_url FROM users"

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.KeycloakUserID,
		&user.LastSyncedAt,
		&user.ProfilePictureURL,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	now := time.Now()
	user.LastSyncedAt = &now
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO users(username, email, keycloak_user_id, last_synced_at) VALUES($1, $2, $3, $4) RETURNING id",
		user.Username,
		user.Email,
		user.KeycloakUserID,
		user.LastSyncedAt,
	).Scan(&user.ID); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(r.db.QueryRow(ctx, userSelect+" WHERE id = $1", id))
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.db.QueryRow(ctx, userSelect+" WHERE username = $1", username))
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRow(ctx, userSelect+" WHERE email = $1", email))
}

func (r *userRepo) FindByKeycloakID(ctx context.Context, keycloakID uuid.UUID) (*model.User, error) {
	return scanUser(r.db.QueryRow(ctx, userSelect+" WHERE keycloak_user_id = $1", keycloakID))
}

func (r *userRepo) UpdateProfile(ctx context.Context, id int64, username string, email string) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET username = $1, email = $2 WHERE id = $3", username, email, id)
	return err
}

func (r *userRepo) SetProfilePicture(ctx context.Context, id int64, objectName *string) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET profile_picture_url = $1 WHERE id = $2", objectName, id)
	return err
}

func (r *userRepo) TouchSync(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET last_synced_at = $1 WHERE id = $2", time.Now(), id)
	return err
}
