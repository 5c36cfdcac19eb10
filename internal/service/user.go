package service

import (
	"context"

	"github.com/Linksy/social-service/internal/dto"
	"github.com/Linksy/social-service/internal/keycloak"
	"github.com/Linksy/social-service/internal/model"
	"github.com/Linksy/social-service/internal/repository"
	"github.com/Linksy/social-service/internal/repository/redisrepo"
	"github.com/Linksy/social-service/internal/storage"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type userService struct {
	logger *zap.Logger
	repo   *repository.Repository
	store  *storage.Storage
	kc     *keycloak.Client
}

func newUserService(logger *zap.Logger, repo *repository.Repository, store *storage.Storage, kc *keycloak.Client) User {
	return &userService{
		logger: logger,
		repo:   repo,
		store:  store,
		kc:     kc,
	}
}

func (s *userService) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.Postgres.User.FindByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%d): %s", id, err.Error())
		return nil, ErrInternal
	}
	return user, nil
}

// invalidateCache drops the token-verification cache entry so a changed
// profile is visible on the next request.
func (s *userService) invalidateCache(ctx context.Context, user *model.User) {
	if user.KeycloakUserID == nil {
		return
	}
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserKey(user.KeycloakUserID.String())).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate cache for user(%d): %s", user.ID, err.Error())
	}
}

// UpdateProfile changes the username and/or email. Changes are pushed to the
// identity provider first so logins keep matching the local row.
func (s *userService) UpdateProfile(ctx context.Context, userID int64, input dto.UpdateUserRequest) (*model.User, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	username := user.Username
	if input.Username != "" && input.Username != user.Username {
		if _, err := s.repo.Postgres.User.FindByUsername(ctx, input.Username); err == nil {
			return nil, ErrUsernameTaken
		} else if err != pgx.ErrNoRows {
			s.logger.Sugar().Errorf("failed to check username %s: %s", input.Username, err.Error())
			return nil, ErrInternal
		}
		username = input.Username
	}

	email := user.Email
	if input.Email != "" && input.Email != user.Email {
		if _, err := s.repo.Postgres.User.FindByEmail(ctx, input.Email); err == nil {
			return nil, ErrEmailTaken
		} else if err != pgx.ErrNoRows {
			s.logger.Sugar().Errorf("failed to check email %s: %s", input.Email, err.Error())
			return nil, ErrInternal
		}
		email = input.Email
	}

	if username == user.Username && email == user.Email {
		return user, nil
	}

	if user.KeycloakUserID != nil {
		if err := s.kc.UpdateUser(ctx, user.KeycloakUserID.String(), username, email); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Postgres.User.UpdateProfile(ctx, userID, username, email); err != nil {
		s.logger.Sugar().Errorf("failed to update profile of user(%d): %s", userID, err.Error())
		return nil, ErrInternal
	}
	s.invalidateCache(ctx, user)

	user.Username = username
	user.Email = email
	return user, nil
}

// ChangePassword verifies the current password against the identity provider
// and resets it there. No credentials are stored locally.
func (s *userService) ChangePassword(ctx context.Context, userID int64, input dto.ChangePasswordRequest) error {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.KeycloakUserID == nil {
		return ErrInternal
	}

	if input.NewPassword != input.NewPasswordConfirm {
		return ErrPasswordMismatch
	}

	if _, err := s.kc.PasswordToken(ctx, user.Username, input.CurrentPassword); err != nil {
		if err == keycloak.ErrAuthenticationFailed {
			s.logger.Sugar().Warnf("invalid current password provided for user(%d)", userID)
			return ErrInvalidCredentials
		}
		s.logger.Sugar().Errorf("failed to verify current password for user(%d): %s", userID, err.Error())
		return ErrInternal
	}

	if err := s.kc.SetPassword(ctx, user.KeycloakUserID.String(), input.NewPassword); err != nil {
		return err
	}

	s.logger.Sugar().Infof("changed password for user(%d)", userID)
	return nil
}

// UpdateProfilePicture uploads the new picture, points the user at it and
// removes the previous object best-effort.
func (s *userService) UpdateProfilePicture(ctx context.Context, userID int64, image ImageUpload) (string, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	objectName, err := s.store.UploadProfilePicture(ctx, userID, image.File, image.Size, image.Filename, image.ContentType)
	if err != nil {
		return "", err
	}

	if err := s.repo.Postgres.User.SetProfilePicture(ctx, userID, &objectName); err != nil {
		s.logger.Sugar().Errorf("failed to set profile picture for user(%d): %s", userID, err.Error())
		return "", ErrInternal
	}
	s.invalidateCache(ctx, user)

	if user.ProfilePictureURL != nil {
		if err := s.store.Delete(ctx, *user.ProfilePictureURL); err != nil {
			s.logger.Sugar().Warnf("failed to delete old profile picture of user(%d): %s", userID, err.Error())
		}
	}

	return objectName, nil
}

func (s *userService) DeleteProfilePicture(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ProfilePictureURL == nil {
		return nil, ErrNoProfilePicture
	}

	if err := s.store.Delete(ctx, *user.ProfilePictureURL); err != nil {
		s.logger.Sugar().Warnf("failed to delete profile picture object of user(%d): %s", userID, err.Error())
	}

	if err := s.repo.Postgres.User.SetProfilePicture(ctx, userID, nil); err != nil {
		s.logger.Sugar().Errorf("failed to clear profile picture of user(%d): %s", userID, err.Error())
		return nil, ErrInternal
	}
	s.invalidateCache(ctx, user)

	user.ProfilePictureURL = nil
	return user, nil
}

func (s *userService) ProfilePictureURL(ctx context.Context, userID int64) (*dto.ImageURLResponse, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ProfilePictureURL == nil {
		return nil, ErrNoProfilePicture
	}

	url, err := s.store.PresignedURL(ctx, *user.ProfilePictureURL)
	if err != nil {
		return nil, ErrInternal
	}

	return &dto.ImageURLResponse{URL: url, ObjectName: *user.ProfilePictureURL}, nil
}
