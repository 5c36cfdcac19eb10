package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Linksy/social-service/internal/dto"
	"github.com/Linksy/social-service/internal/keycloak"
	"github.com/Linksy/social-service/internal/model"
	"github.com/Linksy/social-service/internal/repository"
	"github.com/Linksy/social-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const userCacheTTL = time.Minute * 10

type authService struct {
	logger *zap.Logger
	repo   *repository.Repository
	kc     *keycloak.Client
}

func newAuthService(logger *zap.Logger, repo *repository.Repository, kc *keycloak.Client) Auth {
	return &authService{
		logger: logger,
		repo:   repo,
		kc:     kc,
	}
}

// usernameFor derives firstname.lastname, suffixing a counter until the name
// is free.
func (s *authService) usernameFor(ctx context.Context, firstName, lastName string) (string, error) {
	normalize := func(name string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", ".")
	}
	base := normalize(firstName) + "." + normalize(lastName)

	username := base
	for counter := 1; ; counter++ {
		_, err := s.repo.Postgres.User.FindByUsername(ctx, username)
		if err == pgx.ErrNoRows {
			return username, nil
		}
		if err != nil {
			s.logger.Sugar().Errorf("failed to check username %s: %s", username, err.Error())
			return "", ErrInternal
		}
		username = fmt.Sprintf("%s%d", base, counter)
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterRequest) (*model.User, error) {
	if _, err := s.repo.Postgres.User.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if err != pgx.ErrNoRows {
		s.logger.Sugar().Errorf("failed to check email %s: %s", input.Email, err.Error())
		return nil, ErrInternal
	}

	username, err := s.usernameFor(ctx, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}

	keycloakID, err := s.kc.CreateUser(ctx, username, input.Email, input.Password, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}
	parsedID, err := uuid.Parse(keycloakID)
	if err != nil {
		s.logger.Sugar().Errorf("keycloak returned malformed user id %q: %s", keycloakID, err.Error())
		return nil, ErrInternal
	}

	user, err := s.repo.Postgres.User.Create(ctx, model.User{
		Username:       username,
		Email:          input.Email,
		KeycloakUserID: &parsedID,
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create local user %s: %s", username, err.Error())
		return nil, ErrInternal
	}

	s.logger.Sugar().Infof("registered user(%d) as %s", user.ID, username)
	return user, nil
}

func (s *authService) Login(ctx context.Context, username string, password string) (*dto.TokenResponse, error) {
	token, err := s.kc.PasswordToken(ctx, username, password)
	if err == keycloak.ErrAuthenticationFailed {
		s.logger.Sugar().Warnf("failed authentication attempt for username: %s", username)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Sugar().Errorf("keycloak token request failed for %s: %s", username, err.Error())
		return nil, ErrInternal
	}

	return &dto.TokenResponse{
		AccessToken:  token.AccessToken,
		TokenType:    "bearer",
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
	}, nil
}

// VerifyToken validates an access token with the identity provider and
// resolves the federated local user, creating the row on first sight.
func (s *authService) VerifyToken(ctx context.Context, accessToken string) (*model.User, error) {
	introspection, err := s.kc.Introspect(ctx, accessToken)
	if err != nil {
		return nil, ErrTokenInactive
	}
	if !introspection.Active {
		return nil, ErrTokenInactive
	}

	info, err := s.kc.UserInfo(ctx, accessToken)
	if err != nil {
		return nil, ErrTokenInactive
	}
	keycloakID, err := uuid.Parse(info.Sub)
	if err != nil {
		return nil, ErrTokenInactive
	}

	if cached, err := redisrepo.Get[model.User](s.repo.Redis.Default, ctx, redisrepo.UserKey(info.Sub)); err == nil && cached != nil {
		return cached, nil
	} else if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get user(%s) from redis: %s", info.Sub, err.Error())
	}

	user, err := s.repo.Postgres.User.FindByKeycloakID(ctx, keycloakID)
	if err == pgx.ErrNoRows {
		// First request from a user provisioned directly in the identity
		// provider: create the federated row lazily.
		user, err = s.repo.Postgres.User.Create(ctx, model.User{
			Username:       info.PreferredUsername,
			Email:          info.Email,
			KeycloakUserID: &keycloakID,
		})
		if err != nil {
			s.logger.Sugar().Errorf("failed to create federated user %s: %s", info.PreferredUsername, err.Error())
			return nil, ErrInternal
		}
	} else if err != nil {
		s.logger.Sugar().Errorf("failed to find user by keycloak id(%s): %s", info.Sub, err.Error())
		return nil, ErrInternal
	} else {
		if err := s.repo.Postgres.User.TouchSync(ctx, user.ID); err != nil {
			s.logger.Sugar().Errorf("failed to touch sync for user(%d): %s", user.ID, err.Error())
		}
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.UserKey(info.Sub), user, userCacheTTL); err != nil {
		s.logger.Sugar().Errorf("failed to cache user(%s): %s", info.Sub, err.Error())
	}

	return user, nil
}
