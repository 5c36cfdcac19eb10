// Package keycloak is a minimal OpenID client for the identity provider the
// service delegates authentication to. Only the flows the service needs are
// implemented: password-grant tokens, introspection, userinfo and admin user
// creation.
package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Linksy/social-service/internal/config"
	"go.uber.org/zap"
)

var (
	ErrAuthenticationFailed = errors.New("keycloak authentication failed")
	ErrUserCreationFailed   = errors.New("failed to create user in keycloak")
	ErrUserUpdateFailed     = errors.New("failed to update user in keycloak")
)

type Client struct {
	cfg        config.KeycloakConfig
	logger     *zap.Logger
	httpClient *http.Client
}

func New(cfg config.KeycloakConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		logger:     logger,
		httpClient: &http.Client{},
	}
}

type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type UserInfo struct {
	Sub               string `json:"sub"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
}

type Introspection struct {
	Active bool `json:"active"`
}

func (c *Client) tokenEndpoint(realm string) string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", c.cfg.BaseURL, realm)
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return ErrAuthenticationFailed
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("keycloak endpoint(%s) returned %d", endpoint, resp.StatusCode)
	}

	return json.Unmarshal(body, out)
}

// PasswordToken exchanges resource-owner credentials for a token in the
// service realm.
func (c *Client) PasswordToken(ctx context.Context, username, password string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("username", username)
	form.Set("password", password)

	var token Token
	if err := c.postForm(ctx, c.tokenEndpoint(c.cfg.Realm), form, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (c *Client) Introspect(ctx context.Context, accessToken string) (*Introspection, error) {
	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("token", accessToken)

	var introspection Introspection
	if err := c.postForm(ctx, c.tokenEndpoint(c.cfg.Realm)+"/introspect", form, &introspection); err != nil {
		return nil, err
	}
	return &introspection, nil
}

func (c *Client) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	endpoint := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/userinfo", c.cfg.BaseURL, c.cfg.Realm)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrAuthenticationFailed
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("keycloak userinfo returned %d", resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// adminToken authenticates against the master realm with the admin CLI
// client, which is what the admin REST API expects.
func (c *Client) adminToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", "admin-cli")
	form.Set("username", c.cfg.AdminUsername)
	form.Set("password", c.cfg.AdminPassword)

	var token Token
	if err := c.postForm(ctx, c.tokenEndpoint("master"), form, &token); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

type createUserRequest struct {
	Username    string                  `json:"username"`
	Email       string                  `json:"email"`
	FirstName   string                  `json:"firstName,omitempty"`
	LastName    string                  `json:"lastName,omitempty"`
	Enabled     bool                    `json:"enabled"`
	Credentials []createUserCredentials `json:"credentials"`
}

type createUserCredentials struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// CreateUser provisions a user in the service realm and returns the Keycloak
// user ID from the Location header.
func (c *Client) CreateUser(ctx context.Context, username, email, password, firstName, lastName string) (string, error) {
	adminToken, err := c.adminToken(ctx)
	if err != nil {
		c.logger.Sugar().Errorf("failed to get keycloak admin token: %s", err.Error())
		return "", ErrUserCreationFailed
	}

	payload, err := json.Marshal(createUserRequest{
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Enabled:   true,
		Credentials: []createUserCredentials{
			{Type: "password", Value: password, Temporary: false},
		},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users", c.cfg.BaseURL, c.cfg.Realm)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Sugar().Errorf("failed to create keycloak user(%s): %s", username, err.Error())
		return "", ErrUserCreationFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Sugar().Errorf("keycloak user creation for %s returned %d: %s", username, resp.StatusCode, string(body))
		return "", ErrUserCreationFailed
	}

	// The new user's ID is the last path segment of the Location header.
	location := resp.Header.Get("Location")
	parts := strings.Split(strings.TrimRight(location, "/"), "/")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return "", ErrUserCreationFailed
	}
	return parts[len(parts)-1], nil
}

// adminPut issues an admin REST update for a user and expects 204.
func (c *Client) adminPut(ctx context.Context, path string, payload interface{}) error {
	adminToken, err := c.adminToken(ctx)
	if err != nil {
		c.logger.Sugar().Errorf("failed to get keycloak admin token: %s", err.Error())
		return ErrUserUpdateFailed
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s%s", c.cfg.BaseURL, c.cfg.Realm, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Sugar().Errorf("keycloak admin update(%s) failed: %s", path, err.Error())
		return ErrUserUpdateFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Sugar().Errorf("keycloak admin update(%s) returned %d: %s", path, resp.StatusCode, string(respBody))
		return ErrUserUpdateFailed
	}
	return nil
}

// SetPassword resets a user's password through the admin REST API.
func (c *Client) SetPassword(ctx context.Context, userID string, password string) error {
	return c.adminPut(ctx, fmt.Sprintf("/users/%s/reset-password", userID), createUserCredentials{
		Type:      "password",
		Value:     password,
		Temporary: false,
	})
}

type updateUserRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// UpdateUser pushes a changed username or email to the identity provider so
// logins keep working after a profile update. Empty fields are left untouched.
func (c *Client) UpdateUser(ctx context.Context, userID string, username, email string) error {
	return c.adminPut(ctx, fmt.Sprintf("/users/%s", userID), updateUserRequest{
		Username: username,
		Email:    email,
	})
}
