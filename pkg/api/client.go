package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Client is the remote API boundary: it issues authenticated requests to the
// Linksy backend and owns no view state.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type errorEnvelope struct {
	Details string `json:"details"`
	Detail  string `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RequestError{Message: err.Error()}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Message: err.Error()}
	}

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &RequestError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("malformed response: %s", err.Error())}
	}

	return nil
}

func statusError(status int, body []byte) error {
	var envelope errorEnvelope
	_ = json.Unmarshal(body, &envelope)
	message := envelope.Details
	if message == "" {
		message = envelope.Detail
	}
	if message == "" {
		message = http.StatusText(status)
	}

	switch {
	case status == http.StatusNotFound:
		return &NotFoundError{Message: message}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &ValidationError{Message: message}
	default:
		return &RequestError{StatusCode: status, Message: message}
	}
}

func jsonBody(v interface{}) (io.Reader, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(encoded), nil
}

// Login exchanges credentials for a token via the backend, which delegates to
// the identity provider. The token is retained for subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token Token
	if err := c.do(ctx, http.MethodPost, "/auth/token", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &token); err != nil {
		return nil, err
	}
	c.SetToken(token.AccessToken)

	return &token, nil
}

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	body, err := jsonBody(req)
	if err != nil {
		return &RequestError{Message: err.Error()}
	}
	return c.do(ctx, http.MethodPost, "/auth/register", body, "application/json", nil)
}

func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.do(ctx, http.MethodGet, "/posts/", nil, "", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) MyPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.do(ctx, http.MethodGet, "/posts/me", nil, "", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) Post(ctx context.Context, postID int64) (*Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", postID), nil, "", &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Upload is an image attachment for a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

func (c *Client) CreatePost(ctx context.Context, title, content string, image *Upload) (*Post, error) {
	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	if err := writer.WriteField("title", title); err != nil {
		return nil, &RequestError{Message: err.Error()}
	}
	if err := writer.WriteField("content", content); err != nil {
		return nil, &RequestError{Message: err.Error()}
	}
	if image != nil {
		fileWriter, err := writer.CreateFormFile("image", image.Filename)
		if err != nil {
			return nil, &RequestError{Message: err.Error()}
		}
		if _, err := io.Copy(fileWriter, image.Reader); err != nil {
			return nil, &RequestError{Message: err.Error()}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, &RequestError{Message: err.Error()}
	}

	var post Post
	if err := c.do(ctx, http.MethodPost, "/posts/", &requestBody, writer.FormDataContentType(), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

type updatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (c *Client) UpdatePost(ctx context.Context, postID int64, title, content string) (*Post, error) {
	body, err := jsonBody(updatePostRequest{Title: title, Content: content})
	if err != nil {
		return nil, &RequestError{Message: err.Error()}
	}

	var post Post
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", postID), body, "application/json", &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, postID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", postID), nil, "", nil)
}

// Comments returns the full comment list for a post, newest first. Any
// truncation for display is the caller's concern.
func (c *Client) Comments(ctx context.Context, postID int64) ([]Comment, error) {
	var comments []Comment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/comments/posts/%d", postID), nil, "", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

type createCommentRequest struct {
	Content string `json:"content"`
}

func (c *Client) CreateComment(ctx context.Context, postID int64, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Message: "comment content must not be empty"}
	}

	body, err := jsonBody(createCommentRequest{Content: text})
	if err != nil {
		return nil, &RequestError{Message: err.Error()}
	}

	var comment Comment
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/comments/posts/%d", postID), body, "application/json", &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/comments/%d", commentID), nil, "", nil)
}

// ToggleLike flips the current user's like on a post. The returned status is
// authoritative: toggling twice returns to the original state.
func (c *Client) ToggleLike(ctx context.Context, postID int64) (*LikeStatus, error) {
	var status LikeStatus
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/likes/posts/%d", postID), nil, "", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) LikeStatus(ctx context.Context, postID int64) (*LikeStatus, error) {
	var status LikeStatus
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/likes/posts/%d/status", postID), nil, "", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// PostImageURL resolves a post's image to a presigned URL. The URL is an
// opaque reference; callers must not parse it.
func (c *Client) PostImageURL(ctx context.Context, postID int64) (*ImageURL, error) {
	var image ImageURL
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d/image-url", postID), nil, "", &image); err != nil {
		return nil, err
	}
	return &image, nil
}

func (c *Client) ProfilePictureURL(ctx context.Context, userID int64) (*ImageURL, error) {
	var image ImageURL
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/profile-picture-url", userID), nil, "", &image); err != nil {
		return nil, err
	}
	return &image, nil
}
