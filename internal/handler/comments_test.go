package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Linksy/social-service/internal/dto"
	"github.com/Linksy/social-service/internal/model"
	"github.com/Linksy/social-service/internal/service"
	"github.com/gin-gonic/gin"
)

type stubCommentService struct {
	updated   *model.FullComment
	updateErr error
	deleteErr error

	gotCommentID int64
	gotUserID    int64
	gotContent   string
}

func (s *stubCommentService) Create(ctx context.Context, postID int64, userID int64, content string) (*model.FullComment, error) {
	return nil, nil
}

func (s *stubCommentService) FindPostComments(ctx context.Context, postID int64) ([]*model.FullComment, error) {
	return nil, nil
}

func (s *stubCommentService) Update(ctx context.Context, commentID int64, userID int64, content string) (*model.FullComment, error) {
	s.gotCommentID = commentID
	s.gotUserID = userID
	s.gotContent = content
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.updated, nil
}

func (s *stubCommentService) Delete(ctx context.Context, commentID int64, userID int64) error {
	s.gotCommentID = commentID
	s.gotUserID = userID
	return s.deleteErr
}

// testRouter wires a handler with the middleware replaced by a fixed user.
func testRouter(h *Handler, user model.User, register func(r *gin.Engine, withUser gin.HandlerFunc)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r, func(c *gin.Context) {
		c.Set("user", user)
		c.Next()
	})
	return r
}

func TestCommentsUpdate_ReturnsMappedComment(t *testing.T) {
	stub := &stubCommentService{
		updated: &model.FullComment{
			Comment: model.Comment{ID: 5, Content: "edited", PostID: 2, UserID: 7},
			Author:  model.Author{ID: 7, Username: "ann"},
		},
	}
	h := New(&service.Service{Comment: stub})
	r := testRouter(h, model.User{ID: 7, Username: "ann"}, func(r *gin.Engine, withUser gin.HandlerFunc) {
		r.PUT("/comments/:commentID", withUser, h.commentsUpdate)
	})

	req := httptest.NewRequest(http.MethodPut, "/comments/5", strings.NewReader(`{"content":"edited"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.gotCommentID != 5 || stub.gotUserID != 7 || stub.gotContent != "edited" {
		t.Fatalf("service called with comment=%d user=%d content=%q", stub.gotCommentID, stub.gotUserID, stub.gotContent)
	}

	var resp dto.CommentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != 5 || resp.Content != "edited" || resp.Username != "ann" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCommentsUpdate_ForbiddenMapsTo403(t *testing.T) {
	stub := &stubCommentService{updateErr: service.ErrForbidden}
	h := New(&service.Service{Comment: stub})
	r := testRouter(h, model.User{ID: 9}, func(r *gin.Engine, withUser gin.HandlerFunc) {
		r.PUT("/comments/:commentID", withUser, h.commentsUpdate)
	})

	req := httptest.NewRequest(http.MethodPut, "/comments/5", strings.NewReader(`{"content":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestCommentsDelete_ReturnsNoContent(t *testing.T) {
	stub := &stubCommentService{}
	h := New(&service.Service{Comment: stub})
	r := testRouter(h, model.User{ID: 7}, func(r *gin.Engine, withUser gin.HandlerFunc) {
		r.DELETE("/comments/:commentID", withUser, h.commentsDelete)
	})

	req := httptest.NewRequest(http.MethodDelete, "/comments/5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", w.Body.String())
	}
}
