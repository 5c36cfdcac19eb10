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

type stubUserService struct {
	user              *model.User
	updateErr         error
	changePasswordErr error
	deletePictureErr  error

	gotUserID int64
	gotUpdate dto.UpdateUserRequest
}

func (s *stubUserService) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return s.user, nil
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID int64, input dto.UpdateUserRequest) (*model.User, error) {
	s.gotUserID = userID
	s.gotUpdate = input
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.user, nil
}

func (s *stubUserService) ChangePassword(ctx context.Context, userID int64, input dto.ChangePasswordRequest) error {
	s.gotUserID = userID
	return s.changePasswordErr
}

func (s *stubUserService) UpdateProfilePicture(ctx context.Context, userID int64, image service.ImageUpload) (string, error) {
	return "", nil
}

func (s *stubUserService) DeleteProfilePicture(ctx context.Context, userID int64) (*model.User, error) {
	s.gotUserID = userID
	if s.deletePictureErr != nil {
		return nil, s.deletePictureErr
	}
	return s.user, nil
}

func (s *stubUserService) ProfilePictureURL(ctx context.Context, userID int64) (*dto.ImageURLResponse, error) {
	s.gotUserID = userID
	return &dto.ImageURLResponse{URL: "http://example/presigned", ObjectName: "users/7/pic.png"}, nil
}

func TestUsersUpdateProfile_ReturnsUpdatedUser(t *testing.T) {
	stub := &stubUserService{user: &model.User{ID: 7, Username: "ann.lee", Email: "ann@example.com"}}
	h := New(&service.Service{User: stub})
	r := testRouter(h, model.User{ID: 7}, func(r *gin.Engine, withUser gin.HandlerFunc) {
		r.PUT("/users/me", withUser, h.usersUpdateProfile)
	})

	req := httptest.NewRequest(http.MethodPut, "/users/me", strings.NewReader(`{"username":"ann.lee"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.gotUserID != 7 || stub.gotUpdate.Username != "ann.lee" {
		t.Fatalf("service called with user=%d update=%+v", stub.gotUserID, stub.gotUpdate)
	}

	var resp dto.UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Username != "ann.lee" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestUsersChangePassword_MismatchMapsTo400(t *testing.T) {
	stub := &stubUserService{changePasswordErr: service.ErrPasswordMismatch}
	h := New(&service.Service{User: stub})
	r := testRouter(h, model.User{ID: 7}, func(r *gin.Engine, withUser gin.HandlerFunc) {
		r.PUT("/users/change-password", withUser, h.usersChangePassword)
	})

	body := `{"current_password":"old-secret","new_password":"new-secret-1","new_password_confirm":"new-secret-2"}`
	req := httptest.NewRequest(http.MethodPut, "/users/change-password", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUsersDeleteProfilePicture_NotFoundMapsTo404(t *testing.T) {
	stub := &stubUserService{deletePictureErr: service.ErrNoProfilePicture}
	h := New(&service.Service{User: stub})
	r := testRouter(h, model.User{ID: 7}, func(r *gin.Engine, withUser gin.HandlerFunc) {
		r.DELETE("/users/me/profile-picture", withUser, h.usersDeleteProfilePicture)
	})

	req := httptest.NewRequest(http.MethodDelete, "/users/me/profile-picture", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestUsersMyProfilePictureURL_ResolvesOwnPicture(t *testing.T) {
	stub := &stubUserService{}
	h := New(&service.Service{User: stub})
	r := testRouter(h, model.User{ID: 7}, func(r *gin.Engine, withUser gin.HandlerFunc) {
		r.GET("/users/me/profile-picture-url", withUser, h.usersMyProfilePictureURL)
	})

	req := httptest.NewRequest(http.MethodGet, "/users/me/profile-picture-url", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if stub.gotUserID != 7 {
		t.Fatalf("expected lookup for the authenticated user, got %d", stub.gotUserID)
	}

	var resp dto.ImageURLResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ObjectName != "users/7/pic.png" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
