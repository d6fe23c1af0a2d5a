package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dividee/dividee/pkg/middleware"
)

func postNotification(t *testing.T, h *Handler, callerID int64, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if callerID > 0 {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, callerID))
	}
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func TestCreateNotificationForSelf(t *testing.T) {
	repo := newFakeNotificationRepo()
	h := NewHandler(NewService(repo))

	rec := postNotification(t, h, 1, `{"user_id":1,"title":"Hi","message":"there","type":"system"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(repo.notifications) != 1 {
		t.Fatalf("expected one notification stored, got %d", len(repo.notifications))
	}
}

func TestCreateNotificationForOtherUserForbidden(t *testing.T) {
	repo := newFakeNotificationRepo()
	h := NewHandler(NewService(repo))

	rec := postNotification(t, h, 1, `{"user_id":2,"title":"Hi","message":"there","type":"system"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(repo.notifications) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(repo.notifications))
	}
}

func TestCreateNotificationUnauthenticated(t *testing.T) {
	h := NewHandler(NewService(newFakeNotificationRepo()))

	rec := postNotification(t, h, 0, `{"user_id":1,"title":"Hi","message":"there","type":"system"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
