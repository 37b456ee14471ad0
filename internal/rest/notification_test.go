package rest

import (
	"agriVest/domain"
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeNotificationService struct {
	items []domain.Notification
}

func (f *fakeNotificationService) ListForUser(_ context.Context, userID uint) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationService) MarkRead(_ context.Context, id, userID uint) error {
	for i, n := range f.items {
		if n.ID == id && n.UserID == userID {
			f.items[i].IsRead = true
			return nil
		}
	}
	return fmt.Errorf("notification %w", domain.ErrNotFound)
}

func TestNotificationHandlers(t *testing.T) {
	svc := &fakeNotificationService{items: []domain.Notification{
		{ID: 1, UserID: 1, Title: "Login Successful"},
		{ID: 2, UserID: 2, Title: "Welcome to Agricvest"},
	}}
	h := NewNotificationHandler(svc)

	rec := call(t, h.ListMine, http.MethodGet, "/api/v1/notifications", "", &testFarmer)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Login Successful")
	assert.NotContains(t, rec.Body.String(), "Welcome to Agricvest")

	rec = call(t, h.MarkRead, http.MethodPatch, "/api/v1/notifications/2/read", "", &testFarmer, "2")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, svc.items[1].IsRead)

	rec = call(t, h.MarkRead, http.MethodPatch, "/api/v1/notifications/1/read", "", &testFarmer, "1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.items[0].IsRead)
}
