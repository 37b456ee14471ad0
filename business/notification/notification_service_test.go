package notification

import (
	"agriVest/domain"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyAndList(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, 1, "Welcome to Agricvest", "Your account has been successfully created."))
	require.NoError(t, svc.Notify(ctx, 2, "Login Successful", "Welcome back"))

	got, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Welcome to Agricvest", got[0].Title)
}

func TestNotifyRepositoryError(t *testing.T) {
	svc := NewNotificationService(&fakeNotifRepo{err: errors.New("db down")})

	err := svc.Notify(context.Background(), 1, "t", "m")
	assert.ErrorContains(t, err, "db down")
}

func TestMarkReadOnlyOwn(t *testing.T) {
	repo := &fakeNotifRepo{}
	svc := NewNotificationService(repo)
	ctx := context.Background()
	require.NoError(t, svc.Notify(ctx, 1, "t", "m"))

	assert.ErrorIs(t, svc.MarkRead(ctx, 1, 2), domain.ErrNotFound)
	assert.NoError(t, svc.MarkRead(ctx, 1, 1))
	assert.True(t, repo.items[0].IsRead)
}
