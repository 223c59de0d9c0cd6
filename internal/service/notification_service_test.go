package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/model"
)

func TestNotificationReadFlow(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewNotificationService(store, nil, zap.NewNop())

	r := store.Repos()
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Push(ctx, r, &model.Notification{
			UserID: 1, Title: "t", Message: "m", Type: model.NotificationInfo,
		}))
	}
	require.NoError(t, svc.Push(ctx, r, &model.Notification{
		UserID: 2, Title: "other", Message: "m", Type: model.NotificationInfo,
	}))

	count, err := svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 3)

	require.NoError(t, svc.MarkRead(ctx, 1, list[0].ID))
	count, err = svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// A user cannot mark someone else's notification.
	assert.Error(t, svc.MarkRead(ctx, 2, list[1].ID))

	require.NoError(t, svc.MarkAllRead(ctx, 1))
	count, err = svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	// User 2's notification is untouched.
	count, err = svc.UnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
