package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/studypartner/backend/internal/model"
)

// Notifier mirrors a notification to an external channel (Telegram).
type Notifier interface {
	Notify(ctx context.Context, chatID int64, title, message string) error
}

type NotificationService struct {
	store    Store
	notifier Notifier // optional
	logger   *zap.Logger
}

func NewNotificationService(store Store, notifier Notifier, logger *zap.Logger) *NotificationService {
	return &NotificationService{store: store, notifier: notifier, logger: logger}
}

// Push appends the notification through the given repository bundle, so it
// joins whatever transaction the caller is in. The Telegram mirror is best
// effort and never fails the transition that produced the notification.
func (s *NotificationService) Push(ctx context.Context, r Repos, n *model.Notification) error {
	if err := r.Notifications.Create(ctx, n); err != nil {
		return err
	}

	if s.notifier == nil {
		return nil
	}

	profile, err := r.Profiles.GetByUserID(ctx, n.UserID)
	if err != nil {
		s.logger.Warn("notification mirror: profile lookup failed", zap.Int64("user_id", n.UserID), zap.Error(err))
		return nil
	}
	if profile == nil || profile.TelegramChatID == nil {
		return nil
	}

	chatID := *profile.TelegramChatID
	title, message := n.Title, n.Message
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.Notify(sendCtx, chatID, title, message); err != nil {
			s.logger.Warn("telegram notify failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}()

	return nil
}

func (s *NotificationService) List(ctx context.Context, userID int64) ([]*model.Notification, error) {
	return s.store.Repos().Notifications.ListByUser(ctx, userID, 20)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	return s.store.Repos().Notifications.MarkRead(ctx, notificationID, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.store.Repos().Notifications.MarkAllRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.store.Repos().Notifications.CountUnread(ctx, userID)
}
