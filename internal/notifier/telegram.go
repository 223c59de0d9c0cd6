// Package notifier mirrors in-app notifications to external channels.
package notifier

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// Telegram delivers notification copies to a user's linked Telegram chat.
type Telegram struct {
	bot *bot.Bot
}

func NewTelegram(token string) (*Telegram, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{bot: b}, nil
}

func (t *Telegram) Notify(ctx context.Context, chatID int64, title, message string) error {
	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   title + "\n\n" + message,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
