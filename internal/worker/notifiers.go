package worker

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/zlog"
)

type emailSender interface {
	Send(to, subject, body string) error
}

type telegramSender interface {
	Send(ctx context.Context, chatID, text string) error
}

// LogNotifier writes fired reminders to the application log.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, title, body string) error {
	zlog.Logger.Info().Str("title", title).Str("body", body).Msg("reminder fired")
	return nil
}

// EmailNotifier mails fired reminders to a fixed recipient.
type EmailNotifier struct {
	client emailSender
	to     string
}

func NewEmailNotifier(client emailSender, to string) *EmailNotifier {
	return &EmailNotifier{client: client, to: to}
}

func (n *EmailNotifier) Send(_ context.Context, title, body string) error {
	if err := n.client.Send(n.to, title, body); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}

// TelegramNotifier posts fired reminders to a Telegram chat.
type TelegramNotifier struct {
	client telegramSender
	chatID string
}

func NewTelegramNotifier(client telegramSender, chatID string) *TelegramNotifier {
	return &TelegramNotifier{client: client, chatID: chatID}
}

func (n *TelegramNotifier) Send(ctx context.Context, title, body string) error {
	if err := n.client.Send(ctx, n.chatID, title+"\n"+body); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}
