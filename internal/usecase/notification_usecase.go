package usecase

import (
	"context"
	"log"
	"net/mail"
	"strings"
)

type Notifier interface {
	Send(ctx context.Context, recipient, subject, htmlBody string) error
}

type EmailInput struct {
	To      string
	Subject string
	HTML    string
}

type NotificationUsecase interface {
	SendEmail(ctx context.Context, in EmailInput) error
}

type Notification struct {
	notifier Notifier
	logger   *log.Logger
}

func NewNotificationUsecase(notifier Notifier, logger *log.Logger) *Notification {
	return &Notification{notifier: notifier, logger: logger}
}

func (u *Notification) SendEmail(ctx context.Context, in EmailInput) error {
	to := strings.TrimSpace(in.To)
	subject := strings.TrimSpace(in.Subject)
	if to == "" || subject == "" || strings.TrimSpace(in.HTML) == "" {
		return ErrInvalidInput
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return ErrInvalidInput
	}
	if u.notifier == nil {
		return ErrNotifierDisabled
	}

	if err := u.notifier.Send(ctx, to, subject, in.HTML); err != nil {
		if u.logger != nil {
			u.logger.Printf("notification status=error to=%q err=%v", to, err)
		}
		return ErrInternal
	}
	if u.logger != nil {
		u.logger.Printf("notification status=ok to=%q", to)
	}
	return nil
}
