package users

import (
	"context"
	"log/slog"
)

// Notifier delivers the new-account notification.
type Notifier interface {
	NewUser(ctx context.Context, u User) error
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier records notifications in the log instead of sending mail.
func NewLogNotifier(logger *slog.Logger) Notifier {
	return &logNotifier{logger: logger.With("notifier", "users")}
}

func (n *logNotifier) NewUser(ctx context.Context, u User) error {
	n.logger.InfoContext(ctx, "new user notification",
		"user", u.ID,
		"username", u.Username,
		"email", u.Email,
	)
	return nil
}

type discard struct{}

func (discard) NewUser(context.Context, User) error { return nil }

// Discard drops every notification.
var Discard Notifier = discard{}
