// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/taibuivan/stockify/internal/platform/ctxutil"
)

// LogNotifier is the shipped [ResetNotifier]. There is no mail transport; the
// reset link is written to the log in development only.
type LogNotifier struct {
	resetURLBase string
	development  bool
}

// NewLogNotifier builds reset links from resetURLBase (e.g. https://stockify.app/reset-password).
func NewLogNotifier(resetURLBase string, development bool) *LogNotifier {
	return &LogNotifier{resetURLBase: resetURLBase, development: development}
}

// NotifyPasswordReset logs that a reset was requested, with the link in development.
func (notifier *LogNotifier) NotifyPasswordReset(context context.Context, email, token string) error {
	logger := ctxutil.GetLogger(context)

	if !notifier.development {
		logger.InfoContext(context, "password_reset_requested")
		return nil
	}

	link := notifier.resetURLBase + "?" + url.Values{"token": {token}}.Encode()
	logger.InfoContext(context, "password_reset_link",
		slog.String("email", email),
		slog.String("link", link),
	)

	return nil
}
