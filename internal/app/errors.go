package app

import "errors"

var (
	// ErrWebhookNotConfigured is returned when no announcement destination is stored or configured.
	ErrWebhookNotConfigured = errors.New("announcement webhook is not configured")
	// ErrNothingToAnnounce is returned when there are no assignments to render.
	ErrNothingToAnnounce = errors.New("no assignments to announce")
)
