package notify

import (
	"context"
	"fmt"
)

// Client delivers a plain text message to a destination (webhook URL, chat reference).
// This keeps application logic independent of the concrete transport.
type Client interface {
	SendText(ctx context.Context, destination, body string) error
}

// MentionFunc renders a reference to a member inside a message.
type MentionFunc func(displayName, handle string) string

// MentionStyler is implemented by clients whose transport has its own mention syntax.
// A nil result means the destination uses the default syntax.
type MentionStyler interface {
	MentionStyle(destination string) MentionFunc
}

// DeliveryError reports a message the destination refused or could not receive.
type DeliveryError struct {
	Destination string
	StatusCode  int // 0 when the request never got a response
	Detail      string
	Err         error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("delivery failed: status %d: %s", e.StatusCode, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("delivery failed: %v", e.Err)
	}
	return "delivery failed: " + e.Detail
}

func (e *DeliveryError) Unwrap() error { return e.Err }
