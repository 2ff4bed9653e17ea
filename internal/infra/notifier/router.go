package notifier

import (
	"context"
	"fmt"
	"strings"

	"team_rotator/internal/domain/notify"
)

type route struct {
	prefix string
	client notify.Client
}

// Router dispatches a message to the client registered for the destination's prefix.
// Routes are matched in registration order.
type Router struct {
	routes []route
}

var (
	_ notify.Client        = (*Router)(nil)
	_ notify.MentionStyler = (*Router)(nil)
)

func NewRouter() *Router {
	return &Router{}
}

// Route registers client for destinations starting with prefix.
func (r *Router) Route(prefix string, client notify.Client) *Router {
	r.routes = append(r.routes, route{prefix: prefix, client: client})
	return r
}

func (r *Router) match(destination string) (notify.Client, bool) {
	for _, rt := range r.routes {
		if strings.HasPrefix(destination, rt.prefix) {
			return rt.client, true
		}
	}
	return nil, false
}

// MentionStyle returns the mention syntax of the client serving destination, if it has one.
func (r *Router) MentionStyle(destination string) notify.MentionFunc {
	client, ok := r.match(destination)
	if !ok {
		return nil
	}
	if ms, ok := client.(notify.MentionStyler); ok {
		return ms.MentionStyle(destination)
	}
	return nil
}

func (r *Router) SendText(ctx context.Context, destination, body string) error {
	if client, ok := r.match(destination); ok {
		return client.SendText(ctx, destination, body)
	}
	return &notify.DeliveryError{
		Destination: destination,
		Detail:      "unsupported destination",
		Err:         fmt.Errorf("no route for destination scheme in %q", schemeOf(destination)),
	}
}

func schemeOf(destination string) string {
	if i := strings.Index(destination, ":"); i >= 0 {
		return destination[:i]
	}
	return ""
}
