package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"team_rotator/internal/domain/notify"
)

type recorder struct {
	got []string
}

func (r *recorder) SendText(_ context.Context, destination, _ string) error {
	r.got = append(r.got, destination)
	return nil
}

func TestRouter_DispatchesByPrefix(t *testing.T) {
	web, chat := &recorder{}, &recorder{}
	r := NewRouter().
		Route("https://", web).
		Route("http://", web).
		Route("telegram:", chat)
	ctx := context.Background()

	require.NoError(t, r.SendText(ctx, "https://hooks.slack.com/services/x", "a"))
	require.NoError(t, r.SendText(ctx, "http://localhost:9000/hook", "b"))
	require.NoError(t, r.SendText(ctx, "telegram:42", "c"))

	require.Equal(t, []string{"https://hooks.slack.com/services/x", "http://localhost:9000/hook"}, web.got)
	require.Equal(t, []string{"telegram:42"}, chat.got)
}

type styledRecorder struct {
	recorder
}

func (styledRecorder) MentionStyle(string) notify.MentionFunc {
	return func(displayName, _ string) string { return "*" + displayName + "*" }
}

func TestRouter_MentionStyle(t *testing.T) {
	r := NewRouter().
		Route("https://", &recorder{}).
		Route("telegram:", &styledRecorder{})

	require.Nil(t, r.MentionStyle("https://hooks.slack.com/services/x"))
	require.Nil(t, r.MentionStyle("mailto:team@example.com"))

	style := r.MentionStyle("telegram:42")
	require.NotNil(t, style)
	require.Equal(t, "*Ann*", style("Ann", "U1"))
}

func TestRouter_UnknownDestination(t *testing.T) {
	err := NewRouter().Route("https://", &recorder{}).SendText(context.Background(), "mailto:team@example.com", "x")

	var de *notify.DeliveryError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "unsupported destination", de.Detail)
	require.NotContains(t, err.Error(), "team@example.com")
}
