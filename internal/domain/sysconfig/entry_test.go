package sysconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEntry_Redacted(t *testing.T) {
	cases := map[string]struct {
		value string
		want  string
	}{
		"webhook":     {"https://hooks.slack.com/services/T0/B0/SECRET", "https://hooks.slack.com/..."},
		"query token": {"https://hooks.example?token=abc", "https://hooks.example/..."},
		"bare host":   {"https://hooks.example", "https://hooks.example"},
		"chat":        {"telegram:-100123", "telegram:-100123"},
		"plain":       {"true", "true"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := Entry{Key: KeySlackWebhookURL, Value: tc.value, ModifiedBy: "admin"}
			got := e.Redacted()
			require.Equal(t, tc.want, got.Value)
			require.Equal(t, e.Key, got.Key)
			require.Equal(t, "admin", got.ModifiedBy)
		})
	}
}
