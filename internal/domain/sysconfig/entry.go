package sysconfig

import (
	"errors"
	"net/url"
	"time"
)

// Well-known configuration keys.
const (
	KeySlackWebhookURL         = "Slack:WebhookUrl"
	KeySlackPersonalWebhookURL = "Slack:PersonalWebhookUrl"
)

// ErrNotFound is returned when a configuration key has no stored value.
var ErrNotFound = errors.New("config entry not found")

// Entry is a single key/value system setting.
type Entry struct {
	Key          string    `json:"key" yaml:"key"`
	Value        string    `json:"value" yaml:"value"`
	LastModified time.Time `json:"lastModified" yaml:"lastModified"`
	ModifiedBy   string    `json:"modifiedBy,omitempty" yaml:"modifiedBy"`
}

// Redacted returns e with a URL value cut down to its scheme and host, keeping webhook tokens out of listings.
// Other values are returned unchanged.
func (e Entry) Redacted() Entry {
	u, err := url.Parse(e.Value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return e
	}
	if u.Path == "" && u.RawQuery == "" && u.User == nil {
		return e
	}
	e.Value = u.Scheme + "://" + u.Host + "/..."
	return e
}
