package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"team_rotator/internal/domain/rotation"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"TIMEZONE": "UTC"}))
	require.NoError(t, err)

	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "0 9 * * *", cfg.CronSpecRotation)
	require.True(t, cfg.CheckWorkingDay)
	require.Equal(t, rotation.StepPolicyMulti, cfg.StepPolicy)
	require.Equal(t, 5*time.Minute, cfg.CacheTTL)
	require.Equal(t, 24*time.Hour, cfg.HolidayCacheTTL)
	require.Equal(t, 2*time.Minute, cfg.JobTimeout)
	require.Equal(t, defaultHolidayAPIURL, cfg.HolidayAPIURL)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, time.UTC, cfg.Location)
	require.Equal(t, 10, cfg.DBMaxOpenConns)
	require.Zero(t, cfg.DBMaxIdleConns)
	require.Equal(t, 5*time.Minute, cfg.DBConnLifetime)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"LOG_LEVEL":            "DEBUG",
		"ROTATION_STEP_POLICY": "single",
		"CHECK_WORKING_DAY":    "false",
		"HOLIDAY_API_URL":      "http://holidays.local/",
		"TELEGRAM_TOKEN":       "token",
		"ADMIN_TELEGRAM_ID":    "42",
		"TIMEZONE":             "Asia/Shanghai",
		"DB_MAX_OPEN_CONNS":    "20",
		"DB_MAX_IDLE_CONNS":    "4",
	}))
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, rotation.StepPolicySingle, cfg.StepPolicy)
	require.False(t, cfg.CheckWorkingDay)
	require.Equal(t, "http://holidays.local", cfg.HolidayAPIURL)
	require.Equal(t, int64(42), cfg.AdminTelegramID)
	require.Equal(t, "Asia/Shanghai", cfg.Location.String())
	require.Equal(t, 20, cfg.DBMaxOpenConns)
	require.Equal(t, 4, cfg.DBMaxIdleConns)
}

func TestFromLookup_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad policy":        {"ROTATION_STEP_POLICY": "random"},
		"bad ttl":           {"CACHE_TTL": "soon"},
		"negative ttl":      {"HOLIDAY_CACHE_TTL": "-1h"},
		"zero job timeout":  {"JOB_TIMEOUT": "0s"},
		"bad bool":          {"CHECK_WORKING_DAY": "maybe"},
		"bad admin id":      {"ADMIN_TELEGRAM_ID": "abc"},
		"token without id":  {"TELEGRAM_TOKEN": "token"},
		"unknown time zone": {"TIMEZONE": "Mars/Olympus"},
		"bad pool size":     {"DB_MAX_OPEN_CONNS": "ten"},
		"negative idle":     {"DB_MAX_IDLE_CONNS": "-1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(env))
			require.Error(t, err)
		})
	}
}
