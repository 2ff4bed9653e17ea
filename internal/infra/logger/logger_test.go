package logger

import (
	"bytes"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestConfigure_ProductionWritesJSON(t *testing.T) {
	var out bytes.Buffer
	log := logrus.New()
	Configure(log, &out, "debug", "production")

	require.Equal(t, logrus.DebugLevel, log.GetLevel())
	log.WithField("run_id", "r1").Info("hello")

	var line map[string]any
	require.NoError(t, sonic.Unmarshal(out.Bytes(), &line))
	require.Equal(t, "hello", line["msg"])
	require.Equal(t, "r1", line["run_id"])
}

func TestConfigure_InvalidLevelFallsBackToInfo(t *testing.T) {
	var out bytes.Buffer
	log := logrus.New()
	Configure(log, &out, "loud", "development")

	require.Equal(t, logrus.InfoLevel, log.GetLevel())
	require.Contains(t, out.String(), `Invalid log level \"loud\"`)
	require.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}
