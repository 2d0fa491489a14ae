package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nshahpazov/nyc-bikership-analysis/config"
)

func TestNewWithWriterProd(t *testing.T) {
	cfg := config.Default()
	cfg.AppEnv = "prod"

	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, cfg, "1.2.0", "bikestats")
	require.NoError(t, err)

	logger.Info("report built", "days", 29)
	logger.Debug("hidden at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "report built", entry["msg"])
	assert.Equal(t, "bikestats", entry["app"])
	assert.Equal(t, "1.2.0", entry["version"])
	assert.Equal(t, "prod", entry["env"])
	assert.Equal(t, float64(29), entry["days"])
}

func TestNewWithWriterDev(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "debug"

	var buf bytes.Buffer
	logger, err := NewWithWriter(&buf, cfg, "dev", "bikestats")
	require.NoError(t, err)

	logger.Debug("task finished", "task", "count per day")
	out := buf.String()
	assert.Contains(t, out, "task finished")
	assert.Contains(t, out, "count per day")
	assert.Contains(t, out, "bikestats")
}

func TestNewWithWriterBadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "chatty"

	_, err := NewWithWriter(&bytes.Buffer{}, cfg, "dev", "bikestats")
	assert.Error(t, err)
}
