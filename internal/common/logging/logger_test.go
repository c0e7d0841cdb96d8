// filename: internal/common/logging/logger_test.go
package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(Config{Level: "debug", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	_, err = NewLogger(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "honeydash.log")
	logger, err := NewLogger(Config{Level: "info", Format: "text", Output: path})
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestLogger_DomainFields(t *testing.T) {
	logger := NewNop()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.WithSource("cowrie.ndjson").WithField("line", 3).Warn("Skipping invalid NDJSON line")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "cowrie.ndjson", entry["source"])
	assert.Equal(t, float64(3), entry["line"])
	assert.Equal(t, "warning", entry["level"])

	buf.Reset()
	logger.WithDataset(10, 4, 1).Info("Dataset loaded")
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, float64(10), entry["events"])
	assert.Equal(t, float64(1), entry["dropped"])
}

func TestLogger_SetLevel(t *testing.T) {
	logger := NewNop()
	require.NoError(t, logger.SetLevel("error"))
	assert.Equal(t, logrus.ErrorLevel, logger.GetLevel())
	assert.Error(t, logger.SetLevel("nope"))
}
