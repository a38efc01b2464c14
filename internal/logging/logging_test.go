package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "json", &buf)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("isbn", "9780134190440").Info("book added")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "book added", entry["msg"])
	assert.Equal(t, "9780134190440", entry["isbn"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", "text", &buf)

	log.Debug("hidden")
	log.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestNew_UnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("loud", "text", &buf)

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "unknown log level")
}
