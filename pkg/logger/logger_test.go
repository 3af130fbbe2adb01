package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONByDefault(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("debug", "", &buf)

	log.WithField("file_id", "abc").Info("File created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "File created", entry["msg"])
	assert.Equal(t, "abc", entry["file_id"])
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNew_TextAndBadLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("loud", "TEXT", &buf)

	log.Debug("hidden")
	log.Info("shown")

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}
