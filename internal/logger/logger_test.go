package logger

import (
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, Level("debug"))
	assert.Equal(t, logrus.WarnLevel, Level("WARN"))
	assert.Equal(t, logrus.ErrorLevel, Level("error"))
	assert.Equal(t, logrus.TraceLevel, Level("trace"))
	assert.Equal(t, logrus.InfoLevel, Level(""))
	assert.Equal(t, logrus.InfoLevel, Level("bogus"))
}

func TestNewWithOptions_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats")
	log := NewWithOptions(Options{Environment: "production", Level: "debug", File: path})

	assert.IsType(t, &logrus.JSONFormatter{}, log.Logger.Formatter)
	assert.Equal(t, logrus.DebugLevel, log.Logger.GetLevel())

	log.Component("test").Info("hello")

	data, err := os.ReadFile(path + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestWithRequest_UsesHeaderID(t *testing.T) {
	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")

	entry := Nop().WithRequest(req)
	assert.Equal(t, "abc-123", entry.Data["req_id"])
	assert.Equal(t, "/healthz", entry.Data["path"])

	req.Header.Del("X-Request-ID")
	entry = Nop().WithRequest(req)
	assert.NotEmpty(t, entry.Data["req_id"])
}

func TestWithError(t *testing.T) {
	log := Nop()
	assert.Same(t, log.Entry, log.WithError(nil))
	assert.Equal(t, "boom", log.WithError(errors.New("boom")).Data["error"])
}
