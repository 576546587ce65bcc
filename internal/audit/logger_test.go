package audit

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = original })
	return &buf
}

func TestLogFromRequest(t *testing.T) {
	buf := captureLog(t)

	req := httptest.NewRequest("POST", "/api/admin/delete/SN-1", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	req.Header.Set("User-Agent", "console/1.0")

	LogFromRequest(req, Event{
		Type:    EventSerialDelete,
		Admin:   "admin",
		Details: map[string]interface{}{"sn": "SN-1", "count": 1},
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "security", entry["audit"])
	assert.Equal(t, "serial_delete", entry["event_type"])
	assert.Equal(t, "admin", entry["admin"])
	assert.Equal(t, "203.0.113.7", entry["ip"])
	assert.Equal(t, "console/1.0", entry["user_agent"])
	assert.Equal(t, "SN-1", entry["sn"])
	assert.Equal(t, float64(1), entry["count"])
}

func TestLogOmitsEmptyFields(t *testing.T) {
	buf := captureLog(t)

	LogFromRequest(httptest.NewRequest("POST", "/", nil), Event{Type: EventRateLimitReset})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "admin")
	assert.Equal(t, "rate_limit_reset", entry["event_type"])
}
