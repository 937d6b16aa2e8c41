package poe

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestBearerAuth_LogsRejectionWithRequestID(t *testing.T) {
	buf := captureLog(t)
	app := newTestApp(&fakeRunner{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"type":"settings"}`))
	req.Header.Set("Authorization", "Bearer wrong")
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var found bool
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry map[string]any
		if json.Unmarshal(line, &entry) != nil || entry["message"] != "Unauthorized request" {
			continue
		}
		found = true
		assert.Equal(t, "req-42", entry["request_id"])
		assert.Equal(t, "error", entry["level"])
		assert.Equal(t, "POST", entry["method"])
	}
	assert.True(t, found, "no rejection log line in %q", buf.String())
}

func TestBearerAuth_ToleratesExtraWhitespace(t *testing.T) {
	for _, auth := range []string{
		"Bearer  " + testKey,
		"Bearer " + testKey + " ",
		"  Bearer " + testKey,
	} {
		t.Run(auth, func(t *testing.T) {
			resp, _ := do(t, newTestApp(&fakeRunner{}), http.MethodPost, `{"type":"settings"}`, auth)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}

func TestBearerAuth_EmptyTokenAfterScheme(t *testing.T) {
	resp, _ := do(t, newTestApp(&fakeRunner{}), http.MethodPost, `{"type":"settings"}`, "Bearer   ")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
