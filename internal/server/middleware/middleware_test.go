package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
	"github.com/ctcl/ctclsite/internal/metrics"
)

type statusRecorder struct {
	metrics.NoopRecorder
	codes []int
}

func (s *statusRecorder) IncHTTPResponse(code int) { s.codes = append(s.codes, code) }

func newChain(buf *bytes.Buffer, rec metrics.Recorder) func(http.Handler) http.Handler {
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	return Chain(logger, ferrors.NewHTTPErrorAdapter(slog.New(slog.NewTextHandler(io.Discard, nil))), rec)
}

func TestChain_AssignsRequestIDAndLogs(t *testing.T) {
	var logs bytes.Buffer
	rec := &statusRecorder{}
	var seen string
	h := newChain(&logs, rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/about", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, seen)
	assert.Equal(t, []int{http.StatusTeapot}, rec.codes)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "HTTP request", entry["msg"])
	assert.Equal(t, "/about", entry["path"])
	assert.Equal(t, id, entry["request_id"])
	assert.InDelta(t, http.StatusTeapot, entry["status"], 0)
}

func TestChain_KeepsClientRequestID(t *testing.T) {
	var logs bytes.Buffer
	h := newChain(&logs, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestChain_RecoversPanics(t *testing.T) {
	var logs bytes.Buffer
	rec := &statusRecorder{}
	h := newChain(&logs, rec)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/explode", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ferrors.HTTPErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal", body.Code)
	assert.Contains(t, logs.String(), "HTTP handler panic")
	assert.Equal(t, []int{http.StatusInternalServerError}, rec.codes)
}
