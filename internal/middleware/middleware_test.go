package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/couplecards/internal/testutil"
)

func TestLogging_AssignsRequestID(t *testing.T) {
	recorder, logger := testutil.NewLogRecorder()
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))

	records := recorder.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "http request", records[0]["msg"])
	assert.Equal(t, float64(http.StatusTeapot), records[0]["status"])
	assert.Equal(t, float64(2), records[0]["size"])
	assert.Equal(t, rr.Header().Get(RequestIDHeader), records[0]["request_id"])
}

func TestLogging_KeepsCallerRequestID(t *testing.T) {
	_, logger := testutil.NewLogRecorder()
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

func TestLogging_ServerErrorsLoggedAtErrorLevel(t *testing.T) {
	recorder, logger := testutil.NewLogRecorder()
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, 1, recorder.Count(slog.LevelError, "http request"))
}

func TestRecovery_WritesPanicResponse(t *testing.T) {
	recorder, logger := testutil.NewLogRecorder()
	handler := Recovery(logger, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, 1, recorder.Count(slog.LevelError, "handler panicked"))
}
