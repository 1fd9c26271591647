package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", "text", nil)
	assert.Error(t, err)
}

func TestWithContextCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("debug", "json", &buf)
	require.NoError(t, err)
	prev := L()
	SetDefault(logger)
	defer SetDefault(prev)

	ctx := WithFields(context.Background(), logrus.Fields{"session_id": "s-1"})
	ctx = WithFields(ctx, logrus.Fields{"component": "ws"})
	WithContext(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "s-1", line["session_id"])
	assert.Equal(t, "ws", line["component"])
}

func TestMiddlewareLogsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("info", "json", &buf)
	require.NoError(t, err)
	prev := L()
	SetDefault(logger)
	defer SetDefault(prev)

	handler := middleware.RequestID(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/questions", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "/api/questions", line["path"])
	assert.EqualValues(t, 500, line["status"])
	assert.NotEmpty(t, line["request_id"])
}
