package logging

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(Config{Component: "api-server", Level: "loud"})
	require.Error(t, err)

	logger, err := NewLogger(Config{Component: "api-server", Level: "WARN"})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestSeverityEncoderMapsZapLevels(t *testing.T) {
	arr := &stringArrayEncoder{}

	severityEncoder(zapcore.WarnLevel, arr)
	severityEncoder(zapcore.FatalLevel, arr)
	severityEncoder(zapcore.DPanicLevel, arr)
	require.Equal(t, []string{"WARNING", "CRITICAL", "ALERT"}, arr.values)
}

func TestRequestLoggerStoresContextLogger(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	var sawLogger bool
	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawLogger = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/budgets", nil))

	require.True(t, sawLogger)
	entries := observed.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "/budgets", fields["path"])
	require.EqualValues(t, http.StatusNoContent, fields["status"])
}

func TestFromRequestFallsBack(t *testing.T) {
	fallback := zap.NewNop()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Same(t, fallback, FromRequest(r, fallback))
}

type stringArrayEncoder struct {
	zapcore.PrimitiveArrayEncoder
	values []string
}

func (e *stringArrayEncoder) AppendString(s string) {
	e.values = append(e.values, s)
}
