package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingHandler records the last log record for assertions.
type capturingHandler struct {
	record slog.Record
}

func (h *capturingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	h.record = r.Clone()
	return nil
}

func (h *capturingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(_ string) slog.Handler { return h }

func TestLoggingMiddleware(t *testing.T) {
	var captured capturingHandler
	logger := slog.New(&captured)

	tests := []struct {
		name          string
		handlerStatus int
		method        string
		path          string
		body          string
	}{
		{"created", http.StatusCreated, http.MethodPost, "/events/ev-1/rsvps", `{"status":"pending"}`},
		{"listing", http.StatusOK, http.MethodGet, "/events", `[]`},
		{"server error", http.StatusInternalServerError, http.MethodPost, "/auth/login", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
				if tt.body != "" {
					w.Write([]byte(tt.body))
				}
			})
			handler := LoggingMiddleware(logger, next)
			req := httptest.NewRequest(tt.method, "http://test"+tt.path, nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.handlerStatus, rr.Code)
			require.Equal(t, "request", captured.record.Message)
			attrs := make(map[string]slog.Value)
			captured.record.Attrs(func(a slog.Attr) bool {
				attrs[a.Key] = a.Value
				return true
			})
			assert.Equal(t, tt.method, attrs["method"].String())
			assert.Equal(t, tt.path, attrs["path"].String())
			assert.Equal(t, int64(tt.handlerStatus), attrs["status"].Int64())
			assert.Equal(t, int64(len(tt.body)), attrs["bytes"].Int64())
			assert.GreaterOrEqual(t, attrs["duration_ms"].Int64(), int64(0))
		})
	}
}
