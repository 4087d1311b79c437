package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("attaches a request scoped logger to the context", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buf, nil))

		var sawLogger bool
		handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawLogger = LoggerFromContext(r.Context()) != nil
			w.WriteHeader(http.StatusNoContent)
		}))

		req := httptest.NewRequest(http.MethodGet, "/rooms/KXWQZM", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if !sawLogger {
			t.Fatal("expected a logger in the request context")
		}
		logs := buf.String()
		if !strings.Contains(logs, "request started") || !strings.Contains(logs, "request completed") {
			t.Fatalf("expected start and completion entries, got: %s", logs)
		}
		if !strings.Contains(logs, `"path":"/rooms/KXWQZM"`) {
			t.Fatalf("expected the request path in log attributes, got: %s", logs)
		}
	})

	t.Run("assigns increasing request identifiers", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&buf, nil))
		handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		}

		logs := buf.String()
		if !strings.Contains(logs, `"request_id":1`) || !strings.Contains(logs, `"request_id":2`) {
			t.Fatalf("expected sequential request identifiers, got: %s", logs)
		}
	})
}
