package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pocamarket-backend/pkg/ctxutil"
)

// requestLog collects fields that inner middleware learn after Logger has
// handed the request on, such as the authenticated user.
type requestLog struct {
	userID uuid.UUID
}

type requestLogKey struct{}

func requestLogFrom(ctx context.Context) *requestLog {
	rl, _ := ctx.Value(requestLogKey{}).(*requestLog)
	return rl
}

// Logger logs one "http.request" record per request. Feed requests also log
// the page size asked for and whether a cursor was sent, never the cursor.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			fields := &requestLog{}

			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), requestLogKey{}, fields)))

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
			}
			if fields.userID != uuid.Nil {
				attrs = append(attrs, slog.String("user_id", fields.userID.String()))
			} else if userID, ok := ctxutil.UserIDFromCtx(r.Context()); ok {
				attrs = append(attrs, slog.String("user_id", userID.String()))
			}
			q := r.URL.Query()
			if limit := q.Get("limit"); limit != "" {
				attrs = append(attrs, slog.String("limit", limit))
			}
			if q.Has("cursor") {
				attrs = append(attrs, slog.Bool("has_cursor", true))
			}

			level := slog.LevelInfo
			switch {
			case sw.status >= 500:
				level = slog.LevelError
			case sw.status == http.StatusTooManyRequests:
				level = slog.LevelWarn
			}
			logger.LogAttrs(r.Context(), level, "http.request", attrs...)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
