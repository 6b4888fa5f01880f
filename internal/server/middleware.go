package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5/middleware"
)

// AccessLog logs one line per request. Cookie values are never logged.
func AccessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logRequest(log, r, ww.Status(), ww.BytesWritten(), time.Since(start),
				middleware.GetReqID(r.Context()))
		})
	}
}

// GinRequestID runs chi's RequestID middleware inside gin so both engines
// tag requests the same way.
func GinRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)
	}
}

// GinAccessLog adapts AccessLog to gin. It expects GinRequestID earlier in
// the chain.
func GinAccessLog(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logRequest(log, c.Request, c.Writer.Status(), c.Writer.Size(), time.Since(start),
			middleware.GetReqID(c.Request.Context()))
	}
}

func logRequest(log *slog.Logger, r *http.Request, status, size int, elapsed time.Duration, reqID string) {
	level := slog.LevelInfo
	if status >= http.StatusBadRequest {
		level = slog.LevelWarn
	}
	log.LogAttrs(r.Context(), level, "request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("host", r.Host),
		slog.Int("status", status),
		slog.Int("bytes", size),
		slog.Duration("duration", elapsed),
		slog.String("request_id", reqID),
		slog.String("remote", r.RemoteAddr),
	)
}
