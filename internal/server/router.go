// Package server runs csrf.Issuer behind a chi or gin router.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JeanGrijp/csrf-token-server/csrf"
	"github.com/JeanGrijp/csrf-token-server/internal/config"
)

// NewRouter returns the issuing handler for the configured engine.
func NewRouter(engine string, iss *csrf.Issuer, log *slog.Logger) http.Handler {
	if engine == config.EngineGin {
		return NewGinRouter(iss, log)
	}
	return NewChiRouter(iss, log)
}

// NewChiRouter routes every method and path to iss.
func NewChiRouter(iss *csrf.Issuer, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(AccessLog(log))
	r.Use(middleware.Recoverer)

	r.Handle("/", iss)
	r.Handle("/*", iss)
	r.NotFound(iss.ServeHTTP)
	r.MethodNotAllowed(iss.ServeHTTP)

	return r
}

// NewGinRouter is the gin equivalent of NewChiRouter.
func NewGinRouter(iss *csrf.Issuer, log *slog.Logger) http.Handler {
	gin.SetMode(gin.ReleaseMode)

	e := gin.New()
	e.Use(GinRequestID())
	e.Use(GinAccessLog(log))
	e.Use(gin.Recovery())

	h := gin.WrapH(iss)
	e.Any("/*path", h)
	e.NoRoute(h)

	return e
}
