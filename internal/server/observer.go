package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/JeanGrijp/csrf-token-server/csrf"
)

// Observer fans issuance outcomes out to metrics and the log.
type Observer struct {
	Metrics csrf.Observer // may be nil
	Log     *slog.Logger
}

func (o Observer) Issued(r *http.Request, elapsed time.Duration) {
	if o.Metrics != nil {
		o.Metrics.Issued(r, elapsed)
	}
}

func (o Observer) Failed(r *http.Request, err error) {
	if o.Metrics != nil {
		o.Metrics.Failed(r, err)
	}
	if o.Log == nil {
		return
	}
	switch {
	case errors.Is(err, csrf.ErrMissingDomain):
		o.Log.Debug("request without host and no cookie domain configured",
			"remote", r.RemoteAddr, "path", r.URL.Path)
		return
	case errors.Is(err, csrf.ErrInvalidDomain):
		o.Log.Debug("request host is not a usable cookie domain",
			"remote", r.RemoteAddr, "host", r.Host)
		return
	}
	o.Log.Error("token issuance failed", "error", err)
}
