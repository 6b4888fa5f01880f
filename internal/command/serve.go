package command

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/JeanGrijp/csrf-token-server/csrf"
	"github.com/JeanGrijp/csrf-token-server/internal/logger"
	"github.com/JeanGrijp/csrf-token-server/internal/metrics"
	"github.com/JeanGrijp/csrf-token-server/internal/server"
)

// ServeCommand is the explicit form of the default action.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Issue CSRF token cookies on every request (default)",
		ArgsUsage: "[SECRET]",
		Action:    serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c, c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("load config: %v", err), 2)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})

	reg := metrics.NewRegistry(Version)
	iss, err := csrf.New(csrf.Config{
		Secret:             cfg.Secret,
		TokenCookieName:    cfg.TokenCookie,
		ChecksumCookieName: cfg.ChecksumCookie,
		CookieDomain:       cfg.CookieDomain,
		TokenLength:        cfg.TokenLength,
		Observer:           server.Observer{Metrics: reg, Log: log},
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("init issuer: %v", err), 2)
	}

	log.Info("starting csrf-token-server",
		"version", Version,
		"commit", Commit,
		"addr", cfg.Server.Addr(),
		"token_cookie", cfg.TokenCookie,
		"checksum_cookie", cfg.ChecksumCookie,
		"cookie_domain", cfg.CookieDomain,
		"token_length", cfg.TokenLength)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg.Server, iss, reg, log).Run(ctx); err != nil {
		log.Error("server error", "error", err)
		return cli.Exit(err.Error(), 1)
	}

	log.Info("server stopped gracefully")
	return nil
}
