// Package command defines the csrf-token-server command line.
//
// It uses urfave/cli/v2. The default action serves tokens; "sign" and
// "config" are helpers for operators wiring up a downstream verifier.
package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/JeanGrijp/csrf-token-server/internal/config"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "csrf-token-server",
		Usage:     "HTTP server that responds with CSRF token in cookie",
		ArgsUsage: "SECRET",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:     globalFlags(),
		Action:    serveAction,
		Commands: []*cli.Command{
			ServeCommand(),
			SignCommand(),
			ConfigCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "YAML configuration file",
			EnvVars: []string{"CSRF_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "secret",
			Usage: "checksum secret (alternative to the SECRET argument or CSRF_SECRET)",
		},
		&cli.StringFlag{
			Name:    "token-cookie",
			Aliases: []string{"t"},
			Usage:   "name of the token cookie",
			EnvVars: []string{"CSRF_TOKEN_COOKIE"},
			Value:   config.DefaultTokenCookie,
		},
		&cli.StringFlag{
			Name:    "checksum-cookie",
			Aliases: []string{"c"},
			Usage:   "name of the HttpOnly checksum cookie",
			EnvVars: []string{"CSRF_CHECKSUM_COOKIE"},
			Value:   config.DefaultChecksumCookie,
		},
		&cli.StringFlag{
			Name:    "cookie-domain",
			Aliases: []string{"d"},
			Usage:   "cookie Domain attribute; empty uses the request Host",
			EnvVars: []string{"CSRF_COOKIE_DOMAIN"},
		},
		&cli.IntFlag{
			Name:    "server-port",
			Aliases: []string{"p"},
			Usage:   "TCP listen port",
			EnvVars: []string{"CSRF_SERVER_PORT"},
			Value:   config.DefaultPort,
		},
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "listen address",
			EnvVars: []string{"CSRF_BIND"},
			Value:   config.DefaultBind,
		},
		&cli.IntFlag{
			Name:    "token-length",
			Aliases: []string{"l"},
			Usage:   "number of characters in each token",
			EnvVars: []string{"CSRF_TOKEN_LENGTH"},
			Value:   config.DefaultTokenLength,
		},
		&cli.StringFlag{
			Name:    "engine",
			Usage:   "router engine: chi or gin",
			EnvVars: []string{"CSRF_ENGINE"},
			Value:   config.DefaultEngine,
		},
		&cli.StringFlag{
			Name:    "metrics-addr",
			Usage:   "address for /metrics and /healthz; empty disables",
			EnvVars: []string{"CSRF_METRICS_ADDR"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "debug, info, warn, error",
			EnvVars: []string{"CSRF_LOG_LEVEL"},
			Value:   config.DefaultLogLevel,
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "json or text",
			EnvVars: []string{"CSRF_LOG_FORMAT"},
			Value:   config.DefaultLogFormat,
		},
	}
}

// flagKeys maps CLI flags to configuration keys.
var flagKeys = map[string]string{
	"secret":          "secret",
	"token-cookie":    "token_cookie",
	"checksum-cookie": "checksum_cookie",
	"cookie-domain":   "cookie_domain",
	"server-port":     "server.port",
	"bind":            "server.bind",
	"token-length":    "token_length",
	"engine":          "server.engine",
	"metrics-addr":    "server.metrics_addr",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

// loadConfig merges defaults, the config file, CSRF_ environment variables
// and explicitly set flags. secretArg, when non-empty, wins over all of them.
func loadConfig(c *cli.Context, secretArg string) (*config.Config, error) {
	overrides := make(map[string]any)
	for flag, key := range flagKeys {
		if !c.IsSet(flag) {
			continue
		}
		switch c.Value(flag).(type) {
		case int:
			overrides[key] = c.Int(flag)
		default:
			overrides[key] = c.String(flag)
		}
	}
	if secretArg != "" {
		overrides["secret"] = secretArg
	}

	opts := []config.Option{config.WithOverrides(overrides)}
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	return config.Load(opts...)
}
