package command

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/JeanGrijp/csrf-token-server/internal/config"
)

// ConfigCommand prints the effective configuration with the secret masked.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:      "config",
		Usage:     "Show the effective configuration",
		ArgsUsage: "[SECRET]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output format: yaml or json",
				Value:   "yaml",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c, c.Args().First())
			if err != nil {
				return cli.Exit(fmt.Sprintf("load config: %v", err), 2)
			}
			return printConfig(c, config.Sanitize(cfg))
		},
	}
}

func printConfig(c *cli.Context, cfg *config.Config) error {
	switch c.String("output") {
	case "json":
		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(out))
	case "yaml":
		enc := yaml.NewEncoder(c.App.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	default:
		return cli.Exit(fmt.Sprintf("unknown output format %q", c.String("output")), 2)
	}
	return nil
}
