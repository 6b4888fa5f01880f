package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/JeanGrijp/csrf-token-server/csrf"
)

// SignCommand prints the checksum a verifier expects for each token.
func SignCommand() *cli.Command {
	return &cli.Command{
		Name:      "sign",
		Usage:     "Print the checksum cookie value for one or more tokens",
		ArgsUsage: "TOKEN...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "payload",
				Usage: "also print the canonical JSON that is hashed",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("sign: at least one TOKEN is required", 2)
			}
			cfg, err := loadConfig(c, "")
			if err != nil {
				return cli.Exit(fmt.Sprintf("load config: %v", err), 2)
			}

			for _, tok := range c.Args().Slice() {
				sum, err := csrf.Sign(tok, cfg.Secret)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				if c.Bool("payload") {
					// the payload embeds the secret; only printed on request
					p, err := csrf.CanonicalPayload(tok, cfg.Secret)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", tok, sum, p)
					continue
				}
				fmt.Fprintf(c.App.Writer, "%s\t%s\n", tok, sum)
			}
			return nil
		},
	}
}
