// Command csrf-token-server answers every HTTP request with a CSRF token
// cookie and its HttpOnly checksum cookie.
//
//	csrf-token-server [flags] SECRET
package main

import (
	"fmt"
	"os"

	"github.com/JeanGrijp/csrf-token-server/internal/command"
)

func main() {
	if err := command.App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
