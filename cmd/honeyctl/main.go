// filename: cmd/honeyctl/main.go
// Honeydash CLI - Entry Point

package main

import (
	"fmt"
	"os"

	"github.com/novasec/honeydash/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
