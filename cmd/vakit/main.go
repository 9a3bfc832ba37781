package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"vakit/internal/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Service credentials may live in a .env file next to the binary's
	// working directory; missing file is fine.
	_ = godotenv.Load()

	if err := cli.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
