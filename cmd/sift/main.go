package main

import (
	"fmt"
	"os"

	app "github.com/ecrawford/sift/internal"
	"github.com/ecrawford/sift/internal/cli"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	basePath := app.ResolveBasePath()

	a, err := app.NewApp(basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing sift: %v\n", err)
		os.Exit(1)
	}

	err = cli.Execute()

	// Flush the event log before deciding the exit code. os.Exit skips
	// deferred calls, so close explicitly.
	if closeErr := a.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
