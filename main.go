// Package main is the entry point for the po-agent CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/danielolaszy/poagent/cmd"
	"github.com/danielolaszy/poagent/internal/logging"
	"github.com/danielolaszy/poagent/internal/mcpserver"
)

// main executes the root command and exits non-zero on failure.
func main() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logging.Debug("starting po-agent", "version", mcpserver.Version, "log_level", logLevel)

	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
