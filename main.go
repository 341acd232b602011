package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/davoli/specchio/internal/cmd"
	"github.com/davoli/specchio/internal/errors"
)

func main() {
	// SIGPIPE must not kill the process: a truncated listing, as with
	// `specchio generate | head`, surfaces as EPIPE and ends cleanly.
	signal.Ignore(syscall.SIGPIPE)

	if err := cmd.Execute(); err != nil {
		os.Exit(errors.ExitCode(err))
	}
}
