package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

const interruptExitCode = 130

var exitFunc = os.Exit // mockable

// handleInterrupts makes SIGINT/SIGTERM restore the terminal, close the storage and exit.
// The returned func stops listening.
func (cli *commandLine) handleInterrupts() func() {
	fd := int(os.Stdin.Fd())
	state, err := term.GetState(fd)
	if err != nil {
		state = nil // not a terminal
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigs:
			if state != nil {
				_ = term.Restore(fd, state)
			}
			cli.log.Info().Str("signal", sig.String()).Msg("interrupted")
			_, _ = fmt.Fprintln(cli.out, "\nForce exit. Goodbye!")
			_ = cli.close()
			exitFunc(interruptExitCode)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
