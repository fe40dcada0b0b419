//go:build !windows

package main

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowkey/studybuddy/core"
)

// closeRecorder reports whether Close was called.
type closeRecorder struct {
	core.Backend
	closed bool
}

func (r *closeRecorder) Close() error {
	r.closed = true
	return r.Backend.Close()
}

func Test_commandLine_interrupt(t *testing.T) {
	cli, out := setup(t)
	rec := &closeRecorder{Backend: backend}
	cli.backend = rec

	codes := make(chan int, 1)
	origExit := exitFunc
	exitFunc = func(code int) { codes <- code }
	t.Cleanup(func() { exitFunc = origExit })

	stop := cli.handleInterrupts()
	defer stop()
	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	select {
	case code := <-codes:
		assert.Equal(t, interruptExitCode, code)
	case <-time.After(5 * time.Second):
		t.Fatal("interrupt not handled")
	}
	assert.Equal(t, "\nForce exit. Goodbye!\n", out.String())
	assert.True(t, rec.closed)
	assert.Nil(t, cli.backend)
}
