package core

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// InstallSignalHandlers makes the shell survive the keyboard signals that
// would otherwise kill or suspend it. The signals are caught and drained
// rather than set to SIG_IGN so that spawned children still start with
// default dispositions. The returned function restores the previous
// behavior.
func InstallSignalHandlers() func() {
	ch := make(chan os.Signal, 8)
	signal.Notify(ch, unix.SIGINT, unix.SIGQUIT, unix.SIGTSTP)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				// Foreground jobs own the terminal; the shell itself has
				// nothing to interrupt.
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
