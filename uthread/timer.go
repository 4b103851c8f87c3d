package uthread

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"
)

// preemptPending is set by the signal reactor when the virtual timer
// fires and cleared by checkpoint when the running thread notices it.
// There is nothing else for the reactor to touch: unlike the original
// C signal handler, it never mutates the table, ready queue, or running
// pointer directly, so there is no reentrancy hazard to mask against —
// the only shared state is this one flag.
var preemptPending atomic.Bool

// signalReactor is the Go stand-in for a SIGVTALRM handler: a dedicated
// goroutine parked on a signal channel, installed once by Init and torn
// down once by a terminal shutdown.
type signalReactor struct {
	ch       chan os.Signal
	done     chan struct{}
	stopOnce sync.Once
}

func installSignalHandler() *signalReactor {
	r := &signalReactor{
		ch:   make(chan os.Signal, 1),
		done: make(chan struct{}),
	}
	signal.Notify(r.ch, syscall.SIGVTALRM)
	go r.loop()
	return r
}

func (r *signalReactor) loop() {
	for {
		select {
		case <-r.ch:
			preemptPending.Store(true)
		case <-r.done:
			return
		}
	}
}

func (r *signalReactor) stop() {
	r.stopOnce.Do(func() {
		signal.Stop(r.ch)
		close(r.done)
	})
}

// armTimer programs a one-shot ITIMER_VIRTUAL for usec microseconds of
// this process's own consumed CPU time — wall-clock time never counts.
// Returns *SystemError, not error, so its one caller can pass the result
// straight to fatalSystem without a type assertion.
func armTimer(usec int) *SystemError {
	it := unix.Itimerval{
		Value: unix.Timeval{
			Sec:  int64(usec / 1_000_000),
			Usec: int64(usec % 1_000_000),
		},
	}
	if _, err := unix.Setitimer(unix.ITIMER_VIRTUAL, it); err != nil {
		return sysErrorf("setitimer: %v", err)
	}
	return nil
}

// disarmTimer cancels any pending virtual-timer expiry, used when the
// library is torn down.
func disarmTimer() {
	var it unix.Itimerval
	_, _ = unix.Setitimer(unix.ITIMER_VIRTUAL, it)
}
