package uthread

import "runtime"

// reason identifies why the scheduler is being entered, matching the four
// cases the spec's scheduler algorithm distinguishes.
type reason int

const (
	reasonBootstrap reason = iota
	reasonTimerExpired
	reasonYieldForBlock
	reasonYieldForSelfTerminate
)

// checkpoint is the safepoint every public API call opens with. Genuinely
// asynchronous preemption of arbitrary running Go code, the way a POSIX
// signal handler can longjmp out of a C thread mid-instruction, is not
// available in portable Go — the runtime only ever forwards a caught
// signal to a goroutine asynchronously, never by splicing the interrupted
// goroutine's own stack. So instead: the real virtual timer really does
// fire a real SIGVTALRM (see timer.go), and the resulting switch is
// applied the next time the running thread reaches a library call, which
// is exactly this checkpoint.
func checkpoint() {
	if preemptPending.CompareAndSwap(true, false) {
		lib.scheduler(reasonTimerExpired)
	}
}

// scheduler is the single entry point for every context switch: it picks
// the next runnable descriptor, arms the next quantum, and hands control
// to it. Bookkeeping runs under lib.mu; the actual goroutine handoff
// happens after the lock is released, since it may block for as long as
// this thread is not scheduled again.
func (lib *library) scheduler(why reason) {
	lib.mu.Lock()

	// The garbage cell has capacity one and is emptied on every switch.
	// The original implementation had to defer this past the actual
	// stack-pointer switch, since it ran the scheduler synchronously on
	// the terminating thread's own C stack; a Go goroutine's stack is
	// independently heap-allocated and GC-owned, so there is no such
	// hazard here and the cell can be cleared right away.
	if g := lib.garbage; g != nil {
		lib.garbage = nil
		g.stack = nil
	}

	prev := lib.current
	var next *descriptor
	switch {
	case lib.ready.len() > 0:
		if prev != nil && prev.state != Blocked {
			prev.state = Ready
			lib.ready.pushBack(prev)
		}
		next = lib.ready.popFront()
	case prev != nil && prev.state != Blocked:
		// Only reachable when the previously running thread is the
		// sole runnable thread (any others are Blocked) — commonly just
		// the main thread.
		next = prev
	default:
		lib.mu.Unlock()
		lib.fatalSystem(sysErrorf("deadlock: no runnable thread"))
		return
	}

	next.state = Running
	lib.current = next
	lib.totalQuanta++
	next.personalQuantumCount++
	usec := lib.quanta[next.priority]
	lib.mu.Unlock()

	if err := armTimer(usec); err != nil {
		lib.fatalSystem(err)
		return
	}

	if next == prev {
		return
	}

	lib.wake(next)

	switch {
	case why == reasonYieldForSelfTerminate:
		// prev has already been evicted from the table and stashed in
		// garbage; this goroutine must never return into the thread
		// body that called Terminate on itself.
		runtime.Goexit()
	case prev != nil:
		prev.park()
	}
}
