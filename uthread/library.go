package uthread

import (
	"os"
	"sync"
)

// osExit is var'd so tests can intercept the fatal exit paths instead of
// actually killing the test binary.
var osExit = os.Exit

// library is the process-wide singleton: the thread table, ready queue,
// running pointer, garbage cell, and quantum table that every public call
// and the scheduler share. The Design Notes in the spec this module
// implements call out that either a singleton or an explicit handle works;
// we keep it a singleton. The signal reactor never touches it: it only
// sets preemptPending (see timer.go).
type library struct {
	mu sync.Mutex

	table       table
	ready       readyQueue
	current     *descriptor
	garbage     *descriptor
	quanta      []int
	totalQuanta int

	reactor     *signalReactor
	initialized bool
}

var lib library

func (lib *library) releaseAllLocked() {
	for i := range lib.table.slots {
		if d := lib.table.slots[i]; d != nil {
			d.stack = nil
		}
	}
	lib.table.reset()
	lib.ready = readyQueue{}
	lib.garbage = nil
}

func (lib *library) fatalSystem(err *SystemError) {
	logSystemError(err)
	lib.mu.Lock()
	lib.releaseAllLocked()
	lib.mu.Unlock()
	disarmTimer()
	if lib.reactor != nil {
		lib.reactor.stop()
	}
	osExit(1)
}
