// Package uthread implements a cooperative-preemptive user-level thread
// library: many logical threads of control multiplexed onto one OS thread
// inside one process, driven by a virtual-time interval signal.
package uthread

// Init installs the signal handler, takes ownership of quantaUsecs (one
// entry per priority level, in microseconds), and turns the calling
// goroutine into thread 0, the main thread. It must be called before any
// other function in this package and must not be called twice.
func Init(quantaUsecs []int) error {
	lib.mu.Lock()
	if lib.initialized {
		lib.mu.Unlock()
		err := libErrorf("already initialized")
		logLibraryError(err)
		return err
	}
	if len(quantaUsecs) == 0 {
		lib.mu.Unlock()
		err := libErrorf("quantum table must be non-empty")
		logLibraryError(err)
		return err
	}
	for _, q := range quantaUsecs {
		if q <= 0 {
			lib.mu.Unlock()
			err := libErrorf("quantum values must be positive")
			logLibraryError(err)
			return err
		}
	}

	lib.quanta = append([]int(nil), quantaUsecs...)
	lib.table.reset()
	lib.ready = readyQueue{}
	lib.garbage = nil
	lib.totalQuanta = 0

	main := newMainDescriptor()
	if _, err := lib.table.alloc(main); err != nil {
		lib.mu.Unlock()
		logLibraryError(err.(*LibraryError))
		return err
	}
	lib.current = main
	lib.initialized = true
	lib.mu.Unlock()

	lib.reactor = installSignalHandler()
	lib.scheduler(reasonBootstrap)
	return nil
}

// Spawn allocates the lowest free thread id, gives it a fresh stack and a
// context prepared to run entry, marks it Ready, and appends it to the
// ready queue.
func Spawn(entry func(), priority int) (int, error) {
	checkpoint()
	lib.mu.Lock()
	defer lib.mu.Unlock()

	if priority < 0 || priority >= len(lib.quanta) {
		err := libErrorf("invalid priority %d", priority)
		logLibraryError(err)
		return -1, err
	}

	d := newDescriptor(priority, entry)
	id, err := lib.table.alloc(d)
	if err != nil {
		logLibraryError(err.(*LibraryError))
		return -1, err
	}
	lib.ready.pushBack(d)
	return id, nil
}

// Terminate releases tid's slot and stack. Terminating tid 0 releases
// every live descriptor and exits the process with status 0; the function
// does not return. Terminating the running thread frees its slot
// immediately and hands control to the next thread; this call never
// returns to its caller. Its stack buffer is released by that same
// scheduler call, before control passes to the next thread; the release
// is not deferred past the switch.
func Terminate(tid int) error {
	checkpoint()

	if tid == 0 {
		lib.mu.Lock()
		lib.releaseAllLocked()
		lib.mu.Unlock()
		disarmTimer()
		if lib.reactor != nil {
			lib.reactor.stop()
		}
		osExit(0)
		return nil
	}

	lib.mu.Lock()
	d := lib.table.get(tid)
	if d == nil {
		lib.mu.Unlock()
		err := libErrorf("no thread with id %d", tid)
		logLibraryError(err)
		return err
	}

	if d == lib.current {
		lib.table.free(tid)
		lib.garbage = d
		lib.current = nil
		lib.mu.Unlock()
		lib.scheduler(reasonYieldForSelfTerminate)
		return nil // unreachable: scheduler exits this goroutine
	}

	lib.ready.remove(d)
	lib.table.free(tid)
	d.stack = nil
	lib.mu.Unlock()
	return nil
}

// Block moves tid to the Blocked state. Blocking the main thread is an
// error. Blocking an already-Blocked thread succeeds without effect. If
// tid is the running thread, a scheduling decision follows immediately.
func Block(tid int) error {
	checkpoint()
	lib.mu.Lock()

	if tid == 0 {
		lib.mu.Unlock()
		err := libErrorf("cannot block the main thread")
		logLibraryError(err)
		return err
	}
	d := lib.table.get(tid)
	if d == nil {
		lib.mu.Unlock()
		err := libErrorf("no thread with id %d", tid)
		logLibraryError(err)
		return err
	}
	if d.state == Blocked {
		lib.mu.Unlock()
		return nil
	}

	if d == lib.current {
		d.state = Blocked
		lib.mu.Unlock()
		lib.scheduler(reasonYieldForBlock)
		return nil
	}

	lib.ready.remove(d)
	d.state = Blocked
	lib.mu.Unlock()
	return nil
}

// Resume moves a Blocked thread back to Ready and appends it to the ready
// queue. Resuming a thread that is Running or already Ready is a no-op.
func Resume(tid int) error {
	checkpoint()
	lib.mu.Lock()
	defer lib.mu.Unlock()

	d := lib.table.get(tid)
	if d == nil {
		err := libErrorf("no thread with id %d", tid)
		logLibraryError(err)
		return err
	}
	if d.state != Blocked {
		return nil
	}
	d.state = Ready
	lib.ready.pushBack(d)
	return nil
}

// ChangePriority updates tid's priority. The new priority governs the
// length of tid's quantum starting the next time it is scheduled.
func ChangePriority(tid, priority int) error {
	checkpoint()
	lib.mu.Lock()
	defer lib.mu.Unlock()

	if priority < 0 || priority >= len(lib.quanta) {
		err := libErrorf("invalid priority %d", priority)
		logLibraryError(err)
		return err
	}
	d := lib.table.get(tid)
	if d == nil {
		err := libErrorf("no thread with id %d", tid)
		logLibraryError(err)
		return err
	}
	d.priority = priority
	return nil
}

// GetTID returns the id of the calling thread.
func GetTID() int {
	checkpoint()
	lib.mu.Lock()
	defer lib.mu.Unlock()
	if lib.current == nil {
		return -1
	}
	return lib.current.id
}

// GetTotalQuantums returns the number of quanta charged across every
// thread since Init.
func GetTotalQuantums() int {
	checkpoint()
	lib.mu.Lock()
	defer lib.mu.Unlock()
	return lib.totalQuanta
}

// GetQuantums returns the number of quanta tid has been Running for,
// including the one it is currently in if applicable.
func GetQuantums(tid int) (int, error) {
	checkpoint()
	lib.mu.Lock()
	defer lib.mu.Unlock()

	d := lib.table.get(tid)
	if d == nil {
		err := libErrorf("no thread with id %d", tid)
		logLibraryError(err)
		return -1, err
	}
	return d.personalQuantumCount, nil
}

// ThreadStatus is a point-in-time snapshot of one live thread, for tools
// like cmd/uthreadctl that need to display the table without reaching
// into package internals.
type ThreadStatus struct {
	TID      int
	Priority int
	State    State
	Quantums int
}

// List returns a snapshot of every live thread, ordered by id.
func List() []ThreadStatus {
	checkpoint()
	lib.mu.Lock()
	defer lib.mu.Unlock()

	var out []ThreadStatus
	for id := 0; id < MaxThreadNum; id++ {
		d := lib.table.slots[id]
		if d == nil {
			continue
		}
		out = append(out, ThreadStatus{
			TID:      id,
			Priority: d.priority,
			State:    d.state,
			Quantums: d.personalQuantumCount,
		})
	}
	return out
}
