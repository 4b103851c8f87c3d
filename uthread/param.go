package uthread

// Tunable constants, matching the original assignment's limits.
const (
	// MaxThreadNum is the number of thread-table slots, including slot 0
	// (the main thread).
	MaxThreadNum = 100

	// StackSize is the number of bytes accounted against each non-main
	// descriptor's stack. Go goroutine stacks grow on demand and are
	// managed by the runtime; this buffer exists purely so invariant 6
	// ("a thread's stack is live for exactly the interval between
	// successful spawn and successful termination") stays observable.
	StackSize = 4096
)
