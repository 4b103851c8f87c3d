package uthread

import "testing"

// resetForTest gives each test a clean library singleton, stubs out the
// fatal os.Exit paths so a self-terminating main thread does not kill the
// test binary, and makes sure any signal reactor or armed timer from a
// previous test is torn down before and after the test runs.
func resetForTest(t *testing.T) {
	t.Helper()
	prevExit := osExit
	osExit = func(int) {}

	teardown := func() {
		lib.mu.Lock()
		r := lib.reactor
		lib.mu.Unlock()
		if r != nil {
			r.stop()
		}
		disarmTimer()
		preemptPending.Store(false)
	}
	teardown()
	lib = library{}
	t.Cleanup(func() {
		teardown()
		osExit = prevExit
	})
}
