package uthread

// wake is the Go realization of resume(context) from the machine-context
// contract: it hands control to d. The first time d is woken, its
// dedicated goroutine is started fresh at its entry function; every later
// wake unblocks the goroutine from the parkCh receive it left itself
// blocked on the last time it was switched away. Either way, d's own
// goroutine stack — preserved for free by the Go runtime — is the saved
// context; there is no register set to restore.
func (lib *library) wake(d *descriptor) {
	if !d.goroutineLive {
		d.goroutineLive = true
		go lib.runEntry(d)
		return
	}
	d.parkCh <- struct{}{}
}

// runEntry is the trampoline every spawned thread's goroutine runs. A
// body that returns normally, rather than calling Terminate on itself, is
// terminated on its behalf so its slot and stack are always reclaimed.
func (lib *library) runEntry(d *descriptor) {
	d.entry()
	_ = Terminate(d.id)
}

// park is the Go realization of save(context): it blocks the calling
// goroutine, which must be d's own, until a later wake(d) unblocks it.
// Returning from park is the "resumed" tag in the §4.1 contract.
func (d *descriptor) park() {
	<-d.parkCh
}
