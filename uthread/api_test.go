package uthread

import "testing"

func TestInitRejectsEmptyQuanta(t *testing.T) {
	resetForTest(t)
	if err := Init(nil); err == nil {
		t.Fatal("Init(nil): want error, got nil")
	}
}

func TestInitRejectsNonPositiveQuantum(t *testing.T) {
	resetForTest(t)
	if err := Init([]int{1000, 0, 500}); err == nil {
		t.Fatal("Init with a zero quantum: want error, got nil")
	}
	resetForTest(t)
	if err := Init([]int{1000, -5}); err == nil {
		t.Fatal("Init with a negative quantum: want error, got nil")
	}
}

func TestInitTwiceFails(t *testing.T) {
	resetForTest(t)
	if err := Init([]int{1000}); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	defer Terminate(0)
	if err := Init([]int{1000}); err == nil {
		t.Fatal("second Init: want error, got nil")
	}
}

func TestSpawnInvalidPriority(t *testing.T) {
	resetForTest(t)
	if err := Init([]int{1000, 2000}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Terminate(0)

	if _, err := Spawn(func() {}, -1); err == nil {
		t.Error("Spawn with priority -1: want error, got nil")
	}
	if _, err := Spawn(func() {}, 2); err == nil {
		t.Error("Spawn with priority 2 (only 0,1 valid): want error, got nil")
	}
}

func TestSpawnTableFull(t *testing.T) {
	resetForTest(t)
	if err := Init([]int{1000}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Terminate(0)

	// slot 0 is the main thread; MaxThreadNum-1 more should succeed.
	for i := 0; i < MaxThreadNum-1; i++ {
		if _, err := Spawn(func() {}, 0); err != nil {
			t.Fatalf("Spawn %d: %v", i, err)
		}
	}
	if _, err := Spawn(func() {}, 0); err == nil {
		t.Fatal("Spawn past MaxThreadNum: want error, got nil")
	}
}

func TestBlockMainThreadFails(t *testing.T) {
	resetForTest(t)
	if err := Init([]int{1000}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Terminate(0)

	if err := Block(0); err == nil {
		t.Fatal("Block(0): want error, got nil")
	}
}

func TestBlockUnknownThreadFails(t *testing.T) {
	resetForTest(t)
	if err := Init([]int{1000}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Terminate(0)

	if err := Block(42); err == nil {
		t.Fatal("Block(42) on an unknown id: want error, got nil")
	}
}

func TestTerminateUnknownThreadFails(t *testing.T) {
	resetForTest(t)
	if err := Init([]int{1000}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Terminate(0)

	if err := Terminate(42); err == nil {
		t.Fatal("Terminate(42) on an unknown id: want error, got nil")
	}
}

func TestGetQuantumsUnknownThreadFails(t *testing.T) {
	resetForTest(t)
	if err := Init([]int{1000}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Terminate(0)

	if _, err := GetQuantums(42); err == nil {
		t.Fatal("GetQuantums(42) on an unknown id: want error, got nil")
	}
}

// P5: resuming a thread that is not Blocked is observationally a no-op.
func TestResumeNonBlockedIsNoOp(t *testing.T) {
	resetForTest(t)
	if err := Init([]int{1000}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Terminate(0)

	tid, err := Spawn(func() {}, 0)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if err := Resume(tid); err != nil {
		t.Fatalf("Resume(Ready thread): %v", err)
	}
	d := lib.table.get(tid)
	if d.state != Ready {
		t.Fatalf("state after Resume(Ready) = %v, want Ready", d.state)
	}
	if err := Resume(0); err != nil {
		t.Fatalf("Resume(Running thread): %v", err)
	}
}

// P6: block(t); resume(t) from another thread leaves t Ready with its
// quantum count unchanged.
func TestBlockResumeRoundTrip(t *testing.T) {
	resetForTest(t)
	if err := Init([]int{1000}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Terminate(0)

	tid, err := Spawn(func() {}, 0)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	before, err := GetQuantums(tid)
	if err != nil {
		t.Fatalf("GetQuantums: %v", err)
	}

	if err := Block(tid); err != nil {
		t.Fatalf("Block: %v", err)
	}
	d := lib.table.get(tid)
	if d.state != Blocked {
		t.Fatalf("state after Block = %v, want Blocked", d.state)
	}
	if inQueue(tid) {
		t.Fatalf("blocked thread %d still present in ready queue", tid)
	}

	// blocking an already-Blocked thread is a no-op success
	if err := Block(tid); err != nil {
		t.Fatalf("Block(already Blocked): %v", err)
	}

	if err := Resume(tid); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	d = lib.table.get(tid)
	if d.state != Ready {
		t.Fatalf("state after Resume = %v, want Ready", d.state)
	}
	if !inQueue(tid) {
		t.Fatalf("resumed thread %d missing from ready queue", tid)
	}

	after, err := GetQuantums(tid)
	if err != nil {
		t.Fatalf("GetQuantums: %v", err)
	}
	if after != before {
		t.Fatalf("GetQuantums changed across block/resume: before=%d after=%d", before, after)
	}
}

func TestChangePriorityUpdatesDescriptor(t *testing.T) {
	resetForTest(t)
	if err := Init([]int{1000, 2000}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Terminate(0)

	tid, err := Spawn(func() {}, 0)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if err := ChangePriority(tid, 1); err != nil {
		t.Fatalf("ChangePriority: %v", err)
	}
	if got := lib.table.get(tid).priority; got != 1 {
		t.Fatalf("priority after ChangePriority = %d, want 1", got)
	}
	if err := ChangePriority(tid, 7); err == nil {
		t.Fatal("ChangePriority with an out-of-range priority: want error, got nil")
	}
}

func inQueue(tid int) bool {
	d := lib.table.get(tid)
	for _, e := range lib.ready.items {
		if e == d {
			return true
		}
	}
	return false
}
