package handles

import (
	"sync"
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	type callback struct {
		Name string
		Fn   func() int
	}

	tab := New[*callback]()
	cb := &callback{Name: "idle", Fn: func() int { return 42 }}
	id := tab.Register(cb)

	if id == 0 {
		t.Fatal("Register should return non-zero id")
	}

	got, ok := tab.Lookup(id)
	if !ok || got != cb {
		t.Fatalf("Lookup returned %v, %v", got, ok)
	}
	if got.Fn() != 42 {
		t.Errorf("unexpected callback result")
	}
}

func TestTakeIsOneShot(t *testing.T) {
	tab := New[func()]()
	called := 0
	id := tab.Register(func() { called++ })

	fn, ok := tab.Take(id)
	if !ok {
		t.Fatal("Take should find the value")
	}
	fn()

	if _, ok := tab.Take(id); ok {
		t.Error("second Take should miss")
	}
	if tab.Len() != 0 {
		t.Errorf("expected empty table, got %d", tab.Len())
	}
	if called != 1 {
		t.Errorf("expected one call, got %d", called)
	}
}

func TestUnregister(t *testing.T) {
	tab := New[string]()
	id := tab.Register("user data")

	tab.Unregister(id)

	if _, ok := tab.Lookup(id); ok {
		t.Error("Expected miss after Unregister")
	}
}

func TestLookupNonExistent(t *testing.T) {
	tab := New[int]()
	if _, ok := tab.Lookup(999999); ok {
		t.Error("Lookup of non-existent id should miss")
	}
	if _, ok := tab.Lookup(0); ok {
		t.Error("id 0 is never assigned")
	}
}

func TestConcurrentAccess(t *testing.T) {
	const numGoroutines = 100
	const numOps = 100

	tab := New[[2]int]()

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(g int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				id := tab.Register([2]int{g, j})
				v, ok := tab.Take(id)
				if !ok || v != [2]int{g, j} {
					t.Errorf("Take returned %v, %v for id %d", v, ok, id)
				}
			}
		}(i)
	}

	wg.Wait()

	if tab.Len() != 0 {
		t.Errorf("expected empty table, got %d", tab.Len())
	}
}

func TestIdsAreUnique(t *testing.T) {
	tab := New[int]()
	seen := make(map[uintptr]bool)

	for i := 0; i < 1000; i++ {
		id := tab.Register(i)
		if seen[id] {
			t.Errorf("id %d was returned twice", id)
		}
		seen[id] = true
	}
}
