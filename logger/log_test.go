package logger

import (
	"sync"
	"testing"
)

func TestConcurrentFirstUse(t *testing.T) {
	mu.Lock()
	logger, sugar = nil, nil
	mu.Unlock()

	var wg sync.WaitGroup
	got := make([]any, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			Debug("first use", "worker", i)
			got[i] = L()
		}(i)
	}
	wg.Wait()

	for i, l := range got {
		if l == nil || l != got[0] {
			t.Fatalf("Expected one shared logger, worker %d got %v", i, l)
		}
	}
}

func TestInitReplacesLogger(t *testing.T) {
	Init("development")
	before := L()
	Init("production")
	if L() == before {
		t.Error("Expected Init to install a new logger")
	}
	Close()
}
