package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTurnGuardSerializesSameConversation(t *testing.T) {
	guard := NewTurnGuard()

	const turns = 50
	counter := 0
	var wg sync.WaitGroup
	wg.Add(turns)
	for i := 0; i < turns; i++ {
		go func() {
			defer wg.Done()
			unlock := guard.Lock(7)
			defer unlock()
			// Unsynchronized increment; the guard is the only protection.
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, turns, counter)
}

func TestTurnGuardIndependentConversations(t *testing.T) {
	guard := NewTurnGuard()

	unlockA := guard.Lock(1)
	defer unlockA()

	// A different conversation must not block behind conversation 1.
	done := make(chan struct{})
	go func() {
		unlockB := guard.Lock(2)
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on conversation 2 blocked behind conversation 1")
	}
}

func TestTurnGuardReentryAfterUnlock(t *testing.T) {
	guard := NewTurnGuard()

	unlock := guard.Lock(3)
	unlock()

	// Same conversation can be locked again once released.
	unlock = guard.Lock(3)
	unlock()
}
