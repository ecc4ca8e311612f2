package memory

import (
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// TurnGuard serializes chat turns per conversation. Two concurrent turns on
// the same conversation id would otherwise interleave their persisted rows.
// Entries expire so abandoned conversations do not pin memory forever.
type TurnGuard struct {
	mu    sync.Mutex
	locks *cache.Cache
}

func NewTurnGuard() *TurnGuard {
	return &TurnGuard{
		locks: cache.New(1*time.Hour, 10*time.Minute),
	}
}

// Lock blocks until the turn lock for the conversation is held.
// The returned function releases it.
func (g *TurnGuard) Lock(conversationId int64) func() {
	key := strconv.FormatInt(conversationId, 10)

	g.mu.Lock()
	var l *sync.Mutex
	if x, found := g.locks.Get(key); found {
		l = x.(*sync.Mutex)
	} else {
		l = &sync.Mutex{}
	}
	// Re-set to refresh the expiration while the conversation is active.
	g.locks.Set(key, l, cache.DefaultExpiration)
	g.mu.Unlock()

	l.Lock()
	return l.Unlock
}
