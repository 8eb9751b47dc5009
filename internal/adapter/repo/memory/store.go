// Package memory backs the server when no database is configured. The
// tx manager serializes writers; partial writes are not rolled back on
// error, which is acceptable for dev and tests.
package memory

import (
	"context"
	"sync"

	"monsterforge/internal/app/ports"
	"monsterforge/internal/domain/forge"
)

type Store struct {
	mu          sync.RWMutex
	entities    map[string]map[string]forge.Record
	pending     map[string][]ports.IntentRecord
	byKey       map[string]ports.IntentRecord
	events      map[string][]ports.EventRecord
	credentials map[string]ports.PlayerCredentialRecord
	clocks      map[string]int64
	nextEventID int64
}

func NewStore() *Store {
	return &Store{
		entities:    make(map[string]map[string]forge.Record),
		pending:     make(map[string][]ports.IntentRecord),
		byKey:       make(map[string]ports.IntentRecord),
		events:      make(map[string][]ports.EventRecord),
		credentials: make(map[string]ports.PlayerCredentialRecord),
		clocks:      make(map[string]int64),
	}
}

func intentKey(playerID, key string) string {
	return playerID + "::" + key
}

type heldKeyType struct{}

var heldKey = heldKeyType{}

func withHeld(ctx context.Context) context.Context {
	return context.WithValue(ctx, heldKey, true)
}

func held(ctx context.Context) bool {
	v, _ := ctx.Value(heldKey).(bool)
	return v
}

// reading takes the read lock unless the tx manager already holds the
// write lock for this context. The returned func releases it.
func (s *Store) reading(ctx context.Context) func() {
	if held(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) writing(ctx context.Context) func() {
	if held(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}
