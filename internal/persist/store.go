// Package persist keeps the few values that survive a restart: the session,
// the guest cart, and the checkout selections.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Durable keys.
const (
	KeyAuth            = "auth"
	KeyCartItems       = "cartItems"
	KeyCheckoutAddress = "CHECKOUT_ADDRESS"
	KeyCheckoutCard    = "CHECKOUT_PAYMENT_CARD"
)

// AllKeys lists every durable key, in the order logout clears them.
var AllKeys = []string{KeyAuth, KeyCartItems, KeyCheckoutAddress, KeyCheckoutCard}

// ErrNotFound is returned by Load when the key has never been saved or was removed.
var ErrNotFound = errors.New("persist: key not found")

// Store is a string-keyed store of JSON values. Single-key reads and writes are atomic.
type Store interface {
	Load(key string, dst any) error
	Save(key string, value any) error
	Remove(keys ...string) error
}

// MemoryStore is an in-process Store, used by tests and ephemeral sessions.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Load decodes the stored value of key into dst.
func (s *MemoryStore) Load(key string, dst any) error {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("persist: decode %s: %w", key, err)
	}
	return nil
}

// Save encodes value under key.
func (s *MemoryStore) Save(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("persist: encode %s: %w", key, err)
	}
	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
	return nil
}

// Remove deletes keys; absent keys are ignored.
func (s *MemoryStore) Remove(keys ...string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.values, key)
	}
	s.mu.Unlock()
	return nil
}

// Has reports whether key is currently stored.
func (s *MemoryStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}
