// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import "sync"

// ConfirmationStore persists confirmed votes per user identity so a
// tracker can restore them after a reload. It is a cache of previously
// received confirmations, not a source of truth; Resync against the
// server overrides whatever it holds.
type ConfirmationStore interface {
	// Confirmed returns the recorded pollID → optionID votes for a user.
	Confirmed(userID int64) (map[int64]int64, error)
	// Record stores one confirmed vote for a user.
	Record(userID, pollID, optionID int64) error
}

// MemoryStore is an in-process ConfirmationStore.
type MemoryStore struct {
	mu     sync.Mutex
	byUser map[int64]map[int64]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byUser: make(map[int64]map[int64]int64)}
}

func (m *MemoryStore) Confirmed(userID int64) (map[int64]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[int64]int64, len(m.byUser[userID]))
	for pollID, optionID := range m.byUser[userID] {
		out[pollID] = optionID
	}
	return out, nil
}

func (m *MemoryStore) Record(userID, pollID, optionID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	votes, ok := m.byUser[userID]
	if !ok {
		votes = make(map[int64]int64)
		m.byUser[userID] = votes
	}
	votes[pollID] = optionID
	return nil
}
