// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"errors"
	"sync"

	"github.com/danielhkuo/livepolls/models"
)

// State of one poll in the tracker's reconciliation machine.
type State string

const (
	StateIdle      State = "idle"
	StatePending   State = "pending"
	StateConfirmed State = "confirmed"
)

var (
	ErrNoIdentity   = errors.New("no user identity set")
	ErrVoteInFlight = errors.New("a vote for this poll is already in flight")
	ErrAlreadyVoted = errors.New("already voted on this poll")
)

type pollState struct {
	state    State
	optionID int64
	reason   string
	terminal bool // duplicate rejection: no further attempts on this poll
}

// Tracker reconciles a client's optimistic local voting state with
// server-confirmed events. Per poll it walks idle → pending →
// confirmed, or back to idle on rejection. The voted/not-voted flag
// only ever changes through point-to-point confirmations or an
// authoritative Resync; broadcast snapshots touch displayed counts
// alone.
type Tracker struct {
	mu     sync.Mutex
	store  ConfirmationStore
	userID int64
	polls  map[int64]*pollState
	counts map[int64]models.PollDetail
}

// NewTracker creates a tracker backed by the given confirmation store.
// The store is a persistence hint for surviving reloads; nil disables
// restoration.
func NewTracker(store ConfirmationStore) *Tracker {
	return &Tracker{
		store:  store,
		polls:  make(map[int64]*pollState),
		counts: make(map[int64]models.PollDetail),
	}
}

// Identity returns the active user id, or 0 when unauthenticated.
func (t *Tracker) Identity() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.userID
}

// SetIdentity switches the active user. All pending and confirmed state
// belongs to an identity, so switching clears everything before
// restoring the new identity's recorded confirmations - one user's
// votes must never leak into another's session.
func (t *Tracker) SetIdentity(userID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if userID == t.userID {
		return
	}
	t.userID = userID
	t.polls = make(map[int64]*pollState)

	if userID <= 0 || t.store == nil {
		return
	}
	confirmed, err := t.store.Confirmed(userID)
	if err != nil {
		// Restoration is best effort; the server-side vote-status
		// query remains the authority either way.
		return
	}
	for pollID, optionID := range confirmed {
		t.polls[pollID] = &pollState{state: StateConfirmed, optionID: optionID}
	}
}

// BeginVote marks a submission as in flight. It refuses when no
// identity is set, when a vote is already pending, and when the poll is
// already confirmed or terminally rejected.
func (t *Tracker) BeginVote(pollID, optionID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.userID <= 0 {
		return ErrNoIdentity
	}
	ps := t.polls[pollID]
	if ps != nil {
		switch {
		case ps.state == StatePending:
			return ErrVoteInFlight
		case ps.state == StateConfirmed, ps.terminal:
			return ErrAlreadyVoted
		}
	}
	t.polls[pollID] = &pollState{state: StatePending, optionID: optionID}
	return nil
}

// Confirm applies a point-to-point vote confirmation. Confirmations for
// other users' votes (seen incidentally) are ignored: only a vote
// carrying this tracker's identity advances state. Returns whether the
// confirmation was applied.
func (t *Tracker) Confirm(pollID int64, ref models.VoteRef) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.userID <= 0 || ref.UserID != t.userID {
		return false
	}
	// The server's option is authoritative over whatever was pending.
	t.polls[pollID] = &pollState{state: StateConfirmed, optionID: ref.OptionID}
	if t.store != nil {
		_ = t.store.Record(t.userID, pollID, ref.OptionID)
	}
	return true
}

// Reject applies a point-to-point rejection: the poll reverts to idle
// and may be retried with a different option. A terminal rejection
// (duplicate vote) blocks all further attempts on that poll.
func (t *Tracker) Reject(pollID int64, reason string, terminal bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.polls[pollID] = &pollState{state: StateIdle, reason: reason, terminal: terminal}
}

// State reports the poll's current phase and, for pending/confirmed,
// the option involved.
func (t *Tracker) State(pollID int64) (State, int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ps := t.polls[pollID]
	if ps == nil {
		return StateIdle, 0
	}
	return ps.state, ps.optionID
}

// HasVoted reports whether this identity has a confirmed vote on the
// poll, and for which option.
func (t *Tracker) HasVoted(pollID int64) (bool, int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ps := t.polls[pollID]
	if ps == nil || ps.state != StateConfirmed {
		return false, 0
	}
	return true, ps.optionID
}

// LastRejection returns the most recent rejection reason for a poll.
func (t *Tracker) LastRejection(pollID int64) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ps := t.polls[pollID]
	if ps == nil || ps.reason == "" {
		return "", false
	}
	return ps.reason, true
}

// ApplySnapshot records a broadcast aggregate snapshot for display.
// Snapshots update counts only - never the voted flag, because
// broadcasts carry no user attribution. The same update arrives on
// both the poll topic and the all-polls topic, and ordering across
// topics is not guaranteed, so anything with a lower total than
// already seen for the poll is dropped as stale. Returns whether the
// snapshot was kept.
func (t *Tracker) ApplySnapshot(detail models.PollDetail) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.counts[detail.ID]; ok && prev.TotalVotes > detail.TotalVotes {
		return false
	}
	t.counts[detail.ID] = detail
	return true
}

// Counts returns the latest displayed snapshot for a poll.
func (t *Tracker) Counts(pollID int64) (models.PollDetail, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	detail, ok := t.counts[pollID]
	return detail, ok
}

// Resync applies the server's vote-status answer for the active
// identity. The locally cached voted flag is only a hint; the server's
// answer replaces it in both directions, including clearing a stale
// confirmed flag after a server-side reset.
func (t *Tracker) Resync(pollID int64, status models.VoteStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.userID <= 0 {
		return
	}
	if !status.HasVoted {
		delete(t.polls, pollID)
		return
	}
	t.polls[pollID] = &pollState{state: StateConfirmed, optionID: status.VotedOptionID}
	if t.store != nil {
		_ = t.store.Record(t.userID, pollID, status.VotedOptionID)
	}
}
