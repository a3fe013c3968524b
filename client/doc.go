// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client tracks a connected client's voting state and reconciles
it against server-confirmed events.

# State Machine

Per poll:

	idle → pending → confirmed
	         └────→ (rejected) → idle

BeginVote requires an identity and moves the poll to pending. A
point-to-point voteSuccess whose vote carries this client's user id
confirms it; confirmations for other users are ignored. A voteError
reverts to idle for retry with a different option, except a duplicate
rejection, which is terminal for that poll.

# Identity Scoping

Confirmed and pending state belongs to a user identity. SetIdentity
clears everything and restores the new user's confirmations from the
ConfirmationStore. The store is a hint only: call Resync with the
server's vote-status answer after reconnecting before trusting the
restored flags.

# Broadcast Snapshots

ApplySnapshot caches pollUpdated payloads for display. It never touches
the voted flag (broadcasts are unattributed) and drops snapshots whose
total is lower than one already seen for that poll, since the same
update may arrive on both topics in either order.
*/
package client
