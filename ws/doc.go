// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ws implements the persistent-connection transport and the
topic-based broadcast fanout.

# Hub

The Hub is an explicitly owned connection registry: main constructs it,
injects it into the websocket handler and the vote service, and calls
Close on shutdown. There is no package-level singleton.

Topics are "poll:<id>" for one poll's updates and "polls:all" for every
poll's. A connection joins topics explicitly and is removed from all of
them when it detaches; membership is never persisted.

Each peer drains a buffered queue from its own writer goroutine.
Broadcast enqueues under the hub lock, which keeps one poll's updates
in order per subscriber, while a slow or dead peer at worst loses its
own connection - it cannot stall the sweep or the admitting vote.

# Commands

Inbound frames:

	{"type": "joinAllPolls"}
	{"type": "joinPoll", "payload": {"pollId": 1}}
	{"type": "castVote", "payload": {"pollId": 1, "optionId": 10, "userId": 3}}

Outbound frames:

	voteSuccess - point-to-point confirmation with the admitted vote
	voteError   - point-to-point rejection naming the poll
	pollUpdated - broadcast with the full refreshed poll representation

castVote delegates to vote.Service.Submit, the same operation the HTTP
endpoint uses.
*/
package ws
