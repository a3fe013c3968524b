// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package vote implements the vote-admission and aggregation core.

Both ingress transports (the HTTP endpoint and the websocket castVote
command) funnel into the same operation:

	ref, detail, err := svc.Submit(ctx, pollID, optionID, userID)

# Submission Pipeline

 1. Validation: ids must be positive; the poll must exist and be
    published; the option must belong to the poll. Failures reject the
    vote with a typed error and touch nothing.
 2. Admission: one INSERT into the vote table. The UNIQUE
    (poll_id, user_id) constraint makes "insert if absent" atomic -
    under concurrent submissions for the same pair exactly one row
    lands, the rest fail with ErrDuplicateVote. Different pairs admit
    in parallel; there is no global lock.
 3. Aggregation + fanout: the poll's snapshot is recomputed from stored
    votes and handed to the Broadcaster under a per-poll publish lock,
    so one poll's snapshots reach subscribers in production order.

# Error Taxonomy

ErrInvalidID, ErrPollNotFound, ErrPollUnpublished, ErrInvalidOption and
ErrDuplicateVote are recoverable rejections; their text is safe to show
to clients. ErrDuplicateVote is terminal for that (user, poll) pair.
Everything else is internal: logged with context, surfaced opaquely.
HTTPStatus and PublicMessage centralize the transport mapping.

# Aggregation

PollDetail and ListPublished serve the read path. Counts come from a
LEFT JOIN COUNT over the vote table - derived, never stored - so the
vote path and the listing path always agree for the same vote set.
*/
package vote
