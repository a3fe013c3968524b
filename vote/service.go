// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/livepolls/db"
	"github.com/danielhkuo/livepolls/models"
)

// Broadcaster receives the refreshed poll representation after each
// admitted vote. Implementations must not block on individual slow
// subscribers; delivery failures never fail the admission.
type Broadcaster interface {
	PollUpdated(detail models.PollDetail)
}

// Service is the single submit-vote operation shared by both ingress
// transports, plus the read-side aggregation both the vote path and the
// poll-listing path use.
type Service struct {
	db          *sql.DB
	broadcaster Broadcaster

	// Per-poll publish locks. Snapshot computation and hand-off to the
	// broadcaster happen under the poll's lock so a subscriber never
	// sees totals go backwards. Admissions themselves are not
	// serialized here; the vote table's unique constraint is the only
	// serialization point for concurrent submissions.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewService(dbConn *sql.DB, b Broadcaster) *Service {
	return &Service{
		db:          dbConn,
		broadcaster: b,
		locks:       make(map[int64]*sync.Mutex),
	}
}

func (s *Service) publishLock(pollID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[pollID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[pollID] = l
	}
	return l
}

// Submit validates and admits a candidate vote, recomputes the poll's
// aggregate snapshot and fans it out. On any rejection no state changes
// and nothing is broadcast. The returned PollDetail reflects at least
// the admitted vote.
func (s *Service) Submit(ctx context.Context, pollID, optionID, userID int64) (models.VoteRef, models.PollDetail, error) {
	var none models.VoteRef
	var empty models.PollDetail

	if pollID <= 0 || optionID <= 0 || userID <= 0 {
		return none, empty, fmt.Errorf("%w: poll=%d option=%d user=%d", ErrInvalidID, pollID, optionID, userID)
	}

	// Referential checks. These are read-only; the admission itself is
	// decided by the insert below.
	var published bool
	err := s.db.QueryRowContext(ctx, `
		SELECT is_published FROM poll WHERE id = $1
	`, pollID).Scan(&published)
	if err == sql.ErrNoRows {
		return none, empty, fmt.Errorf("%w: poll %d", ErrPollNotFound, pollID)
	}
	if err != nil {
		return none, empty, fmt.Errorf("failed to query poll %d: %w", pollID, err)
	}
	if !published {
		return none, empty, fmt.Errorf("%w: poll %d", ErrPollUnpublished, pollID)
	}

	var optionPollID int64
	err = s.db.QueryRowContext(ctx, `
		SELECT poll_id FROM poll_option WHERE id = $1
	`, optionID).Scan(&optionPollID)
	if err == sql.ErrNoRows || (err == nil && optionPollID != pollID) {
		return none, empty, fmt.Errorf("%w: option %d, poll %d", ErrInvalidOption, optionID, pollID)
	}
	if err != nil {
		return none, empty, fmt.Errorf("failed to query option %d: %w", optionID, err)
	}

	// Admission: a single insert-if-absent. UNIQUE (poll_id, user_id)
	// decides atomically; concurrent submissions for the same pair
	// cannot both pass.
	var voteID int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO vote (poll_id, option_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, pollID, optionID, userID, time.Now()).Scan(&voteID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return none, empty, fmt.Errorf("%w: poll %d", ErrDuplicateVote, pollID)
		}
		return none, empty, fmt.Errorf("failed to insert vote: %w", err)
	}

	slog.Info("vote admitted", "poll_id", pollID, "option_id", optionID, "user_id", userID, "vote_id", voteID)

	// Snapshot and publish under the poll's lock so successive
	// snapshots for one poll reach the hub in production order.
	lock := s.publishLock(pollID)
	lock.Lock()
	detail, derr := s.PollDetail(ctx, pollID)
	if derr == nil && s.broadcaster != nil {
		s.broadcaster.PollUpdated(detail)
	}
	lock.Unlock()

	if derr != nil {
		// The vote is durably admitted; only the refresh failed.
		slog.Error("failed to recompute poll after vote", "error", derr, "poll_id", pollID)
		return none, empty, fmt.Errorf("failed to recompute poll %d: %w", pollID, derr)
	}

	ref := models.VoteRef{ID: voteID, UserID: userID, OptionID: optionID}
	return ref, detail, nil
}

// Status reports whether a user has voted on a poll, and on what.
func (s *Service) Status(ctx context.Context, pollID, userID int64) (models.VoteStatus, error) {
	if pollID <= 0 || userID <= 0 {
		return models.VoteStatus{}, fmt.Errorf("%w: poll=%d user=%d", ErrInvalidID, pollID, userID)
	}

	var optionID int64
	var optionText string
	err := s.db.QueryRowContext(ctx, `
		SELECT v.option_id, o.text
		FROM vote v
		JOIN poll_option o ON o.id = v.option_id
		WHERE v.poll_id = $1 AND v.user_id = $2
	`, pollID, userID).Scan(&optionID, &optionText)
	if err == sql.ErrNoRows {
		return models.VoteStatus{HasVoted: false}, nil
	}
	if err != nil {
		return models.VoteStatus{}, fmt.Errorf("failed to query vote status: %w", err)
	}

	return models.VoteStatus{
		HasVoted:        true,
		VotedOptionID:   optionID,
		VotedOptionText: optionText,
	}, nil
}

// PollDetail computes the full poll representation with current vote
// counts. Counts are a pure function of stored votes: the vote path and
// the listing path call this and get identical results for the same
// underlying vote set. Read-only; safe to run concurrently.
func (s *Service) PollDetail(ctx context.Context, pollID int64) (models.PollDetail, error) {
	var d models.PollDetail
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.question, p.is_published, p.created_at, p.updated_at,
		       u.id, u.name, u.email
		FROM poll p
		JOIN users u ON u.id = p.creator_id
		WHERE p.id = $1
	`, pollID).Scan(
		&d.ID, &d.Question, &d.IsPublished, &d.CreatedAt, &d.UpdatedAt,
		&d.Creator.ID, &d.Creator.Name, &d.Creator.Email,
	)
	if err == sql.ErrNoRows {
		return models.PollDetail{}, fmt.Errorf("%w: poll %d", ErrPollNotFound, pollID)
	}
	if err != nil {
		return models.PollDetail{}, fmt.Errorf("failed to query poll %d: %w", pollID, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.text, COUNT(v.id)
		FROM poll_option o
		LEFT JOIN vote v ON v.option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.id, o.text
		ORDER BY o.id
	`, pollID)
	if err != nil {
		return models.PollDetail{}, fmt.Errorf("failed to query option counts: %w", err)
	}
	defer rows.Close()

	d.Options = []models.OptionCount{}
	for rows.Next() {
		opt := models.OptionCount{PollID: pollID}
		if err := rows.Scan(&opt.ID, &opt.Text, &opt.Votes); err != nil {
			return models.PollDetail{}, fmt.Errorf("failed to scan option count: %w", err)
		}
		d.TotalVotes += opt.Votes
		d.Options = append(d.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return models.PollDetail{}, fmt.Errorf("failed to read option counts: %w", err)
	}

	return d, nil
}

// ListPublished returns every published poll with current counts,
// newest first.
func (s *Service) ListPublished(ctx context.Context) ([]models.PollDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM poll
		WHERE is_published = TRUE
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan poll id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read polls: %w", err)
	}

	details := []models.PollDetail{}
	for _, id := range ids {
		detail, err := s.PollDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}
