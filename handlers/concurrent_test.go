package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/livepolls/models"
	"github.com/danielhkuo/livepolls/testutil"
)

func TestConcurrentVoteRequests(t *testing.T) {
	f := setupVoting(t)
	pollPath := fmt.Sprintf("%d", f.pollID)

	// Simultaneous requests from the same user over the HTTP transport.
	const attempts = 8
	var wg sync.WaitGroup
	var admitted, rejected atomic.Int32

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := f.castVote(pollPath, models.CastVoteRequest{
				UserID:   models.ID(f.voter),
				OptionID: models.ID(f.optionIDs[i%2]),
			})
			switch w.Code {
			case http.StatusOK:
				admitted.Add(1)
			case http.StatusBadRequest:
				rejected.Add(1)
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	if admitted.Load() != 1 {
		t.Errorf("Expected exactly 1 admitted vote, got %d", admitted.Load())
	}
	if rejected.Load() != attempts-1 {
		t.Errorf("Expected %d rejections, got %d", attempts-1, rejected.Load())
	}
	if n := testutil.CountVotes(t, f.db, f.pollID); n != 1 {
		t.Errorf("Expected 1 stored vote, got %d", n)
	}
}

func TestConcurrentVotersAreAllCounted(t *testing.T) {
	f := setupVoting(t)
	pollPath := fmt.Sprintf("%d", f.pollID)

	const voters = 10
	voterIDs := make([]int64, voters)
	for i := range voterIDs {
		voterIDs[i] = testutil.CreateTestUser(t, f.db, "Voter", fmt.Sprintf("voter%d@example.com", i))
	}

	var wg sync.WaitGroup
	for _, userID := range voterIDs {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			w := f.castVote(pollPath, models.CastVoteRequest{
				UserID:   models.ID(userID),
				OptionID: models.ID(f.optionIDs[0]),
			})
			if w.Code != http.StatusOK {
				t.Errorf("Vote for user %d failed: %d %s", userID, w.Code, w.Body.String())
			}
		}(userID)
	}
	wg.Wait()

	if n := testutil.CountVotes(t, f.db, f.pollID); n != voters {
		t.Errorf("Expected %d stored votes, got %d", voters, n)
	}
}
