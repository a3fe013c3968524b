package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/livepolls/models"
	"github.com/danielhkuo/livepolls/testutil"
	"github.com/danielhkuo/livepolls/vote"
)

type pollFixture struct {
	db      *sql.DB
	mux     *http.ServeMux
	creator int64
}

func setupPolls(t *testing.T) *pollFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	svc := vote.NewService(db, nil)
	h := NewPollHandler(db, svc)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/polls", h.CreatePoll)
	mux.HandleFunc("GET /api/polls", h.ListPolls)
	mux.HandleFunc("GET /api/polls/{pollID}", h.GetPoll)

	creator := testutil.CreateTestUser(t, db, "Alice", "alice@example.com")

	return &pollFixture{db: db, mux: mux, creator: creator}
}

func (f *pollFixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	req := testutil.MakeRequest(method, path, body, nil)
	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)
	return w
}

func TestCreatePoll(t *testing.T) {
	f := setupPolls(t)

	w := f.do("POST", "/api/polls", models.CreatePollRequest{
		Question:    "Best language?",
		CreatorID:   models.ID(f.creator),
		Options:     []string{"Go", "Rust", "Zig"},
		IsPublished: true,
	})
	testutil.AssertStatus(t, w, http.StatusCreated)

	var detail models.PollDetail
	testutil.AssertJSON(t, w, &detail)
	if detail.Question != "Best language?" || !detail.IsPublished {
		t.Errorf("Unexpected poll: %+v", detail)
	}
	if detail.Creator.ID != f.creator || detail.Creator.Name != "Alice" {
		t.Errorf("Unexpected creator: %+v", detail.Creator)
	}
	if len(detail.Options) != 3 {
		t.Fatalf("Expected 3 options, got %d", len(detail.Options))
	}
	// Options come back in insertion order with zero counts.
	for i, want := range []string{"Go", "Rust", "Zig"} {
		if detail.Options[i].Text != want || detail.Options[i].Votes != 0 {
			t.Errorf("Option %d: %+v", i, detail.Options[i])
		}
	}
	if detail.TotalVotes != 0 {
		t.Errorf("Expected 0 total votes, got %d", detail.TotalVotes)
	}
}

func TestCreatePollValidation(t *testing.T) {
	f := setupPolls(t)

	tests := []struct {
		name string
		body models.CreatePollRequest
	}{
		{"missing question", models.CreatePollRequest{CreatorID: models.ID(f.creator), Options: []string{"A"}}},
		{"missing creator", models.CreatePollRequest{Question: "Q?", Options: []string{"A"}}},
		{"no options", models.CreatePollRequest{Question: "Q?", CreatorID: models.ID(f.creator)}},
		{"empty option text", models.CreatePollRequest{Question: "Q?", CreatorID: models.ID(f.creator), Options: []string{"A", ""}}},
		{"unknown creator", models.CreatePollRequest{Question: "Q?", CreatorID: 99999, Options: []string{"A"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do("POST", "/api/polls", tt.body)
			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var envelope models.ErrorEnvelope
			testutil.AssertJSON(t, w, &envelope)
			if envelope.Success {
				t.Error("Expected success=false")
			}
		})
	}
}

func TestCreatePollDuplicateQuestion(t *testing.T) {
	f := setupPolls(t)

	body := models.CreatePollRequest{
		Question:  "Best language?",
		CreatorID: models.ID(f.creator),
		Options:   []string{"Go"},
	}
	w := f.do("POST", "/api/polls", body)
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = f.do("POST", "/api/polls", body)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	var envelope models.ErrorEnvelope
	testutil.AssertJSON(t, w, &envelope)
	if envelope.Error != "You have already created this poll" {
		t.Errorf("Unexpected error: %q", envelope.Error)
	}

	// A different creator may ask the same question.
	other := testutil.CreateTestUser(t, f.db, "Carol", "carol@example.com")
	body.CreatorID = models.ID(other)
	w = f.do("POST", "/api/polls", body)
	testutil.AssertStatus(t, w, http.StatusCreated)
}

func TestListPolls(t *testing.T) {
	f := setupPolls(t)

	voter := testutil.CreateTestUser(t, f.db, "Bob", "bob@example.com")
	publishedID, optionIDs := testutil.CreateTestPoll(t, f.db, f.creator, "Published poll", true, "A", "B")
	testutil.CreateTestPoll(t, f.db, f.creator, "Draft poll", false, "hidden")
	testutil.CastTestVote(t, f.db, publishedID, optionIDs[0], voter)

	w := f.do("GET", "/api/polls", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var details []models.PollDetail
	testutil.AssertJSON(t, w, &details)
	if len(details) != 1 {
		t.Fatalf("Expected 1 published poll, got %d", len(details))
	}
	if details[0].ID != publishedID || details[0].TotalVotes != 1 {
		t.Errorf("Unexpected listing: %+v", details[0])
	}
}

func TestGetPoll(t *testing.T) {
	f := setupPolls(t)

	pollID, _ := testutil.CreateTestPoll(t, f.db, f.creator, "Best language?", true, "Go", "Rust")

	w := f.do("GET", fmt.Sprintf("/api/polls/%d", pollID), nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var detail models.PollDetail
	testutil.AssertJSON(t, w, &detail)
	if detail.ID != pollID || len(detail.Options) != 2 {
		t.Errorf("Unexpected poll: %+v", detail)
	}

	w = f.do("GET", "/api/polls/99999", nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = f.do("GET", "/api/polls/abc", nil)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

// An unpublished poll is visible through GetPoll but absent from the
// public listing.
func TestGetPollUnpublished(t *testing.T) {
	f := setupPolls(t)

	draftID, _ := testutil.CreateTestPoll(t, f.db, f.creator, "Draft question", false, "A")

	w := f.do("GET", fmt.Sprintf("/api/polls/%d", draftID), nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var detail models.PollDetail
	testutil.AssertJSON(t, w, &detail)
	if detail.IsPublished {
		t.Error("Expected isPublished=false")
	}
}
