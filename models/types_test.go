// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"testing"
)

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{"number", `{"userId": 42}`, 42, false},
		{"numeric string", `{"userId": "42"}`, 42, false},
		{"zero", `{"userId": 0}`, 0, false},
		{"null", `{"userId": null}`, 0, false},
		{"empty string", `{"userId": ""}`, 0, false},
		{"non-numeric string", `{"userId": "abc"}`, 0, true},
		{"float", `{"userId": 1.5}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CastVoteRequest
			err := json.Unmarshal([]byte(tt.input), &req)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got userId=%d", req.UserID)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if req.UserID != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, req.UserID)
			}
		})
	}
}

func TestVoteStatusOmitsOptionWhenNotVoted(t *testing.T) {
	b, err := json.Marshal(VoteStatus{HasVoted: false})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `{"hasVoted":false}` {
		t.Errorf("Unexpected encoding: %s", b)
	}
}
