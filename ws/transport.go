// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/net/websocket"

	"github.com/danielhkuo/livepolls/models"
	"github.com/danielhkuo/livepolls/vote"
)

// A connection sending this many undecodable frames in a row is dropped.
const maxDecodeErrors = 3

// NewHandler returns the websocket endpoint. Commands are JSON frames:
// joinAllPolls, joinPoll and castVote. Votes go through the same
// service operation as the HTTP endpoint.
func NewHandler(hub *Hub, svc *vote.Service) http.Handler {
	wsHandler := websocket.Handler(func(conn *websocket.Conn) {
		serveConn(conn, hub, svc)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wsHandler.ServeHTTP(w, r)
	})
}

func serveConn(conn *websocket.Conn, hub *Hub, svc *vote.Service) {
	defer conn.Close()

	peer := hub.Attach(conn)
	if peer == nil {
		return
	}
	defer hub.Detach(peer)

	slog.Info("client connected", "conn_id", peer.ID)
	defer slog.Info("client disconnected", "conn_id", peer.ID)

	ctx := context.Background()
	if r := conn.Request(); r != nil {
		ctx = r.Context()
	}

	decodeErrors := 0

	for {
		var data []byte
		if err := websocket.Message.Receive(conn, &data); err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Debug("websocket receive failed", "error", err, "conn_id", peer.ID)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			decodeErrors++
			_ = peer.Send(models.FrameVoteError, models.VoteErrorPayload{Message: "invalid frame payload"})
			if decodeErrors >= maxDecodeErrors {
				return
			}
			continue
		}
		decodeErrors = 0

		switch frame.Type {
		case models.FrameJoinAllPolls:
			hub.Join(peer, TopicAllPolls)
		case models.FrameJoinPoll:
			handleJoinPoll(hub, peer, frame)
		case models.FrameCastVote:
			handleCastVote(ctx, peer, svc, frame)
		default:
			_ = peer.Send(models.FrameVoteError, models.VoteErrorPayload{Message: "unsupported frame type"})
		}
	}
}

func handleJoinPoll(hub *Hub, peer *Peer, frame Frame) {
	var payload models.JoinPollPayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil || payload.PollID <= 0 {
		_ = peer.Send(models.FrameVoteError, models.VoteErrorPayload{Message: "invalid join payload"})
		return
	}
	hub.Join(peer, PollTopic(payload.PollID.Int64()))
}

func handleCastVote(ctx context.Context, peer *Peer, svc *vote.Service, frame Frame) {
	var payload models.CastVotePayload
	if err := json.Unmarshal(frame.Payload, &payload); err != nil {
		_ = peer.Send(models.FrameVoteError, models.VoteErrorPayload{Message: vote.ErrInvalidID.Error()})
		return
	}

	pollID := payload.PollID.Int64()
	ref, _, err := svc.Submit(ctx, pollID, payload.OptionID.Int64(), payload.UserID.Int64())
	if err != nil {
		if vote.HTTPStatus(err) == http.StatusInternalServerError {
			slog.Error("vote submission failed", "error", err, "poll_id", pollID, "conn_id", peer.ID)
		}
		// The rejection names the poll so the client knows which UI to
		// update. The broadcast never fires for rejected votes.
		_ = peer.Send(models.FrameVoteError, models.VoteErrorPayload{
			PollID:  pollID,
			Message: vote.PublicMessage(err),
		})
		return
	}

	// Topic subscribers already got the pollUpdated broadcast from the
	// service; this confirmation goes only to the submitter, since the
	// broadcast carries no user attribution.
	_ = peer.Send(models.FrameVoteSuccess, models.VoteSuccessPayload{
		Message: "Vote submitted successfully",
		PollID:  pollID,
		Vote:    ref,
	})
}
