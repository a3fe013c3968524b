// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ws

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/danielhkuo/livepolls/models"
)

// TopicAllPolls receives every poll's updates.
const TopicAllPolls = "polls:all"

// PollTopic names the per-poll update topic.
func PollTopic(pollID int64) string {
	return fmt.Sprintf("poll:%d", pollID)
}

// Outbound queue depth per peer. A peer that falls this far behind is
// disconnected rather than allowed to block fanout.
const sendBuffer = 32

// Peer is one attached websocket connection. Writes go through a
// buffered queue drained by a dedicated goroutine, so one unreachable
// peer never delays delivery to the others, and messages enqueued for
// a peer are written in enqueue order.
type Peer struct {
	ID string

	hub  *Hub
	conn io.WriteCloser
	send chan []byte
	done chan struct{}
	once sync.Once
}

// Send writes a frame point-to-point to this peer. Used for vote
// confirmations and rejections; broadcasts go through the hub.
func (p *Peer) Send(frameType string, payload any) error {
	b, err := marshalFrame(frameType, payload)
	if err != nil {
		return err
	}
	if !p.enqueue(b) {
		return fmt.Errorf("peer %s unreachable", p.ID)
	}
	return nil
}

func (p *Peer) enqueue(b []byte) bool {
	select {
	case <-p.done:
		return false
	case p.send <- b:
		return true
	default:
		return false
	}
}

func (p *Peer) writeLoop() {
	for {
		select {
		case <-p.done:
			return
		case b := <-p.send:
			if _, err := p.conn.Write(b); err != nil {
				p.hub.Detach(p)
				return
			}
		}
	}
}

func (p *Peer) close() {
	p.once.Do(func() {
		close(p.done)
		p.conn.Close()
	})
}

// Hub owns the live connection registry and topic membership. It is
// constructed on service start, injected where broadcasting is needed,
// and torn down with Close on service stop. Topic membership lives and
// dies with the connection; nothing here is persisted.
type Hub struct {
	mu     sync.Mutex
	peers  map[*Peer]struct{}
	topics map[string]map[*Peer]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{
		peers:  make(map[*Peer]struct{}),
		topics: make(map[string]map[*Peer]struct{}),
	}
}

// Attach registers a connection and starts its writer. Returns nil if
// the hub is already closed.
func (h *Hub) Attach(conn io.WriteCloser) *Peer {
	p := &Peer{
		ID:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.peers[p] = struct{}{}
	h.mu.Unlock()

	go p.writeLoop()
	return p
}

// Detach removes a peer from the registry and every topic, and closes
// its connection. Safe to call more than once.
func (h *Hub) Detach(p *Peer) {
	h.mu.Lock()
	delete(h.peers, p)
	for topic, members := range h.topics {
		delete(members, p)
		if len(members) == 0 {
			delete(h.topics, topic)
		}
	}
	h.mu.Unlock()

	p.close()
}

// Join subscribes a peer to a topic.
func (h *Hub) Join(p *Peer, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	members, ok := h.topics[topic]
	if !ok {
		members = make(map[*Peer]struct{})
		h.topics[topic] = members
	}
	members[p] = struct{}{}
}

// Subscribers reports the current member count of a topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}

// PollUpdated broadcasts the refreshed poll to its own topic and to the
// all-polls topic. A peer subscribed to both receives it twice; clients
// dedupe by poll id. Implements the vote service's Broadcaster.
func (h *Hub) PollUpdated(detail models.PollDetail) {
	b, err := marshalFrame(models.FramePollUpdated, detail)
	if err != nil {
		slog.Error("failed to encode poll update", "error", err, "poll_id", detail.ID)
		return
	}
	h.broadcast(PollTopic(detail.ID), b)
	h.broadcast(TopicAllPolls, b)
}

// broadcast enqueues a message for every topic member. Enqueueing
// happens under the hub lock, so two broadcasts to the same topic reach
// each member's queue in the same order. Peers with a full queue are
// disconnected after the sweep; they never block the rest.
func (h *Hub) broadcast(topic string, b []byte) {
	var stale []*Peer

	h.mu.Lock()
	for p := range h.topics[topic] {
		if !p.enqueue(b) {
			stale = append(stale, p)
		}
	}
	h.mu.Unlock()

	for _, p := range stale {
		slog.Warn("dropping unreachable subscriber", "conn_id", p.ID, "topic", topic)
		h.Detach(p)
	}
}

// Close tears down every connection and refuses further attachments.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	peers := make([]*Peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	for _, p := range peers {
		h.Detach(p)
	}
}

// Frame is the wire envelope for every websocket message in both
// directions.
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func marshalFrame(frameType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", frameType, err)
	}
	return json.Marshal(Frame{Type: frameType, Payload: raw})
}
