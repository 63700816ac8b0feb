// Package broadcast implements the real-time notification fan-out (C7): a
// per-topic event hub delivered to clients over Server-Sent Events.
//
// No example repo in the corpus imports a WebSocket library (gorilla or
// otherwise), so this follows the plain net/http chunked-response pattern
// instead of inventing a dependency; see DESIGN.md.
package broadcast

import (
	"context"
	"sync"
	"time"
)

// Event is one message delivered on a topic.
type Event struct {
	ID      string // event_id, used for at-least-once dedup on the client
	Topic   string
	Seq     uint64
	Kind    string
	Payload any
	SentAt  time.Time
}

// Hub owns every topic's subscriber set and replay buffer.
type Hub struct {
	mu            sync.RWMutex
	topics        map[string]*topic
	replayBuffer  int
	heartbeat     time.Duration
}

type topic struct {
	seq         uint64
	subscribers map[*Subscriber]struct{}
	replay      []Event
}

// Subscriber is one connected client's delivery channel.
type Subscriber struct {
	ch            chan Event
	topic         string
	missedHeartbeats int
}

// NewHub constructs a Hub. replayBufferSize bounds how many past events per
// topic are retained for late subscribers (config.BroadcastReplayBufferSize);
// heartbeat is the keepalive interval (config.BroadcastHeartbeat).
func NewHub(replayBufferSize int, heartbeat time.Duration) *Hub {
	if replayBufferSize <= 0 {
		replayBufferSize = 256
	}
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &Hub{
		topics:       map[string]*topic{},
		replayBuffer: replayBufferSize,
		heartbeat:    heartbeat,
	}
}

func (h *Hub) topicFor(name string) *topic {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.topics[name]
	if !ok {
		t = &topic{subscribers: map[*Subscriber]struct{}{}}
		h.topics[name] = t
	}
	return t
}

// Publish appends an event to topic's replay buffer and delivers it to
// every current subscriber. A subscriber whose channel is full is dropped
// and its channel closed rather than blocking the publisher (backpressure
// policy from §4.7); a resync_required event is queued before the close only
// if the channel has room by then.
func (h *Hub) Publish(topicName, kind string, payload any) Event {
	t := h.topicFor(topicName)

	h.mu.Lock()
	t.seq++
	ev := Event{
		ID:     newEventID(),
		Topic:  topicName,
		Seq:    t.seq,
		Kind:   kind,
		Payload: payload,
		SentAt: time.Now(),
	}
	t.replay = append(t.replay, ev)
	if len(t.replay) > h.replayBuffer {
		t.replay = t.replay[len(t.replay)-h.replayBuffer:]
	}
	subs := make([]*Subscriber, 0, len(t.subscribers))
	for sub := range t.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub.ch <- ev:
		default:
			h.dropAndResync(t, sub)
		}
	}
	return ev
}

func (h *Hub) dropAndResync(t *topic, sub *Subscriber) {
	h.mu.Lock()
	delete(t.subscribers, sub)
	h.mu.Unlock()
	select {
	case sub.ch <- Event{Topic: sub.topic, Kind: "resync_required"}:
	default:
	}
	close(sub.ch)
}

// Subscribe registers a new subscriber on topicName, seeding it with any
// buffered events whose Seq is greater than afterSeq (0 for "from the
// start of the buffer").
func (h *Hub) Subscribe(topicName string, afterSeq uint64) *Subscriber {
	t := h.topicFor(topicName)
	sub := &Subscriber{ch: make(chan Event, 64), topic: topicName}

	h.mu.Lock()
	t.subscribers[sub] = struct{}{}
	var backlog []Event
	for _, ev := range t.replay {
		if ev.Seq > afterSeq {
			backlog = append(backlog, ev)
		}
	}
	h.mu.Unlock()

	if afterSeq > 0 && len(t.replay) > 0 && t.replay[0].Seq > afterSeq+1 {
		// the requested resume point fell outside the retained buffer
		sub.ch <- Event{Topic: topicName, Kind: "resync_required"}
	}
	for _, ev := range backlog {
		sub.ch <- ev
	}
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	t := h.topicFor(sub.topic)
	h.mu.Lock()
	if _, ok := t.subscribers[sub]; ok {
		delete(t.subscribers, sub)
		close(sub.ch)
	}
	h.mu.Unlock()
}

// Events returns the subscriber's delivery channel for the caller's
// transport loop (see internal/api's SSE handler) to range over.
func (s *Subscriber) Events() <-chan Event { return s.ch }

// Heartbeat returns the hub's configured keepalive interval.
func (h *Hub) Heartbeat() time.Duration { return h.heartbeat }

// maxMissedHeartbeats is the number of consecutive missed heartbeats after
// which a connection is considered dead and dropped (§4.7).
const maxMissedHeartbeats = 2

// RecordHeartbeatMiss increments the miss counter and reports whether the
// subscriber should now be dropped.
func (s *Subscriber) RecordHeartbeatMiss() bool {
	s.missedHeartbeats++
	return s.missedHeartbeats >= maxMissedHeartbeats
}

func (s *Subscriber) ResetHeartbeat() { s.missedHeartbeats = 0 }

// Run blocks, delivering heartbeats on the hub's interval until ctx is
// cancelled or the subscriber's channel closes; deliverFn is called for
// every event and heartbeat tick, letting the HTTP handler own framing.
func (h *Hub) Run(ctx context.Context, sub *Subscriber, deliverFn func(Event) error) error {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.ch:
			if !ok {
				return nil
			}
			if err := deliverFn(ev); err != nil {
				return err
			}
		case <-ticker.C:
			if err := deliverFn(Event{Topic: sub.topic, Kind: "heartbeat", SentAt: time.Now()}); err != nil {
				return err
			}
		}
	}
}
