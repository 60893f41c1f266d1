// Package discovery adapts a static or dynamic source of lite-server
// endpoints into a stream of Change events the fleet's balancer
// subscribes to.
package discovery

import (
	"sync"

	"github.com/tonfleet/liteclient/internal/adnl"
)

// ChangeType distinguishes an endpoint joining or leaving the fleet.
type ChangeType int

const (
	// Insert announces a newly available endpoint.
	Insert ChangeType = iota
	// Remove announces an endpoint no longer in service.
	Remove
)

// Change is one fleet membership event.
type Change struct {
	Type     ChangeType
	Endpoint adnl.Endpoint
}

// Source adapts a feed of fleet membership changes into subscriber
// channels. Subscribers never block the feed: each gets its own
// buffered channel, and a slow subscriber drops events rather than
// stalling others.
type Source struct {
	mu          sync.Mutex
	subscribers []chan<- Change
}

// New creates an empty Source.
func New() *Source {
	return &Source{}
}

// Subscribe registers ch to receive future Change events. Unsubscribe
// must be called when the subscriber is done to avoid leaking the slot.
func (s *Source) Subscribe(ch chan<- Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, ch)
}

// Unsubscribe removes ch from the subscriber list.
func (s *Source) Unsubscribe(ch chan<- Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// Insert announces e as newly available to every subscriber.
func (s *Source) Insert(e adnl.Endpoint) {
	s.publish(Change{Type: Insert, Endpoint: e})
}

// Remove announces e as no longer in service to every subscriber.
func (s *Source) Remove(e adnl.Endpoint) {
	s.publish(Change{Type: Remove, Endpoint: e})
}

func (s *Source) publish(c Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- c:
		default:
			// subscriber's buffer is full; drop rather than block the feed
		}
	}
}

// Static seeds a Source with a fixed, known-at-startup endpoint set,
// publishing one Insert per endpoint to any subscriber that registers
// afterward via Seed.
type Static struct {
	Endpoints []adnl.Endpoint
}

// Seed replays every endpoint in s as an Insert to ch. Used to give a
// newly-subscribing balancer the current fleet membership without
// waiting for the next live change.
func (s Static) Seed(ch chan<- Change) {
	for _, e := range s.Endpoints {
		ch <- Change{Type: Insert, Endpoint: e}
	}
}
