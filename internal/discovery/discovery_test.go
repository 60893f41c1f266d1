package discovery

import (
	"testing"
	"time"

	"github.com/tonfleet/liteclient/internal/adnl"
)

func TestInsertRemovePublished(t *testing.T) {
	s := New()
	ch := make(chan Change, 4)
	s.Subscribe(ch)

	ep := adnl.Endpoint{Address: "127.0.0.1:3333"}
	s.Insert(ep)
	s.Remove(ep)

	first := <-ch
	if first.Type != Insert || first.Endpoint != ep {
		t.Fatalf("first change = %+v, want Insert %+v", first, ep)
	}
	second := <-ch
	if second.Type != Remove || second.Endpoint != ep {
		t.Fatalf("second change = %+v, want Remove %+v", second, ep)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := New()
	ch := make(chan Change, 1)
	s.Subscribe(ch)
	s.Unsubscribe(ch)

	s.Insert(adnl.Endpoint{Address: "x"})

	select {
	case c := <-ch:
		t.Fatalf("unexpected change delivered after Unsubscribe: %+v", c)
	default:
	}
}

func TestSlowSubscriberDropsRatherThanBlocks(t *testing.T) {
	s := New()
	ch := make(chan Change) // unbuffered, nobody reading
	s.Subscribe(ch)

	done := make(chan struct{})
	go func() {
		s.Insert(adnl.Endpoint{Address: "a"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Insert() blocked on a slow subscriber")
	}
}

func TestStaticSeed(t *testing.T) {
	eps := []adnl.Endpoint{{Address: "a"}, {Address: "b"}}
	st := Static{Endpoints: eps}
	ch := make(chan Change, len(eps))
	st.Seed(ch)

	for _, want := range eps {
		got := <-ch
		if got.Type != Insert || got.Endpoint != want {
			t.Fatalf("Seed() produced %+v, want Insert %+v", got, want)
		}
	}
}
