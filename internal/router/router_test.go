package router

import (
	"errors"
	"testing"

	"github.com/tonfleet/liteclient/internal/registry"
)

func reportHead(reg *registry.Registry, seqno uint32) {
	reg.UpsertRight(registry.MasterchainKey, registry.Header{Seqno: seqno})
}

func TestSelectLatestPicksMaxSeqnoTiedSet(t *testing.T) {
	a, b, c := registry.New(), registry.New(), registry.New()
	reportHead(a, 70)
	reportHead(b, 100)
	reportHead(c, 50)

	candidates := []Candidate{
		{ServerID: "a", Reg: a},
		{ServerID: "b", Reg: b},
		{ServerID: "c", Reg: c},
	}

	got, err := Select(LatestRoute(), candidates)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(got) != 1 || got[0].ServerID != "b" {
		t.Fatalf("Select() = %+v, want only {b}", got)
	}
}

func TestSelectLatestTieReturnsAllTied(t *testing.T) {
	a, b := registry.New(), registry.New()
	reportHead(a, 100)
	reportHead(b, 100)

	got, err := Select(LatestRoute(), []Candidate{{ServerID: "a", Reg: a}, {ServerID: "b", Reg: b}})
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Select() returned %d candidates, want 2 tied at the max", len(got))
	}
}

func TestSelectLatestWithNoCandidatesErrors(t *testing.T) {
	_, err := Select(LatestRoute(), nil)
	if !errors.Is(err, ErrRouteUnknown) {
		t.Fatalf("Select() error = %v, want ErrRouteUnknown", err)
	}
}

func TestSelectLatestWithNoneReportingHeadErrors(t *testing.T) {
	_, err := Select(LatestRoute(), []Candidate{{ServerID: "a", Reg: registry.New()}})
	if !errors.Is(err, ErrRouteUnknown) {
		t.Fatalf("Select() error = %v, want ErrRouteUnknown", err)
	}
}

func TestSelectBlockReturnsOnlyAvailable(t *testing.T) {
	crit := registry.SeqnoCriterion(1, 100)
	key := registry.Key{Workchain: -1, Shard: 1}

	available := registry.New()
	available.UpsertLeft(key, registry.Header{Seqno: 0})
	available.UpsertRight(key, registry.Header{Seqno: 200})

	notPresent := registry.New()
	notPresent.UpsertLeft(key, registry.Header{Seqno: 150})
	notPresent.UpsertRight(key, registry.Header{Seqno: 200})

	untracked := registry.New()

	candidates := []Candidate{
		{ServerID: "available", Reg: available},
		{ServerID: "not-present", Reg: notPresent},
		{ServerID: "untracked", Reg: untracked},
	}

	got, err := Select(BlockRoute(-1, crit), candidates)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(got) != 1 || got[0].ServerID != "available" {
		t.Fatalf("Select() = %+v, want only the available candidate", got)
	}
}

func TestSelectBlockAllNotPresentErrorsNotAvailable(t *testing.T) {
	crit := registry.SeqnoCriterion(1, 100)
	key := registry.Key{Workchain: -1, Shard: 1}

	notPresent := registry.New()
	notPresent.UpsertLeft(key, registry.Header{Seqno: 150})
	notPresent.UpsertRight(key, registry.Header{Seqno: 200})

	_, err := Select(BlockRoute(-1, crit), []Candidate{{ServerID: "not-present", Reg: notPresent}})
	if !errors.Is(err, ErrRouteNotAvailable) {
		t.Fatalf("Select() error = %v, want ErrRouteNotAvailable", err)
	}
}

func TestSelectBlockNeverTrackedErrorsUnknown(t *testing.T) {
	crit := registry.SeqnoCriterion(1, 100)
	untracked := registry.New()

	_, err := Select(BlockRoute(-1, crit), []Candidate{{ServerID: "untracked", Reg: untracked}})
	if !errors.Is(err, ErrRouteUnknown) {
		t.Fatalf("Select() error = %v, want ErrRouteUnknown", err)
	}
}
