// Package router selects which lite-server to address a request to,
// based on the route the caller asked for and each candidate's known
// availability in the registry.
package router

import (
	"errors"

	"github.com/tonfleet/liteclient/internal/registry"
)

// Route is the caller's selection policy for a query: either the
// freshest known masterchain head (Latest) or a specific chain
// coordinate the server must still retain (Block).
type Route struct {
	Latest    bool
	Chain     int32
	Criterion registry.Criterion
}

// LatestRoute builds a Route that asks for whichever server has the
// freshest observed masterchain head.
func LatestRoute() Route { return Route{Latest: true} }

// BlockRoute builds a Route that asks for a server retaining the block
// identified by criterion on chain.
func BlockRoute(chain int32, criterion registry.Criterion) Route {
	return Route{Chain: chain, Criterion: criterion}
}

// ErrRouteUnknown is returned when no server has ever claimed the
// requested route: the masterchain head has never been observed
// (Latest), or no candidate's registry has ever tracked the requested
// shard at all (Block).
var ErrRouteUnknown = errors.New("router: route unknown, no server has ever claimed it")

// ErrRouteNotAvailable is returned when at least one candidate tracks
// the requested shard but reports the criterion outside its retrievable
// window. Distinct from ErrRouteUnknown so callers can retry after a
// short delay instead of treating it as a permanent routing failure.
var ErrRouteNotAvailable = errors.New("router: route not yet available")

// ErrNoAvailableServer is a deprecated alias of ErrRouteUnknown kept so
// existing callers matching the original, less specific error type
// still compile.
var ErrNoAvailableServer = ErrRouteUnknown

// Candidate is one server eligible for selection, along with its
// registry view.
type Candidate struct {
	ServerID string
	Reg      *registry.Registry
}

// Select narrows candidates to the ones satisfying route.
//
// For Latest: each candidate's reported masterchain head (the Right
// bound of registry.MasterchainKey) is compared; the servers tied for
// the maximum are returned, in candidate order. If no
// candidate has ever reported a head, ErrRouteUnknown.
//
// For Block: candidates are partitioned by registry.Availability. If
// any are Available, that set alone is returned (an Unknown or
// NotPresent candidate is never preferred over one that confirmed
// availability). Else if any are NotPresent, ErrRouteNotAvailable. Else
// (every candidate Unknown, or no candidates at all) ErrRouteUnknown.
func Select(route Route, candidates []Candidate) ([]Candidate, error) {
	if route.Latest {
		return selectLatest(candidates)
	}
	return selectBlock(route, candidates)
}

func selectLatest(candidates []Candidate) ([]Candidate, error) {
	var best uint32
	haveBest := false
	heads := make(map[string]uint32, len(candidates))

	for _, c := range candidates {
		snap := c.Reg.Lookup(registry.MasterchainKey)
		if snap.Right == nil {
			continue
		}
		heads[c.ServerID] = snap.Right.Seqno
		if !haveBest || snap.Right.Seqno > best {
			best = snap.Right.Seqno
			haveBest = true
		}
	}
	if !haveBest {
		return nil, ErrRouteUnknown
	}

	var out []Candidate
	for _, c := range candidates {
		if seqno, ok := heads[c.ServerID]; ok && seqno == best {
			out = append(out, c)
		}
	}
	return out, nil
}

func selectBlock(route Route, candidates []Candidate) ([]Candidate, error) {
	var available, notPresent []Candidate
	for _, c := range candidates {
		switch c.Reg.Available(route.Chain, route.Criterion) {
		case registry.Available:
			available = append(available, c)
		case registry.NotPresent:
			notPresent = append(notPresent, c)
		}
	}

	if len(available) > 0 {
		return available, nil
	}
	if len(notPresent) > 0 {
		return nil, ErrRouteNotAvailable
	}
	return nil, ErrRouteUnknown
}
