// Package trace walks the cable graph from a starting termination to
// its far-end logical endpoint, crossing pass-through panel ports.
package trace

import (
	"fmt"

	"github.com/braunma/cabletrace/internal/constants"
	"github.com/braunma/cabletrace/pkg/models"
)

// Graph is the read access the tracer needs. A store transaction
// satisfies it; tests may use an in-memory fake.
type Graph interface {
	// Termination resolves a tagged reference to its concrete object.
	Termination(ref models.TerminationRef) (models.Termination, error)
	// Cable fetches a cable by ID.
	Cable(id int64) (*models.Cable, error)
	// FrontPortAtPosition returns the front port occupying the given
	// position on a rear port, or nil when the position is unoccupied.
	FrontPortAtPosition(rearPortID int64, position int) (*models.FrontPort, error)
	// CircuitPeer returns the termination on the far side of a circuit,
	// or nil when the circuit has no second termination.
	CircuitPeer(ct *models.CircuitTermination) (*models.CircuitTermination, error)
}

// Options control a single walk.
type Options struct {
	// FollowCircuits extends the walk across circuit terminations.
	// Endpoint caching never sets this; it exists for rendered traces.
	FollowCircuits bool
	// Position is the rear-port position the walk enters with.
	// Zero means position 1.
	Position int
}

// Hop is one entry in a rendered path: a termination and the cable
// leaving it. Cable is nil for pass-through entries and at the far end.
type Hop struct {
	Termination models.Termination
	Cable       *models.Cable
}

// Path is the result of one walk. Endpoint is nil for an open or
// unresolved path; Status is set only when Endpoint is set.
type Path struct {
	Hops     []Hop
	Endpoint models.Termination
	Status   models.ConnectionStatus

	// Cycle is set when the walk revisited a termination.
	Cycle bool
	// HopLimitExceeded is set when the walk gave up after
	// constants.MaxTraceHops cable segments.
	HopLimitExceeded bool
}

// Complete reports whether the walk reached a far-end endpoint.
func (p *Path) Complete() bool {
	return p.Endpoint != nil && p.Status != ""
}

// Trace walks the cable graph from start until the path ends, loops, or
// exceeds the hop budget. Cycles and limit overflows are reported on
// the Path, not as errors; errors mean the graph itself is unreadable.
func Trace(g Graph, start models.Termination, opts Options) (*Path, error) {
	position := opts.Position
	if position == 0 {
		position = 1
	}

	path := &Path{}
	status := models.ConnectionConnected
	cur := start
	visited := map[models.TerminationRef]bool{start.Ref(): true}

	for hops := 0; hops < constants.MaxTraceHops; hops++ {
		cableID := cur.AttachedCable()
		if cableID == nil {
			// Open path: nothing attached here.
			path.Hops = append(path.Hops, Hop{Termination: cur})
			return path, nil
		}

		cable, err := g.Cable(*cableID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cable %d: %w", *cableID, err)
		}
		if cable.Status == models.CableStatusDecommissioned {
			// A decommissioned cable is never traversed.
			path.Hops = append(path.Hops, Hop{Termination: cur})
			return path, nil
		}

		farRef, ok := cable.PeerOf(cur.Ref())
		if !ok {
			return nil, fmt.Errorf("cable %d does not terminate %s", cable.ID, cur.Ref())
		}
		path.Hops = append(path.Hops, Hop{Termination: cur, Cable: cable})

		if cable.Status == models.CableStatusPlanned {
			status = models.ConnectionPlanned
		}

		if visited[farRef] {
			path.Cycle = true
			return path, nil
		}
		visited[farRef] = true

		far, err := g.Termination(farRef)
		if err != nil {
			return nil, fmt.Errorf("failed to load termination %s: %w", farRef, err)
		}

		switch t := far.(type) {
		case *models.FrontPort:
			// Internal hop to the paired rear port, adopting the front
			// port's position for the rest of the walk.
			rearRef := t.RearPortRef()
			if visited[rearRef] {
				path.Hops = append(path.Hops, Hop{Termination: far})
				path.Cycle = true
				return path, nil
			}
			visited[rearRef] = true
			path.Hops = append(path.Hops, Hop{Termination: far})

			rear, err := g.Termination(rearRef)
			if err != nil {
				return nil, fmt.Errorf("failed to load rear port %s: %w", rearRef, err)
			}
			position = t.RearPortPosition
			cur = rear

		case *models.RearPort:
			path.Hops = append(path.Hops, Hop{Termination: far})
			if position < 1 || position > models.PositionCount(t) {
				// Malformed position mapping; treat the path as open.
				return path, nil
			}
			front, err := g.FrontPortAtPosition(t.ID, position)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve front port for rear port %d position %d: %w", t.ID, position, err)
			}
			if front == nil {
				// No front port occupies this position: open path.
				return path, nil
			}
			if visited[front.Ref()] {
				path.Cycle = true
				return path, nil
			}
			visited[front.Ref()] = true
			position = 1
			cur = front

		case *models.CircuitTermination:
			path.Hops = append(path.Hops, Hop{Termination: far})
			if !opts.FollowCircuits {
				path.Endpoint = far
				path.Status = status
				return path, nil
			}
			peer, err := g.CircuitPeer(t)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve circuit peer for termination %d: %w", t.ID, err)
			}
			if peer == nil {
				return path, nil
			}
			if visited[peer.Ref()] {
				path.Cycle = true
				return path, nil
			}
			visited[peer.Ref()] = true
			cur = peer

		default:
			// A non-pass-through termination is the far-end endpoint.
			path.Hops = append(path.Hops, Hop{Termination: far})
			path.Endpoint = far
			path.Status = status
			return path, nil
		}
	}

	path.HopLimitExceeded = true
	return path, nil
}
