package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braunma/cabletrace/pkg/models"
)

// fakeGraph is an in-memory Graph for exercising the walker without a
// database.
type fakeGraph struct {
	terminations map[models.TerminationRef]models.Termination
	cables       map[int64]*models.Cable
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{
		terminations: make(map[models.TerminationRef]models.Termination),
		cables:       make(map[int64]*models.Cable),
	}
}

func (g *fakeGraph) add(t models.Termination) {
	g.terminations[t.Ref()] = t
}

func (g *fakeGraph) cable(id int64, a, b models.Termination, status models.CableStatus) *models.Cable {
	c := &models.Cable{ID: id, TerminationA: a.Ref(), TerminationB: b.Ref(), Status: status}
	g.cables[id] = c
	return c
}

func (g *fakeGraph) Termination(ref models.TerminationRef) (models.Termination, error) {
	return g.terminations[ref], nil
}

func (g *fakeGraph) Cable(id int64) (*models.Cable, error) {
	return g.cables[id], nil
}

func (g *fakeGraph) FrontPortAtPosition(rearPortID int64, position int) (*models.FrontPort, error) {
	for _, t := range g.terminations {
		if fp, ok := t.(*models.FrontPort); ok && fp.RearPortID == rearPortID && fp.RearPortPosition == position {
			return fp, nil
		}
	}
	return nil, nil
}

func (g *fakeGraph) CircuitPeer(ct *models.CircuitTermination) (*models.CircuitTermination, error) {
	for _, t := range g.terminations {
		if peer, ok := t.(*models.CircuitTermination); ok && peer.CircuitID == ct.CircuitID && peer.ID != ct.ID {
			return peer, nil
		}
	}
	return nil, nil
}

func ptr(v int64) *int64 { return &v }

// buildPanelPath wires iface1 —c1— front1/rear1 —c2— rear2/front2 —c3— iface2
// and returns the graph plus both interfaces. c3 is created with the
// given status.
func buildPanelPath(t *testing.T, c3Status models.CableStatus) (*fakeGraph, *models.Interface, *models.Interface) {
	t.Helper()
	g := newFakeGraph()

	iface1 := &models.Interface{ID: 1, Name: "eth0", CableID: ptr(1)}
	iface2 := &models.Interface{ID: 2, Name: "eth0", CableID: ptr(3)}
	rear1 := &models.RearPort{ID: 10, Name: "R1", Positions: 1, CableID: ptr(2)}
	front1 := &models.FrontPort{ID: 11, Name: "F1", RearPortID: 10, RearPortPosition: 1, CableID: ptr(1)}
	rear2 := &models.RearPort{ID: 20, Name: "R2", Positions: 1, CableID: ptr(2)}
	front2 := &models.FrontPort{ID: 21, Name: "F2", RearPortID: 20, RearPortPosition: 1, CableID: ptr(3)}

	for _, term := range []models.Termination{iface1, iface2, rear1, front1, rear2, front2} {
		g.add(term)
	}
	g.cable(1, iface1, front1, models.CableStatusConnected)
	g.cable(2, rear1, rear2, models.CableStatusConnected)
	g.cable(3, front2, iface2, c3Status)

	return g, iface1, iface2
}

func TestTraceNoCable(t *testing.T) {
	g := newFakeGraph()
	iface := &models.Interface{ID: 1, Name: "eth0"}
	g.add(iface)

	path, err := Trace(g, iface, Options{})
	require.NoError(t, err)
	assert.Nil(t, path.Endpoint)
	assert.False(t, path.Complete())
	assert.Len(t, path.Hops, 1)
}

func TestTraceDirectConnection(t *testing.T) {
	g := newFakeGraph()
	iface1 := &models.Interface{ID: 1, Name: "eth0", CableID: ptr(1)}
	iface2 := &models.Interface{ID: 2, Name: "eth0", CableID: ptr(1)}
	g.add(iface1)
	g.add(iface2)
	g.cable(1, iface1, iface2, models.CableStatusConnected)

	path, err := Trace(g, iface1, Options{})
	require.NoError(t, err)
	require.True(t, path.Complete())
	assert.Equal(t, iface2.Ref(), path.Endpoint.Ref())
	assert.Equal(t, models.ConnectionConnected, path.Status)
}

func TestTraceThroughPanels(t *testing.T) {
	g, iface1, iface2 := buildPanelPath(t, models.CableStatusConnected)

	path, err := Trace(g, iface1, Options{})
	require.NoError(t, err)
	require.True(t, path.Complete())
	assert.Equal(t, iface2.Ref(), path.Endpoint.Ref())
	assert.Equal(t, models.ConnectionConnected, path.Status)

	// Hop sequence: iface1, front1, rear1, rear2, front2, iface2.
	refs := make([]models.TerminationRef, 0, len(path.Hops))
	for _, hop := range path.Hops {
		refs = append(refs, hop.Termination.Ref())
	}
	assert.Equal(t, []models.TerminationRef{
		{Kind: models.KindInterface, ID: 1},
		{Kind: models.KindFrontPort, ID: 11},
		{Kind: models.KindRearPort, ID: 10},
		{Kind: models.KindRearPort, ID: 20},
		{Kind: models.KindFrontPort, ID: 21},
		{Kind: models.KindInterface, ID: 2},
	}, refs)
}

func TestTraceSymmetry(t *testing.T) {
	g, iface1, iface2 := buildPanelPath(t, models.CableStatusConnected)

	forward, err := Trace(g, iface1, Options{})
	require.NoError(t, err)
	backward, err := Trace(g, iface2, Options{})
	require.NoError(t, err)

	require.True(t, forward.Complete())
	require.True(t, backward.Complete())
	assert.Equal(t, iface2.Ref(), forward.Endpoint.Ref())
	assert.Equal(t, iface1.Ref(), backward.Endpoint.Ref())
	assert.Equal(t, forward.Status, backward.Status)
}

func TestTracePlannedSegmentDowngradesStatus(t *testing.T) {
	g, iface1, _ := buildPanelPath(t, models.CableStatusPlanned)

	path, err := Trace(g, iface1, Options{})
	require.NoError(t, err)
	require.True(t, path.Complete())
	assert.Equal(t, models.ConnectionPlanned, path.Status)
}

func TestTraceDecommissionedSegmentBreaksPath(t *testing.T) {
	g, iface1, _ := buildPanelPath(t, models.CableStatusDecommissioned)

	path, err := Trace(g, iface1, Options{})
	require.NoError(t, err)
	assert.Nil(t, path.Endpoint)
	assert.False(t, path.Complete())
	// The walk stops at front2 without crossing the dead cable.
	last := path.Hops[len(path.Hops)-1]
	assert.Equal(t, models.KindFrontPort, last.Termination.Ref().Kind)
	assert.Nil(t, last.Cable)
}

func TestTraceOpenAtUnoccupiedRearPosition(t *testing.T) {
	g := newFakeGraph()
	iface := &models.Interface{ID: 1, Name: "eth0", CableID: ptr(1)}
	// Four-position rear port with only position 1 occupied; the cable
	// lands on position 3's front port's rear side with nothing mapped.
	rear := &models.RearPort{ID: 10, Name: "R1", Positions: 4, CableID: ptr(2)}
	front := &models.FrontPort{ID: 11, Name: "F1", RearPortID: 10, RearPortPosition: 3, CableID: ptr(1)}
	rear2 := &models.RearPort{ID: 20, Name: "R2", Positions: 4, CableID: ptr(2)}
	g.add(iface)
	g.add(rear)
	g.add(front)
	g.add(rear2)
	g.cable(1, iface, front, models.CableStatusConnected)
	g.cable(2, rear, rear2, models.CableStatusConnected)

	path, err := Trace(g, iface, Options{})
	require.NoError(t, err)
	assert.Nil(t, path.Endpoint)
	assert.False(t, path.Cycle)
	// Ends at rear2 where position 3 has no front port.
	last := path.Hops[len(path.Hops)-1]
	assert.Equal(t, rear2.Ref(), last.Termination.Ref())
}

func TestTraceCarriesRearPortPosition(t *testing.T) {
	g := newFakeGraph()
	// High-density pair: front ports at position 2 on both panels must
	// map to each other across the rear-rear trunk.
	iface1 := &models.Interface{ID: 1, Name: "eth0", CableID: ptr(1)}
	iface2 := &models.Interface{ID: 2, Name: "eth0", CableID: ptr(3)}
	ifaceOther := &models.Interface{ID: 3, Name: "eth1", CableID: ptr(4)}
	rear1 := &models.RearPort{ID: 10, Name: "R1", Positions: 4, CableID: ptr(2)}
	front1p2 := &models.FrontPort{ID: 11, Name: "F2", RearPortID: 10, RearPortPosition: 2, CableID: ptr(1)}
	rear2 := &models.RearPort{ID: 20, Name: "R2", Positions: 4, CableID: ptr(2)}
	front2p2 := &models.FrontPort{ID: 21, Name: "F2", RearPortID: 20, RearPortPosition: 2, CableID: ptr(3)}
	front2p1 := &models.FrontPort{ID: 22, Name: "F1", RearPortID: 20, RearPortPosition: 1, CableID: ptr(4)}

	for _, term := range []models.Termination{iface1, iface2, ifaceOther, rear1, front1p2, rear2, front2p2, front2p1} {
		g.add(term)
	}
	g.cable(1, iface1, front1p2, models.CableStatusConnected)
	g.cable(2, rear1, rear2, models.CableStatusConnected)
	g.cable(3, front2p2, iface2, models.CableStatusConnected)
	g.cable(4, front2p1, ifaceOther, models.CableStatusConnected)

	path, err := Trace(g, iface1, Options{})
	require.NoError(t, err)
	require.True(t, path.Complete())
	assert.Equal(t, iface2.Ref(), path.Endpoint.Ref())
}

func TestTraceCycle(t *testing.T) {
	g := newFakeGraph()
	// Two panels patched front-to-front AND trunked rear-to-rear form a
	// closed loop with no endpoint.
	rear1 := &models.RearPort{ID: 10, Name: "R1", Positions: 1, CableID: ptr(2)}
	front1 := &models.FrontPort{ID: 11, Name: "F1", RearPortID: 10, RearPortPosition: 1, CableID: ptr(1)}
	rear2 := &models.RearPort{ID: 20, Name: "R2", Positions: 1, CableID: ptr(2)}
	front2 := &models.FrontPort{ID: 21, Name: "F1", RearPortID: 20, RearPortPosition: 1, CableID: ptr(1)}
	g.add(rear1)
	g.add(front1)
	g.add(rear2)
	g.add(front2)
	g.cable(1, front1, front2, models.CableStatusConnected)
	g.cable(2, rear1, rear2, models.CableStatusConnected)

	path, err := Trace(g, front1, Options{})
	require.NoError(t, err)
	assert.True(t, path.Cycle)
	assert.Nil(t, path.Endpoint)
	assert.False(t, path.Complete())
}

func TestTraceHopLimit(t *testing.T) {
	g := newFakeGraph()
	// A long daisy chain of single-position panels, with no endpoint:
	// panel N front -> panel N+1 front, rear side looping onward.
	const panels = 120
	var prevRear *models.RearPort
	cableID := int64(1)
	for i := 0; i < panels; i++ {
		rear := &models.RearPort{ID: int64(1000 + i), Name: "R", Positions: 1}
		front := &models.FrontPort{ID: int64(2000 + i), Name: "F", RearPortID: rear.ID, RearPortPosition: 1}
		g.add(rear)
		g.add(front)
		if prevRear != nil {
			c := g.cable(cableID, prevRear, front, models.CableStatusConnected)
			prevRear.CableID = &c.ID
			front.CableID = &c.ID
			cableID++
		}
		prevRear = rear
	}

	start, err := g.Termination(models.TerminationRef{Kind: models.KindRearPort, ID: 1000})
	require.NoError(t, err)

	path, traceErr := Trace(g, start, Options{})
	require.NoError(t, traceErr)
	assert.True(t, path.HopLimitExceeded)
	assert.Nil(t, path.Endpoint)
}

func TestTraceCircuitTermination(t *testing.T) {
	g := newFakeGraph()
	iface1 := &models.Interface{ID: 1, Name: "eth0", CableID: ptr(1)}
	ctA := &models.CircuitTermination{ID: 30, CircuitID: 5, TermSide: "A", CableID: ptr(1)}
	ctZ := &models.CircuitTermination{ID: 31, CircuitID: 5, TermSide: "Z", CableID: ptr(2)}
	iface2 := &models.Interface{ID: 2, Name: "eth0", CableID: ptr(2)}
	g.add(iface1)
	g.add(ctA)
	g.add(ctZ)
	g.add(iface2)
	g.cable(1, iface1, ctA, models.CableStatusConnected)
	g.cable(2, ctZ, iface2, models.CableStatusConnected)

	// Without following circuits the walk terminates at the circuit.
	path, err := Trace(g, iface1, Options{})
	require.NoError(t, err)
	require.True(t, path.Complete())
	assert.Equal(t, ctA.Ref(), path.Endpoint.Ref())

	// Following circuits reaches the far interface.
	path, err = Trace(g, iface1, Options{FollowCircuits: true})
	require.NoError(t, err)
	require.True(t, path.Complete())
	assert.Equal(t, iface2.Ref(), path.Endpoint.Ref())
}

func TestTraceIdempotent(t *testing.T) {
	g, iface1, _ := buildPanelPath(t, models.CableStatusConnected)

	first, err := Trace(g, iface1, Options{})
	require.NoError(t, err)
	second, err := Trace(g, iface1, Options{})
	require.NoError(t, err)

	assert.Equal(t, first.Endpoint.Ref(), second.Endpoint.Ref())
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, len(first.Hops), len(second.Hops))
}
