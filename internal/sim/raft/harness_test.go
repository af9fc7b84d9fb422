package raft

import (
	"testing"

	"seacraft/internal/protocol"
	"seacraft/internal/sim/catalogs"
	"seacraft/internal/sim/grid"
	"seacraft/internal/sim/mathx"
)

func testCatalog(t *testing.T) *catalogs.Catalog {
	t.Helper()
	c, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(testCatalog(t), Config{
		CellSize:        2.0,
		ThrustPerEngine: 5.0,
		FallbackItem:    "FOUNDATION",
	})
}

// mustPlace bypasses the session: direct registry placement for fixtures.
func mustPlace(t *testing.T, r *Registry, item string, c grid.Cell) *Tile {
	t.Helper()
	def, ok := r.cat.Get(item)
	if !ok {
		t.Fatalf("fixture item %q not in catalog", item)
	}
	tile, err := r.Place(c, def)
	if err != nil {
		t.Fatalf("place %s at %v: %v", item, c, err)
	}
	return tile
}

type testLedger map[string]int

func (l testLedger) Query(res string) int { return l[res] }

func (l testLedger) TryDeduct(res string, n int) bool {
	if l[res] < n {
		return false
	}
	l[res] -= n
	return true
}

func (l testLedger) clone() testLedger {
	out := testLedger{}
	for k, v := range l {
		out[k] = v
	}
	return out
}

// recordSink captures every presentation event for assertions.
type recordSink struct {
	placed    []protocol.TilePlacedEvent
	removed   []protocol.TileRemovedEvent
	started   []protocol.BuildModeStartedEvent
	cancelled int
	invalid   []string
}

func (s *recordSink) TilePlaced(ev protocol.TilePlacedEvent)   { s.placed = append(s.placed, ev) }
func (s *recordSink) TileRemoved(ev protocol.TileRemovedEvent) { s.removed = append(s.removed, ev) }
func (s *recordSink) BuildModeStarted(ev protocol.BuildModeStartedEvent) {
	s.started = append(s.started, ev)
}
func (s *recordSink) BuildModeCancelled(protocol.BuildModeCancelledEvent) { s.cancelled++ }
func (s *recordSink) PlacementInvalid(ev protocol.PlacementInvalidEvent) {
	s.invalid = append(s.invalid, ev.Reason)
}

const testReach = 3.0

// aimAt positions the build anchor so the preview snaps to the wanted cell.
func aimAt(r *Registry, c grid.Cell) (mathx.Vec3, mathx.Vec3) {
	forward := mathx.Vec3{X: 1}
	anchor := r.Topology().GridToWorld(c).Sub(forward.Scale(testReach))
	return anchor, forward
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	if got := protocol.CodeOf(err); got != code {
		t.Fatalf("error code = %s, want %s (%v)", got, code, err)
	}
}
