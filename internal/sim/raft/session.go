package raft

import (
	"seacraft/internal/protocol"
	"seacraft/internal/sim/catalogs"
	"seacraft/internal/sim/grid"
	"seacraft/internal/sim/mathx"
)

// Ledger is the external resource inventory. The core never probes for
// capabilities: this is the whole contract.
type Ledger interface {
	Query(resourceID string) int
	TryDeduct(resourceID string, amount int) bool
}

// Sink receives fire-and-forget presentation notifications. Calls are
// synchronous on the sim loop and must not block; a sink failure is the
// sink's problem, never the core's.
type Sink interface {
	TilePlaced(protocol.TilePlacedEvent)
	TileRemoved(protocol.TileRemovedEvent)
	BuildModeStarted(protocol.BuildModeStartedEvent)
	BuildModeCancelled(protocol.BuildModeCancelledEvent)
	PlacementInvalid(protocol.PlacementInvalidEvent)
}

// NopSink discards everything. Used when no presentation layer is attached.
type NopSink struct{}

func (NopSink) TilePlaced(protocol.TilePlacedEvent)                 {}
func (NopSink) TileRemoved(protocol.TileRemovedEvent)               {}
func (NopSink) BuildModeStarted(protocol.BuildModeStartedEvent)     {}
func (NopSink) BuildModeCancelled(protocol.BuildModeCancelledEvent) {}
func (NopSink) PlacementInvalid(protocol.PlacementInvalidEvent)     {}

type SessionState int

const (
	SessionIdle SessionState = iota
	SessionActive
)

// Session is the per-actor build-mode state machine. One session per actor,
// driven on the sim loop: Start/Confirm/Cancel transition, Tick only
// refreshes the placement preview.
type Session struct {
	reg    *Registry
	ledger Ledger
	sink   Sink
	reach  float64

	state        SessionState
	itemID       string
	def          catalogs.ItemDef
	preview      grid.Cell
	previewValid bool
}

func NewSession(reg *Registry, ledger Ledger, sink Sink, reach float64) *Session {
	if sink == nil {
		sink = NopSink{}
	}
	if reach <= 0 {
		reach = 3.0
	}
	return &Session{reg: reg, ledger: ledger, sink: sink, reach: reach}
}

func (s *Session) State() SessionState { return s.state }

// Preview returns the current preview cell and its validity. Only meaningful
// while active.
func (s *Session) Preview() (grid.Cell, bool, bool) {
	return s.preview, s.previewValid, s.state == SessionActive
}

// Start enters build mode for itemID. An already-active session is cancelled
// first so no orphaned preview survives. Fails with E_UNKNOWN_ITEM for a
// catalog miss and E_NO_RESOURCE when the full cost is not covered.
func (s *Session) Start(itemID string, anchorPos, anchorForward mathx.Vec3) error {
	if s.state == SessionActive {
		s.cancel()
	}
	def, ok := s.reg.cat.Get(itemID)
	if !ok {
		return protocol.Errorf(protocol.ErrUnknownItem, "unknown item "+itemID)
	}
	if !affordable(s.ledger, def.Cost) {
		return protocol.Errorf(protocol.ErrNoResource, "cannot afford "+itemID)
	}
	s.state = SessionActive
	s.itemID = itemID
	s.def = def
	s.updatePreview(anchorPos, anchorForward)
	s.sink.BuildModeStarted(protocol.BuildModeStartedEvent{
		Type:   protocol.EventBuildModeStarted,
		ItemID: itemID,
	})
	return nil
}

// Tick refreshes the preview cell and validity from the anchor. Presentation
// hint only; never a state transition.
func (s *Session) Tick(anchorPos, anchorForward mathx.Vec3) {
	if s.state != SessionActive {
		return
	}
	s.updatePreview(anchorPos, anchorForward)
}

func (s *Session) updatePreview(anchorPos, anchorForward mathx.Vec3) {
	fwd := mathx.Vec3{X: anchorForward.X, Z: anchorForward.Z}.Normalize()
	target := anchorPos.Add(fwd.Scale(s.reach))
	s.preview = s.reg.topo.WorldToGrid(target)
	fp := grid.Footprint(s.preview, s.def.Width, s.def.Depth)
	s.previewValid = grid.IsValidPlacement(s.preview, fp, s.reg)
}

// Confirm commits the previewed placement. Placement or affordability
// failures leave the session active with the ledger untouched. On success the
// full cost is deducted all-or-nothing and the tile committed; the session
// stays active for repeated placement unless the item can no longer be
// afforded, in which case it drops to idle.
func (s *Session) Confirm() (*Tile, error) {
	if s.state != SessionActive {
		return nil, protocol.Errorf(protocol.ErrNoSession, "no active build session")
	}

	origin := s.preview
	fp := grid.Footprint(origin, s.def.Width, s.def.Depth)
	if !grid.IsValidPlacement(origin, fp, s.reg) {
		s.previewValid = false
		s.sink.PlacementInvalid(protocol.PlacementInvalidEvent{
			Type:   protocol.EventPlacementInvalid,
			Reason: protocol.ErrInvalidPlacement,
		})
		return nil, protocol.Errorf(protocol.ErrInvalidPlacement, "placement rejected")
	}
	if !affordable(s.ledger, s.def.Cost) {
		s.sink.PlacementInvalid(protocol.PlacementInvalidEvent{
			Type:   protocol.EventPlacementInvalid,
			Reason: protocol.ErrNoResource,
		})
		return nil, protocol.Errorf(protocol.ErrNoResource, "cannot afford "+s.itemID)
	}

	deduct(s.ledger, s.def.Cost)
	tile, err := s.reg.Place(origin, s.def)
	if err != nil {
		// Unreachable under single-writer discipline: validity was checked
		// against the same registry this frame.
		return nil, err
	}

	if !affordable(s.ledger, s.def.Cost) {
		s.cancel()
	}
	return tile, nil
}

// Cancel leaves build mode, discarding the preview. No resource effect.
func (s *Session) Cancel() error {
	if s.state != SessionActive {
		return protocol.Errorf(protocol.ErrNoSession, "no active build session")
	}
	s.cancel()
	return nil
}

func (s *Session) cancel() {
	s.state = SessionIdle
	s.itemID = ""
	s.def = catalogs.ItemDef{}
	s.preview = grid.Cell{}
	s.previewValid = false
	s.sink.BuildModeCancelled(protocol.BuildModeCancelledEvent{
		Type: protocol.EventBuildModeCancelled,
	})
}

// affordable checks the whole cost against the ledger. A missing ledger
// degrades to "nothing is affordable" rather than raising.
func affordable(l Ledger, cost map[string]int) bool {
	if l == nil {
		return false
	}
	for res, n := range cost {
		if l.Query(res) < n {
			return false
		}
	}
	return true
}

// deduct commits the full cost. Callers verify affordability first; under
// the single-writer model nothing can change the ledger between the check
// and the commit, so no partial deduction is ever observable.
func deduct(l Ledger, cost map[string]int) {
	for res, n := range cost {
		if n > 0 {
			l.TryDeduct(res, n)
		}
	}
}
