package raft

import (
	"fmt"

	"seacraft/internal/protocol"
	"seacraft/internal/sim/catalogs"
	"seacraft/internal/sim/grid"
	"seacraft/internal/sim/mathx"
)

type Config struct {
	CellSize        float64
	ThrustPerEngine float64

	// Item substituted for unknown tile types in legacy snapshots.
	FallbackItem string
}

func (c *Config) applyDefaults() {
	if c.CellSize <= 0 {
		c.CellSize = 2.0
	}
	if c.ThrustPerEngine <= 0 {
		c.ThrustPerEngine = 5.0
	}
	if c.FallbackItem == "" {
		c.FallbackItem = "FOUNDATION"
	}
}

// Tile is one placed structure piece. A multi-cell item is a single Tile
// aliased across every footprint cell; all aliases share this identity.
type Tile struct {
	ID       string
	Item     string
	Category string

	Origin grid.Cell
	Cells  []grid.Cell

	Health    float64
	MaxHealth float64

	Walkable   bool
	Storage    bool
	StorageCap int
	Contents   map[string]int
}

// Destroyed tiles stay in the registry (wreckage is walkable-over and
// repairable); they just stop contributing thrust/steering.
func (t *Tile) Destroyed() bool { return t.Health <= 0 }

// WorldPos is the centroid of the tile's footprint on the lattice plane.
func (t *Tile) WorldPos(topo grid.Topology) mathx.Vec3 {
	var sum mathx.Vec3
	for _, c := range t.Cells {
		sum = sum.Add(topo.GridToWorld(c))
	}
	return sum.Scale(1 / float64(len(t.Cells)))
}

// Aggregate is the derived structure-wide physics state, recomputed
// synchronously after every mutation. The motion integrator reads it each
// tick; steering is an undirected magnitude, turn direction is the
// integrator's business.
type Aggregate struct {
	CenterOfMass  mathx.Vec3
	HealthPercent float64
	CanMove       bool
	Thrust        float64
	Steering      float64
}

// Registry owns every placed tile and the cell -> tile aliasing map.
// Single-writer: all mutations happen on the sim loop.
type Registry struct {
	cat  *catalogs.Catalog
	topo grid.Topology
	cfg  Config

	cells map[grid.Cell]*Tile
	tiles map[string]*Tile

	sink Sink

	nextTile uint64
	agg      Aggregate
}

func NewRegistry(cat *catalogs.Catalog, cfg Config) *Registry {
	cfg.applyDefaults()
	r := &Registry{
		cat:   cat,
		topo:  grid.NewTopology(cfg.CellSize),
		cfg:   cfg,
		cells: map[grid.Cell]*Tile{},
		tiles: map[string]*Tile{},
		sink:  NopSink{},
	}
	r.recompute()
	return r
}

// SetSink attaches the presentation observer. Place and Remove notify it;
// restore replays placement events so visuals can be rebuilt from a load.
func (r *Registry) SetSink(s Sink) {
	if s == nil {
		s = NopSink{}
	}
	r.sink = s
}

func (r *Registry) Topology() grid.Topology { return r.topo }

// Occupied and Size satisfy grid.Occupancy.
func (r *Registry) Occupied(c grid.Cell) bool {
	_, ok := r.cells[c]
	return ok
}

func (r *Registry) Size() int { return len(r.cells) }

// Len is the number of tiles, not cells; a 2x2 item counts once.
func (r *Registry) Len() int { return len(r.tiles) }

func (r *Registry) TileAt(c grid.Cell) (*Tile, bool) {
	t, ok := r.cells[c]
	return t, ok
}

func (r *Registry) Walkable(c grid.Cell) bool {
	t, ok := r.cells[c]
	return ok && t.Walkable && !t.Destroyed()
}

// OccupiedCells returns a copy of the occupied cell set.
func (r *Registry) OccupiedCells() map[grid.Cell]struct{} {
	out := make(map[grid.Cell]struct{}, len(r.cells))
	for c := range r.cells {
		out[c] = struct{}{}
	}
	return out
}

// Frontier is every unoccupied cell the next placement could anchor at.
func (r *Registry) Frontier() map[grid.Cell]struct{} {
	return grid.Frontier(r.OccupiedCells())
}

// Place inserts a new tile anchored at origin. It guards cell exclusivity
// (a cell aliases at most one tile) but deliberately not adjacency: the
// build session validates adjacency before committing, and the restore path
// must be able to recreate tiles in any order.
func (r *Registry) Place(origin grid.Cell, def catalogs.ItemDef) (*Tile, error) {
	fp := grid.Footprint(origin, def.Width, def.Depth)
	for _, c := range fp {
		if _, taken := r.cells[c]; taken {
			return nil, protocol.Errorf(protocol.ErrInvalidPlacement,
				fmt.Sprintf("cell (%d,%d) occupied", c.X, c.Z))
		}
	}

	r.nextTile++
	t := &Tile{
		ID:         fmt.Sprintf("T%d", r.nextTile),
		Item:       def.ID,
		Category:   def.Category,
		Origin:     origin,
		Cells:      fp,
		Health:     def.MaxHealth,
		MaxHealth:  def.MaxHealth,
		Walkable:   def.Walkable,
		Storage:    def.Storage,
		StorageCap: def.StorageCap,
	}
	if def.Storage {
		t.Contents = map[string]int{}
	}
	r.tiles[t.ID] = t
	for _, c := range fp {
		r.cells[c] = t
	}
	r.recompute()
	r.sink.TilePlaced(protocol.TilePlacedEvent{
		Type:   protocol.EventTilePlaced,
		TileID: t.ID,
		ItemID: t.Item,
		Cell:   [2]int{origin.X, origin.Z},
	})
	return t, nil
}

// Remove erases the tile aliased at c, clearing every footprint cell
// atomically. Returns the removed tile.
func (r *Registry) Remove(c grid.Cell) (*Tile, bool) {
	t, ok := r.cells[c]
	if !ok {
		return nil, false
	}
	for _, fc := range t.Cells {
		delete(r.cells, fc)
	}
	delete(r.tiles, t.ID)
	r.recompute()
	r.sink.TileRemoved(protocol.TileRemovedEvent{
		Type: protocol.EventTileRemoved,
		Cell: [2]int{c.X, c.Z},
	})
	return t, true
}

// Damage lowers the health of the tile at c, clamped to [0, max]. Reaching
// zero marks the tile destroyed but leaves it registered.
func (r *Registry) Damage(c grid.Cell, amount float64) (*Tile, bool) {
	t, ok := r.cells[c]
	if !ok || amount <= 0 {
		return t, ok
	}
	t.Health = mathx.Clamp(t.Health-amount, 0, t.MaxHealth)
	r.recompute()
	return t, true
}

// Repair restores the tile at c to full health, deducting the item's repair
// cost from the ledger all-or-nothing. An already-healthy tile repairs for
// free.
func (r *Registry) Repair(c grid.Cell, ledger Ledger) (*Tile, error) {
	t, ok := r.cells[c]
	if !ok {
		return nil, protocol.Errorf(protocol.ErrInvalidPlacement, "no tile at cell")
	}
	if t.Health >= t.MaxHealth {
		return t, nil
	}
	def, ok := r.cat.Get(t.Item)
	if !ok {
		// Legacy tile whose item left the catalog; repair free rather than
		// wedge it broken forever.
		t.Health = t.MaxHealth
		r.recompute()
		return t, nil
	}
	if !affordable(ledger, def.RepairCost) {
		return nil, protocol.Errorf(protocol.ErrNoResource, "cannot afford repair")
	}
	deduct(ledger, def.RepairCost)
	t.Health = t.MaxHealth
	r.recompute()
	return t, nil
}

func (r *Registry) Aggregate() Aggregate { return r.agg }

func (r *Registry) recompute() {
	agg := Aggregate{HealthPercent: 1.0}
	if len(r.tiles) == 0 {
		// Zero-vector center is a sentinel for "no structure", not an error.
		r.agg = agg
		return
	}

	var com mathx.Vec3
	var healthSum float64
	engines, rudders := 0, 0
	for _, t := range r.tiles {
		com = com.Add(t.WorldPos(r.topo))
		healthSum += t.Health / t.MaxHealth
		if t.Destroyed() {
			continue
		}
		switch t.Category {
		case catalogs.CategoryEngine:
			engines++
		case catalogs.CategoryRudder:
			rudders++
		}
	}
	n := float64(len(r.tiles))
	agg.CenterOfMass = com.Scale(1 / n)
	agg.HealthPercent = healthSum / n
	agg.CanMove = engines > 0
	agg.Thrust = float64(engines) * r.cfg.ThrustPerEngine
	agg.Steering = float64(rudders)
	r.agg = agg
}
