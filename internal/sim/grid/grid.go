package grid

import (
	"seacraft/internal/sim/mathx"
)

// Cell is one lattice coordinate on the raft plane. Value semantics: cells
// compare and hash by (X, Z) and are used directly as map keys.
type Cell struct {
	X int `json:"x"`
	Z int `json:"z"`
}

func (c Cell) Neighbors() [4]Cell {
	return [4]Cell{
		{c.X + 1, c.Z},
		{c.X - 1, c.Z},
		{c.X, c.Z + 1},
		{c.X, c.Z - 1},
	}
}

// Topology maps between continuous world space and the integer lattice.
type Topology struct {
	CellSize float64
}

func NewTopology(cellSize float64) Topology {
	if cellSize <= 0 {
		cellSize = 1
	}
	return Topology{CellSize: cellSize}
}

// WorldToGrid snaps a world position to its containing cell. Ties round half
// away from zero so the mapping stays symmetric around the origin.
func (t Topology) WorldToGrid(pos mathx.Vec3) Cell {
	return Cell{
		X: mathx.RoundHalfAway(pos.X / t.CellSize),
		Z: mathx.RoundHalfAway(pos.Z / t.CellSize),
	}
}

// GridToWorld returns the cell center on the lattice plane. The vertical axis
// is left to the caller, typically sampled from the wave field at this point.
func (t Topology) GridToWorld(c Cell) mathx.Vec3 {
	return mathx.Vec3{
		X: float64(c.X) * t.CellSize,
		Z: float64(c.Z) * t.CellSize,
	}
}

// Footprint expands an origin cell to the w x d cell set an item occupies.
func Footprint(origin Cell, w, d int) []Cell {
	if w <= 0 {
		w = 1
	}
	if d <= 0 {
		d = 1
	}
	cells := make([]Cell, 0, w*d)
	for dz := 0; dz < d; dz++ {
		for dx := 0; dx < w; dx++ {
			cells = append(cells, Cell{origin.X + dx, origin.Z + dz})
		}
	}
	return cells
}

// Occupancy is the read-side view the topology validates against. Satisfied
// by the structure registry.
type Occupancy interface {
	Occupied(Cell) bool
	Size() int
}

// IsValidPlacement reports whether a footprint anchored at origin can be
// committed. Every footprint cell must be free. On a non-empty structure the
// origin cell must touch an occupied orthogonal neighbor; the rest of the
// footprint perimeter is deliberately not checked, matching the established
// placement behavior for multi-cell items. The first placement on an empty
// structure is always valid.
func IsValidPlacement(origin Cell, footprint []Cell, occ Occupancy) bool {
	for _, c := range footprint {
		if occ.Occupied(c) {
			return false
		}
	}
	if occ.Size() == 0 {
		return true
	}
	for _, n := range origin.Neighbors() {
		if occ.Occupied(n) {
			return true
		}
	}
	return false
}

// Frontier returns the unoccupied orthogonal neighbors of an occupied cell
// set: every cell where the next placement could anchor. Used for placement
// hint highlighting.
func Frontier(occupied map[Cell]struct{}) map[Cell]struct{} {
	out := map[Cell]struct{}{}
	for c := range occupied {
		for _, n := range c.Neighbors() {
			if _, ok := occupied[n]; ok {
				continue
			}
			out[n] = struct{}{}
		}
	}
	return out
}
