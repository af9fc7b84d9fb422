package raft

import (
	"sort"

	"seacraft/internal/persistence/snapshot"
	"seacraft/internal/sim/grid"
)

// ExportSnapshot captures the tile set and derived raft center. Tiles are
// sorted by origin so the same structure always serializes identically.
func (r *Registry) ExportSnapshot(tick uint64, seed int64, stormIntensity float64) snapshot.SnapshotV1 {
	tiles := make([]snapshot.TileV1, 0, len(r.tiles))
	for _, t := range r.tiles {
		tv := snapshot.TileV1{
			TileType:     t.Item,
			GridPosition: snapshot.GridPosV1{X: t.Origin.X, Y: t.Origin.Z},
			Health:       t.Health,
		}
		if t.Storage {
			contents := make(map[string]int, len(t.Contents))
			for k, v := range t.Contents {
				contents[k] = v
			}
			tv.Storage = &snapshot.StorageV1{
				Capacity: t.StorageCap,
				Contents: contents,
			}
		}
		tiles = append(tiles, tv)
	}
	sort.Slice(tiles, func(i, j int) bool {
		a, b := tiles[i].GridPosition, tiles[j].GridPosition
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	com := r.agg.CenterOfMass
	return snapshot.SnapshotV1{
		Header:         snapshot.Header{Version: snapshot.Version, Tick: tick},
		Seed:           seed,
		CellSize:       r.cfg.CellSize,
		StormIntensity: stormIntensity,
		Tiles:          tiles,
		RaftCenter:     [3]float64{com.X, com.Y, com.Z},
	}
}

// RestoreSnapshot clears the registry and recreates every saved tile through
// the place path, re-applying saved health. Unknown or legacy tile types fall
// back to the configured default item instead of failing the load; an entry
// whose footprint collides with an earlier one is skipped the same way —
// restore is conservative, never fatal.
func (r *Registry) RestoreSnapshot(snap snapshot.SnapshotV1) {
	r.cells = map[grid.Cell]*Tile{}
	r.tiles = map[string]*Tile{}
	r.nextTile = 0

	for _, tv := range snap.Tiles {
		def, ok := r.cat.Get(tv.TileType)
		if !ok {
			def, ok = r.cat.Get(r.cfg.FallbackItem)
			if !ok {
				continue
			}
		}
		t, err := r.Place(grid.Cell{X: tv.GridPosition.X, Z: tv.GridPosition.Y}, def)
		if err != nil {
			continue
		}
		if tv.Health >= 0 && tv.Health <= t.MaxHealth {
			t.Health = tv.Health
		}
		if t.Storage && tv.Storage != nil {
			for k, v := range tv.Storage.Contents {
				t.Contents[k] = v
			}
		}
	}
	r.recompute()
}
