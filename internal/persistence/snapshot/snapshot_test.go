package snapshot

import (
	"path/filepath"
	"testing"
)

func sample() SnapshotV1 {
	return SnapshotV1{
		Header:         Header{Version: Version, Tick: 9000},
		Seed:           1337,
		CellSize:       2.0,
		StormIntensity: 0.6,
		Tiles: []TileV1{
			{TileType: "FOUNDATION", GridPosition: GridPosV1{X: 0, Y: 0}, Health: 100},
			{TileType: "ENGINE", GridPosition: GridPosV1{X: 1, Y: 0}, Health: 37.5},
			{
				TileType:     "STORAGE_SMALL",
				GridPosition: GridPosV1{X: 0, Y: 1},
				Health:       80,
				Storage: &StorageV1{
					Capacity: 20,
					Contents: map[string]int{"PLANK": 4},
				},
			},
		},
		RaftCenter: [3]float64{0.66, 0, 0.66},
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "raft.zst")
	snap := sample()
	if err := Write(path, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Header != snap.Header {
		t.Fatalf("header = %+v, want %+v", got.Header, snap.Header)
	}
	if got.Seed != snap.Seed || got.CellSize != snap.CellSize || got.StormIntensity != snap.StormIntensity {
		t.Fatalf("params = %+v", got)
	}
	if got.RaftCenter != snap.RaftCenter {
		t.Fatalf("center = %v, want %v", got.RaftCenter, snap.RaftCenter)
	}
	if len(got.Tiles) != len(snap.Tiles) {
		t.Fatalf("tiles = %d, want %d", len(got.Tiles), len(snap.Tiles))
	}
	for i, tv := range snap.Tiles {
		g := got.Tiles[i]
		if g.TileType != tv.TileType || g.GridPosition != tv.GridPosition || g.Health != tv.Health {
			t.Fatalf("tile %d = %+v, want %+v", i, g, tv)
		}
	}
	st := got.Tiles[2].Storage
	if st == nil || st.Capacity != 20 || st.Contents["PLANK"] != 4 {
		t.Fatalf("storage = %+v", st)
	}
}

func TestReadHeader_WithoutDecodingBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raft.zst")
	if err := Write(path, sample()); err != nil {
		t.Fatalf("write: %v", err)
	}
	h, err := ReadHeader(path)
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if h.Version != Version || h.Tick != 9000 {
		t.Fatalf("header = %+v", h)
	}
}

func TestRead_MissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "absent.zst")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
