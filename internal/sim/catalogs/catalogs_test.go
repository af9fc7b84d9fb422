package catalogs

import (
	"sort"
	"testing"
)

func TestLoad_ShippedCatalog(t *testing.T) {
	c, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(c.Palette) == 0 {
		t.Fatalf("empty palette")
	}
	if !sort.StringsAreSorted(c.Palette) {
		t.Fatalf("palette not sorted: %v", c.Palette)
	}
	if c.DefsDigest == "" || c.PaletteDigest == "" {
		t.Fatalf("missing digests")
	}

	def, ok := c.Get("FOUNDATION")
	if !ok {
		t.Fatalf("FOUNDATION missing")
	}
	if def.Category != CategoryFoundation || !def.Walkable {
		t.Fatalf("unexpected FOUNDATION def: %+v", def)
	}
	if def.Width != 1 || def.Depth != 1 {
		t.Fatalf("footprint not defaulted to 1x1: %dx%d", def.Width, def.Depth)
	}
	if def.MaxHealth <= 0 {
		t.Fatalf("non-positive max health")
	}

	eng, ok := c.Get("ENGINE")
	if !ok || eng.Category != CategoryEngine {
		t.Fatalf("ENGINE missing or miscategorized: %+v", eng)
	}
	if len(eng.Cost) == 0 {
		t.Fatalf("ENGINE has no cost")
	}

	big, ok := c.Get("STORAGE_LARGE")
	if !ok || big.Width != 2 || big.Depth != 2 {
		t.Fatalf("STORAGE_LARGE footprint: %+v", big)
	}
	if !big.Storage || big.StorageCap <= 0 {
		t.Fatalf("STORAGE_LARGE storage flags: %+v", big)
	}
}

func TestGet_UnknownIsDistinctMiss(t *testing.T) {
	c, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if _, ok := c.Get("JETPACK"); ok {
		t.Fatalf("unknown item resolved")
	}
}
