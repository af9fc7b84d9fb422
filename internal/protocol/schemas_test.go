package protocol_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func compile(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	s, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", name))
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return s
}

func TestSchema_ShippedCatalogValidates(t *testing.T) {
	schema := compile(t, "items.schema.json")

	raw, err := os.ReadFile(filepath.Join("..", "..", "configs", "items.json"))
	if err != nil {
		t.Fatalf("read items.json: %v", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode items.json: %v", err)
	}
	if err := schema.Validate(doc); err != nil {
		t.Fatalf("items.json does not match schema: %v", err)
	}
}

func TestSchema_CatalogRejectsBadEntries(t *testing.T) {
	schema := compile(t, "items.schema.json")

	for name, doc := range map[string]string{
		"missing health": `[{"id":"X","category":"FLOOR"}]`,
		"bad category":   `[{"id":"X","category":"SPACESHIP","max_health":10}]`,
		"negative cost":  `[{"id":"X","category":"FLOOR","max_health":10,"cost":{"PLANK":-1}}]`,
	} {
		var v any
		if err := json.Unmarshal([]byte(doc), &v); err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if err := schema.Validate(v); err == nil {
			t.Fatalf("%s: accepted", name)
		}
	}
}

func TestSchema_SaveShape(t *testing.T) {
	schema := compile(t, "save.schema.json")

	var save any
	_ = json.Unmarshal([]byte(`{
	  "header": {"version": 1, "tick": 9000},
	  "seed": 1337,
	  "cell_size": 2.0,
	  "storm_intensity": 0.25,
	  "tiles": [
	    {"tile_type": "FOUNDATION", "grid_position": {"x": 0, "y": 0}, "health": 100},
	    {
	      "tile_type": "STORAGE_SMALL",
	      "grid_position": {"x": 1, "y": 0},
	      "health": 80,
	      "storage": {"capacity": 20, "contents": {"PLANK": 4}}
	    }
	  ],
	  "raft_center": [1.0, 0.0, 0.0]
	}`), &save)
	if err := schema.Validate(save); err != nil {
		t.Fatalf("sample save rejected: %v", err)
	}

	var bad any
	_ = json.Unmarshal([]byte(`{
	  "header": {"version": 1, "tick": 0},
	  "tiles": [{"tile_type": "", "grid_position": {"x": 0, "y": 0}, "health": -5}],
	  "raft_center": [0, 0]
	}`), &bad)
	if err := schema.Validate(bad); err == nil {
		t.Fatalf("malformed save accepted")
	}
}
