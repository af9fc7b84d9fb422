package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Catalog is the immutable table of buildable item definitions. Loaded once
// at startup; nothing mutates it afterwards.
type Catalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]ItemDef
	PaletteDigest string
	DefsDigest    string
}

type ItemDef struct {
	ID       string         `json:"id"`
	Category string         `json:"category"` // "FOUNDATION","FLOOR","ENGINE","RUDDER","STORAGE","UTILITY"
	Cost     map[string]int `json:"cost"`

	// Footprint in grid cells. 1x1 unless stated.
	Width int `json:"width,omitempty"`
	Depth int `json:"depth,omitempty"`

	Walkable   bool `json:"walkable,omitempty"`
	Storage    bool `json:"storage,omitempty"`
	StorageCap int  `json:"storage_cap,omitempty"`

	MaxHealth  float64        `json:"max_health"`
	RepairCost map[string]int `json:"repair_cost,omitempty"`
}

const (
	CategoryFoundation = "FOUNDATION"
	CategoryFloor      = "FLOOR"
	CategoryEngine     = "ENGINE"
	CategoryRudder     = "RUDDER"
	CategoryStorage    = "STORAGE"
	CategoryUtility    = "UTILITY"
)

func Load(configDir string) (*Catalog, error) {
	var c Catalog
	if err := loadItems(filepath.Join(configDir, "items.json"), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadItems(path string, out *Catalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.Defs = map[string]ItemDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("items.json: empty id")
		}
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("items.json: duplicate id %q", d.ID)
		}
		d = normalize(d)
		if err := validate(d); err != nil {
			return fmt.Errorf("items.json: %s: %w", d.ID, err)
		}
		out.Defs[d.ID] = d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out.Palette = ids
	out.Index = make(map[string]uint16, len(ids))
	for i, id := range ids {
		out.Index[id] = uint16(i)
	}
	palJSON, _ := json.Marshal(ids)
	out.PaletteDigest = sha256Hex(palJSON)
	return nil
}

func normalize(d ItemDef) ItemDef {
	if d.Width <= 0 {
		d.Width = 1
	}
	if d.Depth <= 0 {
		d.Depth = 1
	}
	if d.Cost == nil {
		d.Cost = map[string]int{}
	}
	return d
}

func validate(d ItemDef) error {
	if d.Category == "" {
		return fmt.Errorf("missing category")
	}
	if d.MaxHealth <= 0 {
		return fmt.Errorf("max_health must be positive")
	}
	for res, n := range d.Cost {
		if res == "" || n < 0 {
			return fmt.Errorf("bad cost entry %q=%d", res, n)
		}
	}
	for res, n := range d.RepairCost {
		if res == "" || n < 0 {
			return fmt.Errorf("bad repair_cost entry %q=%d", res, n)
		}
	}
	if d.Storage && d.StorageCap <= 0 {
		return fmt.Errorf("storage item needs storage_cap")
	}
	return nil
}

// Get looks up an item definition. The second return distinguishes a catalog
// miss from any affordability concern, which is the ledger's business.
func (c *Catalog) Get(id string) (ItemDef, bool) {
	d, ok := c.Defs[id]
	return d, ok
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
