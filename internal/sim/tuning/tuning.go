package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz int     `yaml:"tick_rate_hz"`
	CellSize   float64 `yaml:"cell_size"`

	// Distance in front of the build anchor, in world units, at which the
	// placement preview is projected before snapping to the grid.
	BuildReach float64 `yaml:"build_reach"`

	ThrustPerEngine float64 `yaml:"thrust_per_engine"`

	// Item substituted for unknown tile types found in legacy save files.
	FallbackItem string `yaml:"fallback_item"`

	SnapshotEveryTicks int `yaml:"snapshot_every_ticks"`

	Ocean OceanTuning `yaml:"ocean"`
}

type OceanTuning struct {
	WaveCount int         `yaml:"wave_count"`
	Calm      OceanPreset `yaml:"calm"`
	Storm     OceanPreset `yaml:"storm"`
}

// OceanPreset is one endpoint of the storm-intensity interpolation.
type OceanPreset struct {
	WaveHeight      float64    `yaml:"wave_height"`
	WaveSpeed       float64    `yaml:"wave_speed"`
	CurrentStrength float64    `yaml:"current_strength"`
	CurrentDir      [2]float64 `yaml:"current_dir"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.ApplyDefaults()
	return t, nil
}

func (t *Tuning) ApplyDefaults() {
	if t.TickRateHz <= 0 {
		t.TickRateHz = 30
	}
	if t.CellSize <= 0 {
		t.CellSize = 2.0
	}
	if t.BuildReach <= 0 {
		t.BuildReach = 3.0
	}
	if t.ThrustPerEngine <= 0 {
		t.ThrustPerEngine = 5.0
	}
	if t.FallbackItem == "" {
		t.FallbackItem = "FOUNDATION"
	}
	if t.SnapshotEveryTicks <= 0 {
		t.SnapshotEveryTicks = 1800
	}
	if t.Ocean.WaveCount <= 0 {
		t.Ocean.WaveCount = 6
	}
	if t.Ocean.Calm == (OceanPreset{}) {
		t.Ocean.Calm = OceanPreset{
			WaveHeight:      0.4,
			WaveSpeed:       1.0,
			CurrentStrength: 0.5,
			CurrentDir:      [2]float64{1, 0},
		}
	}
	if t.Ocean.Storm == (OceanPreset{}) {
		t.Ocean.Storm = OceanPreset{
			WaveHeight:      2.5,
			WaveSpeed:       2.2,
			CurrentStrength: 2.0,
			CurrentDir:      [2]float64{1, 0},
		}
	}
}

// Default returns the tuning used when no tuning.yaml is shipped alongside
// the binary (tests, embedded use).
func Default() Tuning {
	var t Tuning
	t.ApplyDefaults()
	return t
}
