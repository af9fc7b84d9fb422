package ocean

import (
	"math"
	"testing"
)

func testConfig(seed int64) Config {
	return Config{
		WaveCount: 6,
		Seed:      seed,
		Calm: Preset{
			WaveHeight:      0.4,
			WaveSpeed:       1.0,
			CurrentStrength: 0.5,
			CurrentDir:      [2]float64{1, 0},
		},
		Storm: Preset{
			WaveHeight:      2.5,
			WaveSpeed:       2.2,
			CurrentStrength: 2.0,
			CurrentDir:      [2]float64{1, 0.3},
		},
	}
}

func TestHeight_BoundedByAmplitudeSum(t *testing.T) {
	for _, intensity := range []float64{0, 0.5, 1} {
		f := New(testConfig(42))
		f.SetStormIntensity(intensity)
		bound := f.AmplitudeBound() + 1e-9
		for step := 0; step < 200; step++ {
			f.Advance(0.37)
			for x := -50.0; x <= 50.0; x += 17.3 {
				for z := -50.0; z <= 50.0; z += 13.1 {
					h := f.HeightAt(x, z)
					if math.Abs(h) > bound {
						t.Fatalf("intensity=%g t=%g pos=(%g,%g): |%g| > bound %g",
							intensity, f.Elapsed(), x, z, h, bound)
					}
				}
			}
		}
	}
}

func TestNormal_UnitLength(t *testing.T) {
	f := New(testConfig(7))
	f.SetStormIntensity(1)
	for step := 0; step < 50; step++ {
		f.Advance(0.21)
		for x := -30.0; x <= 30.0; x += 7.7 {
			n := f.NormalAt(x, -x*0.5)
			l := n.Len()
			if math.Abs(l-1) > 1e-9 {
				t.Fatalf("normal length %g at x=%g", l, x)
			}
			if n.Y <= 0 {
				t.Fatalf("normal points down: %+v", n)
			}
		}
	}
}

func TestNormal_FlatSurfaceIsUp(t *testing.T) {
	cfg := testConfig(3)
	cfg.Calm.WaveHeight = 0
	f := New(cfg)
	n := f.NormalAt(12, -4)
	if n.X != 0 || n.Y != 1 || n.Z != 0 {
		t.Fatalf("flat normal = %+v, want (0,1,0)", n)
	}
}

func TestDeterminism_SameSeedSameSamples(t *testing.T) {
	a := New(testConfig(1337))
	b := New(testConfig(1337))
	a.Advance(12.5)
	b.Advance(12.5)
	for x := -20.0; x <= 20.0; x += 4.9 {
		if ha, hb := a.HeightAt(x, 3), b.HeightAt(x, 3); ha != hb {
			t.Fatalf("height diverged at x=%g: %g vs %g", x, ha, hb)
		}
		if ca, cb := a.CurrentAt(x, 3), b.CurrentAt(x, 3); ca != cb {
			t.Fatalf("current diverged at x=%g: %+v vs %+v", x, ca, cb)
		}
	}

	c := New(testConfig(1338))
	c.Advance(12.5)
	same := true
	for x := -20.0; x <= 20.0; x += 4.9 {
		if a.HeightAt(x, 3) != c.HeightAt(x, 3) {
			same = false
		}
	}
	if same {
		t.Fatalf("different seeds produced identical fields")
	}
}

func TestStormIntensity_InterpolatesPresets(t *testing.T) {
	cfg := testConfig(9)
	f := New(cfg)

	f.SetStormIntensity(0)
	calmBound := f.AmplitudeBound()
	f.SetStormIntensity(1)
	stormBound := f.AmplitudeBound()
	if stormBound <= calmBound {
		t.Fatalf("storm bound %g not above calm bound %g", stormBound, calmBound)
	}
	// Amplitudes scale linearly with the wave-height parameter.
	want := calmBound * cfg.Storm.WaveHeight / cfg.Calm.WaveHeight
	if math.Abs(stormBound-want) > 1e-9 {
		t.Fatalf("storm bound %g, want %g", stormBound, want)
	}

	f.SetStormIntensity(0.5)
	mid := f.AmplitudeBound()
	wantMid := (calmBound + stormBound) / 2
	if math.Abs(mid-wantMid) > 1e-9 {
		t.Fatalf("mid bound %g, want %g", mid, wantMid)
	}

	// Out-of-range input clamps.
	f.SetStormIntensity(4)
	if f.StormIntensity() != 1 {
		t.Fatalf("intensity not clamped: %g", f.StormIntensity())
	}
}

func TestCurrent_BaseFollowsPreset(t *testing.T) {
	cfg := testConfig(11)
	cfg.Calm.WaveHeight = 0 // no turbulence contribution
	f := New(cfg)
	cur := f.CurrentAt(5, 5)
	if math.Abs(cur.X-cfg.Calm.CurrentStrength) > 1e-9 || math.Abs(cur.Z) > 1e-9 {
		t.Fatalf("calm current = %+v, want (%g,0,0)", cur, cfg.Calm.CurrentStrength)
	}
}

func TestAdvance_IgnoresNegativeAndAccumulates(t *testing.T) {
	f := New(testConfig(2))
	f.Advance(1.5)
	f.Advance(-3)
	f.Advance(0.5)
	if f.Elapsed() != 2.0 {
		t.Fatalf("elapsed = %g, want 2.0", f.Elapsed())
	}
}
