package ocean

import (
	"math"
	"math/rand"

	"seacraft/internal/sim/mathx"
)

const (
	gravity = 9.8

	// Wavelength ramp across components: the first component is the shortest
	// chop, later ones are longer swells.
	baseWavelength   = 8.0
	wavelengthGrowth = 6.0
	wavelengthJitter = 4.0
)

// Preset is one endpoint of the storm-intensity interpolation.
type Preset struct {
	WaveHeight      float64
	WaveSpeed       float64
	CurrentStrength float64
	CurrentDir      [2]float64
}

type Config struct {
	WaveCount int
	Seed      int64
	Calm      Preset
	Storm     Preset
}

// component parameters are fixed after New. Amplitude is stored relative to
// the wave-height parameter so storm intensity can rescale the whole field
// without touching per-component state.
type component struct {
	dirX, dirZ float64
	ampScale   float64 // multiplied by the current wave height
	waveNumber float64 // k = 2pi / wavelength
	phase      float64
}

// Field superposes trochoidal wave components into deterministic height,
// normal and current samples. Sampling is pure and read-only; Advance and
// SetStormIntensity are the only mutators and run on the single sim writer.
type Field struct {
	components []component
	elapsed    float64

	calm, storm Preset
	intensity   float64

	// Interpolated per-intensity parameters.
	waveHeight      float64
	speedScale      float64
	currentStrength float64
	currentDir      mathx.Vec3
}

// New builds the component set from the seed. The same seed always yields
// the same ocean.
func New(cfg Config) *Field {
	n := cfg.WaveCount
	if n <= 0 {
		n = 1
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	f := &Field{
		components: make([]component, 0, n),
		calm:       cfg.Calm,
		storm:      cfg.Storm,
	}
	sector := 2 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		angle := sector*float64(i) + (rng.Float64()-0.5)*sector*0.5
		wavelength := baseWavelength + wavelengthGrowth*float64(i) + rng.Float64()*wavelengthJitter
		f.components = append(f.components, component{
			dirX:       math.Cos(angle),
			dirZ:       math.Sin(angle),
			ampScale:   (0.5 + 0.5*rng.Float64()) / float64(i+1),
			waveNumber: 2 * math.Pi / wavelength,
			phase:      rng.Float64() * 2 * math.Pi,
		})
	}
	f.SetStormIntensity(0)
	return f
}

// Advance accumulates the simulation clock. It never fails and has no upper
// bound; every sample term is periodic in elapsed time.
func (f *Field) Advance(dt float64) {
	if dt < 0 {
		return
	}
	f.elapsed += dt
}

func (f *Field) Elapsed() float64 { return f.elapsed }

// SetStormIntensity interpolates the field between the calm and storm
// presets. Takes effect on subsequent samples immediately, no smoothing.
func (f *Field) SetStormIntensity(t float64) {
	t = mathx.Clamp(t, 0, 1)
	f.intensity = t
	f.waveHeight = mathx.Lerp(f.calm.WaveHeight, f.storm.WaveHeight, t)
	f.speedScale = mathx.Lerp(f.calm.WaveSpeed, f.storm.WaveSpeed, t)
	f.currentStrength = mathx.Lerp(f.calm.CurrentStrength, f.storm.CurrentStrength, t)
	dir := mathx.Vec3{
		X: mathx.Lerp(f.calm.CurrentDir[0], f.storm.CurrentDir[0], t),
		Z: mathx.Lerp(f.calm.CurrentDir[1], f.storm.CurrentDir[1], t),
	}.Normalize()
	if dir == (mathx.Vec3{}) {
		dir = mathx.Vec3{X: 1}
	}
	f.currentDir = dir
}

func (f *Field) StormIntensity() float64 { return f.intensity }

// omega applies the deep-water dispersion relation, scaled by the preset
// speed.
func (f *Field) omega(k float64) float64 {
	return math.Sqrt(gravity*k) * f.speedScale
}

// HeightAt returns the surface height at (x, z). Bounded by AmplitudeBound.
func (f *Field) HeightAt(x, z float64) float64 {
	h := 0.0
	for _, c := range f.components {
		arg := c.waveNumber*(c.dirX*x+c.dirZ*z) + f.omega(c.waveNumber)*f.elapsed + c.phase
		h += f.waveHeight * c.ampScale * math.Sin(arg)
	}
	return h
}

// AmplitudeBound is the sum of component amplitudes at the current storm
// intensity; |HeightAt| never exceeds it.
func (f *Field) AmplitudeBound() float64 {
	sum := 0.0
	for _, c := range f.components {
		sum += f.waveHeight * c.ampScale
	}
	return sum
}

// NormalAt returns the unit surface normal at (x, z). A flat surface yields
// straight up.
func (f *Field) NormalAt(x, z float64) mathx.Vec3 {
	var dx, dz float64
	for _, c := range f.components {
		arg := c.waveNumber*(c.dirX*x+c.dirZ*z) + f.omega(c.waveNumber)*f.elapsed + c.phase
		slope := f.waveHeight * c.ampScale * c.waveNumber * math.Cos(arg)
		dx += slope * c.dirX
		dz += slope * c.dirZ
	}
	n := mathx.Vec3{X: -dx, Y: 1, Z: -dz}.Normalize()
	if n == (mathx.Vec3{}) {
		return mathx.Vec3{Y: 1}
	}
	return n
}

// CurrentAt returns the horizontal water current at (x, z): the preset base
// current plus a deterministic periodic turbulence term that strengthens
// where the surface rides high.
func (f *Field) CurrentAt(x, z float64) mathx.Vec3 {
	base := f.currentDir.Scale(f.currentStrength)

	scale := 0.0
	if f.waveHeight > 0 {
		scale = mathx.Clamp(f.HeightAt(x, z)/f.waveHeight, 0, 1)
	}
	turb := mathx.Vec3{
		X: math.Sin(0.7*f.elapsed + 0.13*x),
		Z: math.Cos(0.9*f.elapsed + 0.17*z),
	}.Scale(scale)

	return base.Add(turb)
}
