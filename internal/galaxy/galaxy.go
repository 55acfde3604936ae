// Galactic structure model.
// Classifies a point (parsecs, galactic-center frame) into a stellar
// population and derives its metallicity, star density and spiral phase.
// Regions gate solar system instantiation by local star density.
package galaxy

import (
	"fmt"
	"math"

	"github.com/talgya/starforge/internal/entropy"
	"github.com/talgya/starforge/internal/system"
)

// Population is a galactic stellar population.
type Population uint8

const (
	ThinDisk  Population = iota // Young stars, high metallicity
	ThickDisk                   // Intermediate age
	Bulge                       // Old stars, varied metallicity
	Halo                        // Very old, metal poor
)

var populationNames = [...]string{"ThinDisk", "ThickDisk", "Bulge", "Halo"}

func (p Population) String() string {
	if int(p) >= len(populationNames) {
		return fmt.Sprintf("Population(%d)", uint8(p))
	}
	return populationNames[p]
}

// ParsePopulation is the inverse of String.
func ParsePopulation(s string) (Population, error) {
	for i, n := range populationNames {
		if n == s {
			return Population(i), nil
		}
	}
	return 0, fmt.Errorf("unknown population %q", s)
}

func (p Population) MarshalText() ([]byte, error) {
	if int(p) >= len(populationNames) {
		return nil, fmt.Errorf("invalid population %d", uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Population) UnmarshalText(b []byte) error {
	v, err := ParsePopulation(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// populationParams is the per-population tuning row.
type populationParams struct {
	metallicity float64 // Base [Fe/H] at the solar radius

	// Exponential disk profile; unused by bulge and halo.
	peakDensity float64 // stars/pc³
	scaleLength float64 // pc
	scaleHeight float64 // pc
}

var populationTable = [...]populationParams{
	ThinDisk:  {metallicity: 0.0, peakDensity: 0.1, scaleLength: 2600, scaleHeight: 300},
	ThickDisk: {metallicity: -0.5, peakDensity: 0.02, scaleLength: 3600, scaleHeight: 900},
	Bulge:     {metallicity: 0.3},
	Halo:      {metallicity: -1.5},
}

const (
	// Radial metallicity gradient in dex/kpc, zero at the solar radius.
	metallicityGradient = -0.07
	solarRadiusKpc      = 8.0

	// Thin disk boundary in pc above or below the plane.
	thinDiskHeight = 400.0

	// de Vaucouleurs bulge.
	bulgePeakDensity  = 0.5
	bulgeEffective    = 2500.0 // pc
	bulgeFlattening   = 0.5
	deVaucouleursCoef = 7.67

	// r^-3.5 halo.
	haloReferenceDensity = 1e-4
	haloReferenceRadius  = 8000.0 // pc
	haloSlope            = -3.5

	// ReferenceDensity is the thin disk peak that density gating normalizes to.
	ReferenceDensity = 0.1
)

// Galaxy holds global shape parameters. It is configuration, not state.
type Galaxy struct {
	Radius      float64 `json:"radius"`       // pc
	DiskHeight  float64 `json:"disk_height"`  // pc, halo begins above this
	BulgeRadius float64 `json:"bulge_radius"` // pc
	SpiralArms  int     `json:"spiral_arms"`
	PitchAngle  float64 `json:"pitch_angle"` // Degrees
}

// MilkyWay returns the default Milky Way-like shape.
func MilkyWay() Galaxy {
	return Galaxy{
		Radius:      50000,
		DiskHeight:  1000,
		BulgeRadius: 3000,
		SpiralArms:  4,
		PitchAngle:  12.5,
	}
}

// GalacticPosition is a point in parsecs with derived cylindrical coordinates.
type GalacticPosition struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"` // Height above the plane
	R     float64 `json:"r"`
	Theta float64 `json:"theta"`
}

// NewPosition derives r and θ from (x, y, z).
func NewPosition(x, y, z float64) GalacticPosition {
	return GalacticPosition{
		X:     x,
		Y:     y,
		Z:     z,
		R:     math.Hypot(x, y),
		Theta: math.Atan2(y, x),
	}
}

// DistanceTo returns the Euclidean distance in parsecs.
func (p GalacticPosition) DistanceTo(o GalacticPosition) float64 {
	dx, dy, dz := p.X-o.X, p.Y-o.Y, p.Z-o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Region describes the local galactic environment at a position.
type Region struct {
	Position    GalacticPosition `json:"position"`
	Population  Population       `json:"population"`
	Metallicity float64          `json:"metallicity"`  // [Fe/H]
	StarDensity float64          `json:"star_density"` // stars/pc³
	SpiralPhase float64          `json:"spiral_phase"` // Radians, thin disk only
}

// GenerateRegion classifies (x, y, z) in the Milky Way shape.
func GenerateRegion(x, y, z float64) Region {
	return MilkyWay().GenerateRegion(x, y, z)
}

// GenerateRegion classifies (x, y, z) parsecs. Pure: the same point always
// yields the same Region.
func (g Galaxy) GenerateRegion(x, y, z float64) Region {
	pos := NewPosition(x, y, z)
	pop := g.classify(pos)

	reg := Region{
		Position:    pos,
		Population:  pop,
		Metallicity: populationTable[pop].metallicity + metallicityGradient*(pos.R/1000-solarRadiusKpc),
		StarDensity: starDensity(pop, pos),
	}
	if pop == ThinDisk {
		reg.SpiralPhase = g.spiralPhase(pos)
	}
	return reg
}

func (g Galaxy) classify(pos GalacticPosition) Population {
	h := math.Abs(pos.Z)
	switch {
	case pos.R < g.BulgeRadius && h < g.DiskHeight:
		return Bulge
	case h > g.DiskHeight:
		return Halo
	case h > thinDiskHeight:
		return ThickDisk
	default:
		return ThinDisk
	}
}

// starDensity is discontinuous at population boundaries; each profile is
// monotone on its own.
func starDensity(pop Population, pos GalacticPosition) float64 {
	switch pop {
	case Bulge:
		zf := pos.Z / bulgeFlattening
		rEff := math.Sqrt(pos.R*pos.R+zf*zf) / bulgeEffective
		return bulgePeakDensity * math.Exp(-deVaucouleursCoef*math.Pow(rEff, 0.25))
	case Halo:
		rs := math.Sqrt(pos.R*pos.R + pos.Z*pos.Z)
		return haloReferenceDensity * math.Pow(rs/haloReferenceRadius, haloSlope)
	default:
		p := populationTable[pop]
		return p.peakDensity * math.Exp(-pos.R/p.scaleLength-math.Abs(pos.Z)/p.scaleHeight)
	}
}

// spiralPhase is θ − ln(r)/tan(pitch), wrapped into [0, 2π).
func (g Galaxy) spiralPhase(pos GalacticPosition) float64 {
	if pos.R <= 0 {
		return 0
	}
	k := math.Tan(g.PitchAngle * math.Pi / 180)
	return wrapAngle(pos.Theta - math.Log(pos.R)/k)
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// ArmOffset returns the angular distance in radians from the region's
// spiral phase to the nearest of the galaxy's arms, which sit at equal
// spacing starting from phase zero. ok is false outside the thin disk.
func (g Galaxy) ArmOffset(r Region) (offset float64, ok bool) {
	if r.Population != ThinDisk || g.SpiralArms <= 0 {
		return 0, false
	}
	spacing := 2 * math.Pi / float64(g.SpiralArms)
	d := math.Mod(r.SpiralPhase, spacing)
	return math.Min(d, spacing-d), true
}

// DensityProfile samples regions along the +x axis in the plane from `from`
// to `to` parsecs inclusive.
func (g Galaxy) DensityProfile(from, to, step float64) []Region {
	if step <= 0 || to < from {
		return nil
	}
	n := int(math.Floor((to-from)/step)) + 1
	out := make([]Region, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.GenerateRegion(from+float64(i)*step, 0, 0))
	}
	return out
}

// AcceptanceProbability is the chance that a draw in this region yields a
// system, capped at 1.
func (r Region) AcceptanceProbability() float64 {
	return math.Min(r.StarDensity/ReferenceDensity, 1)
}

// gateSalt keeps the acceptance roll off the star's stream.
const gateSalt = 100

// GenerateSolarSystem density-gates a system for seed. A rejected draw
// returns (nil, false); that is the normal outcome in sparse regions, not
// an error. Accepted draws generate the system from the same seed.
func (r Region) GenerateSolarSystem(gen *system.Generator, seed uint64) (*system.SolarSystem, bool) {
	rng := entropy.NewStream(seed + gateSalt)
	if rng.Float64() > r.StarDensity/ReferenceDensity {
		return nil, false
	}
	return gen.GenerateWithSeed(seed), true
}
