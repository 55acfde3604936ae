package smallbody

import (
	"math"
	"sort"

	"github.com/talgya/starforge/internal/astro"
	"github.com/talgya/starforge/internal/distributions"
	"github.com/talgya/starforge/internal/entropy"
	"github.com/talgya/starforge/internal/system"
)

// Populate scatters bodies uniformly through the sphere at centerAU with
// radiusAU, at density bodies per AU³. The count is ⌊(4/3)πr³·density⌋.
// Bodies are keyed by the star's seed and their exact position, carry
// Kepler orbital periods and equilibrium temperatures around the host star,
// and are sorted by distance from the center.
func Populate(sys *system.SolarSystem, centerAU astro.Position, radiusAU, density float64) []SmallBody {
	n := Count(radiusAU, density)
	if n == 0 {
		return nil
	}

	base := sys.Star.Seed
	rng := entropy.NewStream(base + scatterSalt)
	center := centerAU.Scale(astro.AU)
	radius := radiusAU * astro.AU
	starMass := sys.Star.MassSolar()

	bodies := make([]SmallBody, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		r := radius * math.Cbrt(rng.Float64())
		theta := rng.Float64() * 2 * math.Pi
		phi := math.Acos(2*rng.Float64() - 1)

		pos := astro.Position{
			X: center.X + r*math.Sin(phi)*math.Cos(theta),
			Y: center.Y + r*math.Sin(phi)*math.Sin(theta),
			Z: center.Z + r*math.Cos(phi),
		}

		b := GenerateAtPosition(base, pos, sys.Star.Type, sys.SystemAge)
		d := b.DistanceAU()
		b.OrbitalPeriod = Kepler(d, starMass)
		if d > 0 {
			b.Physical.SurfaceTemperature = distributions.EquilibriumTemperature(d, sys.Star.Luminosity)
		}
		bodies = append(bodies, b)
	}

	sort.SliceStable(bodies, func(i, j int) bool {
		return bodies[i].Position.DistanceTo(center) < bodies[j].Position.DistanceTo(center)
	})
	return bodies
}

// scatterSalt keeps the scatter stream off the star's stream.
const scatterSalt = 2

// maxPrealloc bounds the up-front allocation for very large volumes.
const maxPrealloc = 1 << 16

// Count is the number of bodies Populate yields for a sphere of radiusAU at
// density bodies per AU³.
func Count(radiusAU, density float64) int {
	return bodyCount(4.0 / 3.0 * math.Pi * radiusAU * radiusAU * radiusAU * density)
}

// bodyCount truncates toward zero; non-positive and NaN counts are empty.
func bodyCount(v float64) int {
	if !(v > 0) {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// Belt densities in bodies per AU³.
const (
	InnerBeltDensity     = 5.0
	MainBeltDensity      = 10.0
	ScatteredDiskDensity = 0.1
	KuiperBeltDensity    = 0.5
	SparseDensity        = 0.01
)

// BeltDensity returns the typical small-body density at distanceAU. The
// scattered disk (30–50 AU) overlaps the Kuiper belt (40–100 AU) and wins.
func BeltDensity(distanceAU float64) float64 {
	d := distanceAU
	switch {
	case d >= 1.8 && d <= 2.2:
		return InnerBeltDensity
	case d >= 2.2 && d <= 3.2:
		return MainBeltDensity
	case d >= 30 && d <= 50:
		return ScatteredDiskDensity
	case d >= 40 && d <= 100:
		return KuiperBeltDensity
	default:
		return SparseDensity
	}
}
