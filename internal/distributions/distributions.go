// Package distributions holds the statistical samplers shared by the star,
// planet and system generators.
//
// A Library is an immutable value built once (see Default) and passed to
// generators explicitly. Every sampler takes the caller's seeded stream, so
// results are reproducible from the generation seed alone.
package distributions

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/talgya/starforge/internal/entropy"
)

// Library bundles the distribution parameters. The Src fields are left nil;
// each draw binds a copy to the caller's stream.
type Library struct {
	StarMass        distuv.LogNormal // Solar masses
	TerrestrialMass distuv.LogNormal // Earth masses
	IceGiantMass    distuv.LogNormal // Earth masses
	GasGiantMass    distuv.LogNormal // Earth masses
	OrbitalPeriod   distuv.LogNormal // Years
	Metallicity     distuv.Normal    // [Fe/H]
}

// Default returns the parameters tuned against exoplanet survey frequencies.
func Default() Library {
	return Library{
		StarMass:        distuv.LogNormal{Mu: 0.0, Sigma: 0.5},
		TerrestrialMass: distuv.LogNormal{Mu: -0.5, Sigma: 0.5},
		IceGiantMass:    distuv.LogNormal{Mu: 2.5, Sigma: 0.3},
		GasGiantMass:    distuv.LogNormal{Mu: 5.0, Sigma: 0.4},
		OrbitalPeriod:   distuv.LogNormal{Mu: 0.5, Sigma: 1.0},
		Metallicity:     distuv.Normal{Mu: 0.0, Sigma: 0.2},
	}
}

// Planet mass clamp bounds in Earth masses.
const (
	TerrestrialMassMin = 0.1
	TerrestrialMassMax = 2.0
	IceGiantMassMin    = 10.0
	IceGiantMassMax    = 50.0
	GasGiantMassMin    = 50.0
	GasGiantMassMax    = 1000.0

	// OuterGasGiantMassMin replaces GasGiantMassMin beyond OuterSystemAU.
	OuterGasGiantMassMin = 100.0
	OuterSystemAU        = 5.0
)

// massBand is one row of the distance-banded planet class table.
// Gas giant probability is the remainder 1 − terrestrial − ice giant.
type massBand struct {
	maxDistance float64 // AU, exclusive
	terrestrial float64
	iceGiant    float64
}

var terrestrialBands = []massBand{
	{maxDistance: 0.5, terrestrial: 0.6},
	{maxDistance: 2.0, terrestrial: 0.5},
	{maxDistance: 5.0, terrestrial: 0.2},
	{maxDistance: math.Inf(1), terrestrial: 0.1},
}

var iceGiantBands = []massBand{
	{maxDistance: 0.5, iceGiant: 0.2},
	{maxDistance: 2.0, iceGiant: 0.3},
	{maxDistance: 10.0, iceGiant: 0.4},
	{maxDistance: math.Inf(1), iceGiant: 0.3},
}

// ClassProbabilities returns the terrestrial and ice-giant probabilities at
// the given distance. The gas giant probability is 1 minus their sum.
func ClassProbabilities(distanceAU float64) (terrestrial, iceGiant float64) {
	for _, b := range terrestrialBands {
		if distanceAU < b.maxDistance {
			terrestrial = b.terrestrial
			break
		}
	}
	for _, b := range iceGiantBands {
		if distanceAU < b.maxDistance {
			iceGiant = b.iceGiant
			break
		}
	}
	return terrestrial, iceGiant
}

// PlanetMass draws a planet mass in Earth masses for a planet at distanceAU.
func (l Library) PlanetMass(rng *rand.Rand, distanceAU float64) float64 {
	terrestrial, iceGiant := ClassProbabilities(distanceAU)
	roll := rng.Float64()

	switch {
	case roll < terrestrial:
		return clamp(sample(l.TerrestrialMass, rng), TerrestrialMassMin, TerrestrialMassMax)
	case roll < terrestrial+iceGiant:
		return clamp(sample(l.IceGiantMass, rng), IceGiantMassMin, IceGiantMassMax)
	default:
		minMass := GasGiantMassMin
		if distanceAU > OuterSystemAU {
			minMass = OuterGasGiantMassMin
		}
		return clamp(sample(l.GasGiantMass, rng), minMass, GasGiantMassMax)
	}
}

// RandomOrbitalPeriod draws an orbital period in years.
func (l Library) RandomOrbitalPeriod(rng *rand.Rand) float64 {
	return sample(l.OrbitalPeriod, rng)
}

// RandomMetallicity draws a metallicity [Fe/H] relative to solar.
func (l Library) RandomMetallicity(rng *rand.Rand) float64 {
	d := l.Metallicity
	d.Src = rng
	return d.Rand()
}

// RandomStarMass draws a stellar mass in solar masses from the initial
// mass function approximation. The classifier draws masses from per-type
// ranges instead; this is for callers that want an unclassified mass.
func (l Library) RandomStarMass(rng *rand.Rand) float64 {
	return sample(l.StarMass, rng)
}

// SurfaceTemperature returns a planet's surface temperature in Kelvin:
// 278·L^0.25/√d scaled by the greenhouse factor and a ±5% jitter drawn
// from rng.
func SurfaceTemperature(rng *rand.Rand, distanceAU, luminosity, greenhouse float64) float64 {
	return EquilibriumTemperature(distanceAU, luminosity) * greenhouse * entropy.Range(rng, 0.95, 1.05)
}

// EquilibriumTemperature is the jitter-free blackbody estimate for an
// Earth-like albedo: 278·L^0.25/√d.
func EquilibriumTemperature(distanceAU, luminosity float64) float64 {
	return 278.0 * (math.Pow(luminosity, 0.25) / math.Sqrt(distanceAU))
}

// HabitableZoneRange returns the inner (runaway greenhouse) and outer (CO2
// condensation) habitable-zone edges in AU.
func HabitableZoneRange(starMassSolar, luminositySolar float64) (inner, outer float64) {
	massFactor := math.Pow(starMassSolar, 0.25)
	inner = math.Sqrt(luminositySolar/1.1) * massFactor
	outer = math.Sqrt(luminositySolar/0.53) * massFactor
	return inner, outer
}

// MoonProbability is the chance a planet of the given mass (Earth masses)
// hosts at least one moon, capped at 0.95.
func MoonProbability(massEarth float64) float64 {
	return math.Min(1-math.Exp(-massEarth/10), 0.95)
}

func sample(d distuv.LogNormal, rng *rand.Rand) float64 {
	d.Src = rng
	return d.Rand()
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
