// Package stellar classifies and generates stars.
//
// Generation is a fixed pipeline keyed by a 64-bit seed: type draw, mass,
// luminosity, radius, temperature, composition, magnetic field and rotation,
// then the derived bulk physics. The same seed always yields the same Star.
package stellar

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/talgya/starforge/internal/astro"
	"github.com/talgya/starforge/internal/entropy"
)

// Star is a generated star. Values are immutable after generation.
type Star struct {
	Name          string                   `json:"name"`
	Seed          uint64                   `json:"seed"`
	Type          StellarType              `json:"stellar_type"`
	Physical      astro.PhysicalProperties `json:"physical"`
	Composition   astro.Composition        `json:"composition"`
	Luminosity    float64                  `json:"luminosity"`      // L☉
	Age           float64                  `json:"age"`             // Gyr
	MagneticField float64                  `json:"magnetic_field"`  // Tesla
	Rotation      float64                  `json:"rotation_period"` // Days
}

// MassSolar returns the star's mass in solar masses.
func (s Star) MassSolar() float64 {
	return s.Physical.Mass / astro.SolarMass
}

// Generate creates a star from ambient entropy. Not reproducible.
func Generate() Star {
	return GenerateWithSeed(entropy.Seed())
}

// GenerateWithSeed creates the star fully determined by seed.
func GenerateWithSeed(seed uint64) Star {
	rng := entropy.NewStream(seed)

	t := drawType(rng.Float64())
	p := t.Params()

	massSolar := entropy.Range(rng, p.MassMin, p.MassMax)
	luminosity := t.Luminosity(massSolar)
	mass := massSolar * astro.SolarMass
	radius := stellarRadius(t, massSolar)
	temp := entropy.Range(rng, p.TempMin, p.TempMax)

	star := Star{
		Name:          fmt.Sprintf("Star-%d", seed%1000),
		Seed:          seed,
		Type:          t,
		Physical:      astro.Derive(mass, radius, temp),
		Composition:   composition(t),
		Luminosity:    luminosity,
		MagneticField: magneticField(t, rng),
		Rotation:      rotationPeriod(t, rng),
	}
	star.Age = entropy.Range(rng, 0.1, 13.8)

	return star
}

// stellarRadius returns the radius in meters.
func stellarRadius(t StellarType, massSolar float64) float64 {
	switch {
	case t == BlackHole:
		return astro.SchwarzschildRadius(massSolar * astro.SolarMass)
	case t.IsGiant():
		return math.Pow(massSolar, 0.5) * 100 * astro.SolarRadius
	case t.IsCompact():
		return math.Pow(massSolar, 0.5) * 0.01 * astro.SolarRadius
	default:
		return math.Pow(massSolar, 0.8) * astro.SolarRadius
	}
}

func composition(t StellarType) astro.Composition {
	switch {
	case t.IsNeutronClass():
		return astro.Composition{Metallicity: 1}
	case t == BlackHole:
		return astro.Composition{Other: 1}
	default:
		return astro.SolarComposition
	}
}

// magneticField returns a field strength in Tesla.
// Magnetar > pulsar > neutron star > everything else.
func magneticField(t StellarType, rng *rand.Rand) float64 {
	switch t {
	case MagnetarStar:
		return 1e11 + rng.Float64()*1e12
	case PulsarStar:
		return 1e8 + rng.Float64()*1e9
	case NeutronStar:
		return 1e7 + rng.Float64()*1e8
	default:
		return 1e-4 + rng.Float64()*1e2
	}
}

// rotationPeriod returns a rotation period in days.
func rotationPeriod(t StellarType, rng *rand.Rand) float64 {
	switch t {
	case PulsarStar:
		return entropy.Range(rng, 0.001, 10)
	case NeutronStar, MagnetarStar:
		return entropy.Range(rng, 0.1, 100)
	default:
		return entropy.Range(rng, 0.5, 50)
	}
}
