// Package planet generates individual planet bodies and assesses their
// habitability once their orbit is known.
package planet

import (
	"fmt"
	"math"

	"github.com/talgya/starforge/internal/astro"
	"github.com/talgya/starforge/internal/distributions"
	"github.com/talgya/starforge/internal/entropy"
)

// PlanetType classifies a planet by bulk structure.
type PlanetType uint8

const (
	Terrestrial PlanetType = iota // Rocky, Earth-like density
	GasGiant                      // Jupiter-like
	IceGiant                      // Neptune-like
)

var typeNames = [...]string{"Terrestrial", "GasGiant", "IceGiant"}

func (t PlanetType) String() string {
	if int(t) >= len(typeNames) {
		return fmt.Sprintf("PlanetType(%d)", uint8(t))
	}
	return typeNames[t]
}

// ParsePlanetType is the inverse of String.
func ParsePlanetType(s string) (PlanetType, error) {
	for i, n := range typeNames {
		if n == s {
			return PlanetType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown planet type %q", s)
}

func (t PlanetType) MarshalText() ([]byte, error) {
	if int(t) >= len(typeNames) {
		return nil, fmt.Errorf("invalid planet type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *PlanetType) UnmarshalText(b []byte) error {
	v, err := ParsePlanetType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Relative bulk density (Earth = 5.51 g/cm³ scale) per type.
var relativeDensity = [...]float64{
	Terrestrial: 5.51,
	GasGiant:    1.33,
	IceGiant:    1.64,
}

var typeComposition = [...]astro.Composition{
	Terrestrial: {Metallicity: 0.9, Other: 0.1},
	GasGiant:    {Hydrogen: 0.75, Helium: 0.24, Metallicity: 0.01},
	IceGiant:    {Hydrogen: 0.20, Helium: 0.15, Metallicity: 0.15, Other: 0.50}, // Ices and volatiles
}

// Atmosphere describes a planet's gas envelope.
type Atmosphere struct {
	Pressure         float64           `json:"pressure"` // atm
	Composition      astro.Composition `json:"composition"`
	GreenhouseEffect float64           `json:"greenhouse_effect"`
}

// Planet is a generated planet. SurfaceTemperature and Habitable are
// finalized by the system generator once the orbit is placed.
type Planet struct {
	Name           string                   `json:"name"`
	Seed           uint64                   `json:"seed"`
	Type           PlanetType               `json:"planet_type"`
	Physical       astro.PhysicalProperties `json:"physical"`
	Position       astro.Position           `json:"position"`
	OrbitalPeriod  float64                  `json:"orbital_period"`  // Years
	RotationPeriod float64                  `json:"rotation_period"` // Days
	Atmosphere     *Atmosphere              `json:"atmosphere,omitempty"`
	Composition    astro.Composition        `json:"composition"`
	Habitable      bool                     `json:"habitable"`
}

// placeholderTemperature is the surface temperature before the host star is known.
const placeholderTemperature = 288.0

// Habitability thresholds.
const (
	habitableMassMin     = 0.1 // Earth masses, exclusive
	habitableMassMax     = 5.0
	habitableTempMin     = 250.0 // K, exclusive
	habitableTempMax     = 400.0
	habitableGravityMin  = 2.0 // m/s², exclusive
	habitableGravityMax  = 30.0
	habitablePressureMin = 0.1 // atm, inclusive
	habitablePressureMax = 10.0
	habitableRotationMin = 0.1 // days, inclusive
	habitableRotationMax = 100.0
)

// Generate creates a planet at 1 AU from ambient entropy.
func Generate(lib distributions.Library) Planet {
	return GenerateWithSeed(lib, entropy.Seed())
}

// GenerateWithSeed creates a planet at 1 AU.
func GenerateWithSeed(lib distributions.Library, seed uint64) Planet {
	return GenerateAtDistance(lib, seed, 1.0)
}

// GenerateAtDistance creates the planet determined by seed for an orbit of
// distanceAU. Position is left at the origin for the caller to place.
func GenerateAtDistance(lib distributions.Library, seed uint64, distanceAU float64) Planet {
	rng := entropy.NewStream(seed)

	massEarth := lib.PlanetMass(rng, distanceAU)
	orbitalPeriod := lib.RandomOrbitalPeriod(rng)
	t := classify(massEarth, distanceAU)

	radius := math.Cbrt(massEarth/relativeDensity[t]) * astro.EarthRadius
	composition := typeComposition[t]

	return Planet{
		Name:           fmt.Sprintf("Planet-%d", seed%1000),
		Seed:           seed,
		Type:           t,
		Physical:       astro.Derive(massEarth*astro.EarthMass, radius, placeholderTemperature),
		OrbitalPeriod:  orbitalPeriod,
		RotationPeriod: entropy.Range(rng, 0.1, 100),
		Atmosphere:     atmosphere(t, massEarth, distanceAU, composition),
		Composition:    composition,
	}
}

func classify(massEarth, distanceAU float64) PlanetType {
	switch {
	case massEarth < 2 && distanceAU < 4:
		return Terrestrial
	case massEarth < 50 && distanceAU > 2:
		return IceGiant
	default:
		return GasGiant
	}
}

// atmosphere returns nil for terrestrial planets outside (0.1, 5) Earth masses.
func atmosphere(t PlanetType, massEarth, distanceAU float64, composition astro.Composition) *Atmosphere {
	if t != Terrestrial {
		return &Atmosphere{
			Pressure:         massEarth * massEarth,
			Composition:      composition,
			GreenhouseEffect: 1.5,
		}
	}
	if massEarth <= 0.1 || massEarth >= 5 {
		return nil
	}
	greenhouse := 1.0
	if distanceAU < 2 {
		greenhouse = 1.2
	}
	return &Atmosphere{
		Pressure:         math.Pow(massEarth, 1.5),
		Composition:      astro.Composition{Metallicity: 0.01, Other: 0.99},
		GreenhouseEffect: greenhouse,
	}
}

// MassEarth returns the planet's mass in Earth masses.
func (p *Planet) MassEarth() float64 {
	return p.Physical.Mass / astro.EarthMass
}

// Greenhouse returns the atmosphere's greenhouse factor, or 1 without one.
func (p *Planet) Greenhouse() float64 {
	if p.Atmosphere == nil {
		return 1
	}
	return p.Atmosphere.GreenhouseEffect
}

// HabitableBand returns the planet-level habitable band 0.95·√M to 1.37·√M
// AU. This is narrower than distributions.HabitableZoneRange, which the
// system reports; the two are kept separate.
func HabitableBand(starMassSolar float64) (inner, outer float64) {
	s := math.Sqrt(starMassSolar)
	return 0.95 * s, 1.37 * s
}

// AssessHabitability sets Habitable. Every condition must hold: terrestrial
// type, an atmosphere with pressure in [0.1, 10] atm, mass in (0.1, 5) Earth
// masses, surface temperature in (250, 400) K, gravity in (2, 30) m/s²,
// rotation in [0.1, 100] days, and distanceAU inside HabitableBand.
func (p *Planet) AssessHabitability(distanceAU, starMassSolar float64) {
	p.Habitable = false

	if p.Type != Terrestrial || p.Atmosphere == nil {
		return
	}

	inner, outer := HabitableBand(starMassSolar)
	m := p.MassEarth()
	temp := p.Physical.SurfaceTemperature
	g := p.Physical.SurfaceGravity
	pressure := p.Atmosphere.Pressure

	p.Habitable = distanceAU >= inner && distanceAU <= outer &&
		m > habitableMassMin && m < habitableMassMax &&
		temp > habitableTempMin && temp < habitableTempMax &&
		g > habitableGravityMin && g < habitableGravityMax &&
		pressure >= habitablePressureMin && pressure <= habitablePressureMax &&
		p.RotationPeriod >= habitableRotationMin && p.RotationPeriod <= habitableRotationMax
}
