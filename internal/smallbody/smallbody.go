// Package smallbody populates regions of a solar system with asteroids,
// comets and Kuiper Belt objects.
//
// A body's identity depends only on its system's seed and its exact
// position, so the same point always produces the same body no matter
// which query reached it.
package smallbody

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/talgya/starforge/internal/astro"
	"github.com/talgya/starforge/internal/entropy"
	"github.com/talgya/starforge/internal/stellar"
)

// BodyType classifies a small body.
type BodyType uint8

const (
	RockyAsteroid    BodyType = iota // Silicate-rich
	MetallicAsteroid                 // Iron-nickel
	IcyAsteroid                      // Volatile-rich, outer system
	ShortPeriodComet                 // Jupiter family
	LongPeriodComet                  // Oort cloud
	Centaur                          // Chaotic orbits between the giants
	KuiperBeltObject                 // Trans-Neptunian

	bodyTypeCount
)

type span struct{ lo, hi float64 }

func (s span) draw(rng *rand.Rand) float64 {
	if s.hi == 0 {
		return 0
	}
	return entropy.Range(rng, s.lo, s.hi)
}

// bodyParams is the per-type tuning row.
type bodyParams struct {
	name     string
	mass     span // kg
	density  span // kg/m³
	elements [elementCount]span
}

var (
	metallicElements = [elementCount]span{
		{0.5, 0.8}, {0.1, 0.2}, {1e-6, 1e-5}, {1e-6, 1e-5}, {1e-4, 1e-3},
		{}, {}, {0.05, 0.2}, {0.01, 0.05},
	}
	rockyElements = [elementCount]span{
		{0.1, 0.3}, {0.01, 0.05}, {1e-7, 1e-6}, {1e-7, 1e-6}, {1e-5, 1e-4},
		{}, {}, {0.6, 0.8}, {0.05, 0.1},
	}
	icyElements = [elementCount]span{
		{0.01, 0.05}, {0.001, 0.01}, {1e-8, 1e-7}, {1e-8, 1e-7}, {1e-6, 1e-5},
		{0.3, 0.6}, {0.1, 0.3}, {0.1, 0.3}, {0.05, 0.15},
	}
	outerElements = [elementCount]span{
		{0.05, 0.15}, {0.01, 0.03}, {1e-7, 1e-6}, {1e-7, 1e-6}, {1e-5, 1e-4},
		{0.2, 0.4}, {0.1, 0.2}, {0.2, 0.4}, {0.1, 0.2},
	}
)

var bodyTable = [bodyTypeCount]bodyParams{
	RockyAsteroid:    {name: "RockyAsteroid", mass: span{1e13, 1e19}, density: span{2500, 4000}, elements: rockyElements},
	MetallicAsteroid: {name: "MetallicAsteroid", mass: span{1e13, 1e19}, density: span{4500, 8000}, elements: metallicElements},
	IcyAsteroid:      {name: "IcyAsteroid", mass: span{1e15, 1e20}, density: span{1000, 2000}, elements: icyElements},
	ShortPeriodComet: {name: "ShortPeriodComet", mass: span{1e12, 1e15}, density: span{500, 1000}, elements: icyElements},
	LongPeriodComet:  {name: "LongPeriodComet", mass: span{1e12, 1e15}, density: span{500, 1000}, elements: icyElements},
	Centaur:          {name: "Centaur", mass: span{1e15, 1e20}, density: span{1000, 2000}, elements: outerElements},
	KuiperBeltObject: {name: "KuiperBeltObject", mass: span{1e18, 1e22}, density: span{1500, 2500}, elements: outerElements},
}

func (t BodyType) String() string {
	if t >= bodyTypeCount {
		return fmt.Sprintf("BodyType(%d)", uint8(t))
	}
	return bodyTable[t].name
}

// ParseBodyType is the inverse of String.
func ParseBodyType(s string) (BodyType, error) {
	for i, p := range bodyTable {
		if p.name == s {
			return BodyType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown body type %q", s)
}

func (t BodyType) MarshalText() ([]byte, error) {
	if t >= bodyTypeCount {
		return nil, fmt.Errorf("invalid body type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *BodyType) UnmarshalText(b []byte) error {
	v, err := ParseBodyType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MassRange returns the declared mass bounds in kg.
func (t BodyType) MassRange() (lo, hi float64) {
	p := bodyTable[t]
	return p.mass.lo, p.mass.hi
}

// DensityRange returns the declared bulk density bounds in kg/m³.
func (t BodyType) DensityRange() (lo, hi float64) {
	p := bodyTable[t]
	return p.density.lo, p.density.hi
}

// SmallBody is a generated asteroid, comet or KBO.
type SmallBody struct {
	Name           string                   `json:"name"`
	Seed           uint64                   `json:"seed"`
	Type           BodyType                 `json:"body_type"`
	Physical       astro.PhysicalProperties `json:"physical"`
	Position       astro.Position           `json:"position"` // m, star at origin
	Composition    astro.Composition        `json:"composition"`
	Elements       Elements                 `json:"elements"`
	OrbitalPeriod  float64                  `json:"orbital_period"`  // Years, 0 until placed in a system
	RotationPeriod float64                  `json:"rotation_period"` // Hours
	Age            float64                  `json:"age"`             // Gyr, the host system's age
}

// DistanceAU returns the distance from the host star.
func (b *SmallBody) DistanceAU() float64 {
	return b.Position.Norm() / astro.AU
}

// Type band boundaries in AU from the host star.
const (
	innerSystemAU = 2.0
	mainBeltAU    = 5.0
	outerSystemAU = 30.0
)

// GenerateAtPosition creates the body at pos (meters, star at origin) in the
// system identified by systemSeed. hostType drives element enrichment;
// systemAge is recorded on the body.
func GenerateAtPosition(systemSeed uint64, pos astro.Position, hostType stellar.StellarType, systemAge float64) SmallBody {
	seed := entropy.PositionSeed(systemSeed, pos.X, pos.Y, pos.Z)
	rng := entropy.NewStream(seed)
	distance := pos.Norm() / astro.AU

	t := drawBodyType(rng, distance)
	p := bodyTable[t]
	mass := p.mass.draw(rng)

	var raw [elementCount]float64
	for i, s := range p.elements {
		raw[i] = s.draw(rng)
	}
	elements := elementsFromArray(raw)
	elements = enrich(elements, hostType, distance)
	elements = elements.Normalize()

	density := p.density.draw(rng)
	radius := astro.RadiusFromDensity(mass, density)
	metals := elements.Metals()

	return SmallBody{
		Name:           fmt.Sprintf("SB-%d", seed%1000000),
		Seed:           seed,
		Type:           t,
		Physical:       astro.Derive(mass, radius, 0),
		Position:       pos,
		Composition:    astro.Composition{Metallicity: metals, Other: 1 - metals},
		Elements:       elements,
		RotationPeriod: entropy.Range(rng, 0.1, 100),
		Age:            systemAge,
	}
}

func drawBodyType(rng *rand.Rand, distanceAU float64) BodyType {
	roll := rng.Float64()
	switch {
	case distanceAU < innerSystemAU:
		if roll < 0.7 {
			return RockyAsteroid
		}
		return MetallicAsteroid
	case distanceAU < mainBeltAU:
		switch {
		case roll < 0.5:
			return RockyAsteroid
		case roll < 0.8:
			return MetallicAsteroid
		default:
			return IcyAsteroid
		}
	case distanceAU < outerSystemAU:
		switch {
		case roll < 0.4:
			return IcyAsteroid
		case roll < 0.7:
			return Centaur
		default:
			return ShortPeriodComet
		}
	default:
		if roll < 0.7 {
			return KuiperBeltObject
		}
		return LongPeriodComet
	}
}

// enrich applies host-star adjustments before normalization. Supernova
// remnant hosts carry heavy elements; giant hosts have boiled off the inner
// system's ices.
func enrich(e Elements, host stellar.StellarType, distanceAU float64) Elements {
	switch {
	case host == stellar.NeutronStar || host == stellar.BlackHole:
		e.Iron *= 1.5
		e.Nickel *= 1.5
		e.Gold *= 2
		e.Platinum *= 2
		e.RareEarth *= 2
	case host.IsGiant() && distanceAU < mainBeltAU:
		e.WaterIce *= 0.5
		e.MethaneIce *= 0.5
	}
	return e
}

// Kepler returns the orbital period in years for a circular orbit of
// distanceAU around a central mass in solar masses.
func Kepler(distanceAU, centralMassSolar float64) float64 {
	if centralMassSolar <= 0 {
		return 0
	}
	return math.Sqrt(distanceAU * distanceAU * distanceAU / centralMassSolar)
}
