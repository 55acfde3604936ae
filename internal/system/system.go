// Package system assembles a star and its planets into a SolarSystem.
//
// Orbits follow a modified Titius–Bode progression whose base distance and
// spacing come from the star's type. Planet bodies are generated from
// PlanetSeed(seed, i), so every planet is reproducible on its own.
package system

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/talgya/starforge/internal/astro"
	"github.com/talgya/starforge/internal/distributions"
	"github.com/talgya/starforge/internal/entropy"
	"github.com/talgya/starforge/internal/planet"
	"github.com/talgya/starforge/internal/stellar"
)

// systemNamespace scopes SHA-1 system IDs.
var systemNamespace = uuid.MustParse("6f1c1b7e-3a52-5d0e-9c4b-2f8d7e1a9b30")

// Orbit inclination bound in AU.
const maxInclinationAU = 0.1

// Salts that keep orbit placement and planet bodies off the star's stream.
const (
	placementSalt    = 1
	planetSeedOffset = 1000
)

// PlanetSeed is the seed of the index-th planet formed around systemSeed.
func PlanetSeed(systemSeed uint64, index int) uint64 {
	return systemSeed + planetSeedOffset + uint64(index)
}

// SolarSystem is a star with its planets ordered by planar distance.
type SolarSystem struct {
	ID            uuid.UUID       `json:"id"`
	Seed          uint64          `json:"seed"`
	Star          stellar.Star    `json:"star"`
	Planets       []planet.Planet `json:"planets"`
	TotalMass     float64         `json:"total_mass"` // kg
	SystemAge     float64         `json:"system_age"` // Gyr
	HabitableZone HabitableZone   `json:"habitable_zone"`
}

// HabitableZone bounds in AU.
type HabitableZone struct {
	Inner float64 `json:"inner"`
	Outer float64 `json:"outer"`
}

// Contains reports whether distanceAU lies within the zone.
func (z HabitableZone) Contains(distanceAU float64) bool {
	return distanceAU >= z.Inner && distanceAU <= z.Outer
}

// Generator builds solar systems from a distributions Library.
type Generator struct {
	dist distributions.Library
}

// NewGenerator returns a Generator drawing from lib.
func NewGenerator(lib distributions.Library) *Generator {
	return &Generator{dist: lib}
}

// Library returns the distributions the generator draws from.
func (g *Generator) Library() distributions.Library {
	return g.dist
}

// DefaultGenerator returns a Generator over distributions.Default.
func DefaultGenerator() *Generator {
	return NewGenerator(distributions.Default())
}

// SystemID returns the stable ID for the system generated from seed.
func SystemID(seed uint64) uuid.UUID {
	return uuid.NewSHA1(systemNamespace, []byte(fmt.Sprintf("system/%d", seed)))
}

// Generate creates a system from ambient entropy.
func (g *Generator) Generate() *SolarSystem {
	return g.GenerateWithSeed(entropy.Seed())
}

// GenerateWithSeed creates the system fully determined by seed.
func (g *Generator) GenerateWithSeed(seed uint64) *SolarSystem {
	star := stellar.GenerateWithSeed(seed)
	starMass := star.MassSolar()
	inner, outer := distributions.HabitableZoneRange(starMass, star.Luminosity)

	sys := &SolarSystem{
		ID:            SystemID(seed),
		Seed:          seed,
		Star:          star,
		SystemAge:     star.Age,
		HabitableZone: HabitableZone{Inner: inner, Outer: outer},
	}

	if star.Type.CanHavePlanets() {
		sys.Planets = g.formPlanets(seed, star)
	}

	sys.TotalMass = star.Physical.Mass
	for i := range sys.Planets {
		sys.TotalMass += sys.Planets[i].Physical.Mass
	}
	return sys
}

// formPlanets places and finalizes each planet, then sorts and names them.
func (g *Generator) formPlanets(seed uint64, star stellar.Star) []planet.Planet {
	rng := entropy.NewStream(seed + placementSalt)
	p := star.Type.Params()
	n := entropy.IntRange(rng, p.PlanetsMin, p.PlanetsMax)
	if n == 0 {
		return nil
	}

	starMass := star.MassSolar()
	planets := make([]planet.Planet, 0, n)
	for i := 0; i < n; i++ {
		distance := p.BaseDistance * math.Pow(p.SpacingFactor, float64(i)) * entropy.Range(rng, 0.8, 1.2)
		angle := entropy.Range(rng, 0, 2*math.Pi)

		pl := planet.GenerateAtDistance(g.dist, PlanetSeed(seed, i), distance)
		pl.Position = astro.Position{
			X: distance * math.Cos(angle),
			Y: distance * math.Sin(angle),
			Z: entropy.Range(rng, -maxInclinationAU, maxInclinationAU),
		}.Scale(astro.AU)

		pl.Physical.SurfaceTemperature = distributions.SurfaceTemperature(rng, distance, star.Luminosity, pl.Greenhouse())
		pl.AssessHabitability(distance, starMass)

		planets = append(planets, pl)
	}

	sort.SliceStable(planets, func(i, j int) bool {
		return planets[i].Position.PlanarNorm() < planets[j].Position.PlanarNorm()
	})
	for i := range planets {
		planets[i].Name = planetName(star.Name, i)
	}
	return planets
}

var romanNumerals = []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII"}

func planetName(starName string, index int) string {
	if index < len(romanNumerals) {
		return starName + " " + romanNumerals[index]
	}
	return fmt.Sprintf("%s %d", starName, index+1)
}

// HabitablePlanets returns the planets flagged habitable, in orbit order.
func (s *SolarSystem) HabitablePlanets() []*planet.Planet {
	var out []*planet.Planet
	for i := range s.Planets {
		if s.Planets[i].Habitable {
			out = append(out, &s.Planets[i])
		}
	}
	return out
}

// CenterOfMass returns the barycenter in meters with the star at the origin.
func (s *SolarSystem) CenterOfMass() astro.Position {
	total := s.Star.Physical.Mass
	var c astro.Position
	for _, p := range s.Planets {
		m := p.Physical.Mass
		c.X += m * p.Position.X
		c.Y += m * p.Position.Y
		c.Z += m * p.Position.Z
		total += m
	}
	return c.Scale(1 / total)
}

// PlanarDistanceAU returns the planar orbital distance of planet i.
func (s *SolarSystem) PlanarDistanceAU(i int) float64 {
	return s.Planets[i].Position.PlanarNorm() / astro.AU
}
