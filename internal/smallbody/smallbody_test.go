package smallbody

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/starforge/internal/astro"
	"github.com/talgya/starforge/internal/distributions"
	"github.com/talgya/starforge/internal/entropy"
	"github.com/talgya/starforge/internal/stellar"
	"github.com/talgya/starforge/internal/system"
)

func au(x, y, z float64) astro.Position {
	return astro.Position{X: x, Y: y, Z: z}.Scale(astro.AU)
}

func TestGenerateAtPosition_Deterministic(t *testing.T) {
	pos := au(2.7, 0.3, -0.01)
	a := GenerateAtPosition(42, pos, stellar.YellowDwarf, 4.5)
	b := GenerateAtPosition(42, pos, stellar.YellowDwarf, 4.5)
	require.Equal(t, a, b)

	c := GenerateAtPosition(42, au(2.7, 0.31, -0.01), stellar.YellowDwarf, 4.5)
	assert.NotEqual(t, a.Seed, c.Seed)
	d := GenerateAtPosition(43, pos, stellar.YellowDwarf, 4.5)
	assert.Equal(t, a.Seed+1, d.Seed)
}

func TestGenerateAtPosition_Invariants(t *testing.T) {
	rng := entropy.NewStream(5)
	hosts := []stellar.StellarType{stellar.YellowDwarf, stellar.NeutronStar, stellar.BlackHole, stellar.RedGiant}

	for i := 0; i < 2000; i++ {
		d := entropy.Range(rng, 0.1, 120)
		theta := entropy.Range(rng, 0, 2*math.Pi)
		pos := au(d*math.Cos(theta), d*math.Sin(theta), entropy.Range(rng, -1, 1))
		host := hosts[i%len(hosts)]

		b := GenerateAtPosition(uint64(i), pos, host, 3)

		require.InDelta(t, 1.0, b.Elements.Sum(), 1e-9)
		for _, v := range b.Elements.array() {
			require.GreaterOrEqual(t, v, 0.0)
		}

		lo, hi := b.Type.MassRange()
		require.GreaterOrEqual(t, b.Physical.Mass, lo)
		require.LessOrEqual(t, b.Physical.Mass, hi)

		dlo, dhi := b.Type.DensityRange()
		require.GreaterOrEqual(t, b.Physical.Density, dlo*(1-1e-9))
		require.LessOrEqual(t, b.Physical.Density, dhi*(1+1e-9))

		m, r := b.Physical.Mass, b.Physical.Radius
		require.InEpsilon(t, astro.Gravity(m, r), b.Physical.SurfaceGravity, 1e-9)
		require.InEpsilon(t, astro.EscapeVelocity(m, r), b.Physical.EscapeVelocity, 1e-9)
		require.InEpsilon(t, astro.Density(m, r), b.Physical.Density, 1e-9)

		require.InDelta(t, b.Elements.Metals(), b.Composition.Metallicity, 1e-12)
		require.InDelta(t, 1.0, b.Composition.Metallicity+b.Composition.Other, 1e-12)
		require.GreaterOrEqual(t, b.RotationPeriod, 0.1)
		require.Less(t, b.RotationPeriod, 100.0)
		require.Equal(t, 3.0, b.Age)
		require.Equal(t, pos, b.Position)
	}
}

func TestGenerateAtPosition_TypeBands(t *testing.T) {
	tests := []struct {
		distance float64
		allowed  []BodyType
	}{
		{1.0, []BodyType{RockyAsteroid, MetallicAsteroid}},
		{3.0, []BodyType{RockyAsteroid, MetallicAsteroid, IcyAsteroid}},
		{15.0, []BodyType{IcyAsteroid, Centaur, ShortPeriodComet}},
		{45.0, []BodyType{KuiperBeltObject, LongPeriodComet}},
	}
	for _, tt := range tests {
		seen := make(map[BodyType]int)
		for seed := uint64(0); seed < 500; seed++ {
			b := GenerateAtPosition(seed, au(tt.distance, 0, 0), stellar.YellowDwarf, 4.5)
			require.Contains(t, tt.allowed, b.Type, "at %v AU", tt.distance)
			seen[b.Type]++
		}
		assert.Len(t, seen, len(tt.allowed), "at %v AU every band type should appear", tt.distance)
	}
}

func TestDrawBodyType_Frequencies(t *testing.T) {
	rng := entropy.NewStream(11)
	rocky := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if drawBodyType(rng, 1.0) == RockyAsteroid {
			rocky++
		}
	}
	assert.InDelta(t, 0.7, float64(rocky)/n, 0.03)
}

func TestEnrich(t *testing.T) {
	base := Elements{Iron: 1, Nickel: 1, Gold: 1, Platinum: 1, RareEarth: 1, WaterIce: 1, MethaneIce: 1, Silicates: 1, Carbon: 1}

	remnant := enrich(base, stellar.NeutronStar, 1)
	assert.Equal(t, Elements{Iron: 1.5, Nickel: 1.5, Gold: 2, Platinum: 2, RareEarth: 2, WaterIce: 1, MethaneIce: 1, Silicates: 1, Carbon: 1}, remnant)
	assert.Equal(t, remnant, enrich(base, stellar.BlackHole, 80))

	giantInner := enrich(base, stellar.SuperGiant, 4.9)
	assert.Equal(t, 0.5, giantInner.WaterIce)
	assert.Equal(t, 0.5, giantInner.MethaneIce)
	assert.Equal(t, 1.0, giantInner.Iron)

	assert.Equal(t, base, enrich(base, stellar.HyperGiant, 5))
	assert.Equal(t, base, enrich(base, stellar.YellowDwarf, 1))
	assert.Equal(t, base, enrich(base, stellar.PulsarStar, 1))
}

func TestGenerateAtPosition_RemnantHostEnrichesPrecious(t *testing.T) {
	var plain, enriched float64
	for seed := uint64(0); seed < 300; seed++ {
		pos := au(1.5, 0, 0)
		plain += GenerateAtPosition(seed, pos, stellar.YellowDwarf, 4.5).Elements.Precious()
		enriched += GenerateAtPosition(seed, pos, stellar.NeutronStar, 4.5).Elements.Precious()
	}
	assert.Greater(t, enriched, plain)
}

func TestElements_Normalize(t *testing.T) {
	e := Elements{Iron: 2, Silicates: 6}.Normalize()
	assert.InDelta(t, 0.25, e.Iron, 1e-12)
	assert.InDelta(t, 0.75, e.Silicates, 1e-12)
	assert.InDelta(t, 1.0, e.Sum(), 1e-12)
	assert.Equal(t, Elements{}, Elements{}.Normalize())
}

func TestBodyType_String(t *testing.T) {
	for i := BodyType(0); i < bodyTypeCount; i++ {
		got, err := ParseBodyType(i.String())
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}
	_, err := ParseBodyType("Moon")
	assert.Error(t, err)
	assert.Equal(t, "BodyType(42)", BodyType(42).String())
}

func TestPopulate(t *testing.T) {
	gen := system.DefaultGenerator()
	sys := gen.GenerateWithSeed(77)
	center := astro.Position{X: 2.7}

	bodies := Populate(sys, center, 0.5, MainBeltDensity)
	require.Len(t, bodies, 5) // ⌊(4/3)π·0.125·10⌋
	require.Equal(t, bodies, Populate(sys, center, 0.5, MainBeltDensity))

	c := center.Scale(astro.AU)
	for i, b := range bodies {
		require.LessOrEqual(t, b.Position.DistanceTo(c), 0.5*astro.AU*(1+1e-9))
		if i > 0 {
			require.LessOrEqual(t, bodies[i-1].Position.DistanceTo(c), b.Position.DistanceTo(c))
		}
		require.Equal(t, entropy.PositionSeed(sys.Star.Seed, b.Position.X, b.Position.Y, b.Position.Z), b.Seed)
		require.InEpsilon(t, Kepler(b.DistanceAU(), sys.Star.MassSolar()), b.OrbitalPeriod, 1e-12)
		if sys.Star.Luminosity > 0 {
			require.InEpsilon(t, distributions.EquilibriumTemperature(b.DistanceAU(), sys.Star.Luminosity), b.Physical.SurfaceTemperature, 1e-12)
		}
		require.Equal(t, sys.SystemAge, b.Age)
	}
}

func TestPopulate_PositionKeyedIdentity(t *testing.T) {
	sys := system.DefaultGenerator().GenerateWithSeed(9)
	for _, b := range Populate(sys, astro.Position{X: 40}, 2, 0.5) {
		again := GenerateAtPosition(sys.Star.Seed, b.Position, sys.Star.Type, sys.SystemAge)
		require.Equal(t, again.Elements, b.Elements)
		require.Equal(t, again.Type, b.Type)
		require.Equal(t, again.Physical.Mass, b.Physical.Mass)
	}
}

func TestPopulate_Empty(t *testing.T) {
	sys := system.DefaultGenerator().GenerateWithSeed(1)
	assert.Empty(t, Populate(sys, astro.Position{}, 0.1, 0.01))
	assert.Empty(t, Populate(sys, astro.Position{}, 1, 0))
	assert.Empty(t, Populate(sys, astro.Position{}, 1, -3))
}

func TestCount(t *testing.T) {
	assert.Equal(t, 5, Count(0.5, MainBeltDensity))
	assert.Equal(t, 41887, Count(10, MainBeltDensity))
	assert.Zero(t, Count(0, MainBeltDensity))
	assert.Zero(t, Count(1, math.NaN()))
	assert.Equal(t, math.MaxInt32, Count(1e6, MainBeltDensity))
}

func TestPopulate_ScatterIndependentOfStar(t *testing.T) {
	// One body per volume; its radial draw must not track the star's type roll.
	gen := system.DefaultGenerator()
	hosts, inner := 0, 0
	for seed := uint64(0); seed < 4000; seed++ {
		sys := gen.GenerateWithSeed(seed)
		if sys.Star.Type != stellar.BrownDwarf {
			continue
		}
		bodies := Populate(sys, astro.Position{}, 1, 0.3)
		require.Len(t, bodies, 1)
		hosts++
		if bodies[0].DistanceAU() < 0.37 {
			inner++
		}
	}
	require.Greater(t, hosts, 100)
	assert.Less(t, float64(inner)/float64(hosts), 0.2)
}

func TestBeltDensity(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{1.0, SparseDensity},
		{2.0, InnerBeltDensity},
		{2.2, InnerBeltDensity},
		{2.7, MainBeltDensity},
		{10, SparseDensity},
		{35, ScatteredDiskDensity},
		{45, ScatteredDiskDensity},
		{60, KuiperBeltDensity},
		{150, SparseDensity},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BeltDensity(tt.distance), "at %v AU", tt.distance)
	}
}

func TestKepler(t *testing.T) {
	assert.InDelta(t, 1.0, Kepler(1, 1), 1e-12)
	assert.InDelta(t, 8.0, Kepler(4, 1), 1e-12)
	assert.InDelta(t, math.Sqrt(0.5), Kepler(1, 2), 1e-12)
	assert.Equal(t, 0.0, Kepler(1, 0))
}
