package planet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/starforge/internal/astro"
	"github.com/talgya/starforge/internal/distributions"
)

func TestGenerateAtDistance_Deterministic(t *testing.T) {
	lib := distributions.Default()
	for seed := uint64(0); seed < 100; seed++ {
		require.Equal(t, GenerateAtDistance(lib, seed, 1.3), GenerateAtDistance(lib, seed, 1.3))
	}
}

func TestGenerateWithSeed_OneAU(t *testing.T) {
	lib := distributions.Default()
	assert.Equal(t, GenerateAtDistance(lib, 31, 1), GenerateWithSeed(lib, 31))

	p := Generate(lib)
	assert.Equal(t, GenerateWithSeed(lib, p.Seed), p)
}

func TestGenerateAtDistance_Invariants(t *testing.T) {
	lib := distributions.Default()
	for _, d := range []float64{0.2, 1, 3, 6, 25} {
		for seed := uint64(0); seed < 500; seed++ {
			p := GenerateAtDistance(lib, seed, d)
			m, r := p.Physical.Mass, p.Physical.Radius

			require.Greater(t, m, 0.0)
			require.Greater(t, r, 0.0)
			require.Greater(t, p.OrbitalPeriod, 0.0)
			require.Greater(t, p.RotationPeriod, 0.1-1e-12)
			require.Less(t, p.RotationPeriod, 100.0)
			require.InEpsilon(t, astro.Gravity(m, r), p.Physical.SurfaceGravity, 1e-9)
			require.InEpsilon(t, astro.EscapeVelocity(m, r), p.Physical.EscapeVelocity, 1e-9)
			require.InEpsilon(t, astro.Density(m, r), p.Physical.Density, 1e-9)
			require.False(t, p.Habitable)

			wantRadius := math.Cbrt(p.MassEarth()/relativeDensity[p.Type]) * astro.EarthRadius
			require.InEpsilon(t, wantRadius, r, 1e-9)
			require.Equal(t, typeComposition[p.Type], p.Composition)

			if p.Type != Terrestrial {
				require.NotNil(t, p.Atmosphere)
				require.InEpsilon(t, p.MassEarth()*p.MassEarth(), p.Atmosphere.Pressure, 1e-9)
				require.Equal(t, 1.5, p.Atmosphere.GreenhouseEffect)
			}
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		mass, distance float64
		want           PlanetType
	}{
		{1.0, 1.0, Terrestrial},
		{1.9, 3.9, Terrestrial},
		{1.0, 4.5, IceGiant},
		{20, 3, IceGiant},
		{20, 1, GasGiant},
		{300, 10, GasGiant},
		{2.0, 1.0, GasGiant},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.mass, tt.distance), "mass %v at %v AU", tt.mass, tt.distance)
	}
}

func TestAtmosphere_Rules(t *testing.T) {
	comp := typeComposition[Terrestrial]

	assert.Nil(t, atmosphere(Terrestrial, 0.1, 1, comp))
	assert.Nil(t, atmosphere(Terrestrial, 5.0, 1, comp))

	near := atmosphere(Terrestrial, 1.0, 1.5, comp)
	require.NotNil(t, near)
	assert.Equal(t, 1.2, near.GreenhouseEffect)
	assert.InDelta(t, 1.0, near.Pressure, 1e-12)
	assert.Equal(t, astro.Composition{Metallicity: 0.01, Other: 0.99}, near.Composition)

	far := atmosphere(Terrestrial, 1.0, 2.5, comp)
	require.NotNil(t, far)
	assert.Equal(t, 1.0, far.GreenhouseEffect)

	giant := atmosphere(GasGiant, 300, 8, typeComposition[GasGiant])
	require.NotNil(t, giant)
	assert.Equal(t, typeComposition[GasGiant], giant.Composition)
	assert.InDelta(t, 90000.0, giant.Pressure, 1e-6)
}

func earthLike() Planet {
	comp := typeComposition[Terrestrial]
	return Planet{
		Name:           "Test",
		Type:           Terrestrial,
		Physical:       astro.Derive(astro.EarthMass, astro.EarthRadius, 288),
		RotationPeriod: 1,
		Atmosphere:     atmosphere(Terrestrial, 1, 1, comp),
		Composition:    comp,
	}
}

func TestAssessHabitability(t *testing.T) {
	p := earthLike()
	p.AssessHabitability(1.0, 1.0)
	assert.True(t, p.Habitable)

	tests := []struct {
		name   string
		mutate func(*Planet)
		dist   float64
	}{
		{"too close", func(*Planet) {}, 0.9},
		{"too far", func(*Planet) {}, 1.4},
		{"no atmosphere", func(p *Planet) { p.Atmosphere = nil }, 1.0},
		{"gas giant", func(p *Planet) { p.Type = GasGiant }, 1.0},
		{"too hot", func(p *Planet) { p.Physical.SurfaceTemperature = 400 }, 1.0},
		{"too cold", func(p *Planet) { p.Physical.SurfaceTemperature = 250 }, 1.0},
		{"thin air", func(p *Planet) { p.Atmosphere.Pressure = 0.05 }, 1.0},
		{"crushing air", func(p *Planet) { p.Atmosphere.Pressure = 11 }, 1.0},
		{"slow spin", func(p *Planet) { p.RotationPeriod = 150 }, 1.0},
		{"light", func(p *Planet) {
			p.Physical = astro.Derive(0.05*astro.EarthMass, 0.2*astro.EarthRadius, 288)
		}, 1.0},
		{"weak gravity", func(p *Planet) {
			p.Physical = astro.Derive(0.5*astro.EarthMass, 3*astro.EarthRadius, 288)
		}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := earthLike()
			tt.mutate(&p)
			p.Habitable = true
			p.AssessHabitability(tt.dist, 1.0)
			assert.False(t, p.Habitable)
		})
	}
}

func TestAssessHabitability_GiantsNever(t *testing.T) {
	lib := distributions.Default()
	for seed := uint64(0); seed < 500; seed++ {
		p := GenerateAtDistance(lib, seed, 8)
		p.Physical.SurfaceTemperature = 300
		p.AssessHabitability(1.0, 1.0)
		if p.Type != Terrestrial {
			require.False(t, p.Habitable)
		}
	}
}

func TestHabitableBand(t *testing.T) {
	inner, outer := HabitableBand(1.0)
	assert.InDelta(t, 0.95, inner, 1e-12)
	assert.InDelta(t, 1.37, outer, 1e-12)

	inner4, outer4 := HabitableBand(4.0)
	assert.InDelta(t, 1.9, inner4, 1e-12)
	assert.InDelta(t, 2.74, outer4, 1e-12)
}

func TestGreenhouse(t *testing.T) {
	p := earthLike()
	assert.Equal(t, 1.2, p.Greenhouse())
	p.Atmosphere = nil
	assert.Equal(t, 1.0, p.Greenhouse())
}

func TestPlanetType_String(t *testing.T) {
	for _, pt := range []PlanetType{Terrestrial, GasGiant, IceGiant} {
		got, err := ParsePlanetType(pt.String())
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
	_, err := ParsePlanetType("Dwarf")
	assert.Error(t, err)
	assert.Equal(t, "PlanetType(7)", PlanetType(7).String())
}
