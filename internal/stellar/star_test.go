package stellar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/starforge/internal/astro"
)

func TestGenerateWithSeed_Deterministic(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		require.Equal(t, GenerateWithSeed(seed), GenerateWithSeed(seed))
	}
}

func TestGenerateWithSeed_Invariants(t *testing.T) {
	for seed := uint64(0); seed < 5000; seed++ {
		s := GenerateWithSeed(seed)
		lo, hi := s.Type.MassRange()

		require.GreaterOrEqual(t, s.MassSolar(), lo*(1-1e-12), "seed %d %s", seed, s.Type)
		require.LessOrEqual(t, s.MassSolar(), hi*(1+1e-12), "seed %d %s", seed, s.Type)
		require.Greater(t, s.Physical.Radius, 0.0)
		require.Equal(t, seed, s.Seed)

		tlo, thi := s.Type.TemperatureRange()
		require.GreaterOrEqual(t, s.Physical.SurfaceTemperature, tlo)
		if thi > tlo {
			require.Less(t, s.Physical.SurfaceTemperature, thi)
		}

		require.GreaterOrEqual(t, s.Age, 0.1)
		require.Less(t, s.Age, 13.8)

		m, r := s.Physical.Mass, s.Physical.Radius
		require.InEpsilon(t, astro.Gravity(m, r), s.Physical.SurfaceGravity, 1e-9)
		require.InEpsilon(t, astro.EscapeVelocity(m, r), s.Physical.EscapeVelocity, 1e-9)
		require.InEpsilon(t, astro.Density(m, r), s.Physical.Density, 1e-9)
	}
}

func TestGenerate_TypeFrequencies(t *testing.T) {
	const n = 20000
	counts := make(map[StellarType]int)
	for seed := uint64(0); seed < n; seed++ {
		counts[GenerateWithSeed(seed).Type]++
	}

	for _, st := range Types() {
		freq := float64(counts[st]) / n
		assert.InDelta(t, st.Params().Frequency, freq, 0.05, "%s", st)
	}
	assert.InDelta(t, 0.50, float64(counts[RedDwarf])/n, 0.02)
}

func TestGenerate_AmbientEntropy(t *testing.T) {
	s := Generate()
	lo, hi := s.Type.MassRange()
	assert.GreaterOrEqual(t, s.MassSolar(), lo*(1-1e-12))
	assert.LessOrEqual(t, s.MassSolar(), hi*(1+1e-12))
	assert.Equal(t, s, GenerateWithSeed(s.Seed))
}

func TestTypeTable_FrequenciesSumToOne(t *testing.T) {
	total := 0.0
	for _, st := range Types() {
		total += st.Params().Frequency
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Len(t, Types(), 17)
}

func TestDrawType_Boundaries(t *testing.T) {
	tests := []struct {
		roll float64
		want StellarType
	}{
		{0.0, BrownDwarf},
		{0.049, BrownDwarf},
		{0.051, RedDwarf},
		{0.549, RedDwarf},
		{0.551, OrangeDwarf},
		{0.75, YellowDwarf},
		{0.82, WhiteDwarf},
		{0.93, RedGiant},
		{0.985, BlackHole},
		{0.993, QuarkStar},
		{0.996, PulsarStar},
		{0.999, MagnetarStar},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, drawType(tt.roll), "roll %v", tt.roll)
	}
}

func TestStellarRadius_Rules(t *testing.T) {
	assert.InDelta(t, astro.SchwarzschildRadius(10*astro.SolarMass), stellarRadius(BlackHole, 10), 1e-6)
	assert.InEpsilon(t, 200*astro.SolarRadius, stellarRadius(RedGiant, 4), 1e-12)
	assert.InEpsilon(t, 0.01*astro.SolarRadius, stellarRadius(NeutronStar, 1), 1e-12)
	assert.InEpsilon(t, astro.SolarRadius, stellarRadius(YellowDwarf, 1), 1e-12)
}

func TestComposition_ByClass(t *testing.T) {
	assert.Equal(t, astro.Composition{Metallicity: 1}, composition(MagnetarStar))
	assert.Equal(t, astro.Composition{Other: 1}, composition(BlackHole))
	assert.Equal(t, astro.SolarComposition, composition(RedDwarf))
	assert.Equal(t, astro.SolarComposition, composition(WhiteDwarfRemnant))
}

func TestMagneticField_Ordering(t *testing.T) {
	var magnetarMin, pulsarMax, pulsarMin, neutronMax, ordinaryMax float64
	magnetarMin, pulsarMin = 1e300, 1e300
	for seed := uint64(0); seed < 300000; seed++ {
		s := GenerateWithSeed(seed)
		f := s.MagneticField
		switch s.Type {
		case MagnetarStar:
			magnetarMin = min(magnetarMin, f)
		case PulsarStar:
			pulsarMax = max(pulsarMax, f)
			pulsarMin = min(pulsarMin, f)
		case NeutronStar:
			neutronMax = max(neutronMax, f)
		case QuarkStar:
		default:
			ordinaryMax = max(ordinaryMax, f)
		}
	}
	require.Greater(t, magnetarMin, pulsarMax)
	require.Greater(t, pulsarMin, neutronMax)
	require.Greater(t, neutronMax, ordinaryMax)
}

func TestCanHavePlanets(t *testing.T) {
	for _, st := range Types() {
		_, hi := st.PlanetCountRange()
		if st.CanHavePlanets() {
			assert.Greater(t, hi, 0, "%s", st)
		} else {
			assert.Equal(t, 0, hi, "%s", st)
		}
	}
	assert.False(t, BlackHole.CanHavePlanets())
	assert.True(t, YellowDwarf.CanHavePlanets())
}

func TestParseStellarType_RoundTrip(t *testing.T) {
	for _, st := range Types() {
		got, err := ParseStellarType(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}
	_, err := ParseStellarType("Nebula")
	assert.Error(t, err)
	assert.Equal(t, "StellarType(99)", StellarType(99).String())
}

func TestLuminosity_BlackHoleDark(t *testing.T) {
	assert.Equal(t, 0.0, BlackHole.Luminosity(10))
	assert.InEpsilon(t, 1.0, YellowDwarf.Luminosity(1), 1e-12)
}
