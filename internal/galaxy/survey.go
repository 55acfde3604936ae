package galaxy

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/starforge/internal/entropy"
	"github.com/talgya/starforge/internal/system"
)

// surveyNamespace scopes SHA-1 survey entry IDs.
var surveyNamespace = uuid.MustParse("0b8e5c36-9d47-5a1f-8e62-c4a1d7f30e95")

// SurveyConfig holds sector survey parameters.
type SurveyConfig struct {
	CenterX, CenterY, CenterZ float64 // Sector center, pc
	HalfWidth                 float64 // Half the cube edge, pc
	Candidates                int     // Points scattered before thinning
	Seed                      uint64  // Drives scatter, noise and per-position seeds

	// Clustering noise. Candidates survive with probability equal to the
	// normalized noise value at their position.
	NoiseFrequency float64 // Cycles per pc
	Octaves        int
	Persistence    float64 // Amplitude falloff per octave
}

// MaxOctaves bounds the clustering noise octaves a caller may request.
const MaxOctaves = 8

// DefaultSurveyConfig returns a 200 pc sector around the solar neighborhood.
func DefaultSurveyConfig() SurveyConfig {
	return SurveyConfig{
		CenterX:        8000,
		HalfWidth:      100,
		Candidates:     500,
		Seed:           1,
		NoiseFrequency: 0.01,
		Octaves:        3,
		Persistence:    0.5,
	}
}

// SurveyEntry is one instantiated system in a surveyed sector.
type SurveyEntry struct {
	ID       uuid.UUID           `json:"id"`
	Seed     uint64              `json:"seed"`
	Region   Region              `json:"region"`
	Distance float64             `json:"distance"` // pc from the sector center
	System   *system.SolarSystem `json:"system"`
}

// Survey scatters candidates in the configured cube, thins them with
// clustering noise, classifies each survivor's region and density-gates a
// system there using a seed derived from its exact position. Entries are
// sorted by distance from the sector center. The result depends only on cfg.
func (g Galaxy) Survey(gen *system.Generator, cfg SurveyConfig) []SurveyEntry {
	rng := entropy.NewStream(cfg.Seed)
	noise := opensimplex.NewNormalized(int64(cfg.Seed))
	center := NewPosition(cfg.CenterX, cfg.CenterY, cfg.CenterZ)

	var entries []SurveyEntry
	thinned, rejected := 0, 0

	for i := 0; i < cfg.Candidates; i++ {
		x := cfg.CenterX + entropy.Range(rng, -cfg.HalfWidth, cfg.HalfWidth)
		y := cfg.CenterY + entropy.Range(rng, -cfg.HalfWidth, cfg.HalfWidth)
		z := cfg.CenterZ + entropy.Range(rng, -cfg.HalfWidth, cfg.HalfWidth)

		if rng.Float64() >= octaveNoise(noise, x, y, z, cfg.Octaves, cfg.NoiseFrequency, cfg.Persistence) {
			thinned++
			continue
		}

		seed := entropy.PositionSeed(cfg.Seed, x, y, z)
		region := g.GenerateRegion(x, y, z)
		sys, ok := region.GenerateSolarSystem(gen, seed)
		if !ok {
			rejected++
			continue
		}

		entries = append(entries, SurveyEntry{
			ID:       uuid.NewSHA1(surveyNamespace, []byte(fmt.Sprintf("%d/%d", cfg.Seed, seed))),
			Seed:     seed,
			Region:   region,
			Distance: region.Position.DistanceTo(center),
			System:   sys,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Distance < entries[j].Distance
	})

	slog.Debug("sector surveyed",
		"center", fmt.Sprintf("(%.0f, %.0f, %.0f)", cfg.CenterX, cfg.CenterY, cfg.CenterZ),
		"candidates", cfg.Candidates,
		"thinned", thinned,
		"rejected", rejected,
		"systems", len(entries),
	)
	return entries
}

// octaveNoise sums octaves of 3D noise, normalized back into [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y, z float64, octaves int, frequency, persistence float64) float64 {
	if octaves <= 0 {
		return 1
	}
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval3(x*frequency, y*frequency, z*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
