package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/starforge/internal/catalog"
	"github.com/talgya/starforge/internal/config"
	"github.com/talgya/starforge/internal/galaxy"
	"github.com/talgya/starforge/internal/planet"
	"github.com/talgya/starforge/internal/smallbody"
	"github.com/talgya/starforge/internal/stellar"
	"github.com/talgya/starforge/internal/system"
)

func testConfig() config.Config {
	return config.Config{
		LogLevel: "error",
		Survey:   config.SurveyDefaults{Seed: 1, Candidates: 20, HalfWidth: 1},
	}
}

func execute(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, cfg, &stdout, &stderr)
	return stdout.String(), err
}

func TestStar_JSON(t *testing.T) {
	out, err := execute(t, testConfig(), "star", "--seed", "42", "--json")
	require.NoError(t, err)

	var got stellar.Star
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, stellar.GenerateWithSeed(42), got)
}

func TestPlanet(t *testing.T) {
	lib := system.DefaultGenerator().Library()

	out, err := execute(t, testConfig(), "planet", "--seed", "7", "--json")
	require.NoError(t, err)
	var p planet.Planet
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, planet.GenerateWithSeed(lib, 7), p)

	out, err = execute(t, testConfig(), "planet", "--seed", "7", "--distance", "5.2", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, planet.GenerateAtDistance(lib, 7, 5.2), p)

	text, err := execute(t, testConfig(), "planet")
	require.NoError(t, err)
	assert.Contains(t, text, "orbital period")

	_, err = execute(t, testConfig(), "planet", "--distance", "0")
	assert.Error(t, err)
}

func TestSystem_Text(t *testing.T) {
	sys := system.DefaultGenerator().GenerateWithSeed(7)

	out, err := execute(t, testConfig(), "system", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, sys.ID.String())
	assert.Contains(t, out, sys.Star.Name)
	assert.Contains(t, out, sys.Star.Type.String())
	for _, p := range sys.Planets {
		assert.Contains(t, out, p.Name)
	}
}

func TestSystem_CatalogRoundTrip(t *testing.T) {
	cfg := testConfig()
	cfg.CatalogPath = filepath.Join(t.TempDir(), "data", "catalog.db")
	sys := system.DefaultGenerator().GenerateWithSeed(11)

	_, err := execute(t, cfg, "system", "--seed", "11")
	require.NoError(t, err)

	out, err := execute(t, cfg, "catalog", "list", "--type", sys.Star.Type.String())
	require.NoError(t, err)
	assert.Contains(t, out, sys.ID.String())

	out, err = execute(t, cfg, "catalog", "show", sys.ID.String(), "--json")
	require.NoError(t, err)
	var shown struct {
		System *system.SolarSystem `json:"system"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, sys, shown.System)
}

func TestCatalog_ListAll(t *testing.T) {
	cfg := testConfig()
	cfg.CatalogPath = filepath.Join(t.TempDir(), "catalog.db")
	gen := system.DefaultGenerator()

	for _, seed := range []string{"1", "2", "3"} {
		_, err := execute(t, cfg, "system", "--seed", seed)
		require.NoError(t, err)
	}

	out, err := execute(t, cfg, "catalog", "list", "--json")
	require.NoError(t, err)
	var summaries []catalog.SystemSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 3)
	for _, seed := range []uint64{1, 2, 3} {
		assert.Contains(t, out, gen.GenerateWithSeed(seed).ID.String())
	}
}

func TestCatalog_Survey(t *testing.T) {
	cfg := testConfig()
	cfg.CatalogPath = filepath.Join(t.TempDir(), "catalog.db")

	_, err := execute(t, cfg, "survey", "--seed", "5", "--center", "0,0,0", "--octaves", "0")
	require.NoError(t, err)

	out, err := execute(t, cfg, "catalog", "survey", "--seed", "5", "--json")
	require.NoError(t, err)
	var records []catalog.SurveyRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 20)
	for i := 1; i < len(records); i++ {
		assert.LessOrEqual(t, records[i-1].Distance, records[i].Distance)
	}

	text, err := execute(t, cfg, "catalog", "survey", "--seed", "5")
	require.NoError(t, err)
	assert.Contains(t, text, "20 entries")

	_, err = execute(t, cfg, "catalog", "survey", "--seed", "6")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCatalog_RequiresPath(t *testing.T) {
	_, err := execute(t, testConfig(), "catalog", "list", "--habitable")
	assert.ErrorIs(t, err, errNoCatalog)
}

func TestCatalog_ShowUnknown(t *testing.T) {
	cfg := testConfig()
	cfg.CatalogPath = filepath.Join(t.TempDir(), "catalog.db")

	_, err := execute(t, cfg, "catalog", "show", "not-a-uuid")
	assert.Error(t, err)
	_, err = execute(t, cfg, "catalog", "show", system.SystemID(5).String())
	assert.Error(t, err)
}

func TestRegion(t *testing.T) {
	out, err := execute(t, testConfig(), "region", "8000", "0", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "ThinDisk")
	assert.Contains(t, out, "arm offset")

	out, err = execute(t, testConfig(), "region", "--json", "--", "0", "0", "5000")
	require.NoError(t, err)
	var r galaxy.Region
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, galaxy.Halo, r.Population)

	_, err = execute(t, testConfig(), "region", "8000", "north", "0")
	assert.Error(t, err)
	_, err = execute(t, testConfig(), "region", "8000", "0")
	assert.Error(t, err)
}

func TestRegion_GateInBulgeCore(t *testing.T) {
	// Core density exceeds the reference, so every seed is accepted.
	out, err := execute(t, testConfig(), "region", "0", "0", "0", "--seed", "3", "--json")
	require.NoError(t, err)

	var got struct {
		System *system.SolarSystem `json:"system"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotNil(t, got.System)
	assert.Equal(t, uint64(3), got.System.Seed)
}

func TestProfile(t *testing.T) {
	out, err := execute(t, testConfig(), "profile", "--from", "0", "--to", "10000", "--step", "2500", "--json")
	require.NoError(t, err)

	var regions []galaxy.Region
	require.NoError(t, json.Unmarshal([]byte(out), &regions))
	assert.Len(t, regions, 5)

	_, err = execute(t, testConfig(), "profile", "--step", "0")
	assert.Error(t, err)
}

func TestBodies(t *testing.T) {
	cfg := testConfig()
	cfg.CatalogPath = filepath.Join(t.TempDir(), "catalog.db")

	out, err := execute(t, cfg, "bodies", "--seed", "77", "--center", "2.7,0,0", "--radius", "0.5", "--json")
	require.NoError(t, err)

	var bodies []smallbody.SmallBody
	require.NoError(t, json.Unmarshal([]byte(out), &bodies))
	require.Len(t, bodies, 5)

	sys := system.DefaultGenerator().GenerateWithSeed(77)
	out, err = execute(t, cfg, "catalog", "show", sys.ID.String())
	require.NoError(t, err)
	assert.Contains(t, out, bodies[0].Name)

	_, err = execute(t, cfg, "bodies", "--center", "1,2")
	assert.Error(t, err)
}

func TestBodies_VolumeBounded(t *testing.T) {
	_, err := execute(t, testConfig(), "bodies", "--seed", "1", "--radius", "1000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit is 1,000,000")

	_, err = execute(t, testConfig(), "bodies", "--seed", "1", "--radius", "-1")
	assert.Error(t, err)
}

func TestSurvey(t *testing.T) {
	cfg := testConfig()
	cfg.CatalogPath = filepath.Join(t.TempDir(), "catalog.db")

	out, err := execute(t, cfg, "survey", "--center", "0,0,0", "--octaves", "0", "--json")
	require.NoError(t, err)

	var entries []galaxy.SurveyEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 20)
	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, entries[i-1].Distance, entries[i].Distance)
	}

	text, err := execute(t, cfg, "survey", "--center", "0,0,0", "--octaves", "0")
	require.NoError(t, err)
	assert.Contains(t, text, "20 systems")
}

func TestSurvey_OctavesBounded(t *testing.T) {
	_, err := execute(t, testConfig(), "survey", "--octaves", "9")
	assert.Error(t, err)
	_, err = execute(t, testConfig(), "survey", "--octaves", "-1")
	assert.Error(t, err)
	_, err = execute(t, testConfig(), "survey", "--candidates", "0", "--octaves", "8")
	assert.NoError(t, err)
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, testConfig(), "nebula")
	assert.Error(t, err)
}
