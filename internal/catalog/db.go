// Package catalog provides SQLite-backed storage for generated systems,
// small-body populations and sector surveys.
//
// Generated entities are reproducible from their seeds, so the catalog is a
// cache and an index rather than a source of truth. Full records are kept
// as JSON columns; the scalar columns exist for filtering.
package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/starforge/internal/galaxy"
	"github.com/talgya/starforge/internal/planet"
	"github.com/talgya/starforge/internal/smallbody"
	"github.com/talgya/starforge/internal/stellar"
	"github.com/talgya/starforge/internal/system"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("catalog: not found")

// DB wraps a SQLite connection for catalog storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite catalog at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS systems (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		star_name TEXT NOT NULL,
		stellar_type TEXT NOT NULL,
		star_mass REAL NOT NULL,
		luminosity REAL NOT NULL,
		planet_count INTEGER NOT NULL,
		habitable_count INTEGER NOT NULL,
		total_mass REAL NOT NULL,
		system_age REAL NOT NULL,
		hz_inner REAL NOT NULL,
		hz_outer REAL NOT NULL,
		star_json TEXT NOT NULL,
		planets_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS small_bodies (
		system_id TEXT NOT NULL,
		seed INTEGER NOT NULL,
		name TEXT NOT NULL,
		body_type TEXT NOT NULL,
		distance_au REAL NOT NULL,
		mass REAL NOT NULL,
		body_json TEXT NOT NULL,
		PRIMARY KEY (system_id, seed)
	);

	CREATE TABLE IF NOT EXISTS survey_entries (
		id TEXT PRIMARY KEY,
		survey_seed INTEGER NOT NULL,
		system_id TEXT NOT NULL,
		population TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		z REAL NOT NULL,
		distance REAL NOT NULL,
		star_density REAL NOT NULL,
		metallicity REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS catalog_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_systems_type ON systems(stellar_type);
	CREATE INDEX IF NOT EXISTS idx_small_bodies_type ON small_bodies(body_type);
	CREATE INDEX IF NOT EXISTS idx_survey_seed ON survey_entries(survey_seed);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SQLite integers are signed; seeds are stored bit-for-bit.
func seedToDB(seed uint64) int64 { return int64(seed) }
func seedFromDB(v int64) uint64  { return uint64(v) }

type systemRow struct {
	ID          string  `db:"id"`
	Seed        int64   `db:"seed"`
	StarJSON    string  `db:"star_json"`
	PlanetsJSON string  `db:"planets_json"`
	TotalMass   float64 `db:"total_mass"`
	SystemAge   float64 `db:"system_age"`
	HZInner     float64 `db:"hz_inner"`
	HZOuter     float64 `db:"hz_outer"`
}

// SystemSummary is the indexed view of a stored system.
type SystemSummary struct {
	ID             string  `db:"id"`
	Seed           int64   `db:"seed"`
	StarName       string  `db:"star_name"`
	StellarType    string  `db:"stellar_type"`
	StarMass       float64 `db:"star_mass"`
	PlanetCount    int     `db:"planet_count"`
	HabitableCount int     `db:"habitable_count"`
}

// GenerationSeed returns the unsigned seed the system was generated from.
func (s SystemSummary) GenerationSeed() uint64 {
	return seedFromDB(s.Seed)
}

// execer is satisfied by both *sqlx.DB and *sqlx.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func saveSystem(ex execer, sys *system.SolarSystem) error {
	starJSON, err := json.Marshal(sys.Star)
	if err != nil {
		return fmt.Errorf("marshal star: %w", err)
	}
	planetsJSON, err := json.Marshal(sys.Planets)
	if err != nil {
		return fmt.Errorf("marshal planets: %w", err)
	}

	_, err = ex.Exec(`INSERT OR REPLACE INTO systems
		(id, seed, star_name, stellar_type, star_mass, luminosity, planet_count,
		 habitable_count, total_mass, system_age, hz_inner, hz_outer, star_json, planets_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sys.ID.String(), seedToDB(sys.Seed), sys.Star.Name, sys.Star.Type.String(),
		sys.Star.MassSolar(), sys.Star.Luminosity, len(sys.Planets),
		len(sys.HabitablePlanets()), sys.TotalMass, sys.SystemAge,
		sys.HabitableZone.Inner, sys.HabitableZone.Outer,
		string(starJSON), string(planetsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert system %s: %w", sys.ID, err)
	}
	return nil
}

// SaveSystem stores sys, replacing any previous record with the same ID.
func (db *DB) SaveSystem(sys *system.SolarSystem) error {
	return saveSystem(db.conn, sys)
}

// LoadSystem returns the stored system with the given ID.
func (db *DB) LoadSystem(id uuid.UUID) (*system.SolarSystem, error) {
	var row systemRow
	err := db.conn.Get(&row, `SELECT id, seed, star_json, planets_json, total_mass,
		system_age, hz_inner, hz_outer FROM systems WHERE id = ?`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("system %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load system %s: %w", id, err)
	}

	sys := &system.SolarSystem{
		ID:            id,
		Seed:          seedFromDB(row.Seed),
		TotalMass:     row.TotalMass,
		SystemAge:     row.SystemAge,
		HabitableZone: system.HabitableZone{Inner: row.HZInner, Outer: row.HZOuter},
	}
	if err := json.Unmarshal([]byte(row.StarJSON), &sys.Star); err != nil {
		return nil, fmt.Errorf("decode star: %w", err)
	}
	var planets []planet.Planet
	if err := json.Unmarshal([]byte(row.PlanetsJSON), &planets); err != nil {
		return nil, fmt.Errorf("decode planets: %w", err)
	}
	sys.Planets = planets
	return sys, nil
}

// SystemFilter narrows a Systems listing. The zero value matches every
// stored system.
type SystemFilter struct {
	Type          *stellar.StellarType
	HabitableOnly bool
}

// Systems lists stored systems matching f, by seed.
func (db *DB) Systems(f SystemFilter) ([]SystemSummary, error) {
	query := `SELECT id, seed, star_name, stellar_type, star_mass,
		planet_count, habitable_count FROM systems WHERE 1 = 1`
	var args []any
	if f.Type != nil {
		query += ` AND stellar_type = ?`
		args = append(args, f.Type.String())
	}
	if f.HabitableOnly {
		query += ` AND habitable_count > 0`
	}
	query += ` ORDER BY seed`

	var out []SystemSummary
	if err := db.conn.Select(&out, query, args...); err != nil {
		return nil, fmt.Errorf("list systems: %w", err)
	}
	return out, nil
}

// SaveSmallBodies stores bodies under systemID. Bodies already stored for
// the same system and seed are replaced.
func (db *DB) SaveSmallBodies(systemID uuid.UUID, bodies []smallbody.SmallBody) error {
	if len(bodies) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO small_bodies
		(system_id, seed, name, body_type, distance_au, mass, body_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range bodies {
		b := &bodies[i]
		bodyJSON, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal body %s: %w", b.Name, err)
		}
		_, err = stmt.Exec(
			systemID.String(), seedToDB(b.Seed), b.Name, b.Type.String(),
			b.DistanceAU(), b.Physical.Mass, string(bodyJSON),
		)
		if err != nil {
			return fmt.Errorf("insert body %s: %w", b.Name, err)
		}
	}

	return tx.Commit()
}

// LoadSmallBodies returns the bodies stored under systemID, nearest to the
// star first.
func (db *DB) LoadSmallBodies(systemID uuid.UUID) ([]smallbody.SmallBody, error) {
	var rows []string
	err := db.conn.Select(&rows,
		"SELECT body_json FROM small_bodies WHERE system_id = ? ORDER BY distance_au, seed",
		systemID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("load small bodies: %w", err)
	}

	bodies := make([]smallbody.SmallBody, len(rows))
	for i, r := range rows {
		if err := json.Unmarshal([]byte(r), &bodies[i]); err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
	}
	return bodies, nil
}

// SurveyRecord is a stored survey entry.
type SurveyRecord struct {
	ID          string  `db:"id"`
	SystemID    string  `db:"system_id"`
	Population  string  `db:"population"`
	X           float64 `db:"x"`
	Y           float64 `db:"y"`
	Z           float64 `db:"z"`
	Distance    float64 `db:"distance"`
	StarDensity float64 `db:"star_density"`
	Metallicity float64 `db:"metallicity"`
}

// SaveSurvey stores a survey's entries and their systems in one transaction.
func (db *DB) SaveSurvey(surveySeed uint64, entries []galaxy.SurveyEntry) error {
	slog.Info("saving survey", "seed", surveySeed, "entries", len(entries))

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		if err := saveSystem(tx, e.System); err != nil {
			return err
		}
		p := e.Region.Position
		_, err := tx.Exec(`INSERT OR REPLACE INTO survey_entries
			(id, survey_seed, system_id, population, x, y, z, distance, star_density, metallicity)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID.String(), seedToDB(surveySeed), e.System.ID.String(), e.Region.Population.String(),
			p.X, p.Y, p.Z, e.Distance, e.Region.StarDensity, e.Region.Metallicity,
		)
		if err != nil {
			return fmt.Errorf("insert survey entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("survey saved")
	return nil
}

// SurveyEntries returns a stored survey's entries, nearest to its center first.
func (db *DB) SurveyEntries(surveySeed uint64) ([]SurveyRecord, error) {
	var out []SurveyRecord
	err := db.conn.Select(&out, `SELECT id, system_id, population, x, y, z, distance,
		star_density, metallicity FROM survey_entries WHERE survey_seed = ? ORDER BY distance`,
		seedToDB(surveySeed),
	)
	if err != nil {
		return nil, fmt.Errorf("survey entries: %w", err)
	}
	return out, nil
}

// SetMeta stores a key-value pair in catalog metadata.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO catalog_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM catalog_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("meta %q: %w", key, ErrNotFound)
	}
	return value, err
}
