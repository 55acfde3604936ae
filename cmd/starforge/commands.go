package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/talgya/starforge/internal/api"
	"github.com/talgya/starforge/internal/astro"
	"github.com/talgya/starforge/internal/catalog"
	"github.com/talgya/starforge/internal/galaxy"
	"github.com/talgya/starforge/internal/planet"
	"github.com/talgya/starforge/internal/smallbody"
	"github.com/talgya/starforge/internal/stellar"
	"github.com/talgya/starforge/internal/system"
)

// ── Star ──────────────────────────────────────────────────────────────

func (a *app) starCmd() *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "star",
		Short: "Generate a single star",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := stellar.GenerateWithSeed(seedFlag(cmd, seed))
			if a.asJSON {
				return a.writeJSON(s)
			}
			return writeStar(a.stdout, s)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "generation seed (random when omitted)")
	return cmd
}

// ── Planet ────────────────────────────────────────────────────────────

func (a *app) planetCmd() *cobra.Command {
	var (
		seed     uint64
		distance float64
	)
	cmd := &cobra.Command{
		Use:   "planet",
		Short: "Generate a single planet outside any system",
		Long: `Generate a planet body on its own. Without --distance the planet orbits
at 1 AU. The surface temperature is a placeholder until a host star is known.`,
		Example: `  starforge planet --seed 7
  starforge planet --seed 7 --distance 5.2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := a.gen.Library()
			flags := cmd.Flags()

			var p planet.Planet
			switch {
			case flags.Changed("distance"):
				if !(distance > 0) {
					return fmt.Errorf("distance must be positive, got %g", distance)
				}
				p = planet.GenerateAtDistance(lib, seedFlag(cmd, seed), distance)
			case flags.Changed("seed"):
				p = planet.GenerateWithSeed(lib, seed)
			default:
				p = planet.Generate(lib)
				slog.Debug("no seed given, drew one", "seed", p.Seed)
			}

			if a.asJSON {
				return a.writeJSON(p)
			}
			return writePlanet(a.stdout, p)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "generation seed (random when omitted)")
	cmd.Flags().Float64Var(&distance, "distance", 1, "orbital distance in AU")
	return cmd
}

// ── Solar system ──────────────────────────────────────────────────────

func (a *app) systemCmd() *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Generate a solar system and record it in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sys := a.gen.GenerateWithSeed(seedFlag(cmd, seed))
			slog.Info("system generated",
				"id", sys.ID,
				"star", sys.Star.Type,
				"planets", len(sys.Planets),
				"habitable", len(sys.HabitablePlanets()),
			)

			if a.catalog != nil {
				if err := a.catalog.SaveSystem(sys); err != nil {
					return fmt.Errorf("save system: %w", err)
				}
			}

			if a.asJSON {
				return a.writeJSON(sys)
			}
			return writeSystem(a.stdout, sys)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "generation seed (random when omitted)")
	return cmd
}

// ── Galactic region ───────────────────────────────────────────────────

func (a *app) regionCmd() *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "region x y z",
		Short: "Classify a galactic position in parsecs",
		Long: `Classify a galactic position in parsecs, galactic center at the origin.
With --seed, also density-gate a solar system there.`,
		Example: `  starforge region 8000 0 20
  starforge region --seed 7 -- -2500 400 -10`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			xyz, err := parseCoords(args)
			if err != nil {
				return err
			}
			g := galaxy.MilkyWay()
			region := g.GenerateRegion(xyz[0], xyz[1], xyz[2])

			if !cmd.Flags().Changed("seed") {
				if a.asJSON {
					return a.writeJSON(region)
				}
				return writeRegion(a.stdout, g, region)
			}

			sys, ok := region.GenerateSolarSystem(a.gen, seed)
			if ok && a.catalog != nil {
				if err := a.catalog.SaveSystem(sys); err != nil {
					return fmt.Errorf("save system: %w", err)
				}
			}
			if a.asJSON {
				return a.writeJSON(struct {
					Region galaxy.Region       `json:"region"`
					System *system.SolarSystem `json:"system"`
				}{region, sys})
			}
			if err := writeRegion(a.stdout, g, region); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout)
			if !ok {
				fmt.Fprintf(a.stdout, "seed %d: no system (density gate)\n", seed)
				return nil
			}
			return writeSystem(a.stdout, sys)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "also attempt a solar system with this seed")
	return cmd
}

func parseCoords(args []string) ([3]float64, error) {
	var out [3]float64
	for i, s := range args {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return out, fmt.Errorf("coordinate %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func (a *app) profileCmd() *cobra.Command {
	var from, to, step float64
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Sample star density along the galactic plane",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if step <= 0 || to < from {
				return fmt.Errorf("invalid profile range %v..%v step %v", from, to, step)
			}
			regions := galaxy.MilkyWay().DensityProfile(from, to, step)
			if a.asJSON {
				return a.writeJSON(regions)
			}
			return writeProfile(a.stdout, regions)
		},
	}
	cmd.Flags().Float64Var(&from, "from", 0, "start radius, pc")
	cmd.Flags().Float64Var(&to, "to", 20000, "end radius, pc")
	cmd.Flags().Float64Var(&step, "step", 1000, "sample spacing, pc")
	return cmd
}

// ── Small bodies ──────────────────────────────────────────────────────

// maxBodies bounds one bodies run.
const maxBodies = 1_000_000

func (a *app) bodiesCmd() *cobra.Command {
	var (
		seed    uint64
		center  []float64
		radius  float64
		density float64
	)
	cmd := &cobra.Command{
		Use:   "bodies",
		Short: "Populate a spherical volume of a system with small bodies",
		Long: `Populate a sphere around --center (AU, star at the origin) with asteroids,
comets and Kuiper Belt objects. Without --density the typical belt density
at the center's distance is used.`,
		Example: `  starforge bodies --seed 42 --center 2.7,0,0 --radius 0.5
  starforge bodies --seed 42 --center 45,0,0 --radius 3 --density 0.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(center) != 3 {
				return fmt.Errorf("center needs 3 coordinates, got %d", len(center))
			}
			c := astro.Position{X: center[0], Y: center[1], Z: center[2]}
			if !cmd.Flags().Changed("density") {
				density = smallbody.BeltDensity(c.Norm())
			}
			if radius < 0 {
				return fmt.Errorf("radius must not be negative, got %g", radius)
			}
			if n := smallbody.Count(radius, density); n > maxBodies {
				return fmt.Errorf("volume holds %s bodies, limit is %s", humanize.Comma(int64(n)), humanize.Comma(maxBodies))
			}

			sys := a.gen.GenerateWithSeed(seedFlag(cmd, seed))
			bodies := smallbody.Populate(sys, c, radius, density)
			slog.Info("volume populated",
				"system", sys.ID,
				"center_au", c.Norm(),
				"radius_au", radius,
				"density", density,
				"bodies", len(bodies),
			)

			if a.catalog != nil {
				if err := a.catalog.SaveSystem(sys); err != nil {
					return fmt.Errorf("save system: %w", err)
				}
				if err := a.catalog.SaveSmallBodies(sys.ID, bodies); err != nil {
					return fmt.Errorf("save small bodies: %w", err)
				}
			}

			if a.asJSON {
				return a.writeJSON(bodies)
			}
			return writeBodies(a.stdout, bodies)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "host system seed (random when omitted)")
	cmd.Flags().Float64SliceVar(&center, "center", []float64{2.7, 0, 0}, "volume center x,y,z in AU")
	cmd.Flags().Float64Var(&radius, "radius", 0.5, "volume radius in AU")
	cmd.Flags().Float64Var(&density, "density", 0, "bodies per AU³ (belt default when omitted)")
	return cmd
}

// ── Sector survey ─────────────────────────────────────────────────────

func (a *app) surveyCmd() *cobra.Command {
	cfg := galaxy.DefaultSurveyConfig()
	cfg.Seed = a.cfg.Survey.Seed
	cfg.Candidates = a.cfg.Survey.Candidates
	cfg.HalfWidth = a.cfg.Survey.HalfWidth
	center := []float64{cfg.CenterX, cfg.CenterY, cfg.CenterZ}

	cmd := &cobra.Command{
		Use:   "survey",
		Short: "Survey a cubic galactic sector for solar systems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(center) != 3 {
				return fmt.Errorf("center needs 3 coordinates, got %d", len(center))
			}
			if cfg.Octaves < 0 || cfg.Octaves > galaxy.MaxOctaves {
				return fmt.Errorf("octaves must be 0..%d, got %d", galaxy.MaxOctaves, cfg.Octaves)
			}
			cfg.CenterX, cfg.CenterY, cfg.CenterZ = center[0], center[1], center[2]

			entries := galaxy.MilkyWay().Survey(a.gen, cfg)
			slog.Info("survey complete", "seed", cfg.Seed, "systems", len(entries))

			if a.catalog != nil {
				if err := a.catalog.SaveSurvey(cfg.Seed, entries); err != nil {
					return fmt.Errorf("save survey: %w", err)
				}
			}

			if a.asJSON {
				return a.writeJSON(entries)
			}
			return writeSurvey(a.stdout, entries)
		},
	}
	f := cmd.Flags()
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "survey seed")
	f.IntVar(&cfg.Candidates, "candidates", cfg.Candidates, "candidate points before thinning")
	f.Float64Var(&cfg.HalfWidth, "half-width", cfg.HalfWidth, "half the sector edge, pc")
	f.Float64SliceVar(&center, "center", center, "sector center x,y,z in pc")
	f.IntVar(&cfg.Octaves, "octaves", cfg.Octaves, "clustering noise octaves; 0 disables thinning")
	return cmd
}

// ── Catalog ───────────────────────────────────────────────────────────

func (a *app) catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Query the system catalog",
	}

	var (
		typeName  string
		habitable bool
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List cataloged systems, optionally by stellar type or habitability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.catalog == nil {
				return errNoCatalog
			}
			filter := catalog.SystemFilter{HabitableOnly: habitable}
			if typeName != "" {
				t, err := stellar.ParseStellarType(typeName)
				if err != nil {
					return err
				}
				filter.Type = &t
			}
			summaries, err := a.catalog.Systems(filter)
			if err != nil {
				return err
			}

			if a.asJSON {
				return a.writeJSON(summaries)
			}
			return writeSummaries(a.stdout, summaries)
		},
	}
	list.Flags().StringVar(&typeName, "type", "", "stellar type, e.g. YellowDwarf")
	list.Flags().BoolVar(&habitable, "habitable", false, "only systems with a habitable planet")

	show := &cobra.Command{
		Use:   "show id",
		Short: "Show a cataloged system and its recorded small bodies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.catalog == nil {
				return errNoCatalog
			}
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("system id: %w", err)
			}
			sys, err := a.catalog.LoadSystem(id)
			if err != nil {
				return err
			}
			bodies, err := a.catalog.LoadSmallBodies(id)
			if err != nil {
				return err
			}

			if a.asJSON {
				return a.writeJSON(struct {
					System *system.SolarSystem   `json:"system"`
					Bodies []smallbody.SmallBody `json:"small_bodies"`
				}{sys, bodies})
			}
			if err := writeSystem(a.stdout, sys); err != nil {
				return err
			}
			if len(bodies) > 0 {
				fmt.Fprintln(a.stdout)
				return writeBodies(a.stdout, bodies)
			}
			return nil
		},
	}

	var surveySeed uint64
	surveyed := &cobra.Command{
		Use:   "survey",
		Short: "List the entries of a stored sector survey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.catalog == nil {
				return errNoCatalog
			}
			records, err := a.catalog.SurveyEntries(surveySeed)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("survey %d: %w", surveySeed, catalog.ErrNotFound)
			}

			if a.asJSON {
				return a.writeJSON(records)
			}
			return writeSurveyRecords(a.stdout, records)
		},
	}
	surveyed.Flags().Uint64Var(&surveySeed, "seed", a.cfg.Survey.Seed, "survey seed")

	cmd.AddCommand(list, show, surveyed)
	return cmd
}

// ── HTTP API ──────────────────────────────────────────────────────────

func (a *app) serveCmd() *cobra.Command {
	srv := a.cfg.Server
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generation and catalog queries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if srv.AdminKey == "" {
				slog.Warn("STARFORGE_ADMIN_KEY not set, catalog POST endpoints disabled")
			}
			s := &api.Server{
				Gen:            a.gen,
				Galaxy:         galaxy.MilkyWay(),
				DB:             a.catalog,
				Addr:           srv.Addr,
				AdminKey:       srv.AdminKey,
				CORSOrigins:    srv.CORSOrigins,
				Version:        generatorVersion,
				HeavyPerMinute: srv.HeavyPerMinute,
				TrustProxy:     srv.TrustProxy,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return s.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&srv.Addr, "addr", srv.Addr, "listen address")
	return cmd
}
