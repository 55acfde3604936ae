package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/talgya/starforge/internal/astro"
	"github.com/talgya/starforge/internal/catalog"
	"github.com/talgya/starforge/internal/galaxy"
	"github.com/talgya/starforge/internal/planet"
	"github.com/talgya/starforge/internal/smallbody"
	"github.com/talgya/starforge/internal/stellar"
	"github.com/talgya/starforge/internal/system"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func num(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func writeStar(w io.Writer, s stellar.Star) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "%s\t%s\tseed %d\n", s.Name, s.Type, s.Seed)
	fmt.Fprintf(tw, "  mass\t%s M☉\n", num(s.MassSolar()))
	fmt.Fprintf(tw, "  radius\t%s R☉\n", num(s.Physical.Radius/astro.SolarRadius))
	fmt.Fprintf(tw, "  temperature\t%s K\n", humanize.Commaf(float64(int64(s.Physical.SurfaceTemperature))))
	fmt.Fprintf(tw, "  luminosity\t%s L☉\n", humanize.FormatFloat("#,###.####", s.Luminosity))
	fmt.Fprintf(tw, "  age\t%s Gyr\n", num(s.Age))
	fmt.Fprintf(tw, "  magnetic field\t%s\n", humanize.SIWithDigits(s.MagneticField, 2, "T"))
	fmt.Fprintf(tw, "  rotation\t%s d\n", num(s.Rotation))
	fmt.Fprintf(tw, "  surface gravity\t%s\n", humanize.SIWithDigits(s.Physical.SurfaceGravity, 2, "m/s²"))
	return tw.Flush()
}

func writePlanet(w io.Writer, p planet.Planet) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "%s\t%s\tseed %d\n", p.Name, p.Type, p.Seed)
	fmt.Fprintf(tw, "  mass\t%s M⊕\n", num(p.MassEarth()))
	fmt.Fprintf(tw, "  radius\t%s km\n", num(p.Physical.Radius/1000))
	fmt.Fprintf(tw, "  surface gravity\t%s\n", humanize.SIWithDigits(p.Physical.SurfaceGravity, 2, "m/s²"))
	fmt.Fprintf(tw, "  orbital period\t%s yr\n", num(p.OrbitalPeriod))
	fmt.Fprintf(tw, "  rotation\t%s d\n", num(p.RotationPeriod))
	if p.Atmosphere != nil {
		fmt.Fprintf(tw, "  atmosphere\t%s atm\n", num(p.Atmosphere.Pressure))
	} else {
		fmt.Fprintln(tw, "  atmosphere\tnone")
	}
	return tw.Flush()
}

func writeSystem(w io.Writer, sys *system.SolarSystem) error {
	fmt.Fprintf(w, "system %s\n", sys.ID)
	if err := writeStar(w, sys.Star); err != nil {
		return err
	}
	fmt.Fprintf(w, "habitable zone %s–%s AU, total mass %s M☉\n\n",
		num(sys.HabitableZone.Inner), num(sys.HabitableZone.Outer), num(sys.TotalMass/astro.SolarMass))

	if len(sys.Planets) == 0 {
		fmt.Fprintln(w, "no planets")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "PLANET\tTYPE\tDIST (AU)\tMASS (M⊕)\tTEMP (K)\tPERIOD (yr)\tHABITABLE")
	for i := range sys.Planets {
		p := &sys.Planets[i]
		habitable := ""
		if p.Habitable {
			habitable = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Name, p.Type, num(sys.PlanarDistanceAU(i)), num(p.MassEarth()),
			num(p.Physical.SurfaceTemperature), num(p.OrbitalPeriod), habitable)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d planets, %d habitable\n", len(sys.Planets), len(sys.HabitablePlanets()))
	return nil
}

func writeRegion(w io.Writer, g galaxy.Galaxy, r galaxy.Region) error {
	tw := newTable(w)
	p := r.Position
	fmt.Fprintf(tw, "position\t(%s, %s, %s) pc\n", num(p.X), num(p.Y), num(p.Z))
	fmt.Fprintf(tw, "galactocentric radius\t%s pc\n", num(p.R))
	fmt.Fprintf(tw, "population\t%s\n", r.Population)
	fmt.Fprintf(tw, "metallicity\t%+.3f [Fe/H]\n", r.Metallicity)
	fmt.Fprintf(tw, "star density\t%.4g stars/pc³\n", r.StarDensity)
	fmt.Fprintf(tw, "acceptance\t%.1f%%\n", r.AcceptanceProbability()*100)
	if offset, ok := g.ArmOffset(r); ok {
		fmt.Fprintf(tw, "spiral phase\t%.3f rad\n", r.SpiralPhase)
		fmt.Fprintf(tw, "arm offset\t%.3f rad\n", offset)
	}
	return tw.Flush()
}

func writeProfile(w io.Writer, regions []galaxy.Region) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "R (pc)\tPOPULATION\tDENSITY\t[Fe/H]")
	for _, r := range regions {
		fmt.Fprintf(tw, "%s\t%s\t%.4g\t%+.3f\n", num(r.Position.R), r.Population, r.StarDensity, r.Metallicity)
	}
	return tw.Flush()
}

func writeBodies(w io.Writer, bodies []smallbody.SmallBody) error {
	if len(bodies) == 0 {
		fmt.Fprintln(w, "no bodies in volume")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "BODY\tTYPE\tDIST (AU)\tMASS\tRADIUS\tMETALS\tPRECIOUS\tPERIOD (yr)")
	for i := range bodies {
		b := &bodies[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.1f%%\t%.2g\t%s\n",
			b.Name, b.Type, num(b.DistanceAU()),
			humanize.SIWithDigits(b.Physical.Mass*1000, 1, "g"),
			humanize.SIWithDigits(b.Physical.Radius, 1, "m"),
			b.Elements.Metals()*100, b.Elements.Precious(), num(b.OrbitalPeriod))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s bodies\n", humanize.Comma(int64(len(bodies))))
	return nil
}

func writeSurvey(w io.Writer, entries []galaxy.SurveyEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no systems in sector")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tSTAR\tTYPE\tPOPULATION\tDIST (pc)\tPLANETS\tHABITABLE")
	for i, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\n",
			i+1, e.System.Star.Name, e.System.Star.Type, e.Region.Population,
			num(e.Distance), len(e.System.Planets), len(e.System.HabitablePlanets()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s systems\n", humanize.Comma(int64(len(entries))))
	return nil
}

func writeSummaries(w io.Writer, summaries []catalog.SystemSummary) error {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "no matching systems")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSEED\tSTAR\tTYPE\tMASS (M☉)\tPLANETS\tHABITABLE")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%d\t%d\n",
			s.ID, s.GenerationSeed(), s.StarName, s.StellarType, num(s.StarMass), s.PlanetCount, s.HabitableCount)
	}
	return tw.Flush()
}

func writeSurveyRecords(w io.Writer, records []catalog.SurveyRecord) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tSYSTEM\tPOPULATION\tDIST (pc)\tDENSITY\t[Fe/H]")
	for i, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.4g\t%+.3f\n",
			i+1, r.SystemID, r.Population, num(r.Distance), r.StarDensity, r.Metallicity)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s entries\n", humanize.Comma(int64(len(records))))
	return nil
}
