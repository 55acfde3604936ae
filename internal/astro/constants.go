// Package astro holds the physical constants, unit conversions and shared
// body records used by every generation scale.
package astro

// Fundamental constants (SI).
const (
	// G is the Newtonian gravitational constant in m³·kg⁻¹·s⁻².
	G = 6.67430e-11

	// SpeedOfLight in m/s.
	SpeedOfLight = 299_792_458.0
)

// Reference masses and lengths used to convert between relative and SI units.
const (
	SolarMass   = 1.989e30 // kg
	SolarRadius = 6.957e8  // m
	EarthMass   = 5.972e24 // kg
	EarthRadius = 6.371e6  // m

	// AU is the astronomical unit in meters.
	AU = 1.496e11
)

// SolarComposition is the bulk abundance used for every ordinary star.
var SolarComposition = Composition{
	Hydrogen:    0.7347,
	Helium:      0.2483,
	Metallicity: 0.0169,
	Other:       0.0001,
}
