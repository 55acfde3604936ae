package astro

import "math"

// Position is a body-local Cartesian position in meters.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Norm returns the distance from the origin.
func (p Position) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// PlanarNorm returns the distance from the origin projected onto the x/y plane.
func (p Position) PlanarNorm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// DistanceTo returns the Euclidean distance between two positions.
func (p Position) DistanceTo(o Position) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	dz := p.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Scale multiplies each component by f.
func (p Position) Scale(f float64) Position {
	return Position{X: p.X * f, Y: p.Y * f, Z: p.Z * f}
}

// Composition holds bulk abundance fractions. Values come from fixed
// per-type tables and are not renormalized.
type Composition struct {
	Hydrogen    float64 `json:"hydrogen"`
	Helium      float64 `json:"helium"`
	Metallicity float64 `json:"metallicity"` // Everything heavier than helium
	Other       float64 `json:"other"`
}

// PhysicalProperties describes a body's bulk physics.
// Density, SurfaceGravity and EscapeVelocity are always functions of Mass
// and Radius; call Recompute after changing either.
type PhysicalProperties struct {
	Mass               float64 `json:"mass"`                // kg
	Radius             float64 `json:"radius"`              // m
	SurfaceTemperature float64 `json:"surface_temperature"` // K
	Density            float64 `json:"density"`             // kg/m³
	SurfaceGravity     float64 `json:"surface_gravity"`     // m/s²
	EscapeVelocity     float64 `json:"escape_velocity"`     // m/s
}

// Derive builds physical properties whose derived fields are consistent
// with mass and radius.
func Derive(mass, radius, surfaceTemperature float64) PhysicalProperties {
	p := PhysicalProperties{
		Mass:               mass,
		Radius:             radius,
		SurfaceTemperature: surfaceTemperature,
	}
	p.Recompute()
	return p
}

// Recompute refreshes density, gravity and escape velocity from mass and radius.
func (p *PhysicalProperties) Recompute() {
	p.Density = Density(p.Mass, p.Radius)
	p.SurfaceGravity = Gravity(p.Mass, p.Radius)
	p.EscapeVelocity = EscapeVelocity(p.Mass, p.Radius)
}

// Gravity returns surface gravity G·m/r².
func Gravity(mass, radius float64) float64 {
	return G * mass / (radius * radius)
}

// EscapeVelocity returns √(2Gm/r).
func EscapeVelocity(mass, radius float64) float64 {
	return math.Sqrt(2 * G * mass / radius)
}

// Density returns the mean density of a sphere, m / ((4/3)πr³).
func Density(mass, radius float64) float64 {
	return mass / (4.0 / 3.0 * math.Pi * radius * radius * radius)
}

// RadiusFromDensity inverts Density: the radius of a sphere of the given
// mass and mean density.
func RadiusFromDensity(mass, density float64) float64 {
	return math.Cbrt(3 * mass / (4 * math.Pi * density))
}

// SchwarzschildRadius returns the event-horizon radius 2Gm/c² for mass in kg.
func SchwarzschildRadius(mass float64) float64 {
	return 2 * G * mass / (SpeedOfLight * SpeedOfLight)
}
