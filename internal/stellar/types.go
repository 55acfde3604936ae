package stellar

import (
	"fmt"
	"math"
)

// StellarType classifies a star.
type StellarType uint8

const (
	// Main sequence.
	BrownDwarf     StellarType = iota // Failed star, < 0.08 M☉
	RedDwarf                          // M-type
	OrangeDwarf                       // K-type
	YellowDwarf                       // G-type, Sun-like
	WhiteDwarf                        // F-type main sequence
	BlueDwarf                         // A-type
	BlueGiant                         // B-type
	BlueSupergiant                    // O-type

	// Evolved giants.
	RedGiant
	SuperGiant
	HyperGiant

	// Remnants.
	WhiteDwarfRemnant
	NeutronStar
	BlackHole

	// Exotic compact objects.
	QuarkStar
	PulsarStar
	MagnetarStar

	typeCount
)

// TypeParams is the per-type tuning row.
type TypeParams struct {
	Name      string
	Frequency float64 // Share of the stellar population

	MassMin, MassMax float64 // Solar masses
	TempMin, TempMax float64 // Kelvin

	// Luminosity (L☉) = LumScale · M^LumExponent.
	LumExponent float64
	LumScale    float64

	PlanetsMin, PlanetsMax int

	// Titius–Bode spacing: base · spacing^i AU.
	BaseDistance  float64
	SpacingFactor float64
}

// typeTable is indexed by StellarType. Frequencies sum to 1.
var typeTable = [typeCount]TypeParams{
	BrownDwarf: {
		Name: "BrownDwarf", Frequency: 0.05,
		MassMin: 0.01, MassMax: 0.08, TempMin: 300, TempMax: 2800,
		LumExponent: 2.0, LumScale: 0.001,
		PlanetsMin: 0, PlanetsMax: 3, BaseDistance: 0.05, SpacingFactor: 1.4,
	},
	RedDwarf: {
		Name: "RedDwarf", Frequency: 0.50,
		MassMin: 0.08, MassMax: 0.45, TempMin: 2800, TempMax: 3500,
		LumExponent: 3.0, LumScale: 0.01,
		PlanetsMin: 0, PlanetsMax: 5, BaseDistance: 0.05, SpacingFactor: 1.4,
	},
	OrangeDwarf: {
		Name: "OrangeDwarf", Frequency: 0.15,
		MassMin: 0.45, MassMax: 0.8, TempMin: 3500, TempMax: 5000,
		LumExponent: 3.5, LumScale: 0.1,
		PlanetsMin: 0, PlanetsMax: 12, BaseDistance: 0.3, SpacingFactor: 1.7,
	},
	YellowDwarf: {
		Name: "YellowDwarf", Frequency: 0.10,
		MassMin: 0.8, MassMax: 1.2, TempMin: 5000, TempMax: 6000,
		LumExponent: 3.5, LumScale: 1,
		PlanetsMin: 0, PlanetsMax: 12, BaseDistance: 0.3, SpacingFactor: 1.7,
	},
	WhiteDwarf: {
		Name: "WhiteDwarf", Frequency: 0.05,
		MassMin: 1.2, MassMax: 1.4, TempMin: 6000, TempMax: 7500,
		LumExponent: 3.5, LumScale: 2,
		PlanetsMin: 0, PlanetsMax: 8, BaseDistance: 0.3, SpacingFactor: 1.7,
	},
	BlueDwarf: {
		Name: "BlueDwarf", Frequency: 0.04,
		MassMin: 1.4, MassMax: 2.1, TempMin: 7500, TempMax: 10000,
		LumExponent: 3.5, LumScale: 5,
		PlanetsMin: 0, PlanetsMax: 8, BaseDistance: 0.3, SpacingFactor: 1.7,
	},
	BlueGiant: {
		Name: "BlueGiant", Frequency: 0.02,
		MassMin: 2.1, MassMax: 6.0, TempMin: 10000, TempMax: 30000,
		LumExponent: 3.8, LumScale: 10,
		PlanetsMin: 0, PlanetsMax: 5, BaseDistance: 0.3, SpacingFactor: 2.0,
	},
	BlueSupergiant: {
		Name: "BlueSupergiant", Frequency: 0.01,
		MassMin: 6.0, MassMax: 15.0, TempMin: 30000, TempMax: 50000,
		LumExponent: 4.0, LumScale: 100,
		PlanetsMin: 0, PlanetsMax: 5, BaseDistance: 0.3, SpacingFactor: 2.0,
	},
	RedGiant: {
		Name: "RedGiant", Frequency: 0.02,
		MassMin: 0.3, MassMax: 3.0, TempMin: 3000, TempMax: 4500,
		LumExponent: 3.0, LumScale: 1000,
		PlanetsMin: 0, PlanetsMax: 3, BaseDistance: 0.3, SpacingFactor: 1.7,
	},
	SuperGiant: {
		Name: "SuperGiant", Frequency: 0.01,
		MassMin: 3.0, MassMax: 12.0, TempMin: 3500, TempMax: 8000,
		LumExponent: 3.5, LumScale: 10000,
		PlanetsMin: 0, PlanetsMax: 3, BaseDistance: 0.3, SpacingFactor: 1.7,
	},
	HyperGiant: {
		Name: "HyperGiant", Frequency: 0.01,
		MassMin: 12.0, MassMax: 30.0, TempMin: 4000, TempMax: 50000,
		LumExponent: 4.0, LumScale: 100000,
		PlanetsMin: 0, PlanetsMax: 3, BaseDistance: 0.3, SpacingFactor: 1.7,
	},
	WhiteDwarfRemnant: {
		Name: "WhiteDwarfRemnant", Frequency: 0.01,
		MassMin: 0.17, MassMax: 1.4, TempMin: 4000, TempMax: 150000,
		LumExponent: -3.0, LumScale: 0.0001,
		PlanetsMin: 0, PlanetsMax: 2, BaseDistance: 0.1, SpacingFactor: 1.5,
	},
	NeutronStar: {
		Name: "NeutronStar", Frequency: 0.01,
		MassMin: 1.4, MassMax: 3.0, TempMin: 100000, TempMax: 1000000,
		LumExponent: -2.0, LumScale: 0.00001,
	},
	BlackHole: {
		Name: "BlackHole", Frequency: 0.01,
		MassMin: 3.0, MassMax: 20.0,
	},
	QuarkStar: {
		Name: "QuarkStar", Frequency: 0.005,
		MassMin: 1.4, MassMax: 3.0, TempMin: 100000, TempMax: 1000000,
		LumExponent: -2.0, LumScale: 0.00001,
	},
	PulsarStar: {
		Name: "PulsarStar", Frequency: 0.0025,
		MassMin: 1.4, MassMax: 3.0, TempMin: 100000, TempMax: 1000000,
		LumExponent: -2.0, LumScale: 0.00001,
	},
	MagnetarStar: {
		Name: "MagnetarStar", Frequency: 0.0025,
		MassMin: 1.4, MassMax: 3.0, TempMin: 100000, TempMax: 1000000,
		LumExponent: -2.0, LumScale: 0.00001,
	},
}

// Types lists every stellar type in declaration order.
func Types() []StellarType {
	out := make([]StellarType, typeCount)
	for i := range out {
		out[i] = StellarType(i)
	}
	return out
}

// Params returns the tuning row for t.
func (t StellarType) Params() TypeParams {
	return typeTable[t]
}

func (t StellarType) String() string {
	if t >= typeCount {
		return fmt.Sprintf("StellarType(%d)", uint8(t))
	}
	return typeTable[t].Name
}

// ParseStellarType is the inverse of String.
func ParseStellarType(s string) (StellarType, error) {
	for i, p := range typeTable {
		if p.Name == s {
			return StellarType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stellar type %q", s)
}

// MarshalText encodes the type by name.
func (t StellarType) MarshalText() ([]byte, error) {
	if t >= typeCount {
		return nil, fmt.Errorf("invalid stellar type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a name written by MarshalText.
func (t *StellarType) UnmarshalText(b []byte) error {
	v, err := ParseStellarType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MassRange returns the declared mass bounds in solar masses.
func (t StellarType) MassRange() (lo, hi float64) {
	p := typeTable[t]
	return p.MassMin, p.MassMax
}

// TemperatureRange returns the declared surface temperature bounds in Kelvin.
func (t StellarType) TemperatureRange() (lo, hi float64) {
	p := typeTable[t]
	return p.TempMin, p.TempMax
}

// Luminosity returns the luminosity in L☉ for a star of this type with the
// given mass in solar masses. Black holes are dark.
func (t StellarType) Luminosity(massSolar float64) float64 {
	p := typeTable[t]
	if p.LumScale == 0 {
		return 0
	}
	return math.Pow(massSolar, p.LumExponent) * p.LumScale
}

// CanHavePlanets is false for black holes and neutron-star-class objects.
func (t StellarType) CanHavePlanets() bool {
	switch t {
	case BlackHole, NeutronStar, PulsarStar, MagnetarStar, QuarkStar:
		return false
	}
	return true
}

// PlanetCountRange returns the inclusive bounds on planet count.
func (t StellarType) PlanetCountRange() (lo, hi int) {
	p := typeTable[t]
	return p.PlanetsMin, p.PlanetsMax
}

// IsGiant reports whether t is an evolved giant class.
func (t StellarType) IsGiant() bool {
	return t == RedGiant || t == SuperGiant || t == HyperGiant
}

// IsCompact reports whether t is a compact remnant or exotic object
// (excluding black holes).
func (t StellarType) IsCompact() bool {
	switch t {
	case WhiteDwarfRemnant, NeutronStar, QuarkStar, PulsarStar, MagnetarStar:
		return true
	}
	return false
}

// IsNeutronClass reports whether t is made of degenerate neutron matter.
func (t StellarType) IsNeutronClass() bool {
	switch t {
	case NeutronStar, QuarkStar, PulsarStar, MagnetarStar:
		return true
	}
	return false
}

// drawType maps a uniform roll in [0,1) onto the cumulative type table.
func drawType(roll float64) StellarType {
	cumulative := 0.0
	for i, p := range typeTable {
		cumulative += p.Frequency
		if roll < cumulative {
			return StellarType(i)
		}
	}
	return MagnetarStar
}
