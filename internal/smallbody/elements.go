package smallbody

const elementCount = 9

// Elements holds mass fractions. After generation they sum to 1.
type Elements struct {
	Iron       float64 `json:"iron"`
	Nickel     float64 `json:"nickel"`
	Gold       float64 `json:"gold"`
	Platinum   float64 `json:"platinum"`
	RareEarth  float64 `json:"rare_earth"`
	WaterIce   float64 `json:"water_ice"`
	MethaneIce float64 `json:"methane_ice"`
	Silicates  float64 `json:"silicates"`
	Carbon     float64 `json:"carbon"`
}

func elementsFromArray(a [elementCount]float64) Elements {
	return Elements{
		Iron:       a[0],
		Nickel:     a[1],
		Gold:       a[2],
		Platinum:   a[3],
		RareEarth:  a[4],
		WaterIce:   a[5],
		MethaneIce: a[6],
		Silicates:  a[7],
		Carbon:     a[8],
	}
}

func (e Elements) array() [elementCount]float64 {
	return [elementCount]float64{
		e.Iron, e.Nickel, e.Gold, e.Platinum, e.RareEarth,
		e.WaterIce, e.MethaneIce, e.Silicates, e.Carbon,
	}
}

// Sum returns the total of all fractions.
func (e Elements) Sum() float64 {
	total := 0.0
	for _, v := range e.array() {
		total += v
	}
	return total
}

// Metals returns iron + nickel + gold + platinum + rare earths.
func (e Elements) Metals() float64 {
	return e.Iron + e.Nickel + e.Gold + e.Platinum + e.RareEarth
}

// Precious returns gold + platinum.
func (e Elements) Precious() float64 {
	return e.Gold + e.Platinum
}

// Normalize scales every fraction so the sum is 1. A zero vector is
// returned unchanged.
func (e Elements) Normalize() Elements {
	total := e.Sum()
	if total == 0 {
		return e
	}
	a := e.array()
	for i := range a {
		a[i] /= total
	}
	return elementsFromArray(a)
}
