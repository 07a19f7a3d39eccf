package celestial

import "github.com/san-kum/orrery/internal/orbit"

type Kind int

const (
	Star Kind = iota
	Planet
	Moon
)

func (k Kind) String() string {
	switch k {
	case Star:
		return "star"
	case Planet:
		return "planet"
	case Moon:
		return "moon"
	}
	return "unknown"
}

// Info is descriptive data shown alongside a body.
type Info struct {
	Diameter    string `yaml:"diameter,omitempty" json:"diameter,omitempty"`
	Mass        string `yaml:"mass,omitempty" json:"mass,omitempty"`
	Distance    string `yaml:"distance,omitempty" json:"distance,omitempty"`
	Period      string `yaml:"period,omitempty" json:"period,omitempty"`
	Temperature string `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	Type        string `yaml:"type,omitempty" json:"type,omitempty"`
}

// Body is the static description of one body.
type Body struct {
	ID       string
	Name     string
	Kind     Kind
	Parent   string
	Radius   float64
	Elements orbit.Elements
	Rings    bool
	Info     Info
}

// Catalog returns the compiled-in scaled solar system. Distances and radii
// are in scene units, rates in radians per simulated second.
func Catalog() []Body {
	return []Body{
		{
			ID: "sun", Name: "Sun", Kind: Star, Radius: 20,
			Elements: orbit.Elements{RotationRate: 0.01},
			Info:     Info{Diameter: "1,392,700 km", Mass: "1.989e30 kg", Temperature: "5,778 K", Type: "G-type main-sequence"},
		},
		{
			ID: "mercury", Name: "Mercury", Kind: Planet, Radius: 0.8,
			Elements: orbit.Elements{SemiMajorAxis: 50, Eccentricity: 0.206, Inclination: 7.0, OrbitRate: 0.04, RotationRate: 0.02},
			Info:     Info{Diameter: "4,879 km", Mass: "3.301e23 kg", Distance: "57.9e6 km", Period: "88 d"},
		},
		{
			ID: "venus", Name: "Venus", Kind: Planet, Radius: 1.0,
			Elements: orbit.Elements{SemiMajorAxis: 70, Eccentricity: 0.007, Inclination: 3.4, OrbitRate: 0.03, RotationRate: -0.015},
			Info:     Info{Diameter: "12,104 km", Mass: "4.867e24 kg", Distance: "108.2e6 km", Period: "225 d"},
		},
		{
			ID: "earth", Name: "Earth", Kind: Planet, Radius: 1.1,
			Elements: orbit.Elements{SemiMajorAxis: 100, Eccentricity: 0.017, OrbitRate: 0.02, RotationRate: 0.025},
			Info:     Info{Diameter: "12,756 km", Mass: "5.972e24 kg", Distance: "149.6e6 km", Period: "365.25 d"},
		},
		{
			ID: "moon", Name: "Moon", Kind: Moon, Parent: "earth", Radius: 0.3,
			Elements: orbit.Elements{SemiMajorAxis: 2.2, OrbitRate: 0.1},
			Info:     Info{Diameter: "3,474 km", Mass: "7.342e22 kg", Period: "27.3 d"},
		},
		{
			ID: "mars", Name: "Mars", Kind: Planet, Radius: 0.6,
			Elements: orbit.Elements{SemiMajorAxis: 150, Eccentricity: 0.094, Inclination: 1.9, OrbitRate: 0.015, RotationRate: 0.02},
			Info:     Info{Diameter: "6,792 km", Mass: "6.39e23 kg", Distance: "227.9e6 km", Period: "687 d"},
		},
		{
			ID: "jupiter", Name: "Jupiter", Kind: Planet, Radius: 4.0,
			Elements: orbit.Elements{SemiMajorAxis: 250, Eccentricity: 0.049, Inclination: 1.3, OrbitRate: 0.008, RotationRate: 0.03},
			Info:     Info{Diameter: "142,984 km", Mass: "1.898e27 kg", Distance: "778.5e6 km", Period: "12 y"},
		},
		{
			ID: "saturn", Name: "Saturn", Kind: Planet, Radius: 3.5, Rings: true,
			Elements: orbit.Elements{SemiMajorAxis: 350, Eccentricity: 0.057, Inclination: 2.5, OrbitRate: 0.006, RotationRate: 0.025},
			Info:     Info{Diameter: "120,536 km", Mass: "5.683e26 kg", Distance: "1,432e6 km", Period: "29 y"},
		},
		{
			ID: "uranus", Name: "Uranus", Kind: Planet, Radius: 2.5,
			Elements: orbit.Elements{SemiMajorAxis: 450, Eccentricity: 0.046, Inclination: 0.8, OrbitRate: 0.004, RotationRate: -0.02},
			Info:     Info{Diameter: "51,118 km", Mass: "8.681e25 kg", Distance: "2,867e6 km", Period: "84 y"},
		},
		{
			ID: "neptune", Name: "Neptune", Kind: Planet, Radius: 2.4,
			Elements: orbit.Elements{SemiMajorAxis: 550, Eccentricity: 0.009, Inclination: 1.8, OrbitRate: 0.003, RotationRate: 0.022},
			Info:     Info{Diameter: "49,528 km", Mass: "1.024e26 kg", Distance: "4,515e6 km", Period: "165 y"},
		},
	}
}
