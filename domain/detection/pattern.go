package detection

import "image"

// Reference is a color a probe accepts, with its own tolerance
type Reference struct {
	Color     RGB `yaml:"color"`
	Tolerance int `yaml:"tolerance"`
}

// Probe is a single pixel tested against one or more references
type Probe struct {
	Label  string      `yaml:"label"`
	X      int         `yaml:"x"`
	Y      int         `yaml:"y"`
	Accept []Reference `yaml:"accept"`
}

// Matches reports whether the probed pixel is similar to any reference
func (p Probe) Matches(img image.Image) bool {
	c, ok := Sample(img, p.X, p.Y)
	if !ok {
		return false
	}
	for _, ref := range p.Accept {
		if Similar(c, ref.Color, ref.Tolerance) {
			return true
		}
	}
	return false
}

// Cluster is a group of probes that must all match
type Cluster struct {
	Name   string  `yaml:"name"`
	Probes []Probe `yaml:"probes"`
}

// Matches reports whether every probe of the cluster matches
func (c Cluster) Matches(img image.Image) bool {
	if len(c.Probes) == 0 {
		return false
	}
	for _, p := range c.Probes {
		if !p.Matches(img) {
			return false
		}
	}
	return true
}

// Pattern recognizes one screen. Alternative clusters cover the same
// glyph rendered at slightly different positions.
type Pattern struct {
	Name     string    `yaml:"name"`
	Clusters []Cluster `yaml:"clusters"`
}

// Matches reports whether any cluster of the pattern matches
func (p Pattern) Matches(img image.Image) bool {
	for _, c := range p.Clusters {
		if c.Matches(img) {
			return true
		}
	}
	return false
}

// probe builds a probe accepting a single color
func probe(label string, x, y int, c RGB, tolerance int) Probe {
	return Probe{Label: label, X: x, Y: y, Accept: []Reference{{Color: c, Tolerance: tolerance}}}
}
