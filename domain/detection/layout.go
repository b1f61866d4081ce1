package detection

import (
	"fmt"

	"ebp-replay-analyzer/domain/text"
)

// Regions are the OCR rectangles of the game UI
type Regions struct {
	OrangeScore text.Rect `yaml:"orange_score"`
	BlueScore   text.Rect `yaml:"blue_score"`
	Elapsed     text.Rect `yaml:"elapsed"`
	MapName     text.Rect `yaml:"map_name"`
	OrangeName  text.Rect `yaml:"orange_name"`
	BlueName    text.Rect `yaml:"blue_name"`
	Clock       text.Rect `yaml:"clock"`
}

// Layout describes where the UI elements of one resolution are
type Layout struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	EndScreen     Pattern `yaml:"end_screen"`
	LoadingScreen Pattern `yaml:"loading_screen"`
	IntroScreen   Pattern `yaml:"intro_screen"`
	InMatch       Pattern `yaml:"in_match"`

	Regions Regions `yaml:"regions"`
}

// Validate checks that every probe and region fits in the layout resolution
func (l Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("layout resolution %dx%d is invalid", l.Width, l.Height)
	}

	for _, p := range []Pattern{l.EndScreen, l.LoadingScreen, l.IntroScreen, l.InMatch} {
		if len(p.Clusters) == 0 {
			return fmt.Errorf("pattern %q has no probes", p.Name)
		}
		for _, c := range p.Clusters {
			for _, pr := range c.Probes {
				if pr.X < 0 || pr.Y < 0 || pr.X >= l.Width || pr.Y >= l.Height {
					return fmt.Errorf("probe %q of %q at (%d,%d) is outside %dx%d", pr.Label, p.Name, pr.X, pr.Y, l.Width, l.Height)
				}
				if len(pr.Accept) == 0 {
					return fmt.Errorf("probe %q of %q accepts no color", pr.Label, p.Name)
				}
			}
		}
	}

	bounds := text.Rect{X2: l.Width, Y2: l.Height}.Image()
	regions := map[string]text.Rect{
		"orange_score": l.Regions.OrangeScore,
		"blue_score":   l.Regions.BlueScore,
		"elapsed":      l.Regions.Elapsed,
		"map_name":     l.Regions.MapName,
		"orange_name":  l.Regions.OrangeName,
		"blue_name":    l.Regions.BlueName,
		"clock":        l.Regions.Clock,
	}
	for name, r := range regions {
		if err := r.Validate(bounds); err != nil {
			return fmt.Errorf("region %s: %w", name, err)
		}
	}

	return nil
}

var (
	orangeLogo   = RGB{R: 239, G: 203, B: 14}
	blueLogo     = RGB{R: 50, G: 138, B: 230}
	orangeHealth = RGB{R: 231, G: 123, B: 9}
	blueHealth   = RGB{R: 30, G: 126, B: 242}
)

// DefaultLayout returns the 1920x1080 layout of the game UI
func DefaultLayout() Layout {
	return Layout{
		Width:  1920,
		Height: 1080,

		EndScreen: Pattern{
			Name: "end_screen",
			Clusters: []Cluster{{
				Name: "team logos",
				Probes: []Probe{
					probe("orange logo", 325, 153, orangeLogo, DefaultTolerance),
					probe("blue logo", 313, 613, blueLogo, DefaultTolerance),
				},
			}},
		},

		LoadingScreen: Pattern{
			Name: "loading_screen",
			Clusters: []Cluster{{
				Name: "loader glyph",
				Probes: []Probe{
					probe("logo top", 958, 427, White, DefaultTolerance),
					probe("logo left", 857, 653, White, DefaultTolerance),
					probe("logo right", 1060, 653, White, DefaultTolerance),
					probe("logo middle", 958, 642, White, DefaultTolerance),
					probe("logo black 1", 958, 463, Black, DefaultTolerance),
					probe("logo black 2", 880, 653, Black, DefaultTolerance),
					probe("logo black 3", 1037, 653, Black, DefaultTolerance),
					probe("logo black 4", 958, 610, Black, DefaultTolerance),
				},
			}},
		},

		IntroScreen: Pattern{
			Name: "intro_screen",
			Clusters: []Cluster{
				introGlyph("B1", 1495, 1512, 1503, [5]int{942, 950, 962, 972, 982}, [2]int{951, 972}),
				introGlyph("B2", 1558, 1572, 1564, [5]int{960, 968, 977, 987, 995}, [2]int{969, 986}),
				introGlyph("B3", 1556, 1571, 1564, [5]int{957, 964, 975, 984, 993}, [2]int{966, 984}),
				introGlyph("B4", 1617, 1630, 1623, [5]int{979, 985, 995, 1004, 1011}, [2]int{987, 1004}),
				introGlyph("B5", 1606, 1619, 1612, [5]int{976, 982, 991, 1000, 1008}, [2]int{983, 1000}),
			},
		},

		InMatch: Pattern{
			Name: "in_match",
			Clusters: []Cluster{{
				Name: "health bars",
				Probes: []Probe{
					healthBar("orange player 1", 118, 742, orangeHealth),
					healthBar("orange player 2", 118, 825, orangeHealth),
					healthBar("orange player 3", 118, 907, orangeHealth),
					healthBar("orange player 4", 118, 991, orangeHealth),
					healthBar("blue player 1", 1801, 742, blueHealth),
					healthBar("blue player 2", 1801, 825, blueHealth),
					healthBar("blue player 3", 1801, 907, blueHealth),
					healthBar("blue player 4", 1801, 991, blueHealth),
				},
			}},
		},

		Regions: Regions{
			OrangeScore: text.Rect{X1: 530, Y1: 89, X2: 620, Y2: 127},
			BlueScore:   text.Rect{X1: 1294, Y1: 89, X2: 1384, Y2: 127},
			Elapsed:     text.Rect{X1: 70, Y1: 60, X2: 190, Y2: 140},
			MapName:     text.Rect{X1: 825, Y1: 81, X2: 1093, Y2: 102},
			OrangeName:  text.Rect{X1: 686, Y1: 22, X2: 833, Y2: 68},
			BlueName:    text.Rect{X1: 1087, Y1: 22, X2: 1226, Y2: 68},
			Clock:       text.Rect{X1: 935, Y1: 0, X2: 985, Y2: 28},
		},
	}
}

// introGlyph is the "B" of "BATTLE ARENA": white ink alternating between the
// stem and the bowls, black ink inside both counters.
func introGlyph(name string, stemX, bowlX, counterX int, whiteY [5]int, blackY [2]int) Cluster {
	const whiteTolerance, blackTolerance = 30, 200
	return Cluster{
		Name: name,
		Probes: []Probe{
			probe(name+" stem top", stemX, whiteY[0], White, whiteTolerance),
			probe(name+" upper bowl", bowlX, whiteY[1], White, whiteTolerance),
			probe(name+" stem middle", stemX, whiteY[2], White, whiteTolerance),
			probe(name+" lower bowl", bowlX, whiteY[3], White, whiteTolerance),
			probe(name+" stem bottom", stemX, whiteY[4], White, whiteTolerance),
			probe(name+" upper counter", counterX, blackY[0], Black, blackTolerance),
			probe(name+" lower counter", counterX, blackY[1], Black, blackTolerance),
		},
	}
}

// healthBar accepts the team color or the dark bar of an eliminated player
func healthBar(label string, x, y int, team RGB) Probe {
	return Probe{
		Label: label,
		X:     x,
		Y:     y,
		Accept: []Reference{
			{Color: team, Tolerance: DefaultTolerance},
			{Color: Black, Tolerance: 50},
		},
	}
}
