package game

import "strings"

// Map is a playable map and the words that identify it in OCR output
type Map struct {
	Name     string
	Keywords []string
}

// Maps is the lookup table, checked in order
var Maps = []Map{
	{Name: "Artefact", Keywords: []string{"artefact"}},
	{Name: "Atlantis", Keywords: []string{"atlantis"}},
	{Name: "Ceres", Keywords: []string{"ceres"}},
	{Name: "Engine", Keywords: []string{"engine"}},
	{Name: "Helios Station", Keywords: []string{"helios", "station"}},
	{Name: "Lunar Outpost", Keywords: []string{"lunar", "outpost"}},
	{Name: "Outlaw", Keywords: []string{"outlaw"}},
	{Name: "Polaris", Keywords: []string{"polaris"}},
	{Name: "Silva", Keywords: []string{"silva"}},
	{Name: "The Cliff", Keywords: []string{"cliff"}},
	{Name: "The Rock", Keywords: []string{"rock"}},
}

// ResolveMap returns the canonical map name for free OCR text, or ""
func ResolveMap(text string) string {
	cleaned := strings.NewReplacer("\r", "", "\n", "").Replace(text)
	words := strings.Fields(strings.ToLower(cleaned))

	for _, m := range Maps {
		for _, w := range words {
			for _, k := range m.Keywords {
				if w == k {
					return m.Name
				}
			}
		}
	}
	return ""
}
