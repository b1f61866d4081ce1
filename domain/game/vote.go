package game

// MostFrequent returns the most frequent string in samples.
// On a tie the value whose first occurrence comes earliest wins.
func MostFrequent(samples []string) string {
	counts := make(map[string]int, len(samples))
	top := 0
	for _, s := range samples {
		counts[s]++
		top = max(top, counts[s])
	}

	for _, s := range samples {
		if counts[s] == top {
			return s
		}
	}
	return ""
}
