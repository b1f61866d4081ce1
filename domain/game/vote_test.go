package game

import "testing"

func TestMostFrequent(t *testing.T) {
	tests := []struct {
		name    string
		samples []string
		want    string
	}{
		{name: "clear majority", samples: []string{"FOO", "FOO", "BAR"}, want: "FOO"},
		{name: "majority not first", samples: []string{"BAR", "FOO", "FOO"}, want: "FOO"},
		{name: "single sample", samples: []string{"TEAM"}, want: "TEAM"},
		{name: "tie keeps first seen", samples: []string{"BAR", "FOO", "FOO", "BAR"}, want: "BAR"},
		{name: "tie with three values", samples: []string{"C", "B", "A"}, want: "C"},
		{name: "tie reached later by first value", samples: []string{"A", "B", "B", "A"}, want: "A"},
		{name: "later value wins on count", samples: []string{"A", "B", "B", "A", "B"}, want: "B"},
		{name: "empty", samples: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MostFrequent(tt.samples); got != tt.want {
				t.Errorf("MostFrequent(%v) = %q, want %q", tt.samples, got, tt.want)
			}
		})
	}
}
