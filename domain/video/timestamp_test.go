package video

import (
	"testing"
)

func TestTimestamp_String(t *testing.T) {
	tests := []struct {
		timestamp Timestamp
		want      string
	}{
		{Timestamp{0, 0, 0}, "00:00:00"},
		{Timestamp{1, 2, 3}, "01:02:03"},
		{Timestamp{12, 34, 56}, "12:34:56"},
		{Timestamp{99, 59, 59}, "99:59:59"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.timestamp.String(); got != tt.want {
				t.Errorf("Timestamp.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTimestamp_TotalSeconds(t *testing.T) {
	tests := []struct {
		timestamp Timestamp
		want      int
	}{
		{Timestamp{0, 0, 0}, 0},
		{Timestamp{0, 0, 1}, 1},
		{Timestamp{0, 1, 0}, 60},
		{Timestamp{1, 0, 0}, 3600},
		{Timestamp{1, 30, 45}, 5445},
	}

	for _, tt := range tests {
		t.Run(tt.timestamp.String(), func(t *testing.T) {
			if got := tt.timestamp.TotalSeconds(); got != tt.want {
				t.Errorf("Timestamp.TotalSeconds() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTimestamp_Before(t *testing.T) {
	earlier := Timestamp{Hours: 0, Minutes: 30, Seconds: 0}
	later := Timestamp{Hours: 1, Minutes: 0, Seconds: 0}

	if !earlier.Before(later) {
		t.Error("expected earlier to be before later")
	}
	if later.Before(earlier) {
		t.Error("expected later to not be before earlier")
	}
	if earlier.Before(earlier) {
		t.Error("expected timestamp to not be before itself")
	}
}

func TestFromSeconds(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{182, "00:03:02"},
		{3725, "01:02:05"},
		{-5, "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FromSeconds(tt.seconds).String(); got != tt.want {
				t.Errorf("FromSeconds(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Clock
		wantErr bool
	}{
		{name: "regular clock", input: "05:00", want: Clock{Minutes: 5, Seconds: 0}},
		{name: "single digit minutes", input: "9:59", want: Clock{Minutes: 9, Seconds: 59}},
		{name: "surrounding spaces", input: " 08:42 ", want: Clock{Minutes: 8, Seconds: 42}},
		{name: "no colon", input: "0842", wantErr: true},
		{name: "too many parts", input: "01:02:03", wantErr: true},
		{name: "letters", input: "O8:42", wantErr: true},
		{name: "empty seconds", input: "08:", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseClock(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "with colon", input: "08:42", want: 522},
		{name: "colon dropped by ocr", input: "0842", want: 522},
		{name: "three digits", input: "942", want: 582},
		{name: "seconds only", input: "42", want: 42},
		{name: "trailing newline", input: "0842\n", want: 522},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDuration(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDuration(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
