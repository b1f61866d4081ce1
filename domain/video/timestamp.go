package video

import (
	"fmt"
	"strconv"
	"strings"
)

// Timestamp represents a video timestamp in HH:MM:SS format
type Timestamp struct {
	Hours   int
	Minutes int
	Seconds int
}

// FromSeconds builds a Timestamp from a number of seconds
func FromSeconds(total int) Timestamp {
	if total < 0 {
		total = 0
	}
	return Timestamp{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// String returns the timestamp in HH:MM:SS format
func (t Timestamp) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}

// TotalSeconds returns the timestamp as total seconds
func (t Timestamp) TotalSeconds() int {
	return t.Hours*3600 + t.Minutes*60 + t.Seconds
}

// Before returns true if t is before other
func (t Timestamp) Before(other Timestamp) bool {
	return t.TotalSeconds() < other.TotalSeconds()
}

// Clock is an on-screen MM:SS match clock
type Clock struct {
	Minutes int
	Seconds int
}

// ParseClock parses OCR text of the form "MM:SS".
// Surrounding spaces are ignored; anything else is an error.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("invalid clock %q: expected MM:SS", s)
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Clock{}, fmt.Errorf("invalid clock minutes %q: %w", parts[0], err)
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Clock{}, fmt.Errorf("invalid clock seconds %q: %w", parts[1], err)
	}
	if minutes < 0 || seconds < 0 {
		return Clock{}, fmt.Errorf("invalid clock %q: negative value", s)
	}

	return Clock{Minutes: minutes, Seconds: seconds}, nil
}

// TotalSeconds returns the clock value in seconds
func (c Clock) TotalSeconds() int {
	return c.Minutes*60 + c.Seconds
}

// ParseDuration reads a match duration off the score screen.
// The numeric OCR engine drops the colon, so "08:42" may arrive as "0842";
// in that case the last two digits are the seconds.
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		c, err := ParseClock(s)
		if err != nil {
			return 0, err
		}
		return c.TotalSeconds(), nil
	}

	if _, err := strconv.Atoi(s); err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if len(s) <= 2 {
		seconds, _ := strconv.Atoi(s)
		return seconds, nil
	}

	minutes, _ := strconv.Atoi(s[:len(s)-2])
	seconds, _ := strconv.Atoi(s[len(s)-2:])
	return minutes*60 + seconds, nil
}
