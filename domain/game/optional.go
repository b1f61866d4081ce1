package game

// Optional holds an integer that may not have been read yet
type Optional struct {
	value int
	valid bool
}

// Some returns an Optional holding v
func Some(v int) Optional {
	return Optional{value: v, valid: true}
}

// Get returns the value and whether it is set
func (o Optional) Get() (int, bool) {
	return o.value, o.valid
}

// IsSet reports whether a value was recorded
func (o Optional) IsSet() bool {
	return o.valid
}

// Or returns the value, or fallback when unset
func (o Optional) Or(fallback int) int {
	if !o.valid {
		return fallback
	}
	return o.value
}
