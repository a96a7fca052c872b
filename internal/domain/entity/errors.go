package entity

import "fmt"

// ConfigurationError reports a character missing a required reference.
type ConfigurationError struct {
	Character string
	Missing   string // "rigidbody" or "collider"
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("character %q: missing %s", e.Character, e.Missing)
}
