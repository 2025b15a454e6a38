package things

import (
	"slices"
	"strconv"
)

// validateEnum checks value against the finite set of recognized values for
// parameter. Callers skip the check entirely for unset parameters; an unset
// optional parameter is always accepted.
func validateEnum(parameter, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return &ValidationError{Parameter: parameter, Value: value, Allowed: allowed}
}

var offsetUnits = []string{"<n>d", "<n>w", "<n>y"}

// parseOffset validates and splits an offset string such as "3d", "2w" or
// "1y": a non-negative integer followed by a unit character.
func parseOffset(parameter, offset string) (int, byte, error) {
	invalid := &ValidationError{Parameter: parameter, Value: offset, Allowed: offsetUnits}
	if offset == "" {
		return 0, 0, invalid
	}
	unit := offset[len(offset)-1]
	if unit != 'd' && unit != 'w' && unit != 'y' {
		return 0, 0, invalid
	}
	number, err := strconv.Atoi(offset[:len(offset)-1])
	if err != nil || number < 0 {
		return 0, 0, invalid
	}
	return number, unit, nil
}
