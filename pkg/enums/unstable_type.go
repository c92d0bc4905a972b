package enums

import "fmt"

// UnstableType declares how a machine-affecting line item is reconciled
// against the machine, damaged, and defective pools at approval time.
type UnstableType string

const (
	UnstableTypeInactive  UnstableType = "inactive"
	UnstableTypeDefective UnstableType = "defective"
	UnstableTypeLess      UnstableType = "less"
)

var validUnstableTypes = []UnstableType{
	UnstableTypeInactive,
	UnstableTypeDefective,
	UnstableTypeLess,
}

// String implements fmt.Stringer.
func (u UnstableType) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UnstableType.
func (u UnstableType) IsValid() bool {
	for _, candidate := range validUnstableTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// Normalize maps a nullable column value onto the handling branch the
// reconcilers dispatch on. Unset and unrecognized values fall back to
// inactive, which is the historical default.
func Normalize(u *UnstableType) UnstableType {
	if u == nil || !u.IsValid() {
		return UnstableTypeInactive
	}
	return *u
}

// ParseUnstableType converts raw input into an UnstableType.
func ParseUnstableType(value string) (UnstableType, error) {
	for _, candidate := range validUnstableTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unstable type %q", value)
}
