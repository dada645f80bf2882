package enums

import (
	"fmt"
	"strings"
)

// StorageType identifies how a lot was stored after pressing.
type StorageType string

const (
	StorageTypeDry         StorageType = "DRY"
	StorageTypeWet         StorageType = "WET"
	StorageTypeTraditional StorageType = "TRADITIONAL"
	StorageTypeNatural     StorageType = "NATURAL"
)

var validStorageTypes = []StorageType{
	StorageTypeDry,
	StorageTypeWet,
	StorageTypeTraditional,
	StorageTypeNatural,
}

// String implements fmt.Stringer.
func (s StorageType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StorageType.
func (s StorageType) IsValid() bool {
	for _, candidate := range validStorageTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStorageType converts raw input into a StorageType. Matching is
// case-insensitive.
func ParseStorageType(value string) (StorageType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validStorageTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storage type %q", value)
}
