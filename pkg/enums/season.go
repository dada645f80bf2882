package enums

import (
	"fmt"
	"strings"
)

// Season identifies the harvest season of a lot.
type Season string

const (
	SeasonSpring Season = "SPRING"
	SeasonSummer Season = "SUMMER"
	SeasonAutumn Season = "AUTUMN"
	SeasonWinter Season = "WINTER"
)

var validSeasons = []Season{
	SeasonSpring,
	SeasonSummer,
	SeasonAutumn,
	SeasonWinter,
}

// String implements fmt.Stringer.
func (s Season) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Season.
func (s Season) IsValid() bool {
	for _, candidate := range validSeasons {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSeason converts raw input into a Season. Matching is case-insensitive.
func ParseSeason(value string) (Season, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validSeasons {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid season %q", value)
}
