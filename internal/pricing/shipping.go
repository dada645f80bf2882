package pricing

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/olivegrove/eshop-backend/pkg/errors"
)

// Bracket is one step of a zone's rate table: any chargeable weight up to and
// including WeightGrams ships for Cost.
type Bracket struct {
	WeightGrams int64
	Cost        decimal.Decimal
}

// Zone is a named destination group with its weight brackets.
type Zone struct {
	DisplayName string
	Brackets    []Bracket
}

// ShippingResolver answers "what does it cost to ship N grams to zone X".
type ShippingResolver struct {
	zones map[string]Zone
}

// NewShippingResolver normalizes zone names to lower case and sorts each
// zone's brackets ascending by weight ceiling.
func NewShippingResolver(zones map[string]Zone) (*ShippingResolver, error) {
	if len(zones) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one shipping zone is required")
	}
	normalized := make(map[string]Zone, len(zones))
	for name, zone := range zones {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping zone name must not be empty")
		}
		if len(zone.Brackets) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping zone has no brackets").
				WithDetails(map[string]any{"zone": key})
		}
		brackets := make([]Bracket, len(zone.Brackets))
		copy(brackets, zone.Brackets)
		sort.Slice(brackets, func(i, j int) bool {
			return brackets[i].WeightGrams < brackets[j].WeightGrams
		})
		if zone.DisplayName == "" {
			zone.DisplayName = key
		}
		normalized[key] = Zone{DisplayName: zone.DisplayName, Brackets: brackets}
	}
	return &ShippingResolver{zones: normalized}, nil
}

// DefaultZones is the built-in rate table used when no override is configured.
func DefaultZones() map[string]Zone {
	return map[string]Zone{
		"domestic": {
			DisplayName: "Domestic",
			Brackets: []Bracket{
				{WeightGrams: 500, Cost: decimal.RequireFromString("5.00")},
				{WeightGrams: 1000, Cost: decimal.RequireFromString("7.50")},
				{WeightGrams: 2000, Cost: decimal.RequireFromString("10.00")},
			},
		},
		"eu": {
			DisplayName: "European Union",
			Brackets: []Bracket{
				{WeightGrams: 500, Cost: decimal.RequireFromString("10.00")},
				{WeightGrams: 1000, Cost: decimal.RequireFromString("15.00")},
				{WeightGrams: 2000, Cost: decimal.RequireFromString("22.50")},
			},
		},
		"row": {
			DisplayName: "Rest of World",
			Brackets: []Bracket{
				{WeightGrams: 500, Cost: decimal.RequireFromString("15.00")},
				{WeightGrams: 1000, Cost: decimal.RequireFromString("25.00")},
				{WeightGrams: 2000, Cost: decimal.RequireFromString("40.00")},
			},
		},
	}
}

type zoneJSON struct {
	Name     string `json:"name"`
	Brackets []struct {
		Weight int64  `json:"weight"`
		Cost   string `json:"cost"`
	} `json:"brackets"`
}

// ParseZones decodes the configured zone override document. An empty string
// yields the default table.
func ParseZones(raw string) (map[string]Zone, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultZones(), nil
	}
	var doc map[string]zoneJSON
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping zones document")
	}
	zones := make(map[string]Zone, len(doc))
	for name, zj := range doc {
		zone := Zone{DisplayName: zj.Name}
		for _, b := range zj.Brackets {
			cost, err := decimal.NewFromString(b.Cost)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid bracket cost").
					WithDetails(map[string]any{"zone": name, "cost": b.Cost})
			}
			zone.Brackets = append(zone.Brackets, Bracket{WeightGrams: b.Weight, Cost: cost})
		}
		zones[name] = zone
	}
	return zones, nil
}

// Cost resolves the shipping cost for the given chargeable weight. The
// second return is false when the zone is unknown or the weight exceeds the
// zone's heaviest bracket. Weights at or below zero fall into the first
// bracket.
func (r *ShippingResolver) Cost(zone string, weightGrams int64) (decimal.Decimal, bool) {
	z, ok := r.zones[strings.ToLower(strings.TrimSpace(zone))]
	if !ok {
		return decimal.Zero, false
	}
	for _, bracket := range z.Brackets {
		if weightGrams <= bracket.WeightGrams {
			return bracket.Cost, true
		}
	}
	return decimal.Zero, false
}

// ShippingQuote is the detailed answer for the storefront quote endpoint.
type ShippingQuote struct {
	Zone            string          `json:"zone"`
	ZoneDisplayName string          `json:"zone_display_name"`
	WeightGrams     int64           `json:"weight_grams"`
	BracketGrams    int64           `json:"bracket_grams"`
	Cost            decimal.Decimal `json:"cost"`
}

// Quote resolves a full quote or a coded error when the zone is unknown or
// the weight does not fit any bracket.
func (r *ShippingResolver) Quote(zone string, weightGrams int64) (*ShippingQuote, error) {
	key := strings.ToLower(strings.TrimSpace(zone))
	z, ok := r.zones[key]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown shipping zone").
			WithDetails(map[string]any{"zone": zone})
	}
	for _, bracket := range z.Brackets {
		if weightGrams <= bracket.WeightGrams {
			return &ShippingQuote{
				Zone:            key,
				ZoneDisplayName: z.DisplayName,
				WeightGrams:     weightGrams,
				BracketGrams:    bracket.WeightGrams,
				Cost:            bracket.Cost,
			}, nil
		}
	}
	max := z.Brackets[len(z.Brackets)-1].WeightGrams
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight exceeds zone maximum").
		WithDetails(map[string]any{"zone": key, "weight_grams": weightGrams, "max_grams": max})
}

// Zones lists the configured zone keys, sorted.
func (r *ShippingResolver) Zones() []string {
	keys := make([]string, 0, len(r.zones))
	for k := range r.zones {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
