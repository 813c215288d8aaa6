package models

import "math"

// RarityKey identifies one of the six fixed rarity buckets.
type RarityKey string

const (
	RarityCommon            RarityKey = "COMMON"
	RarityCopeHarder        RarityKey = "COPE_HARDER"
	RarityMaximumCope       RarityKey = "MAXIMUM_COPE"
	RarityUltimateRejection RarityKey = "ULTIMATE_REJECTION"
	RarityAscendedSimp      RarityKey = "ASCENDED_SIMP"
	RarityLegendaryUltra    RarityKey = "LEGENDARY_ULTRA"
)

// RarityCategory is a configuration entry, not a database row. The table is
// immutable at runtime.
type RarityCategory struct {
	Key         RarityKey `json:"rarity"`
	Name        string    `json:"name"`
	Weight      float64   `json:"weight"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
}

// RarityTable holds the six categories in their declared order. Selection walks
// this slice first-match-wins, so the order is an invariant: reordering entries
// changes which bucket a roll lands in. Weights must sum to exactly 100.
var RarityTable = []RarityCategory{
	{
		Key:         RarityCommon,
		Name:        "COMMON",
		Weight:      50.0,
		Color:       "#9CA3AF",
		Description: "Basic rejection scenarios for entry-level simps",
	},
	{
		Key:         RarityCopeHarder,
		Name:        "COPE HARDER",
		Weight:      25.0,
		Color:       "#3B82F6",
		Description: "Mid-tier rejection contracts for intermediate coping",
	},
	{
		Key:         RarityMaximumCope,
		Name:        "MAXIMUM COPE",
		Weight:      15.0,
		Color:       "#8B5CF6",
		Description: "Advanced rejection scenarios for seasoned simps",
	},
	{
		Key:         RarityUltimateRejection,
		Name:        "ULTIMATE REJECTION",
		Weight:      7.0,
		Color:       "#1F2937",
		Description: "Professional-level rejection contracts",
	},
	{
		Key:         RarityAscendedSimp,
		Name:        "ASCENDED SIMP",
		Weight:      2.5,
		Color:       "#F59E0B",
		Description: "Legendary tier rejection experiences",
	},
	{
		Key:         RarityLegendaryUltra,
		Name:        "LEGENDARY ULTRA",
		Weight:      0.5,
		Color:       "#EF4444",
		Description: "The rarest and most devastating rejection contracts",
	},
}

// RarityByKey returns the category for a key, or false when the key is not one
// of the six fixed values.
func RarityByKey(key RarityKey) (RarityCategory, bool) {
	for _, category := range RarityTable {
		if category.Key == key {
			return category, true
		}
	}
	return RarityCategory{}, false
}

// IsValidRarity reports whether key names one of the six fixed categories.
func IsValidRarity(key RarityKey) bool {
	_, ok := RarityByKey(key)
	return ok
}

// RarityScore is the display-only rarity score: 100 minus the weight, rounded
// to two decimals. Unknown keys score 100.
func RarityScore(key RarityKey) float64 {
	category, ok := RarityByKey(key)
	if !ok {
		return 100
	}
	return math.Round((100-category.Weight)*100) / 100
}
