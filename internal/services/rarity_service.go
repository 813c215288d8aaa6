package services

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/pumpjaine/pumpjaine-backend/internal/models"
)

// RaritySelection is the outcome of one weighted draw.
type RaritySelection struct {
	Rarity          models.RarityKey `json:"rarity"`
	Roll            float64          `json:"roll"`
	WeightThreshold float64          `json:"weight_threshold"`
	IsLucky         bool             `json:"is_lucky"`
}

// DistributionEntry describes one bucket of the probability distribution,
// including the cumulative threshold its rolls fall under.
type DistributionEntry struct {
	Rarity     models.RarityKey `json:"rarity"`
	Name       string           `json:"name"`
	Weight     float64          `json:"weight"`
	Percentage string           `json:"percentage"`
	Cumulative float64          `json:"cumulative"`
	Color      string           `json:"color"`
}

// RarityService draws rarity categories from the fixed weighted table.
type RarityService interface {
	Select(roll float64) models.RarityCategory
	SelectRandom(userAddress string) RaritySelection
	ByRarity(key models.RarityKey) (models.RarityCategory, error)
	ScoreOf(key models.RarityKey) float64
	Distribution() []DistributionEntry
	Simulate(count int) map[models.RarityKey]int
}

type rarityService struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewRarityService creates a RarityService with a crypto-seeded roll source.
func NewRarityService() RarityService {
	var seed int64
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(buf[:]))
	} else {
		seed = time.Now().UnixNano()
	}
	return &rarityService{rng: mathrand.New(mathrand.NewSource(seed))}
}

// Select walks the table in declared order and returns the first category
// whose cumulative weight reaches the roll. The last category is the
// catch-all: floating-point accumulation must never leave a roll in [0,100)
// without a bucket.
func (s *rarityService) Select(roll float64) models.RarityCategory {
	cumulative := 0.0
	for _, category := range models.RarityTable {
		cumulative += category.Weight
		if roll <= cumulative {
			return category
		}
	}
	return models.RarityTable[len(models.RarityTable)-1]
}

// SelectRandom draws a weighted category. When userAddress is set the roll is
// derived from a hash of the address and the current time; this is a
// best-effort novelty with no reproducibility or fairness guarantee, since
// the time component changes every call.
func (s *rarityService) SelectRandom(userAddress string) RaritySelection {
	var roll float64
	if userAddress != "" {
		roll = seededRoll(userAddress, time.Now())
	} else {
		s.mu.Lock()
		roll = s.rng.Float64() * 100
		s.mu.Unlock()
	}

	category := s.Select(roll)
	threshold := 0.0
	for _, c := range models.RarityTable {
		threshold += c.Weight
		if c.Key == category.Key {
			break
		}
	}

	return RaritySelection{
		Rarity:          category.Key,
		Roll:            math.Round(roll*100) / 100,
		WeightThreshold: math.Round(threshold*100) / 100,
		IsLucky:         category.Weight < 10,
	}
}

// ByRarity validates a key against the fixed set.
func (s *rarityService) ByRarity(key models.RarityKey) (models.RarityCategory, error) {
	category, ok := models.RarityByKey(key)
	if !ok {
		return models.RarityCategory{}, fmt.Errorf("invalid rarity %s: %w", key, ErrNotFound)
	}
	return category, nil
}

// ScoreOf is the display-only rarity score.
func (s *rarityService) ScoreOf(key models.RarityKey) float64 {
	return models.RarityScore(key)
}

// Distribution lists the table with running cumulative thresholds.
func (s *rarityService) Distribution() []DistributionEntry {
	entries := make([]DistributionEntry, 0, len(models.RarityTable))
	cumulative := 0.0
	for _, category := range models.RarityTable {
		cumulative += category.Weight
		entries = append(entries, DistributionEntry{
			Rarity:     category.Key,
			Name:       category.Name,
			Weight:     category.Weight,
			Percentage: fmt.Sprintf("%g%%", category.Weight),
			Cumulative: math.Round(cumulative*100) / 100,
			Color:      category.Color,
		})
	}
	return entries
}

// Simulate draws count random selections and tallies them by rarity.
func (s *rarityService) Simulate(count int) map[models.RarityKey]int {
	results := make(map[models.RarityKey]int, len(models.RarityTable))
	for _, category := range models.RarityTable {
		results[category.Key] = 0
	}
	for i := 0; i < count; i++ {
		results[s.SelectRandom("").Rarity]++
	}
	return results
}

// seededRoll hashes the address and timestamp into [0,100).
func seededRoll(userAddress string, now time.Time) float64 {
	seed := models.NormalizeAddress(userAddress) + fmt.Sprint(now.UnixMilli())
	var hash int32
	for _, c := range seed {
		hash = hash<<5 - hash + int32(c)
	}
	magnitude := int64(hash)
	if magnitude < 0 {
		magnitude = -magnitude
	}
	return float64(magnitude) / math.MaxInt32 * 100
}
