package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRarityTableWeights(t *testing.T) {
	total := 0.0
	for _, category := range RarityTable {
		total += category.Weight
	}
	assert.Equal(t, 100.0, total, "weights must sum to exactly 100")
}

func TestRarityTableOrder(t *testing.T) {
	expected := []RarityKey{
		RarityCommon,
		RarityCopeHarder,
		RarityMaximumCope,
		RarityUltimateRejection,
		RarityAscendedSimp,
		RarityLegendaryUltra,
	}
	assert.Len(t, RarityTable, len(expected))
	for i, key := range expected {
		assert.Equal(t, key, RarityTable[i].Key)
	}

	// weights strictly decrease in declared order
	for i := 1; i < len(RarityTable); i++ {
		assert.Less(t, RarityTable[i].Weight, RarityTable[i-1].Weight)
	}
}

func TestRarityScore(t *testing.T) {
	assert.Equal(t, 50.0, RarityScore(RarityCommon))
	assert.Equal(t, 97.5, RarityScore(RarityAscendedSimp))
	assert.Equal(t, 99.5, RarityScore(RarityLegendaryUltra))
	assert.Equal(t, 100.0, RarityScore(RarityKey("unknown")))
}

func TestRarityByKey(t *testing.T) {
	category, ok := RarityByKey(RarityUltimateRejection)
	assert.True(t, ok)
	assert.Equal(t, 7.0, category.Weight)

	_, ok = RarityByKey(RarityKey("mythic"))
	assert.False(t, ok)
	assert.False(t, IsValidRarity(RarityKey("mythic")))
}
