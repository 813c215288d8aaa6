package services

import (
	"testing"

	"github.com/pumpjaine/pumpjaine-backend/internal/contracts"
	"github.com/pumpjaine/pumpjaine-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	db := setupTestDB(t)
	service := NewTemplateService(db)

	require.NoError(t, service.Seed())

	templates, err := service.List()
	require.NoError(t, err)
	assert.Len(t, templates, len(contracts.Definitions))

	t.Run("seeding is idempotent", func(t *testing.T) {
		require.NoError(t, service.Seed())
		templates, err := service.List()
		require.NoError(t, err)
		assert.Len(t, templates, len(contracts.Definitions))
	})

	t.Run("rarity split matches the catalog", func(t *testing.T) {
		stats, err := service.Stats()
		require.NoError(t, err)
		assert.Equal(t, 3, stats.ByRarity[models.RarityCommon])
		assert.Equal(t, 3, stats.ByRarity[models.RarityCopeHarder])
		assert.Equal(t, 3, stats.ByRarity[models.RarityMaximumCope])
		assert.Equal(t, 5, stats.ByRarity[models.RarityUltimateRejection])
		assert.Equal(t, 1, stats.ByRarity[models.RarityAscendedSimp])
		assert.Equal(t, 2, stats.ByRarity[models.RarityLegendaryUltra])
	})

	t.Run("every seeded template has readable source", func(t *testing.T) {
		for _, template := range templates {
			source, err := service.Source(&template)
			require.NoError(t, err, template.Name)
			assert.Contains(t, source, "pragma solidity")
		}
	})
}

func TestByName(t *testing.T) {
	db := setupTestDB(t)
	service := NewTemplateService(db)
	require.NoError(t, service.Seed())

	template, err := service.ByName("JAINE_LEFT_ME_ON_READ")
	require.NoError(t, err)
	assert.Equal(t, models.RarityCommon, template.Rarity)

	_, err = service.ByName("JAINE_SAID_YES")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRandomByRarity(t *testing.T) {
	db := setupTestDB(t)
	service := NewTemplateService(db)
	require.NoError(t, service.Seed())

	t.Run("picks within the requested rarity", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			template, err := service.RandomByRarity(models.RarityUltimateRejection)
			require.NoError(t, err)
			assert.Equal(t, models.RarityUltimateRejection, template.Rarity)
		}
	})

	t.Run("single-template rarity always returns it", func(t *testing.T) {
		template, err := service.RandomByRarity(models.RarityAscendedSimp)
		require.NoError(t, err)
		assert.Equal(t, "JAINE_WILL_NOTICE_ME_SOMEDAY", template.Name)
	})

	t.Run("invalid rarity is not found", func(t *testing.T) {
		_, err := service.RandomByRarity(models.RarityKey("bogus"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSearch(t *testing.T) {
	db := setupTestDB(t)
	service := NewTemplateService(db)
	require.NoError(t, service.Seed())

	t.Run("case-insensitive over name and description", func(t *testing.T) {
		results, err := service.Search("jaine_blocked")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "JAINE_BLOCKED_ME", results[0].Name)
	})

	t.Run("orders by deployment count descending", func(t *testing.T) {
		blocked, err := service.ByName("JAINE_BLOCKED_ME")
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			require.NoError(t, service.IncrementDeployments(blocked.ID))
		}

		results, err := service.Search("jaine")
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "JAINE_BLOCKED_ME", results[0].Name)
	})

	t.Run("no match yields empty slice", func(t *testing.T) {
		results, err := service.Search("no-such-template")
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestIncrementDeployments(t *testing.T) {
	db := setupTestDB(t)
	service := NewTemplateService(db)
	require.NoError(t, service.Seed())

	template, err := service.ByName("MARRY_JAINE")
	require.NoError(t, err)
	assert.Equal(t, 0, template.TotalDeployments)

	require.NoError(t, service.IncrementDeployments(template.ID))
	require.NoError(t, service.IncrementDeployments(template.ID))

	updated, err := service.ByID(template.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TotalDeployments)

	assert.ErrorIs(t, service.IncrementDeployments(99999), ErrNotFound)
}

func TestRarityDistribution(t *testing.T) {
	db := setupTestDB(t)
	service := NewTemplateService(db)
	require.NoError(t, service.Seed())

	entries, err := service.RarityDistribution()
	require.NoError(t, err)
	require.Len(t, entries, 6)

	// declared order, annotated from the static table
	assert.Equal(t, models.RarityCommon, entries[0].Rarity)
	assert.Equal(t, 50.0, entries[0].Weight)
	assert.Equal(t, 3, entries[0].TemplateCount)
	assert.Equal(t, models.RarityLegendaryUltra, entries[5].Rarity)
	assert.Equal(t, 2, entries[5].TemplateCount)
}
