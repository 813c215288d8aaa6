package services

import (
	"fmt"
	"testing"

	"github.com/pumpjaine/pumpjaine-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDeployTest(t *testing.T) (*gorm.DB, DeployService, UserService, TemplateService) {
	db := setupTestDB(t)
	templates := NewTemplateService(db)
	require.NoError(t, templates.Seed())
	users := NewUserService(db)
	deploys := NewDeployService(db, templates, users)
	return db, deploys, users, templates
}

const testWallet = "0xAAAA567890abcdef1234567890abcdef1234BBBB"

func testRecordRequest(n int) RecordDeploymentRequest {
	return RecordDeploymentRequest{
		TemplateName:    "JAINE_BLOCKED_ME",
		ContractAddress: fmt.Sprintf("0x%040d", 7000+n),
		TxHash:          fmt.Sprintf("0x%064d", n),
	}
}

func TestRecordDeployment(t *testing.T) {
	_, deploys, users, templates := setupDeployTest(t)

	receipt, err := deploys.Record(testWallet, testRecordRequest(1))
	require.NoError(t, err)

	assert.Equal(t, models.RarityCommon, receipt.Rarity)
	assert.Equal(t, 50.0, receipt.RarityScore)
	assert.Equal(t, 1, receipt.TotalDeploys)
	assert.Equal(t, 1, receipt.Rank)
	assert.False(t, receipt.LevelUp)
	assert.Equal(t, "JAINE_BLOCKED_ME", receipt.Deployment.Template.Name)

	t.Run("counters moved together", func(t *testing.T) {
		simp, err := users.ByWalletAddress(testWallet)
		require.NoError(t, err)
		assert.Equal(t, 1, simp.CommonDeploys)
		assert.Equal(t, 1, simp.TotalDeploys)

		template, err := templates.ByName("JAINE_BLOCKED_ME")
		require.NoError(t, err)
		assert.Equal(t, 1, template.TotalDeployments)
	})

	t.Run("account was lazily created with derived nick", func(t *testing.T) {
		simp, err := users.ByWalletAddress(testWallet)
		require.NoError(t, err)
		assert.Equal(t, "simp_bbbb", simp.SimpNick)
	})
}

func TestRecordDuplicateTxHash(t *testing.T) {
	_, deploys, users, _ := setupDeployTest(t)

	req := testRecordRequest(1)
	_, err := deploys.Record(testWallet, req)
	require.NoError(t, err)

	req.ContractAddress = fmt.Sprintf("0x%040d", 9999)
	_, err = deploys.Record(testWallet, req)
	assert.ErrorIs(t, err, ErrConflict)

	// the failed attempt must not have moved any counter
	simp, err := users.ByWalletAddress(testWallet)
	require.NoError(t, err)
	assert.Equal(t, 1, simp.TotalDeploys)
}

func TestRecordUnknownTemplate(t *testing.T) {
	_, deploys, _, _ := setupDeployTest(t)

	req := testRecordRequest(1)
	req.TemplateName = "JAINE_SAID_YES"
	_, err := deploys.Record(testWallet, req)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordLevelUp(t *testing.T) {
	_, deploys, _, _ := setupDeployTest(t)

	// level 1 covers totals 0 to 4; the fifth deployment crosses into level 2
	for i := 1; i <= 4; i++ {
		receipt, err := deploys.Record(testWallet, testRecordRequest(i))
		require.NoError(t, err)
		assert.False(t, receipt.LevelUp, "deploy %d", i)
		assert.Equal(t, 1, receipt.SimpLevel.Level)
	}

	receipt, err := deploys.Record(testWallet, testRecordRequest(5))
	require.NoError(t, err)
	assert.True(t, receipt.LevelUp)
	assert.Equal(t, 2, receipt.SimpLevel.Level)
	assert.Equal(t, "Amateur Simp", receipt.SimpLevel.Title)
}

func TestRecordRankChange(t *testing.T) {
	db, deploys, _, _ := setupDeployTest(t)

	rival := "0x1111111111111111111111111111111111111111"
	require.NoError(t, db.Create(&models.Simp{
		WalletAddress: rival,
		SimpNick:      models.GenerateSimpNick(rival),
		CommonDeploys: 1,
		TotalDeploys:  1,
	}).Error)

	// new wallet starts behind the rival, first deploy ties and the earlier
	// account keeps the lead
	receipt, err := deploys.Record(testWallet, testRecordRequest(1))
	require.NoError(t, err)
	assert.Equal(t, 2, receipt.Rank)
	assert.Equal(t, 0, receipt.RankChange)

	receipt, err = deploys.Record(testWallet, testRecordRequest(2))
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.Rank)
	assert.Equal(t, 1, receipt.RankChange)
}

func TestRecordTotalsInvariant(t *testing.T) {
	_, deploys, users, _ := setupDeployTest(t)

	names := []string{
		"JAINE_BLOCKED_ME", "JAINE_PICKED_CHAD", "JAINE_SAID_EW",
		"JAINE_RESTRAINING_ORDER", "MARRY_JAINE", "JAINE_GHOSTED_ME",
	}
	for i, name := range names {
		req := testRecordRequest(i + 1)
		req.TemplateName = name
		_, err := deploys.Record(testWallet, req)
		require.NoError(t, err)
	}

	simp, err := users.ByWalletAddress(testWallet)
	require.NoError(t, err)
	sum := 0
	for _, category := range models.RarityTable {
		sum += simp.CounterFor(category.Key)
	}
	assert.Equal(t, simp.TotalDeploys, sum)
	assert.Equal(t, len(names), simp.TotalDeploys)
}

func TestDeploymentLookups(t *testing.T) {
	_, deploys, _, templates := setupDeployTest(t)

	req := testRecordRequest(1)
	receipt, err := deploys.Record(testWallet, req)
	require.NoError(t, err)

	t.Run("by tx hash", func(t *testing.T) {
		deployment, err := deploys.ByTxHash(req.TxHash)
		require.NoError(t, err)
		assert.Equal(t, receipt.Deployment.ID, deployment.ID)
		assert.Equal(t, "JAINE_BLOCKED_ME", deployment.Template.Name)

		_, err = deploys.ByTxHash("0xdeadbeef")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("by contract address", func(t *testing.T) {
		deployment, err := deploys.ByContractAddress(req.ContractAddress)
		require.NoError(t, err)
		assert.Equal(t, receipt.Deployment.ID, deployment.ID)
	})

	t.Run("by template", func(t *testing.T) {
		template, err := templates.ByName("JAINE_BLOCKED_ME")
		require.NoError(t, err)
		deployments, err := deploys.ByTemplate(template.ID, 10)
		require.NoError(t, err)
		assert.Len(t, deployments, 1)

		_, err = deploys.ByTemplate(99999, 10)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wallet history", func(t *testing.T) {
		history, err := deploys.HistoryForWallet(testWallet, 0)
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})
}

func TestDeploymentStats(t *testing.T) {
	_, deploys, _, _ := setupDeployTest(t)

	for i := 1; i <= 3; i++ {
		_, err := deploys.Record(testWallet, testRecordRequest(i))
		require.NoError(t, err)
	}
	req := testRecordRequest(4)
	req.TemplateName = "JAINE_PICKED_CHAD"
	_, err := deploys.Record(testWallet, req)
	require.NoError(t, err)

	stats, err := deploys.Stats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalDeployments)
	assert.Equal(t, 4, stats.Last24Hours)
	assert.Equal(t, 3, stats.ByRarity[models.RarityCommon])
	assert.Equal(t, 1, stats.ByRarity[models.RarityCopeHarder])
	assert.Equal(t, 0, stats.ByRarity[models.RarityLegendaryUltra])
	assert.Equal(t, "JAINE_BLOCKED_ME", stats.MostPopular)
	assert.Len(t, stats.Recent, 4)
}
