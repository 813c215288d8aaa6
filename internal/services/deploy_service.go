package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pumpjaine/pumpjaine-backend/internal/models"
	"gorm.io/gorm"
)

// RecordDeploymentRequest is the input for recording one on-chain deployment.
type RecordDeploymentRequest struct {
	TemplateName    string  `json:"template_name" validate:"required"`
	ContractAddress string  `json:"contract_address" validate:"required"`
	TxHash          string  `json:"tx_hash" validate:"required"`
	BlockNumber     *int64  `json:"block_number,omitempty"`
	GasUsed         *string `json:"gas_used,omitempty"`
}

// DeploymentReceipt is the enriched response after a deployment is recorded.
type DeploymentReceipt struct {
	Deployment   models.Deployment    `json:"deployment"`
	Rarity       models.RarityKey     `json:"rarity"`
	RarityScore  float64              `json:"rarity_score"`
	TotalDeploys int                  `json:"total_deploys"`
	Rank         int                  `json:"rank"`
	RankChange   int                  `json:"rank_change"`
	SimpLevel    models.LevelProgress `json:"simp_level"`
	LevelUp      bool                 `json:"level_up"`
}

// DeploymentStats is the platform-wide deployment aggregate.
type DeploymentStats struct {
	TotalDeployments int                      `json:"total_deployments"`
	Last24Hours      int                      `json:"last_24_hours"`
	ByRarity         map[models.RarityKey]int `json:"by_rarity"`
	MostPopular      string                   `json:"most_popular_template"`
	Recent           []models.Deployment      `json:"recent"`
}

// DeployService is the append-only deployment ledger. Record is the single
// write path that also mutates the per-user and per-template counters.
type DeployService interface {
	Record(walletAddress string, req RecordDeploymentRequest) (*DeploymentReceipt, error)
	ByTxHash(txHash string) (*models.Deployment, error)
	ByContractAddress(contractAddress string) (*models.Deployment, error)
	ByTemplate(templateID uint, limit int) ([]models.Deployment, error)
	HistoryForWallet(walletAddress string, limit int) ([]models.Deployment, error)
	Stats() (*DeploymentStats, error)
}

type deployService struct {
	db        *gorm.DB
	templates TemplateService
	users     UserService
}

// NewDeployService creates a new DeployService.
func NewDeployService(db *gorm.DB, templates TemplateService, users UserService) DeployService {
	return &deployService{db: db, templates: templates, users: users}
}

// Record writes one deployment and bumps the derived counters. The flow is:
// resolve the template, reject a duplicate tx hash, snapshot the rank, then in
// one transaction insert the row and increment the user and template counters
// with atomic UPDATEs. Rank change and level-up are computed against the
// pre-transaction snapshot.
func (s *deployService) Record(walletAddress string, req RecordDeploymentRequest) (*DeploymentReceipt, error) {
	template, err := s.templates.ByName(req.TemplateName)
	if err != nil {
		return nil, err
	}

	txHash := strings.ToLower(req.TxHash)
	var existing models.Deployment
	err = s.db.Where("tx_hash = ?", txHash).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("deployment %s already recorded: %w", txHash, ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	simp, err := s.users.GetOrCreate(walletAddress)
	if err != nil {
		return nil, err
	}
	rankBefore, err := s.users.Rank(simp.WalletAddress)
	if err != nil {
		return nil, err
	}
	totalBefore := simp.TotalDeploys

	column, err := models.RarityColumn(template.Rarity)
	if err != nil {
		return nil, err
	}

	deployment := models.Deployment{
		WalletAddress:   simp.WalletAddress,
		ContractAddress: models.NormalizeAddress(req.ContractAddress),
		TemplateID:      template.ID,
		TxHash:          txHash,
		BlockNumber:     req.BlockNumber,
		GasUsed:         req.GasUsed,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&deployment).Error; err != nil {
			// a concurrent insert of the same tx hash loses here
			if isUniqueViolation(err) {
				return fmt.Errorf("deployment %s already recorded: %w", txHash, ErrConflict)
			}
			return err
		}

		result := tx.Model(&models.Simp{}).
			Where("id = ?", simp.ID).
			UpdateColumns(map[string]any{
				column:          gorm.Expr(column+" + ?", 1),
				"total_deploys": gorm.Expr("total_deploys + ?", 1),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("user %s vanished during record: %w", simp.WalletAddress, ErrNotFound)
		}

		increment := tx.Model(&models.ContractTemplate{}).
			Where("id = ?", template.ID).
			UpdateColumn("total_deployments", gorm.Expr("total_deployments + ?", 1))
		if increment.Error != nil {
			return increment.Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.users.ByWalletAddress(simp.WalletAddress)
	if err != nil {
		return nil, err
	}
	rankAfter, err := s.users.Rank(updated.WalletAddress)
	if err != nil {
		return nil, err
	}

	deployment.Template = *template
	return &DeploymentReceipt{
		Deployment:   deployment,
		Rarity:       template.Rarity,
		RarityScore:  models.RarityScore(template.Rarity),
		TotalDeploys: updated.TotalDeploys,
		Rank:         rankAfter,
		RankChange:   rankBefore - rankAfter,
		SimpLevel:    models.LevelFor(updated.TotalDeploys),
		LevelUp:      models.LeveledUp(totalBefore, updated.TotalDeploys),
	}, nil
}

// isUniqueViolation matches the duplicate-key errors sqlite and postgres
// drivers surface through GORM.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// ByTxHash returns the deployment recorded under a transaction hash.
func (s *deployService) ByTxHash(txHash string) (*models.Deployment, error) {
	var deployment models.Deployment
	err := s.db.Preload("Template").Where("tx_hash = ?", strings.ToLower(txHash)).First(&deployment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("deployment %s: %w", txHash, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// ByContractAddress returns the deployment recorded for a contract address.
func (s *deployService) ByContractAddress(contractAddress string) (*models.Deployment, error) {
	var deployment models.Deployment
	err := s.db.Preload("Template").
		Where("contract_address = ?", models.NormalizeAddress(contractAddress)).
		First(&deployment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("deployment at %s: %w", contractAddress, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// ByTemplate lists the latest deployments of one template.
func (s *deployService) ByTemplate(templateID uint, limit int) ([]models.Deployment, error) {
	if _, err := s.templates.ByID(templateID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var deployments []models.Deployment
	err := s.db.Preload("Template").
		Where("template_id = ?", templateID).
		Order("created_at desc").
		Limit(limit).
		Find(&deployments).Error
	return deployments, err
}

// HistoryForWallet lists a wallet's deployments newest first.
func (s *deployService) HistoryForWallet(walletAddress string, limit int) ([]models.Deployment, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var deployments []models.Deployment
	err := s.db.Preload("Template").
		Where("wallet_address = ?", models.NormalizeAddress(walletAddress)).
		Order("created_at desc").
		Limit(limit).
		Find(&deployments).Error
	return deployments, err
}

// Stats aggregates ledger totals, the trailing 24h window, the per-rarity
// split and the ten most recent deployments.
func (s *deployService) Stats() (*DeploymentStats, error) {
	stats := &DeploymentStats{ByRarity: make(map[models.RarityKey]int)}

	var total int64
	if err := s.db.Model(&models.Deployment{}).Count(&total).Error; err != nil {
		return nil, err
	}
	stats.TotalDeployments = int(total)

	var recent24 int64
	cutoff := time.Now().Add(-24 * time.Hour)
	err := s.db.Model(&models.Deployment{}).Where("created_at > ?", cutoff).Count(&recent24).Error
	if err != nil {
		return nil, err
	}
	stats.Last24Hours = int(recent24)

	type rarityRow struct {
		Rarity models.RarityKey
		Count  int
	}
	var rows []rarityRow
	err = s.db.Model(&models.Deployment{}).
		Select("contract_templates.rarity as rarity, COUNT(deployments.id) as count").
		Joins("JOIN contract_templates ON contract_templates.id = deployments.template_id").
		Group("contract_templates.rarity").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, category := range models.RarityTable {
		stats.ByRarity[category.Key] = 0
	}
	for _, row := range rows {
		stats.ByRarity[row.Rarity] = row.Count
	}

	var popular models.ContractTemplate
	err = s.db.Order("total_deployments desc, name asc").First(&popular).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		stats.MostPopular = popular.Name
	}

	var recent []models.Deployment
	err = s.db.Preload("Template").Order("created_at desc").Limit(10).Find(&recent).Error
	if err != nil {
		return nil, err
	}
	stats.Recent = recent

	return stats, nil
}
