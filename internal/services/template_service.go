package services

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/pumpjaine/pumpjaine-backend/internal/contracts"
	"github.com/pumpjaine/pumpjaine-backend/internal/models"
	"gorm.io/gorm"
)

// TemplateStats is the aggregate template/deployment summary.
type TemplateStats struct {
	TotalTemplates   int                      `json:"total_templates"`
	TotalDeployments int                      `json:"total_deployments"`
	ByRarity         map[models.RarityKey]int `json:"by_rarity"`
	MostPopular      TemplateStatEntry        `json:"most_popular"`
	LeastDeployed    TemplateStatEntry        `json:"least_deployed"`
}

type TemplateStatEntry struct {
	Name        string           `json:"name"`
	Rarity      models.RarityKey `json:"rarity"`
	Deployments int              `json:"deployments"`
}

// RarityDistributionEntry aggregates templates and deployments per rarity.
type RarityDistributionEntry struct {
	Rarity           models.RarityKey `json:"rarity"`
	Name             string           `json:"name"`
	TemplateCount    int              `json:"template_count"`
	TotalDeployments int              `json:"total_deployments"`
	Weight           float64          `json:"weight"`
	Color            string           `json:"color"`
}

// TemplateService is the repository over seeded contract templates.
type TemplateService interface {
	Seed() error
	ByName(name string) (*models.ContractTemplate, error)
	ByID(id uint) (*models.ContractTemplate, error)
	RandomByRarity(rarity models.RarityKey) (*models.ContractTemplate, error)
	List() ([]models.ContractTemplate, error)
	ListByRarity(rarity models.RarityKey) ([]models.ContractTemplate, error)
	Search(query string) ([]models.ContractTemplate, error)
	IncrementDeployments(id uint) error
	Stats() (*TemplateStats, error)
	RarityDistribution() ([]RarityDistributionEntry, error)
	Source(template *models.ContractTemplate) (string, error)
}

type templateService struct {
	db *gorm.DB
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(db *gorm.DB) TemplateService {
	return &templateService{db: db}
}

// Seed inserts the embedded template definitions when the table is empty.
// Seeding is idempotent and verifies every source file actually exists in the
// embedded filesystem before inserting its row.
func (s *templateService) Seed() error {
	var count int64
	if err := s.db.Model(&models.ContractTemplate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, definition := range contracts.Definitions {
		if _, err := contracts.Source(definition.SourcePath); err != nil {
			return fmt.Errorf("seed template %s: %w", definition.Name, err)
		}
		template := models.ContractTemplate{
			Name:        definition.Name,
			Rarity:      definition.Rarity,
			SourcePath:  definition.SourcePath,
			Description: definition.Description,
		}
		if err := s.db.Create(&template).Error; err != nil {
			return fmt.Errorf("seed template %s: %w", definition.Name, err)
		}
	}
	return nil
}

// ByName returns a template by its unique name.
func (s *templateService) ByName(name string) (*models.ContractTemplate, error) {
	var template models.ContractTemplate
	err := s.db.Where("name = ?", name).First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("template %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// ByID returns a template by primary key.
func (s *templateService) ByID(id uint) (*models.ContractTemplate, error) {
	var template models.ContractTemplate
	err := s.db.First(&template, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("template %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// RandomByRarity picks uniformly among the templates of one rarity.
func (s *templateService) RandomByRarity(rarity models.RarityKey) (*models.ContractTemplate, error) {
	if !models.IsValidRarity(rarity) {
		return nil, fmt.Errorf("invalid rarity %s: %w", rarity, ErrNotFound)
	}

	var templates []models.ContractTemplate
	if err := s.db.Where("rarity = ?", rarity).Find(&templates).Error; err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("no templates for rarity %s: %w", rarity, ErrNotFound)
	}

	return &templates[rand.Intn(len(templates))], nil
}

// List returns every template ordered by rarity then name.
func (s *templateService) List() ([]models.ContractTemplate, error) {
	var templates []models.ContractTemplate
	err := s.db.Order("rarity asc, name asc").Find(&templates).Error
	return templates, err
}

// ListByRarity returns the templates of one rarity ordered by name.
func (s *templateService) ListByRarity(rarity models.RarityKey) ([]models.ContractTemplate, error) {
	if !models.IsValidRarity(rarity) {
		return nil, fmt.Errorf("invalid rarity %s: %w", rarity, ErrNotFound)
	}
	var templates []models.ContractTemplate
	err := s.db.Where("rarity = ?", rarity).Order("name asc").Find(&templates).Error
	return templates, err
}

// Search matches name and description case-insensitively, most deployed
// first.
func (s *templateService) Search(query string) ([]models.ContractTemplate, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var templates []models.ContractTemplate
	err := s.db.
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("total_deployments desc").
		Find(&templates).Error
	return templates, err
}

// IncrementDeployments bumps the per-template counter with an atomic UPDATE,
// never read-modify-write.
func (s *templateService) IncrementDeployments(id uint) error {
	result := s.db.Model(&models.ContractTemplate{}).
		Where("id = ?", id).
		UpdateColumn("total_deployments", gorm.Expr("total_deployments + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("template %d: %w", id, ErrNotFound)
	}
	return nil
}

// Stats aggregates template counts and deployment totals.
func (s *templateService) Stats() (*TemplateStats, error) {
	var templates []models.ContractTemplate
	if err := s.db.Order("total_deployments desc, name asc").Find(&templates).Error; err != nil {
		return nil, err
	}

	stats := &TemplateStats{
		TotalTemplates: len(templates),
		ByRarity:       make(map[models.RarityKey]int),
	}
	for _, template := range templates {
		stats.TotalDeployments += template.TotalDeployments
		stats.ByRarity[template.Rarity]++
	}
	if len(templates) > 0 {
		most := templates[0]
		least := templates[len(templates)-1]
		stats.MostPopular = TemplateStatEntry{Name: most.Name, Rarity: most.Rarity, Deployments: most.TotalDeployments}
		stats.LeastDeployed = TemplateStatEntry{Name: least.Name, Rarity: least.Rarity, Deployments: least.TotalDeployments}
	}
	return stats, nil
}

// RarityDistribution aggregates per-rarity template and deployment counts,
// annotated with the static table configuration.
func (s *templateService) RarityDistribution() ([]RarityDistributionEntry, error) {
	type row struct {
		Rarity           models.RarityKey
		TemplateCount    int
		TotalDeployments int
	}
	var rows []row
	err := s.db.Model(&models.ContractTemplate{}).
		Select("rarity, COUNT(id) as template_count, SUM(total_deployments) as total_deployments").
		Group("rarity").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byRarity := make(map[models.RarityKey]row, len(rows))
	for _, r := range rows {
		byRarity[r.Rarity] = r
	}

	entries := make([]RarityDistributionEntry, 0, len(models.RarityTable))
	for _, category := range models.RarityTable {
		r := byRarity[category.Key]
		entries = append(entries, RarityDistributionEntry{
			Rarity:           category.Key,
			Name:             category.Name,
			TemplateCount:    r.TemplateCount,
			TotalDeployments: r.TotalDeployments,
			Weight:           category.Weight,
			Color:            category.Color,
		})
	}
	return entries, nil
}

// Source reads the embedded Solidity source for a template.
func (s *templateService) Source(template *models.ContractTemplate) (string, error) {
	source, err := contracts.Source(template.SourcePath)
	if err != nil {
		return "", fmt.Errorf("source for template %s: %w", template.Name, ErrNotFound)
	}
	return source, nil
}
