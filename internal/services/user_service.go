package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/pumpjaine/pumpjaine-backend/internal/models"
	"gorm.io/gorm"
)

// LeaderboardEntry is one annotated row of the leaderboard.
type LeaderboardEntry struct {
	Rank           int                  `json:"rank"`
	WalletAddress  string               `json:"wallet_address"`
	SimpNick       string               `json:"simp_nick"`
	TotalDeploys   int                  `json:"total_deploys"`
	AccountAgeDays int                  `json:"account_age_days"`
	FavoriteRarity models.RarityKey     `json:"favorite_rarity"`
	SimpLevel      models.LevelProgress `json:"simp_level"`
}

// UserStats is the full per-user stats payload.
type UserStats struct {
	WalletAddress string               `json:"wallet_address"`
	SimpNick      string               `json:"simp_nick"`
	Counters      models.Simp          `json:"deployment_counts"`
	Rank          int                  `json:"rank"`
	SimpLevel     models.LevelProgress `json:"simp_level"`
}

// UserSummary is the platform-wide account aggregate.
type UserSummary struct {
	TotalUsers         int     `json:"total_users"`
	TotalDeployments   int     `json:"total_deployments"`
	AverageDeployments float64 `json:"average_deployments"`
	TopSimpNick        string  `json:"top_simp_nick"`
	TopSimpDeploys     int     `json:"top_simp_deploys"`
}

// UserService is the repository over Simp accounts plus the derived rank and
// level reads. Counter mutation lives in DeployService; nothing here writes
// the per-rarity fields.
type UserService interface {
	Create(walletAddress string) (*models.Simp, error)
	ByWalletAddress(walletAddress string) (*models.Simp, error)
	GetOrCreate(walletAddress string) (*models.Simp, error)
	Stats(walletAddress string) (*UserStats, error)
	Rank(walletAddress string) (int, error)
	Leaderboard(limit int) ([]LeaderboardEntry, error)
	Summary() (*UserSummary, error)
}

type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

// Create inserts a fresh account for a wallet. Addresses are stored
// lower-cased; the nick derives from the address suffix.
func (s *userService) Create(walletAddress string) (*models.Simp, error) {
	address := models.NormalizeAddress(walletAddress)
	simp := models.Simp{
		WalletAddress: address,
		SimpNick:      models.GenerateSimpNick(address),
	}
	if err := s.db.Create(&simp).Error; err != nil {
		return nil, fmt.Errorf("create account for %s: %w", address, err)
	}
	return &simp, nil
}

// ByWalletAddress looks an account up by its normalized address.
func (s *userService) ByWalletAddress(walletAddress string) (*models.Simp, error) {
	var simp models.Simp
	err := s.db.Where("wallet_address = ?", models.NormalizeAddress(walletAddress)).First(&simp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", walletAddress, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &simp, nil
}

// GetOrCreate returns the account for a wallet, creating it on first login.
func (s *userService) GetOrCreate(walletAddress string) (*models.Simp, error) {
	simp, err := s.ByWalletAddress(walletAddress)
	if err == nil {
		return simp, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.Create(walletAddress)
}

// Stats combines the raw counters with rank and level.
func (s *userService) Stats(walletAddress string) (*UserStats, error) {
	simp, err := s.ByWalletAddress(walletAddress)
	if err != nil {
		return nil, err
	}
	rank, err := s.rankOf(simp)
	if err != nil {
		return nil, err
	}
	return &UserStats{
		WalletAddress: simp.WalletAddress,
		SimpNick:      simp.SimpNick,
		Counters:      *simp,
		Rank:          rank,
		SimpLevel:     models.LevelFor(simp.TotalDeploys),
	}, nil
}

// Rank is the 1-based leaderboard position for a wallet.
func (s *userService) Rank(walletAddress string) (int, error) {
	simp, err := s.ByWalletAddress(walletAddress)
	if err != nil {
		return 0, err
	}
	return s.rankOf(simp)
}

// rankOf counts the accounts that sort strictly ahead: more deploys, or the
// same deploys and an earlier creation. This is the same ordering the
// leaderboard lists with, so rank and list position always agree.
func (s *userService) rankOf(simp *models.Simp) (int, error) {
	var ahead int64
	err := s.db.Model(&models.Simp{}).
		Where("total_deploys > ? OR (total_deploys = ? AND created_at < ?)",
			simp.TotalDeploys, simp.TotalDeploys, simp.CreatedAt).
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}

// Leaderboard returns the top accounts ordered by (total_deploys desc,
// created_at asc), annotated with position, account age and favorite rarity.
func (s *userService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	var simps []models.Simp
	err := s.db.Order("total_deploys desc, created_at asc").Limit(limit).Find(&simps).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entries := make([]LeaderboardEntry, 0, len(simps))
	for i, simp := range simps {
		entries = append(entries, LeaderboardEntry{
			Rank:           i + 1,
			WalletAddress:  simp.WalletAddress,
			SimpNick:       simp.SimpNick,
			TotalDeploys:   simp.TotalDeploys,
			AccountAgeDays: int(now.Sub(simp.CreatedAt).Hours() / 24),
			FavoriteRarity: simp.FavoriteRarity(),
			SimpLevel:      models.LevelFor(simp.TotalDeploys),
		})
	}
	return entries, nil
}

// Summary aggregates account counts, deployment totals and the current top
// simp.
func (s *userService) Summary() (*UserSummary, error) {
	var totalUsers int64
	if err := s.db.Model(&models.Simp{}).Count(&totalUsers).Error; err != nil {
		return nil, err
	}

	summary := &UserSummary{TotalUsers: int(totalUsers)}
	if totalUsers == 0 {
		return summary, nil
	}

	var totalDeploys int64
	err := s.db.Model(&models.Simp{}).Select("COALESCE(SUM(total_deploys), 0)").Scan(&totalDeploys).Error
	if err != nil {
		return nil, err
	}
	summary.TotalDeployments = int(totalDeploys)
	summary.AverageDeployments = float64(totalDeploys) / float64(totalUsers)

	var top models.Simp
	err = s.db.Order("total_deploys desc, created_at asc").First(&top).Error
	if err != nil {
		return nil, err
	}
	summary.TopSimpNick = top.SimpNick
	summary.TopSimpDeploys = top.TotalDeploys
	return summary, nil
}
