package models

import (
	"fmt"
	"strings"
	"time"
)

// Simp is a per-wallet aggregate of deployment counters. TotalDeploys must
// always equal the sum of the six per-rarity counters; the only code path that
// mutates these fields is the deployment-recording transaction.
type Simp struct {
	ID                       uint      `gorm:"primaryKey" json:"id"`
	WalletAddress            string    `gorm:"uniqueIndex;not null" json:"wallet_address"`
	SimpNick                 string    `gorm:"uniqueIndex;not null" json:"simp_nick"`
	CommonDeploys            int       `gorm:"not null;default:0" json:"common_deploys"`
	CopeHarderDeploys        int       `gorm:"not null;default:0" json:"cope_harder_deploys"`
	MaximumCopeDeploys       int       `gorm:"not null;default:0" json:"maximum_cope_deploys"`
	UltimateRejectionDeploys int       `gorm:"not null;default:0" json:"ultimate_rejection_deploys"`
	AscendedSimpDeploys      int       `gorm:"not null;default:0" json:"ascended_simp_deploys"`
	LegendaryUltraDeploys    int       `gorm:"not null;default:0" json:"legendary_ultra_deploys"`
	TotalDeploys             int       `gorm:"not null;default:0" json:"total_deploys"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// rarityColumns maps each rarity key to the counter column it increments.
// Declared-order iteration elsewhere relies on RarityTable, not this map.
var rarityColumns = map[RarityKey]string{
	RarityCommon:            "common_deploys",
	RarityCopeHarder:        "cope_harder_deploys",
	RarityMaximumCope:       "maximum_cope_deploys",
	RarityUltimateRejection: "ultimate_rejection_deploys",
	RarityAscendedSimp:      "ascended_simp_deploys",
	RarityLegendaryUltra:    "legendary_ultra_deploys",
}

// RarityColumn returns the Simp counter column for a rarity key.
func RarityColumn(key RarityKey) (string, error) {
	column, ok := rarityColumns[key]
	if !ok {
		return "", fmt.Errorf("no counter column for rarity %s", key)
	}
	return column, nil
}

// CounterFor returns the per-rarity counter value for a rarity key.
func (s *Simp) CounterFor(key RarityKey) int {
	switch key {
	case RarityCommon:
		return s.CommonDeploys
	case RarityCopeHarder:
		return s.CopeHarderDeploys
	case RarityMaximumCope:
		return s.MaximumCopeDeploys
	case RarityUltimateRejection:
		return s.UltimateRejectionDeploys
	case RarityAscendedSimp:
		return s.AscendedSimpDeploys
	case RarityLegendaryUltra:
		return s.LegendaryUltraDeploys
	default:
		return 0
	}
}

// FavoriteRarity is the rarity with the highest counter. Ties resolve to the
// first declared category in RarityTable order.
func (s *Simp) FavoriteRarity() RarityKey {
	favorite := RarityTable[0].Key
	best := s.CounterFor(favorite)
	for _, category := range RarityTable[1:] {
		if count := s.CounterFor(category.Key); count > best {
			favorite = category.Key
			best = count
		}
	}
	return favorite
}

// GenerateSimpNick derives the deterministic nick for a wallet address:
// "simp_" plus the lower-cased last four hex characters.
func GenerateSimpNick(walletAddress string) string {
	address := strings.ToLower(walletAddress)
	if len(address) > 4 {
		address = address[len(address)-4:]
	}
	return "simp_" + address
}

// NormalizeAddress lower-cases a wallet address; accounts are keyed on the
// normalized form.
func NormalizeAddress(walletAddress string) string {
	return strings.ToLower(walletAddress)
}
