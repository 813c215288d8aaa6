package models

import "time"

// ContractTemplate is a seeded, never-deleted contract source reference tagged
// with a rarity. TotalDeployments is mutated only by the deployment-recording
// transaction, through an atomic increment.
type ContractTemplate struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"uniqueIndex;not null" json:"name"`
	Rarity           RarityKey `gorm:"index;not null" json:"rarity"`
	SourcePath       string    `gorm:"not null" json:"source_path"`
	Description      string    `json:"description"`
	TotalDeployments int       `gorm:"not null;default:0" json:"total_deployments"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
