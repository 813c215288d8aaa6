package models

import "time"

// Deployment is an append-only record of one on-chain deployment. The unique
// index on TxHash is the sole idempotency guard: two concurrent attempts to
// record the same hash resolve to one insert and one constraint violation.
type Deployment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	WalletAddress   string    `gorm:"index;not null" json:"wallet_address"`
	ContractAddress string    `gorm:"index;not null" json:"contract_address"`
	TemplateID      uint      `gorm:"not null" json:"template_id"`
	TxHash          string    `gorm:"uniqueIndex;not null" json:"tx_hash"`
	BlockNumber     *int64    `json:"block_number,omitempty"`
	GasUsed         *string   `json:"gas_used,omitempty"`
	CreatedAt       time.Time `json:"created_at"`

	Template ContractTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
}
