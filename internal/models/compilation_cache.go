package models

import "time"

// CompilationCache stores one compiled artifact keyed by the hash of source
// text plus compiler settings. Rows are deleted on TTL expiry or evicted in
// bulk (oldest first) when the table reaches capacity.
type CompilationCache struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TemplateID uint      `gorm:"index;not null" json:"template_id"`
	SourceHash string    `gorm:"uniqueIndex;not null" json:"source_hash"`
	ABI        string    `gorm:"type:text;not null" json:"abi"`
	Bytecode   string    `gorm:"type:text;not null" json:"bytecode"`
	Metadata   string    `gorm:"type:text" json:"metadata"`
	CompiledAt time.Time `gorm:"index;not null" json:"compiled_at"`
}
