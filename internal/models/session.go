package models

import "time"

type SessionKind string

const (
	// SessionKindNonce is a short-lived challenge issued before sign-in. At
	// most one unexpired nonce session exists per wallet; issuing a new one
	// purges the old.
	SessionKindNonce SessionKind = "nonce"
	// SessionKindToken backs an access token for 24 hours after sign-in.
	SessionKindToken SessionKind = "token"
)

// Session rows are consumed on successful verification or logout and
// garbage-collected once expired.
type Session struct {
	ID            string      `gorm:"primaryKey" json:"id"`
	WalletAddress string      `gorm:"index;not null" json:"wallet_address"`
	Nonce         string      `gorm:"uniqueIndex;not null" json:"nonce"`
	Kind          SessionKind `gorm:"not null;default:nonce" json:"kind"`
	ExpiresAt     time.Time   `gorm:"not null" json:"expires_at"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
