package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pumpjaine/pumpjaine-backend/internal/models"
	"github.com/pumpjaine/pumpjaine-backend/internal/utils"
	"gorm.io/gorm"
)

const (
	nonceLifetime = 10 * time.Minute
	tokenLifetime = 24 * time.Hour
)

// NonceChallenge is the sign-in challenge handed to a wallet.
type NonceChallenge struct {
	Nonce     string    `json:"nonce"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResult is returned after a successful signature verification.
type AuthResult struct {
	Token         string       `json:"token"`
	ExpiresAt     time.Time    `json:"expires_at"`
	WalletAddress string       `json:"wallet_address"`
	SimpNick      string       `json:"simp_nick"`
	NewUser       bool         `json:"new_user"`
	User          *models.Simp `json:"user"`
}

// accessClaims binds a JWT to its backing session row via the jti claim, so a
// logout invalidates the token before its own expiry.
type accessClaims struct {
	WalletAddress string `json:"wallet_address"`
	jwt.RegisteredClaims
}

// AuthService implements sign-in-with-Ethereum: a nonce challenge, signature
// verification against the issued message, and session-backed access tokens.
type AuthService interface {
	IssueNonce(walletAddress string) (*NonceChallenge, error)
	VerifySignature(message, signature string) (*AuthResult, error)
	ValidateToken(token string) (string, error)
	Logout(token string) error
	PurgeExpired() (int64, error)
}

type authService struct {
	db      *gorm.DB
	users   UserService
	secret  []byte
	domain  string
	uri     string
	chainID int
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *gorm.DB, users UserService, jwtSecret, domain, uri string, chainID int) AuthService {
	return &authService{
		db:      db,
		users:   users,
		secret:  []byte(jwtSecret),
		domain:  domain,
		uri:     uri,
		chainID: chainID,
	}
}

// IssueNonce creates the challenge a wallet must sign. Any previous unexpired
// nonce for the same wallet is purged first, so at most one challenge is
// outstanding per address.
func (s *authService) IssueNonce(walletAddress string) (*NonceChallenge, error) {
	if !utils.IsHexAddress(walletAddress) {
		return nil, fmt.Errorf("invalid wallet address %s: %w", walletAddress, ErrValidation)
	}
	address := models.NormalizeAddress(walletAddress)

	err := s.db.
		Where("wallet_address = ? AND (kind = ? OR expires_at < ?)",
			address, models.SessionKindNonce, time.Now()).
		Delete(&models.Session{}).Error
	if err != nil {
		return nil, err
	}

	nonce, err := randomNonce()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := models.Session{
		ID:            uuid.NewString(),
		WalletAddress: address,
		Nonce:         nonce,
		Kind:          models.SessionKindNonce,
		ExpiresAt:     now.Add(nonceLifetime),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}

	message := utils.NewSiweMessage(s.domain, s.uri, s.chainID, walletAddress, nonce, now)
	return &NonceChallenge{
		Nonce:     nonce,
		Message:   message.Prepare(),
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// VerifySignature checks a signed sign-in message against the outstanding
// nonce, consumes the nonce, lazily creates the account, and mints a
// session-backed access token.
func (s *authService) VerifySignature(rawMessage, signature string) (*AuthResult, error) {
	message, err := utils.ParseSiweMessage(rawMessage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err, ErrValidation)
	}

	now := time.Now()
	if message.Expired(now) {
		return nil, fmt.Errorf("sign-in message expired: %w", ErrUnauthorized)
	}
	if message.Domain != s.domain {
		return nil, fmt.Errorf("sign-in message for wrong domain %s: %w", message.Domain, ErrUnauthorized)
	}
	if message.ChainID != s.chainID {
		return nil, fmt.Errorf("sign-in message for wrong chain %d: %w", message.ChainID, ErrUnauthorized)
	}

	ok, err := utils.VerifyPersonalSignature(rawMessage, signature, message.Address)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err, ErrUnauthorized)
	}
	if !ok {
		return nil, fmt.Errorf("signature does not match %s: %w", message.Address, ErrUnauthorized)
	}

	address := models.NormalizeAddress(message.Address)
	var nonceSession models.Session
	err = s.db.
		Where("nonce = ? AND kind = ?", message.Nonce, models.SessionKindNonce).
		First(&nonceSession).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("unknown or already used nonce: %w", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if nonceSession.WalletAddress != address {
		return nil, fmt.Errorf("nonce was issued to a different wallet: %w", ErrUnauthorized)
	}
	if nonceSession.Expired(now) {
		s.db.Delete(&nonceSession)
		return nil, fmt.Errorf("nonce expired: %w", ErrUnauthorized)
	}

	// consume the challenge before minting anything
	if err := s.db.Delete(&nonceSession).Error; err != nil {
		return nil, err
	}

	newUser := false
	simp, err := s.users.ByWalletAddress(address)
	if errors.Is(err, ErrNotFound) {
		simp, err = s.users.Create(address)
		newUser = true
	}
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	expiresAt := now.Add(tokenLifetime)
	tokenSession := models.Session{
		ID:            sessionID,
		WalletAddress: address,
		Nonce:         sessionID, // token sessions reuse the id to satisfy the unique nonce column
		Kind:          models.SessionKindToken,
		ExpiresAt:     expiresAt,
	}
	if err := s.db.Create(&tokenSession).Error; err != nil {
		return nil, err
	}

	claims := accessClaims{
		WalletAddress: address,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   address,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Token:         token,
		ExpiresAt:     expiresAt,
		WalletAddress: address,
		SimpNick:      simp.SimpNick,
		NewUser:       newUser,
		User:          simp,
	}, nil
}

// ValidateToken verifies the JWT signature and the live session behind it,
// returning the authenticated wallet address.
func (s *authService) ValidateToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}

	var session models.Session
	err = s.db.
		Where("id = ? AND kind = ?", claims.ID, models.SessionKindToken).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("session revoked: %w", ErrUnauthorized)
	}
	if err != nil {
		return "", err
	}
	if session.Expired(time.Now()) {
		s.db.Delete(&session)
		return "", fmt.Errorf("session expired: %w", ErrUnauthorized)
	}

	return session.WalletAddress, nil
}

// Logout revokes every session for the wallet behind a token, nonces
// included. Logging out an already revoked token is not an error.
func (s *authService) Logout(token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return err
	}
	return s.db.
		Where("wallet_address = ?", claims.WalletAddress).
		Delete(&models.Session{}).Error
}

// PurgeExpired deletes every expired session row, nonce and token alike.
func (s *authService) PurgeExpired() (int64, error) {
	result := s.db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}

func (s *authService) parseToken(token string) (*accessClaims, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("invalid token: %w", ErrUnauthorized)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("token has no session id: %w", ErrUnauthorized)
	}
	return claims, nil
}

func randomNonce() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return strings.ToLower(hex.EncodeToString(buf[:])), nil
}
