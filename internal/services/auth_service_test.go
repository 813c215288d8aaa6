package services

import (
	"crypto/ecdsa"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pumpjaine/pumpjaine-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-test-secret-test-secret-test"

func setupAuthTest(t *testing.T) (*gorm.DB, AuthService, UserService) {
	db := setupTestDB(t)
	users := NewUserService(db)
	auth := NewAuthService(db, users, testJWTSecret, "pumpjaine.fun", "https://pumpjaine.fun", 16601)
	return db, auth, users
}

func newTestWallet(t *testing.T) (*ecdsa.PrivateKey, string) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func signMessage(t *testing.T, key *ecdsa.PrivateKey, message string) string {
	signature, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	signature[64] += 27 // wallet-style recovery id
	return hexutil.Encode(signature)
}

func TestIssueNonce(t *testing.T) {
	db, auth, _ := setupAuthTest(t)
	_, address := newTestWallet(t)

	challenge, err := auth.IssueNonce(address)
	require.NoError(t, err)
	assert.NotEmpty(t, challenge.Nonce)
	assert.Contains(t, challenge.Message, address)
	assert.Contains(t, challenge.Message, challenge.Nonce)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), challenge.ExpiresAt, 5*time.Second)

	t.Run("rejects malformed addresses", func(t *testing.T) {
		_, err := auth.IssueNonce("not-an-address")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("one outstanding nonce per wallet", func(t *testing.T) {
		second, err := auth.IssueNonce(address)
		require.NoError(t, err)
		assert.NotEqual(t, challenge.Nonce, second.Nonce)

		var count int64
		err = db.Model(&models.Session{}).
			Where("wallet_address = ? AND kind = ?", models.NormalizeAddress(address), models.SessionKindNonce).
			Count(&count).Error
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

func TestVerifySignature(t *testing.T) {
	_, auth, users := setupAuthTest(t)
	key, address := newTestWallet(t)

	challenge, err := auth.IssueNonce(address)
	require.NoError(t, err)
	signature := signMessage(t, key, challenge.Message)

	result, err := auth.VerifySignature(challenge.Message, signature)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, models.NormalizeAddress(address), result.WalletAddress)
	assert.True(t, result.NewUser)
	assert.Equal(t, models.GenerateSimpNick(address), result.SimpNick)

	t.Run("token authenticates the wallet", func(t *testing.T) {
		wallet, err := auth.ValidateToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, models.NormalizeAddress(address), wallet)
	})

	t.Run("nonce is single use", func(t *testing.T) {
		_, err := auth.VerifySignature(challenge.Message, signature)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("second sign-in is not a new user", func(t *testing.T) {
		challenge, err := auth.IssueNonce(address)
		require.NoError(t, err)
		result, err := auth.VerifySignature(challenge.Message, signMessage(t, key, challenge.Message))
		require.NoError(t, err)
		assert.False(t, result.NewUser)

		_, err = users.ByWalletAddress(address)
		assert.NoError(t, err)
	})
}

func TestVerifySignatureRejectsWrongSigner(t *testing.T) {
	_, auth, _ := setupAuthTest(t)
	_, address := newTestWallet(t)
	intruder, _ := newTestWallet(t)

	challenge, err := auth.IssueNonce(address)
	require.NoError(t, err)

	_, err = auth.VerifySignature(challenge.Message, signMessage(t, intruder, challenge.Message))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifySignatureRejectsTamperedMessage(t *testing.T) {
	_, auth, _ := setupAuthTest(t)
	key, address := newTestWallet(t)

	challenge, err := auth.IssueNonce(address)
	require.NoError(t, err)

	// signing a message for another domain must not authenticate here
	tampered := "evil.example" + challenge.Message[len("pumpjaine.fun"):]
	_, err = auth.VerifySignature(tampered, signMessage(t, key, tampered))
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout(t *testing.T) {
	_, auth, _ := setupAuthTest(t)
	key, address := newTestWallet(t)

	challenge, err := auth.IssueNonce(address)
	require.NoError(t, err)
	result, err := auth.VerifySignature(challenge.Message, signMessage(t, key, challenge.Message))
	require.NoError(t, err)

	require.NoError(t, auth.Logout(result.Token))

	_, err = auth.ValidateToken(result.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	t.Run("repeated logout is harmless", func(t *testing.T) {
		assert.NoError(t, auth.Logout(result.Token))
	})
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, auth, _ := setupAuthTest(t)

	_, err := auth.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestPurgeExpired(t *testing.T) {
	db, auth, _ := setupAuthTest(t)

	require.NoError(t, db.Create(&models.Session{
		ID:            "expired-session",
		WalletAddress: "0x1111111111111111111111111111111111111111",
		Nonce:         "expired-nonce",
		Kind:          models.SessionKindNonce,
		ExpiresAt:     time.Now().Add(-time.Minute),
	}).Error)
	require.NoError(t, db.Create(&models.Session{
		ID:            "live-session",
		WalletAddress: "0x1111111111111111111111111111111111111111",
		Nonce:         "live-nonce",
		Kind:          models.SessionKindToken,
		ExpiresAt:     time.Now().Add(time.Hour),
	}).Error)

	purged, err := auth.PurgeExpired()
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
