package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0x1234567890AbCdEf1234567890aBcDeF12345678"

func TestPrepareParseRoundTrip(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	message := NewSiweMessage("pumpjaine.fun", "https://pumpjaine.fun", 16601, testAddress, "nonce-123", issued)

	parsed, err := ParseSiweMessage(message.Prepare())
	require.NoError(t, err)

	assert.Equal(t, "pumpjaine.fun", parsed.Domain)
	assert.Equal(t, testAddress, parsed.Address)
	assert.Equal(t, "https://pumpjaine.fun", parsed.URI)
	assert.Equal(t, "1", parsed.Version)
	assert.Equal(t, 16601, parsed.ChainID)
	assert.Equal(t, "nonce-123", parsed.Nonce)
	assert.Equal(t, issued, parsed.IssuedAt.UTC())
	assert.Equal(t, issued.Add(10*time.Minute), parsed.ExpirationTime.UTC())
	assert.Equal(t, SiweStatement, parsed.Statement)
}

func TestPrepareFormat(t *testing.T) {
	message := NewSiweMessage("pumpjaine.fun", "https://pumpjaine.fun", 16601, testAddress, "nonce-123", time.Now())
	wire := message.Prepare()

	assert.Contains(t, wire, "pumpjaine.fun wants you to sign in with your Ethereum account:")
	assert.Contains(t, wire, testAddress)
	assert.Contains(t, wire, "Chain ID: 16601")
	assert.Contains(t, wire, "Nonce: nonce-123")
}

func TestParseSiweMessageRejections(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		_, err := ParseSiweMessage("hello")
		assert.Error(t, err)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := ParseSiweMessage("hello\nworld")
		assert.Error(t, err)
	})

	t.Run("invalid address", func(t *testing.T) {
		_, err := ParseSiweMessage("x wants you to sign in with your Ethereum account:\nnot-an-address\n\nNonce: abc")
		assert.Error(t, err)
	})

	t.Run("missing nonce", func(t *testing.T) {
		_, err := ParseSiweMessage("x wants you to sign in with your Ethereum account:\n" + testAddress + "\n\nURI: https://x")
		assert.Error(t, err)
	})
}

func TestSiweMessageExpired(t *testing.T) {
	issued := time.Now()
	message := NewSiweMessage("pumpjaine.fun", "https://pumpjaine.fun", 16601, testAddress, "n", issued)

	assert.False(t, message.Expired(issued.Add(5*time.Minute)))
	assert.True(t, message.Expired(issued.Add(11*time.Minute)))

	t.Run("no expiration never expires", func(t *testing.T) {
		bare := SiweMessage{}
		assert.False(t, bare.Expired(time.Now().Add(1000 * time.Hour)))
	})
}
