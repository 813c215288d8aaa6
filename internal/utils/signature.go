package utils

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverAddress recovers the Ethereum address that produced a personal_sign
// signature over message.
func RecoverAddress(signature, message string) (string, error) {
	if !strings.HasPrefix(signature, "0x") {
		return "", fmt.Errorf("signature must start with 0x")
	}

	sigData, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("failed to decode signature: %w", err)
	}

	// 65 bytes: r(32) + s(32) + v(1)
	if len(sigData) != 65 {
		return "", fmt.Errorf("signature must be exactly 65 bytes")
	}

	messageHash := accounts.TextHash([]byte(message))

	// go-ethereum expects v to be 0 or 1, but wallets return 27 or 28
	if sigData[64] >= 27 {
		sigData[64] -= 27
	}

	publicKey, err := crypto.SigToPub(messageHash, sigData)
	if err != nil {
		return "", fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*publicKey).Hex(), nil
}

// VerifyPersonalSignature verifies that signature was created over message by
// signerAddress. The address comparison is case-insensitive.
func VerifyPersonalSignature(message, signature, signerAddress string) (bool, error) {
	if message == "" {
		return false, fmt.Errorf("message cannot be empty")
	}
	if signature == "" {
		return false, fmt.Errorf("signature cannot be empty")
	}
	if !common.IsHexAddress(signerAddress) {
		return false, fmt.Errorf("invalid signer address format: %s", signerAddress)
	}

	recovered, err := RecoverAddress(signature, message)
	if err != nil {
		return false, fmt.Errorf("failed to recover address from signature: %w", err)
	}

	return strings.EqualFold(recovered, signerAddress), nil
}

// IsHexAddress reports whether s looks like a 20-byte hex address.
func IsHexAddress(s string) bool {
	return common.IsHexAddress(s)
}
