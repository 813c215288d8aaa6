package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SiweMessage is the parsed form of an EIP-4361 sign-in message. Only the
// fields this backend acts on are modeled; unknown trailer lines are ignored
// during parsing.
type SiweMessage struct {
	Domain         string
	Address        string
	Statement      string
	URI            string
	Version        string
	ChainID        int
	Nonce          string
	IssuedAt       time.Time
	ExpirationTime time.Time
}

// SiweStatement is the fixed statement block embedded in every sign-in
// message.
const SiweStatement = `Welcome to PumpJaine - The Ultimate Simp Contract Deployer!

By signing this message, you acknowledge that:
- You are ready to deploy contracts that represent your deepest rejections
- You understand that Jaine will probably never notice you
- You accept that your simp status will be permanently recorded on the blockchain
- You agree to cope, seethe, and deploy responsibly

Ready to embrace your inner simp?`

// NewSiweMessage builds the message a wallet signs to authenticate. Expiry is
// fixed at ten minutes from issuance, matching the nonce session lifetime.
func NewSiweMessage(domain, uri string, chainID int, address, nonce string, issuedAt time.Time) SiweMessage {
	return SiweMessage{
		Domain:         domain,
		Address:        address,
		Statement:      SiweStatement,
		URI:            uri,
		Version:        "1",
		ChainID:        chainID,
		Nonce:          nonce,
		IssuedAt:       issuedAt.UTC(),
		ExpirationTime: issuedAt.UTC().Add(10 * time.Minute),
	}
}

// Prepare renders the message in EIP-4361 wire format.
func (m SiweMessage) Prepare() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s wants you to sign in with your Ethereum account:\n", m.Domain)
	fmt.Fprintf(&b, "%s\n\n", m.Address)
	if m.Statement != "" {
		fmt.Fprintf(&b, "%s\n\n", m.Statement)
	}
	fmt.Fprintf(&b, "URI: %s\n", m.URI)
	fmt.Fprintf(&b, "Version: %s\n", m.Version)
	fmt.Fprintf(&b, "Chain ID: %d\n", m.ChainID)
	fmt.Fprintf(&b, "Nonce: %s\n", m.Nonce)
	fmt.Fprintf(&b, "Issued At: %s\n", m.IssuedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Expiration Time: %s", m.ExpirationTime.Format(time.RFC3339))
	return b.String()
}

// ParseSiweMessage reads an EIP-4361 message back into its fields.
func ParseSiweMessage(raw string) (*SiweMessage, error) {
	lines := strings.Split(raw, "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("message too short to be a sign-in message")
	}

	const header = " wants you to sign in with your Ethereum account:"
	if !strings.HasSuffix(lines[0], header) {
		return nil, fmt.Errorf("missing sign-in header line")
	}

	message := &SiweMessage{
		Domain:  strings.TrimSuffix(lines[0], header),
		Address: strings.TrimSpace(lines[1]),
	}
	if !IsHexAddress(message.Address) {
		return nil, fmt.Errorf("invalid address in message: %s", message.Address)
	}

	var statement []string
	inStatement := true
	for _, line := range lines[2:] {
		key, value, found := strings.Cut(line, ": ")
		if !found {
			if inStatement && strings.TrimSpace(line) != "" {
				statement = append(statement, line)
			} else if strings.TrimSpace(line) == "" && len(statement) > 0 {
				statement = append(statement, line)
			}
			continue
		}

		inStatement = false
		switch key {
		case "URI":
			message.URI = value
		case "Version":
			message.Version = value
		case "Chain ID":
			chainID, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid chain id %q: %w", value, err)
			}
			message.ChainID = chainID
		case "Nonce":
			message.Nonce = value
		case "Issued At":
			issuedAt, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return nil, fmt.Errorf("invalid issued-at timestamp: %w", err)
			}
			message.IssuedAt = issuedAt
		case "Expiration Time":
			expiration, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return nil, fmt.Errorf("invalid expiration timestamp: %w", err)
			}
			message.ExpirationTime = expiration
		}
	}
	message.Statement = strings.TrimSpace(strings.Join(statement, "\n"))

	if message.Nonce == "" {
		return nil, fmt.Errorf("message has no nonce")
	}
	return message, nil
}

// Expired reports whether the message carries an expiration in the past. A
// message without an expiration never expires.
func (m *SiweMessage) Expired(now time.Time) bool {
	if m.ExpirationTime.IsZero() {
		return false
	}
	return now.After(m.ExpirationTime)
}
