package domain

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// DealIDLength is the size in bytes of a deal identifier.
	DealIDLength = 32

	dealAddressTag  = "zeto/deal"
	vaultAddressTag = "zeto/vault"
)

// DealID is the opaque caller-supplied identifier of a deal.
type DealID [DealIDLength]byte

// ParseDealID decodes a deal id from its 64-chars hex representation.
func ParseDealID(str string) (DealID, error) {
	var id DealID
	buf, err := hex.DecodeString(str)
	if err != nil || len(buf) != DealIDLength {
		return id, ErrInvalidDealID
	}
	copy(id[:], buf)
	return id, nil
}

// DealIDFromString returns the deal id for a human-readable label. The utf8
// bytes of the label are copied into the id and truncated or zero-padded to
// DealIDLength.
func DealIDFromString(label string) (DealID, error) {
	var id DealID
	if len(label) <= 0 {
		return id, ErrInvalidDealID
	}
	copy(id[:], label)
	return id, nil
}

func (id DealID) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero returns whether the id is made of zero bytes only.
func (id DealID) IsZero() bool {
	return id == DealID{}
}

func (id DealID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *DealID) UnmarshalText(text []byte) error {
	parsed, err := ParseDealID(string(text))
	if err != nil {
		return fmt.Errorf("%w: %s", err, text)
	}
	*id = parsed
	return nil
}

// Address returns the deterministic address of the deal record.
func (id DealID) Address() string {
	return chainhash.TaggedHash([]byte(dealAddressTag), id[:]).String()
}

// VaultAddress returns the address owning the custodial holding of the deal.
// It's derived from the deal address, therefore nobody holds a key for it.
func (id DealID) VaultAddress() string {
	dealAddress := chainhash.TaggedHash([]byte(dealAddressTag), id[:])
	return chainhash.TaggedHash([]byte(vaultAddressTag), dealAddress[:]).String()
}
