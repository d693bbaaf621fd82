package types

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"

	"chainstd/errors"
)

// AddressLength is the byte length of a contract-visible account address.
const AddressLength = 20

// Address is a 20-byte account identifier. The zero value is the reserved
// "nobody" address used as the mint source and burn sink.
type Address [AddressLength]byte

// ZeroAddress is the all-zero address.
var ZeroAddress = Address{}

// ParseAddress decodes a hex address string, with or without the 0x prefix.
func ParseAddress(s string) (Address, error) {
	var a Address
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	raw, err := hex.DecodeString(strings.ToLower(trimmed))
	if err != nil {
		return a, errors.NewError(errors.ErrCodeInvalidAddress, "address is not valid hex: "+s)
	}
	if len(raw) != AddressLength {
		return a, errors.NewError(errors.ErrCodeInvalidAddress, "address must be 20 bytes: "+s)
	}
	copy(a[:], raw)
	return a, nil
}

// MustParseAddress parses a hex address and panics on failure. Intended for
// fixed addresses in tests and genesis-style configuration.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddressFromPubKey derives an address from a public key: the last 20 bytes
// of the Keccak-256 digest of the key bytes.
func AddressFromPubKey(pub []byte) Address {
	h := sha3.NewLegacyKeccak256()
	h.Write(pub)
	sum := h.Sum(nil)

	var a Address
	copy(a[:], sum[len(sum)-AddressLength:])
	return a
}

// Hex returns the canonical rendering: 0x followed by 40 lowercase hex chars.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) String() string {
	return a.Hex()
}

// Bytes returns a copy of the raw address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// IsZero reports whether a is the reserved zero address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
