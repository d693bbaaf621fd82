package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	want := Address{0xab, 0xcd}

	parsed, err := ParseAddress("0xabcd000000000000000000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, want, parsed)

	// prefix is optional, case is normalized
	parsed, err = ParseAddress("ABCD000000000000000000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, want, parsed)
}

func TestParseAddressRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"0x",
		"0xzzzz000000000000000000000000000000000000",
		"0xabcd00",
		"0xabcd0000000000000000000000000000000000000000",
	}
	for _, in := range cases {
		_, err := ParseAddress(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestHexRoundTrip(t *testing.T) {
	a := MustParseAddress("0x00112233445566778899aabbccddeeff00112233")
	assert.Equal(t, "0x00112233445566778899aabbccddeeff00112233", a.Hex())

	back, err := ParseAddress(a.Hex())
	require.NoError(t, err)
	assert.Equal(t, a, back)
}

func TestZeroAddress(t *testing.T) {
	assert.True(t, ZeroAddress.IsZero())
	assert.Equal(t, "0x0000000000000000000000000000000000000000", ZeroAddress.Hex())

	a := MustParseAddress("0x0000000000000000000000000000000000000001")
	assert.False(t, a.IsZero())
}

func TestAddressFromPubKey(t *testing.T) {
	pub := []byte("test ed25519 public key material.")

	a := AddressFromPubKey(pub)
	assert.False(t, a.IsZero())

	// derivation is deterministic
	assert.Equal(t, a, AddressFromPubKey(pub))

	// and key-sensitive
	other := AddressFromPubKey([]byte("different key material entirely!!"))
	assert.NotEqual(t, a, other)
}

func TestAddressTextMarshal(t *testing.T) {
	a := MustParseAddress("0x00112233445566778899aabbccddeeff00112233")

	text, err := a.MarshalText()
	require.NoError(t, err)

	var back Address
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, a, back)
}
