package state

import (
	"fmt"

	"github.com/holiman/uint256"

	"chainstd/errors"
	"chainstd/types"
)

// Value encodings are fixed-width big-endian so that raw keys sort the same
// way their decoded values do and snapshots stay byte-stable across stores.

func encodeUint256(v *uint256.Int) []byte {
	b := v.Bytes32()
	return b[:]
}

// DecodeUint256 decodes a stored amount value. Exported for callers that
// iterate raw pairs, such as audits.
func DecodeUint256(data []byte) (*uint256.Int, error) {
	if len(data) == 0 {
		return uint256.NewInt(0), nil
	}
	if len(data) > 32 {
		return nil, errors.NewError(errors.ErrCodeCorruptState,
			fmt.Sprintf("state: amount value is %d bytes, want at most 32", len(data)))
	}
	return new(uint256.Int).SetBytes(data), nil
}

func encodeUint64(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

// DecodeUint64 decodes a stored counter value.
func DecodeUint64(data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	if len(data) != 8 {
		return 0, errors.NewError(errors.ErrCodeCorruptState,
			fmt.Sprintf("state: counter value is %d bytes, want 8", len(data)))
	}
	var v uint64
	for _, b := range data {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

func encodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func decodeBool(data []byte) (bool, error) {
	if len(data) == 0 {
		return false, nil
	}
	if len(data) != 1 {
		return false, errors.NewError(errors.ErrCodeCorruptState,
			fmt.Sprintf("state: flag value is %d bytes, want 1", len(data)))
	}
	return data[0] != 0, nil
}

func encodeAddress(a types.Address) []byte {
	return a.Bytes()
}

// DecodeAddress decodes a stored address value.
func DecodeAddress(data []byte) (types.Address, error) {
	if len(data) == 0 {
		return types.ZeroAddress, nil
	}
	if len(data) != types.AddressLength {
		return types.ZeroAddress, errors.NewError(errors.ErrCodeCorruptState,
			fmt.Sprintf("state: address value is %d bytes, want %d", len(data), types.AddressLength))
	}
	var a types.Address
	copy(a[:], data)
	return a, nil
}
