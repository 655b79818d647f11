// Package u256 implements a fixed-width 256-bit unsigned integer, used for
// hash magnitudes and proof-of-work targets.
package u256

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// Size is the width of a U256 in bytes.
const Size = 32

// bitMask256 masks a big.Int down to 256 bits (2^256 - 1).
var bitMask256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// U256 is an unsigned 256-bit integer. The zero value is zero.
type U256 struct {
	v big.Int
}

// Zero returns the zero value.
func Zero() U256 {
	return U256{}
}

// FromUint64 constructs a U256 from a uint64.
func FromUint64(x uint64) U256 {
	var u U256
	u.v.SetUint64(x)
	return u
}

// FromBigEndian constructs a U256 from a big-endian byte slice of at most
// 32 bytes. Shorter slices are treated as left-padded with zeros.
func FromBigEndian(b []byte) (U256, error) {
	if len(b) > Size {
		return U256{}, fmt.Errorf("u256: %d bytes exceeds %d-byte width", len(b), Size)
	}
	var u U256
	u.v.SetBytes(b)
	return u, nil
}

// MustFromBigEndian is FromBigEndian, panicking on error. Intended for
// constants and tests where the input width is known to be valid.
func MustFromBigEndian(b []byte) U256 {
	u, err := FromBigEndian(b)
	if err != nil {
		panic(err)
	}
	return u
}

// Bytes returns the big-endian 32-byte representation, left-padded with
// zeros.
func (u U256) Bytes() [Size]byte {
	var out [Size]byte
	u.v.FillBytes(out[:])
	return out
}

// Cmp compares u to other: -1, 0, or 1.
func (u U256) Cmp(other U256) int {
	return u.v.Cmp(&other.v)
}

// IsZero reports whether u is zero.
func (u U256) IsZero() bool {
	return u.v.Sign() == 0
}

// MulSmall returns u * k, clamped to 256 bits.
func (u U256) MulSmall(k uint64) U256 {
	var out U256
	out.v.Mul(&u.v, new(big.Int).SetUint64(k))
	out.v.And(&out.v, bitMask256)
	return out
}

// DivSmall returns u / k. Panics if k is zero, matching Go's
// integer-division semantics.
func (u U256) DivSmall(k uint64) U256 {
	if k == 0 {
		panic("u256: division by zero")
	}
	var out U256
	out.v.Div(&u.v, new(big.Int).SetUint64(k))
	return out
}

// String returns the decimal representation.
func (u U256) String() string {
	return u.v.String()
}

// ParseDecimal parses a base-10 string into a U256.
func ParseDecimal(s string) (U256, error) {
	var v big.Int
	if _, ok := v.SetString(s, 10); !ok {
		return U256{}, fmt.Errorf("u256: invalid decimal %q", s)
	}
	v.And(&v, bitMask256)
	var u U256
	u.v = v
	return u, nil
}

// mulDivClamp computes (base * num) / den using an arbitrary-precision
// intermediate (the product can exceed 256 bits even when the final
// quotient fits), then clamps the result to 256 bits. den must be > 0.
func mulDivClamp(base U256, num, den int64) U256 {
	if den <= 0 {
		den = 1
	}
	n := new(big.Int).SetInt64(num)
	d := new(big.Int).SetInt64(den)
	product := new(big.Int).Mul(&base.v, n)
	product.Div(product, d)
	if product.Sign() < 0 {
		product.SetInt64(0)
	}
	product.And(product, bitMask256)
	var out U256
	out.v = *product
	return out
}

// MulDivClamp computes floor(base * num / den) via a bignum intermediate,
// masking the result to 256 bits. Exported for the retargeting algorithm
// in internal/ledger, which needs exactly this operation.
func MulDivClamp(base U256, num, den int64) U256 {
	return mulDivClamp(base, num, den)
}

// MarshalCBOR encodes u as a compact 32-byte big-endian byte string.
// U256 wraps an unexported big.Int, so without this method CBOR's
// default struct encoding would see no exported fields and silently
// serialize every value the same way; this is what makes U256 content
// hash correctly as part of a block header.
func (u U256) MarshalCBOR() ([]byte, error) {
	b := u.Bytes()
	return cbor.Marshal(b[:])
}

// UnmarshalCBOR decodes u from its 32-byte big-endian byte string form.
func (u *U256) UnmarshalCBOR(data []byte) error {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("u256: decode byte string: %w", err)
	}
	decoded, err := FromBigEndian(b)
	if err != nil {
		return err
	}
	*u = decoded
	return nil
}

// Min returns the smaller of a and b.
func Min(a, b U256) U256 {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}
