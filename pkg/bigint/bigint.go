// Package bigint implements the fixed-width 512-bit signed and unsigned
// integers that back prinbee's large-integer field types (STRUCT_TYPE_*INT*
// up to 512 bits in spec.md §3). Narrower widths (8/16/32/64/128/256) are
// views on the same 8-limb representation used by the original C++
// uint512_t/int512_t (original_source/prinbee/data/convert.cpp).
//
// No third-party arbitrary-precision library appears anywhere in the
// retrieval pack, so the limb arithmetic below is hand-rolled on top of
// math/bits rather than reached for from the ecosystem; see DESIGN.md.
package bigint

import (
	"math/bits"
	"strings"
)

// Limbs is the number of 64-bit words backing a 512-bit integer.
const Limbs = 8

// Uint512 is an unsigned 512-bit integer stored as 8 little-endian 64-bit
// limbs (limb[0] holds the least significant 64 bits), mirroring the
// original uint512_t::f_value[8] layout.
type Uint512 struct {
	limb [Limbs]uint64
}

// FromUint64 builds a Uint512 from a plain uint64.
func FromUint64(v uint64) Uint512 {
	var u Uint512
	u.limb[0] = v
	return u
}

// Limb returns the i'th 64-bit limb (0 = least significant).
func (u Uint512) Limb(i int) uint64 { return u.limb[i] }

// SetLimb sets the i'th 64-bit limb.
func (u *Uint512) SetLimb(i int, v uint64) { u.limb[i] = v }

// IsZero reports whether every limb is zero.
func (u Uint512) IsZero() bool {
	for _, l := range u.limb {
		if l != 0 {
			return false
		}
	}
	return true
}

// Cmp performs an unsigned comparison, returning -1, 0, or 1.
func (u Uint512) Cmp(v Uint512) int {
	for i := Limbs - 1; i >= 0; i-- {
		if u.limb[i] != v.limb[i] {
			if u.limb[i] < v.limb[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Add returns u+v and whether the addition overflowed 512 bits.
func (u Uint512) Add(v Uint512) (Uint512, bool) {
	var out Uint512
	var carry uint64
	for i := 0; i < Limbs; i++ {
		var c0, c1 uint64
		out.limb[i], c0 = bits.Add64(u.limb[i], v.limb[i], 0)
		out.limb[i], c1 = bits.Add64(out.limb[i], carry, 0)
		carry = c0 + c1
	}
	return out, carry != 0
}

// Sub returns u-v and whether the subtraction borrowed past zero.
func (u Uint512) Sub(v Uint512) (Uint512, bool) {
	var out Uint512
	var borrow uint64
	for i := 0; i < Limbs; i++ {
		var b0, b1 uint64
		out.limb[i], b0 = bits.Sub64(u.limb[i], v.limb[i], 0)
		out.limb[i], b1 = bits.Sub64(out.limb[i], borrow, 0)
		borrow = b0 + b1
	}
	return out, borrow != 0
}

// Neg returns the two's-complement negation (0 - u).
func (u Uint512) Neg() Uint512 {
	var zero Uint512
	out, _ := zero.Sub(u)
	return out
}

// Not returns the bitwise complement.
func (u Uint512) Not() Uint512 {
	var out Uint512
	for i := range u.limb {
		out.limb[i] = ^u.limb[i]
	}
	return out
}

// Lsh shifts left by n bits, discarding bits shifted out past bit 511.
func (u Uint512) Lsh(n uint) Uint512 {
	if n == 0 {
		return u
	}
	if n >= 512 {
		return Uint512{}
	}
	var out Uint512
	limbShift := int(n / 64)
	bitShift := n % 64
	for i := Limbs - 1; i >= 0; i-- {
		src := i - limbShift
		if src < 0 {
			continue
		}
		var v uint64 = u.limb[src] << bitShift
		if bitShift > 0 && src > 0 {
			v |= u.limb[src-1] >> (64 - bitShift)
		}
		out.limb[i] = v
	}
	return out
}

// Rsh shifts right (logical) by n bits.
func (u Uint512) Rsh(n uint) Uint512 {
	if n == 0 {
		return u
	}
	if n >= 512 {
		return Uint512{}
	}
	var out Uint512
	limbShift := int(n / 64)
	bitShift := n % 64
	for i := 0; i < Limbs; i++ {
		src := i + limbShift
		if src >= Limbs {
			continue
		}
		var v uint64 = u.limb[src] >> bitShift
		if bitShift > 0 && src+1 < Limbs {
			v |= u.limb[src+1] << (64 - bitShift)
		}
		out.limb[i] = v
	}
	return out
}

// Mul returns u*v truncated to 512 bits, and whether the true product
// required more than 512 bits (an overflow the caller must reject per
// spec.md §9's "must not silently wrap" requirement for unit suffixes).
func (u Uint512) Mul(v Uint512) (Uint512, bool) {
	// schoolbook multiply into a 16-limb scratch, then fold the high
	// half into the overflow flag.
	var acc [2 * Limbs]uint64
	for i := 0; i < Limbs; i++ {
		if u.limb[i] == 0 {
			continue
		}
		var carry uint64
		for j := 0; j < Limbs; j++ {
			hi, lo := bits.Mul64(u.limb[i], v.limb[j])
			var c0, c1 uint64
			acc[i+j], c0 = bits.Add64(acc[i+j], lo, 0)
			acc[i+j], c1 = bits.Add64(acc[i+j], carry, 0)
			carry = hi + c0 + c1
		}
		k := i + Limbs
		for carry != 0 {
			var c uint64
			acc[k], c = bits.Add64(acc[k], carry, 0)
			carry = c
			k++
		}
	}
	var out Uint512
	copy(out.limb[:], acc[:Limbs])
	overflow := false
	for _, l := range acc[Limbs:] {
		if l != 0 {
			overflow = true
			break
		}
	}
	return out, overflow
}

// BitLen returns the position of the highest set bit (0 if the value is
// zero), matching the "bit-size" operation named in spec.md §4.1.
func (u Uint512) BitLen() int {
	for i := Limbs - 1; i >= 0; i-- {
		if u.limb[i] != 0 {
			return i*64 + bits.Len64(u.limb[i])
		}
	}
	return 0
}

// FitsUnsigned reports whether u fits in an unsigned field of the given bit
// width.
func (u Uint512) FitsUnsigned(width int) bool {
	if width >= 512 {
		return true
	}
	return u.BitLen() <= width
}

// Bytes renders u as width/8 little-endian bytes, truncating/zero-extending
// as needed. width must be a multiple of 8.
func (u Uint512) Bytes(width int) []byte {
	n := width / 8
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		limb := i / 8
		shift := uint(i%8) * 8
		if limb < Limbs {
			out[i] = byte(u.limb[limb] >> shift)
		}
	}
	return out
}

// FromBytes parses little-endian bytes (any length up to 64) into a
// Uint512, zero-extending.
func FromBytes(b []byte) Uint512 {
	var u Uint512
	for i, c := range b {
		if i >= 64 {
			break
		}
		limb := i / 8
		shift := uint(i%8) * 8
		u.limb[limb] |= uint64(c) << shift
	}
	return u
}

// Text renders the unsigned magnitude in the given base (2, 8, 10, or 16).
func (u Uint512) Text(base int) string {
	if u.IsZero() {
		return "0"
	}
	const digits = "0123456789abcdef"
	work := u
	var sb []byte
	bigBase := FromUint64(uint64(base))
	for !work.IsZero() {
		q, r := divmod(work, bigBase)
		sb = append(sb, digits[r.limb[0]])
		work = q
	}
	// reverse
	for i, j := 0, len(sb)-1; i < j; i, j = i+1, j-1 {
		sb[i], sb[j] = sb[j], sb[i]
	}
	return string(sb)
}

// divmod divides u by a small divisor (fits in one limb) and returns
// quotient and remainder. Used only for base-N rendering where the divisor
// is 2/8/10/16, so a simple limb-at-a-time long division suffices.
func divmod(u, d Uint512) (Uint512, Uint512) {
	if d.limb[0] == 0 {
		return Uint512{}, Uint512{}
	}
	var q Uint512
	var rem uint64
	for i := Limbs - 1; i >= 0; i-- {
		qi, ri := bits.Div64(rem, u.limb[i], d.limb[0])
		q.limb[i] = qi
		rem = ri
	}
	return q, FromUint64(rem)
}

// Int512 is a signed 512-bit integer in two's-complement form over the
// same limb layout as Uint512.
type Int512 struct {
	mag Uint512
}

// FromInt64 builds an Int512 from a plain int64, sign-extending.
func FromInt64(v int64) Int512 {
	u := FromUint64(uint64(v))
	if v < 0 {
		for i := 1; i < Limbs; i++ {
			u.limb[i] = ^uint64(0)
		}
	}
	return Int512{mag: u}
}

// Uint512 returns the raw two's-complement bit pattern.
func (s Int512) Uint512() Uint512 { return s.mag }

// FromUint512Bits reinterprets the bit pattern as a signed value.
func FromUint512Bits(u Uint512) Int512 { return Int512{mag: u} }

// IsNegative reports whether the sign bit (bit 511) is set.
func (s Int512) IsNegative() bool {
	return s.mag.limb[Limbs-1]&(1<<63) != 0
}

// Neg returns the two's-complement negation.
func (s Int512) Neg() Int512 { return Int512{mag: s.mag.Neg()} }

// Add returns s+v. Overflow detection is the caller's responsibility via
// FitsSigned on the result.
func (s Int512) Add(v Int512) Int512 {
	out, _ := s.mag.Add(v.mag)
	return Int512{mag: out}
}

// Sub returns s-v.
func (s Int512) Sub(v Int512) Int512 {
	out, _ := s.mag.Sub(v.mag)
	return Int512{mag: out}
}

// Mul returns s*v truncated to 512 bits.
func (s Int512) Mul(v Int512) Int512 {
	a := s.abs()
	b := v.abs()
	out, _ := a.Mul(b)
	r := Int512{mag: out}
	if s.IsNegative() != v.IsNegative() {
		r = r.Neg()
	}
	return r
}

func (s Int512) abs() Uint512 {
	if s.IsNegative() {
		return s.mag.Neg()
	}
	return s.mag
}

// Cmp performs a signed comparison, returning -1, 0, or 1.
func (s Int512) Cmp(v Int512) int {
	sn, vn := s.IsNegative(), v.IsNegative()
	if sn != vn {
		if sn {
			return -1
		}
		return 1
	}
	c := s.mag.Cmp(v.mag)
	if sn {
		return -c
	}
	return c
}

// BitLen returns the number of bits needed to represent the magnitude.
func (s Int512) BitLen() int {
	return s.abs().BitLen()
}

// FitsSigned reports whether s fits in a signed field of the given bit
// width, with the documented allowance for the exact minimum of the
// N-bit range (-2^(N-1)).
func (s Int512) FitsSigned(width int) bool {
	if width >= 512 {
		return true
	}
	if s.IsNegative() {
		// -2^(width-1) is representable even though its magnitude's
		// bit-length is `width`, one more than a positive value could use.
		minVal := FromInt64(1).mag.Lsh(uint(width - 1))
		if s.mag.Neg().Cmp(minVal) == 0 {
			return true
		}
		return s.BitLen() < width
	}
	return s.BitLen() < width
}

// Bytes renders the two's-complement pattern as width/8 little-endian
// bytes.
func (s Int512) Bytes(width int) []byte {
	return s.mag.Bytes(width)
}

// FromSignedBytes parses little-endian two's-complement bytes, sign
// extending from the declared bit width to the full 512-bit magnitude.
func FromSignedBytes(b []byte) Int512 {
	u := FromBytes(b)
	if len(b) > 0 && len(b) < 64 {
		signByte := b[len(b)-1]
		if signByte&0x80 != 0 {
			for i := len(b); i < 64; i++ {
				limb := i / 8
				shift := uint(i%8) * 8
				u.limb[limb] |= uint64(0xFF) << shift
			}
		}
	}
	return Int512{mag: u}
}

// Text renders the signed value in the given base with a leading '-' for
// negative values.
func (s Int512) Text(base int) string {
	if !s.IsNegative() {
		return s.mag.Text(base)
	}
	return "-" + s.abs().Text(base)
}

// ParseDigits parses an unsigned numeral (no sign, no prefix) in the given
// base into a Uint512, returning false if a character isn't a valid digit
// of that base.
func ParseDigits(s string, base int) (Uint512, bool) {
	if s == "" {
		return Uint512{}, false
	}
	var out Uint512
	baseV := FromUint64(uint64(base))
	for _, c := range strings.ToLower(s) {
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c >= 'a' && c <= 'f':
			d = int(c-'a') + 10
		default:
			return Uint512{}, false
		}
		if d >= base {
			return Uint512{}, false
		}
		var overflow bool
		out, overflow = out.Mul(baseV)
		if overflow {
			return Uint512{}, false
		}
		out, overflow = out.Add(FromUint64(uint64(d)))
		if overflow {
			return Uint512{}, false
		}
	}
	return out, true
}
