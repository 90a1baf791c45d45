package bigint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSub(t *testing.T) {
	a := FromUint64(100)
	b := FromUint64(42)

	sum, overflow := a.Add(b)
	assert.False(t, overflow)
	assert.Equal(t, uint64(142), sum.Limb(0))

	diff, borrow := sum.Sub(b)
	assert.False(t, borrow)
	assert.Equal(t, uint64(100), diff.Limb(0))
}

func TestAddOverflow(t *testing.T) {
	var max Uint512
	for i := 0; i < Limbs; i++ {
		max.SetLimb(i, ^uint64(0))
	}
	_, overflow := max.Add(FromUint64(1))
	assert.True(t, overflow)
}

func TestMulAndBitLen(t *testing.T) {
	a := FromUint64(1000)
	b := FromUint64(1000)
	product, overflow := a.Mul(b)
	assert.False(t, overflow)
	assert.Equal(t, uint64(1000000), product.Limb(0))
	assert.Equal(t, 20, product.BitLen()) // 1_000_000 < 2^20
}

func TestFitsUnsigned(t *testing.T) {
	v := FromUint64(255)
	assert.True(t, v.FitsUnsigned(8))
	v = FromUint64(256)
	assert.False(t, v.FitsUnsigned(8))
}

func TestInt512SignedMinimumBoundary(t *testing.T) {
	// -128 is the exact minimum of an int8 range and must fit, even
	// though its magnitude's bit length equals 8.
	min := FromInt64(-128)
	assert.True(t, min.FitsSigned(8))

	tooSmall := FromInt64(-129)
	assert.False(t, tooSmall.FitsSigned(8))

	max := FromInt64(127)
	assert.True(t, max.FitsSigned(8))
}

func TestText(t *testing.T) {
	v := FromUint64(255)
	assert.Equal(t, "ff", v.Text(16))
	assert.Equal(t, "255", v.Text(10))
	assert.Equal(t, "11111111", v.Text(2))
}

func TestNegText(t *testing.T) {
	v := FromInt64(-42)
	assert.Equal(t, "-42", v.Text(10))
}

func TestParseDigits(t *testing.T) {
	v, ok := ParseDigits("ff", 16)
	assert.True(t, ok)
	assert.Equal(t, uint64(255), v.Limb(0))

	_, ok = ParseDigits("zz", 16)
	assert.False(t, ok)
}
