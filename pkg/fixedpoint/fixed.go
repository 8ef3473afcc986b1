// Package fixedpoint provides signed 16.16 fixed-point arithmetic.
//
// The render target has no hardware floating point, so every scale factor
// in the pipeline is a Value. Rounding direction matters: truncation maps
// destination pixels to source indices, ceiling reaches the end of a
// scaled range. Changing either shifts pixel alignment at image edges.
package fixedpoint

// Value is a real number represented as value/65536 in a signed 32-bit
// integer.
type Value int32

const (
	// Shift is the number of fractional bits.
	Shift = 16
	// One is the identity value 1.0.
	One Value = 1 << Shift
	// FracMask masks the fractional bits.
	FracMask Value = One - 1
)

// FromRatio returns num/den as a Value, truncated. den must be non-zero.
func FromRatio(num, den int) Value {
	return Value(int64(num) << Shift / int64(den))
}

// FromInt returns n as a Value.
func FromInt(n int) Value {
	return Value(n) << Shift
}

// MulInt multiplies the integer n by v, truncating to an integer. The
// intermediate product is widened to 64 bits so large coordinates cannot
// overflow.
func (v Value) MulInt(n int) int {
	return int(int64(n) * int64(v) >> Shift)
}

// MulIntCeil multiplies the integer n by v, rounding up to an integer.
func (v Value) MulIntCeil(n int) int {
	return int((int64(n)*int64(v) + int64(FracMask)) >> Shift)
}

// TimesInt returns v*n as a Value, keeping the fractional bits. Used for
// inverse-mapping a destination coordinate into source space.
func (v Value) TimesInt(n int) Value {
	return Value(int64(n) * int64(v))
}

// Floor returns the integer part of v, truncated toward zero for
// non-negative values.
func (v Value) Floor() int {
	return int(v >> Shift)
}

// Frac returns the fractional bits of v as a Value in [0, One).
func (v Value) Frac() Value {
	return v & FracMask
}
