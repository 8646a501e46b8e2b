package types

import (
	"math/big"
	"math/cmplx"
)

// Value is a materialized classical value paired with the Type that
// produced it — the payload a Scope Variable carries. A single struct
// with optional fields (rather than an interface per kind) matches the
// tagged-union Type above: exactly one of the fields is meaningful, chosen
// by Type.Kind.
type Value struct {
	Type Type
	// Int holds the value for Bit, Int, UInt (as a two's-complement /
	// unsigned integer respectively, already wrapped to Type.Width).
	Int *big.Int
	// Float holds the value for Float and Angle (Angle is stored in
	// radians, reduced mod 2*pi by internal/types/angle.go).
	Float float64
	// Complex holds the value for Complex.
	Complex complex128
	// Bool holds the value for Bool.
	Bool bool
	// Duration and DurationUnit hold the value for Duration ("dt" is
	// carried symbolically: DurationUnit == "dt" with Duration holding the
	// raw tick count, since the backend cycle time isn't known at analysis
	// time).
	Duration     float64
	DurationUnit string
	// Array holds the elements for Array.
	Array []Value
}

// NewInt constructs a Value of kind Int/UInt/Bit wrapped to width bits.
func NewInt(kind Kind, width uint, v *big.Int) Value {
	wrapped := WrapInt(kind, width, v)
	return Value{Type: NewScalar(kind, width), Int: wrapped}
}

// NewFloat constructs a Float value.
func NewFloat(width uint, v float64) Value {
	return Value{Type: NewScalar(Float, width), Float: v}
}

// NewBool constructs a Bool value.
func NewBool(v bool) Value {
	return Value{Type: NewScalar(Bool, 0), Bool: v}
}

// WrapInt applies fixed-width integer semantics: two's-complement
// wraparound for Int, modular wraparound for UInt/Bit.
func WrapInt(kind Kind, width uint, v *big.Int) *big.Int {
	if width == 0 {
		return new(big.Int).Set(v)
	}

	mod := new(big.Int).Lsh(big.NewInt(1), width)
	r := new(big.Int).Mod(v, mod)

	if r.Sign() < 0 {
		r.Add(r, mod)
	}

	if kind == Int {
		half := new(big.Int).Lsh(big.NewInt(1), width-1)
		if r.Cmp(half) >= 0 {
			r.Sub(r, mod)
		}
	}

	return r
}

// AsComplex returns this value's representation as a complex128, used when
// implicitly widening float/int operands against a complex operand
// (a real value widens to complex with a zero imaginary part).
func (v Value) AsComplex() complex128 {
	switch v.Type.Kind {
	case Complex:
		return v.Complex
	case Float, Angle:
		return complex(v.Float, 0)
	case Int, UInt, Bit:
		f, _ := new(big.Float).SetInt(v.Int).Float64()
		return complex(f, 0)
	case Bool:
		if v.Bool {
			return complex(1, 0)
		}

		return complex(0, 0)
	default:
		return cmplx.NaN()
	}
}

// AsFloat returns this value's representation as a float64.
func (v Value) AsFloat() float64 {
	switch v.Type.Kind {
	case Float, Angle:
		return v.Float
	case Int, UInt, Bit:
		f, _ := new(big.Float).SetInt(v.Int).Float64()
		return f
	case Bool:
		if v.Bool {
			return 1
		}

		return 0
	default:
		return 0
	}
}

// AsInt returns this value's representation as an integer, truncating a
// float toward zero per IEEE-754 conversion semantics.
func (v Value) AsInt() *big.Int {
	switch v.Type.Kind {
	case Int, UInt, Bit:
		return v.Int
	case Bool:
		if v.Bool {
			return big.NewInt(1)
		}

		return big.NewInt(0)
	case Float, Angle:
		bf := big.NewFloat(v.Float)
		i, _ := bf.Int(nil)

		return i
	default:
		return big.NewInt(0)
	}
}

// AsBool applies the standard int -> bool non-zero test.
func (v Value) AsBool() bool {
	switch v.Type.Kind {
	case Bool:
		return v.Bool
	case Int, UInt, Bit:
		return v.Int.Sign() != 0
	case Float, Angle:
		return v.Float != 0
	default:
		return false
	}
}

// BitString renders a Bit-kind value as an MSB-first bit string of the
// declared width, per DESIGN.md's bit-order convention decision.
func (v Value) BitString(width uint) string {
	s := v.Int.Text(2)
	for uint(len(s)) < width {
		s = "0" + s
	}

	return s
}
