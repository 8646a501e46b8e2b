package types

import (
	"fmt"
	"math/big"
)

// Cast performs an implicit coercion of v to the target type t, following
// the standard numeric/bool/bit cast lattice. Explicit casts `T(e)` are
// desugared by the Visitor into exactly this same coercion applied to an
// assignment target of type T, so there is only ever one coercion
// pipeline.
func Cast(v Value, t Type) (Value, error) {
	switch t.Kind {
	case Bool:
		return NewBool(v.AsBool()), nil
	case Bit:
		return castToSizedInt(v, Bit, t.Width)
	case Int:
		return castToSizedInt(v, Int, t.Width)
	case UInt:
		return castToSizedInt(v, UInt, t.Width)
	case Float, Angle:
		f := v.AsFloat()
		if t.Kind == Angle {
			f = ReduceAngle(f)
		}

		return Value{Type: t, Float: f}, nil
	case Complex:
		return Value{Type: t, Complex: v.AsComplex()}, nil
	case Duration:
		return castDuration(v, t)
	case Array:
		return castArray(v, t)
	default:
		return Value{}, fmt.Errorf("unsupported cast target kind %s", t.Kind)
	}
}

func castToSizedInt(v Value, kind Kind, width uint) (Value, error) {
	switch v.Type.Kind {
	case Bool:
		i := big.NewInt(0)
		if v.Bool {
			i = big.NewInt(1)
		}

		return NewInt(kind, width, i), nil
	case Int, UInt, Bit:
		return NewInt(kind, width, v.Int), nil
	case Float, Angle:
		bf := big.NewFloat(v.Float)
		i, _ := bf.Int(nil)

		return NewInt(kind, width, i), nil
	default:
		return Value{}, fmt.Errorf("cannot cast %s to %s[%d]", v.Type, kind, width)
	}
}

func castDuration(v Value, t Type) (Value, error) {
	if v.Type.Kind != Duration {
		return Value{}, fmt.Errorf("cannot cast %s to duration", v.Type)
	}

	return v, nil
}

func castArray(v Value, t Type) (Value, error) {
	if v.Type.Kind != Array {
		return Value{}, fmt.Errorf("cannot cast %s to array", v.Type)
	}

	out := make([]Value, len(v.Array))

	for i, e := range v.Array {
		c, err := Cast(e, *t.Elem)
		if err != nil {
			return Value{}, err
		}

		out[i] = c
	}

	return Value{Type: t, Array: out}, nil
}

// NormalizeDurationToNanoseconds converts a duration literal with a
// concrete time unit ("ns","us","ms","s") into nanoseconds. A "dt" unit
// is left symbolic (DESIGN.md's open-question decision); callers must
// handle that case separately.
func NormalizeDurationToNanoseconds(value float64, unit string) (float64, bool) {
	switch unit {
	case "ns":
		return value, true
	case "us":
		return value * 1e3, true
	case "ms":
		return value * 1e6, true
	case "s":
		return value * 1e9, true
	default:
		return 0, false
	}
}
