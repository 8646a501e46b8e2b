package types

import (
	"fmt"
	"math/big"
)

// JoinNumeric determines the result type of a binary numeric operation
// under the cast lattice: the "wider" of the two operand types, following
// int/uint -> float -> complex promotion, with width the max of the two
// when kinds match.
func JoinNumeric(a, b Type) (Type, error) {
	if a.Kind == Complex || b.Kind == Complex {
		w := maxWidth(a, b)
		return NewComplex(w), nil
	}

	if a.Kind == Float || b.Kind == Float || a.Kind == Angle || b.Kind == Angle {
		if a.Kind == Angle && b.Kind == Angle {
			return NewScalar(Angle, maxWidth(a, b)), nil
		}

		return NewScalar(Float, maxWidth(a, b)), nil
	}

	if a.Kind == Int || b.Kind == Int {
		return NewScalar(Int, maxWidth(a, b)), nil
	}

	if a.Kind == UInt || b.Kind == UInt {
		return NewScalar(UInt, maxWidth(a, b)), nil
	}

	if a.Kind == Bit && b.Kind == Bit {
		return NewScalar(Bit, maxWidth(a, b)), nil
	}

	if a.Kind == Bool && b.Kind == Bool {
		return NewScalar(Bool, 0), nil
	}

	return Type{}, fmt.Errorf("incompatible operand types %s and %s", a, b)
}

func maxWidth(a, b Type) uint {
	if a.Width > b.Width {
		return a.Width
	}

	return b.Width
}

// BinaryOp evaluates a binary operator over two already-cast operands,
// implementing operator semantics identical to C with OpenQASM's
// adjustments. Precedence itself is the parser's concern; by the time an
// expression reaches here it is already a tree.
func BinaryOp(op string, a, b Value) (Value, error) {
	switch op {
	case "+", "-", "*", "/", "%":
		return arithOp(op, a, b)
	case "**":
		return powOp(a, b)
	case "<<", ">>":
		return shiftOp(op, a, b)
	case "&", "|", "^":
		return bitwiseOp(op, a, b)
	case "&&", "||":
		return logicalOp(op, a, b)
	case "==", "!=", "<", ">", "<=", ">=":
		return compareOp(op, a, b)
	default:
		return Value{}, fmt.Errorf("unsupported binary operator %q", op)
	}
}

func arithOp(op string, a, b Value) (Value, error) {
	rt, err := JoinNumeric(a.Type, b.Type)
	if err != nil {
		return Value{}, err
	}

	if rt.Kind == Complex {
		x, y := a.AsComplex(), b.AsComplex()

		var r complex128

		switch op {
		case "+":
			r = x + y
		case "-":
			r = x - y
		case "*":
			r = x * y
		case "/":
			r = x / y
		default:
			return Value{}, fmt.Errorf("operator %q undefined on complex", op)
		}

		return Value{Type: rt, Complex: r}, nil
	}

	if rt.Kind == Float || rt.Kind == Angle {
		x, y := a.AsFloat(), b.AsFloat()

		var r float64

		switch op {
		case "+":
			r = x + y
		case "-":
			r = x - y
		case "*":
			r = x * y
		case "/":
			r = x / y
		case "%":
			r = modFloat(x, y)
		}

		if rt.Kind == Angle {
			r = ReduceAngle(r)
		}

		return Value{Type: rt, Float: r}, nil
	}
	// Integer path (Int/UInt/Bit).
	x, y := a.AsInt(), b.AsInt()

	if (op == "/" || op == "%") && y.Sign() == 0 {
		return Value{}, fmt.Errorf("division by zero")
	}

	r := new(big.Int)

	switch op {
	case "+":
		r.Add(x, y)
	case "-":
		r.Sub(x, y)
	case "*":
		r.Mul(x, y)
	case "/":
		r.Quo(x, y)
	case "%":
		r.Rem(x, y)
	}

	return NewInt(rt.Kind, rt.Width, r), nil
}

func modFloat(x, y float64) float64 {
	if y == 0 {
		return 0
	}

	r := x - y*float64(int64(x/y))

	return r
}

// powOp implements `**`, restricted to integer exponents.
func powOp(a, b Value) (Value, error) {
	if a.Type.Kind == Float || a.Type.Kind == Angle {
		return Value{Type: a.Type, Float: floatPow(a.AsFloat(), b.AsFloat())}, nil
	}

	exp := b.AsInt()
	if exp.Sign() < 0 {
		return Value{}, fmt.Errorf("** requires a non-negative exponent for integer operands")
	}

	r := new(big.Int).Exp(a.AsInt(), exp, nil)

	return NewInt(a.Type.Kind, a.Type.Width, r), nil
}

func floatPow(x, y float64) float64 {
	r := 1.0
	neg := y < 0

	n := int(y)
	if neg {
		n = -n
	}

	for i := 0; i < n; i++ {
		r *= x
	}

	if neg {
		return 1 / r
	}

	return r
}

func shiftOp(op string, a, b Value) (Value, error) {
	x := a.AsInt()
	n := uint(b.AsInt().Int64())

	r := new(big.Int)
	if op == "<<" {
		r.Lsh(x, n)
	} else {
		r.Rsh(x, n)
	}

	return NewInt(a.Type.Kind, a.Type.Width, r), nil
}

func bitwiseOp(op string, a, b Value) (Value, error) {
	rt, err := JoinNumeric(a.Type, b.Type)
	if err != nil {
		return Value{}, err
	}

	x, y := a.AsInt(), b.AsInt()
	r := new(big.Int)

	switch op {
	case "&":
		r.And(x, y)
	case "|":
		r.Or(x, y)
	case "^":
		r.Xor(x, y)
	}

	return NewInt(rt.Kind, rt.Width, r), nil
}

func logicalOp(op string, a, b Value) (Value, error) {
	x, y := a.AsBool(), b.AsBool()
	if op == "&&" {
		return NewBool(x && y), nil
	}

	return NewBool(x || y), nil
}

func compareOp(op string, a, b Value) (Value, error) {
	var cmp int

	switch {
	case a.Type.Kind == Float || b.Type.Kind == Float || a.Type.Kind == Angle || b.Type.Kind == Angle:
		x, y := a.AsFloat(), b.AsFloat()

		switch {
		case x < y:
			cmp = -1
		case x > y:
			cmp = 1
		default:
			cmp = 0
		}
	case a.Type.Kind == Bool || b.Type.Kind == Bool:
		x, y := a.AsBool(), b.AsBool()

		switch {
		case x == y:
			cmp = 0
		case !x:
			cmp = -1
		default:
			cmp = 1
		}
	default:
		cmp = a.AsInt().Cmp(b.AsInt())
	}

	var r bool

	switch op {
	case "==":
		r = cmp == 0
	case "!=":
		r = cmp != 0
	case "<":
		r = cmp < 0
	case ">":
		r = cmp > 0
	case "<=":
		r = cmp <= 0
	case ">=":
		r = cmp >= 0
	}

	return NewBool(r), nil
}

// UnaryOp evaluates a unary operator.
func UnaryOp(op string, a Value) (Value, error) {
	switch op {
	case "-", "UMINUS":
		if a.Type.Kind == Float || a.Type.Kind == Angle {
			return Value{Type: a.Type, Float: -a.AsFloat()}, nil
		}

		return NewInt(a.Type.Kind, a.Type.Width, new(big.Int).Neg(a.AsInt())), nil
	case "~":
		return NewInt(a.Type.Kind, a.Type.Width, new(big.Int).Not(a.AsInt())), nil
	case "!":
		return NewBool(!a.AsBool()), nil
	default:
		return Value{}, fmt.Errorf("unsupported unary operator %q", op)
	}
}
