package types

import (
	"math"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

// TwoPi is the modulus angle[w] values are reduced against: angle[w] is
// stored modulo 2*pi with binary precision w.
const TwoPi = 2 * math.Pi

// ReduceAngle reduces a radian value into [0, 2*pi), matching the
// wraparound semantics every other sized classical type gets from
// two's-complement/modular integer arithmetic.
func ReduceAngle(radians float64) float64 {
	r := math.Mod(radians, TwoPi)
	if r < 0 {
		r += TwoPi
	}

	return r
}

// AngleFixedPoint discretizes a reduced angle to w bits of binary fraction
// of a full turn (the representation OpenQASM's angle[w] specifies), backed
// by gnark-crypto's fr.Element the same way the teacher's pkg/schema.Type
// backs its UintType bound with fr.Element modular arithmetic (see
// DESIGN.md: both need correct wraparound over a fixed bit width, and
// fr.Element's modular add/sub already gets this right). Nothing in the
// evaluator or the Visitor uses AngleFixedPoint: angle values and
// rotation-gate parameters carry the float64 radian value directly, since
// gate decomposition needs dense trigonometric functions fr.Element does
// not provide.
type AngleFixedPoint struct {
	width uint
	elem  fr.Element
}

// NewAngleFixedPoint discretizes a (pre-reduced) radian value to width
// bits of turn-fraction.
func NewAngleFixedPoint(width uint, radians float64) AngleFixedPoint {
	turns := ReduceAngle(radians) / TwoPi
	scale := new(big.Float).SetFloat64(turns * math.Exp2(float64(width)))

	ticks, _ := scale.Int(nil)
	if ticks == nil {
		ticks = big.NewInt(0)
	}

	var e fr.Element
	e.SetBigInt(ticks)

	return AngleFixedPoint{width: width, elem: e}
}

// Add combines two fixed-point angles of equal width, wrapping modulo a
// full turn via fr.Element's field addition.
func (a AngleFixedPoint) Add(b AngleFixedPoint) AngleFixedPoint {
	var sum fr.Element

	sum.Add(&a.elem, &b.elem)

	mod := new(big.Int).Lsh(big.NewInt(1), a.width)

	var bi big.Int

	sum.BigInt(&bi)
	bi.Mod(&bi, mod)

	var out fr.Element

	out.SetBigInt(&bi)

	return AngleFixedPoint{width: a.width, elem: out}
}

// Equal reports whether two fixed-point angles of equal width represent
// the same turn-fraction tick count.
func (a AngleFixedPoint) Equal(b AngleFixedPoint) bool {
	return a.width == b.width && a.elem.Equal(&b.elem)
}

// Radians reconstructs the (reduced) radian value this fixed point encodes.
func (a AngleFixedPoint) Radians() float64 {
	var bi big.Int

	a.elem.BigInt(&bi)

	f, _ := new(big.Float).SetInt(&bi).Float64()

	return (f / math.Exp2(float64(a.width))) * TwoPi
}
