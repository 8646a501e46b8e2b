// Package simulate is a small statevector simulator used only from
// tests, to cross-check that unroll()/rebase() preserve the semantics of
// a flattened circuit on computational basis state inputs. It is not
// part of the analysis pipeline itself — nothing in module.go, unroll.go,
// or the Core Visitor imports it — the same role q-deck's quantum.go
// statevector engine plays relative to that repo's own circuit model,
// which this package's gate kernels are adapted from.
package simulate

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/qbraid/qasm3/internal/registers"
	"github.com/qbraid/qasm3/internal/visitor"
)

// State is a dense statevector over NumQubits qubits, indexed so that bit
// q of the basis-state index selects Amplitudes' q-th qubit.
type State struct {
	Amplitudes []complex128
	NumQubits  int
}

// New returns the |0...0> state over n qubits.
func New(n int) *State {
	amps := make([]complex128, 1<<uint(n))
	amps[0] = 1
	return &State{Amplitudes: amps, NumQubits: n}
}

// Clone deep-copies s.
func (s *State) Clone() *State {
	amps := make([]complex128, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &State{Amplitudes: amps, NumQubits: s.NumQubits}
}

// Probabilities returns each basis state's measurement probability,
// indexed the same way Amplitudes is.
func (s *State) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		probs[i] = real(a * cmplx.Conj(a))
	}
	return probs
}

// Run flattens outs onto a fresh |0...0> state over numQubits qubits,
// using qubitIndex to resolve each Output's registers.Identity operands
// to a dense 0-based qubit index. It stops and returns an error on any
// gate name it has no kernel for, any measurement, reset, or open
// conditional — this is a semantics cross-checker for flattened,
// branch-free Clifford+rotation circuits, not a general backend.
func Run(outs []visitor.Output, numQubits int, qubitIndex func(registers.Identity) (int, error)) (*State, error) {
	s := New(numQubits)

	for _, out := range outs {
		if err := apply(s, out, qubitIndex); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func apply(s *State, out visitor.Output, qubitIndex func(registers.Identity) (int, error)) error {
	switch out.(type) {
	case visitor.QubitDecl, visitor.ClbitDecl:
		return nil
	}

	g, ok := out.(visitor.GateOp)
	if !ok {
		return fmt.Errorf("simulate: %T is not a simulatable gate (measurements, resets, barriers and conditionals fall outside the statevector cross-check)", out)
	}

	qubits := make([]int, len(g.Qubits))
	for i, id := range g.Qubits {
		idx, err := qubitIndex(id)
		if err != nil {
			return err
		}
		qubits[i] = idx
	}

	theta := 0.0
	if len(g.Params) > 0 {
		theta = g.Params[0]
	}

	switch g.Name {
	case "id":
		// no-op
	case "h":
		s.applyH(qubits[0])
	case "x":
		s.applyX(qubits[0])
	case "y":
		s.applyY(qubits[0])
	case "z":
		s.applyZ(qubits[0])
	case "s":
		s.applyPhase(qubits[0], 1i)
	case "sdg":
		s.applyPhase(qubits[0], -1i)
	case "sx":
		s.applySX(qubits[0])
	case "t":
		s.applyPhase(qubits[0], cmplx.Exp(complex(0, math.Pi/4)))
	case "tdg":
		s.applyPhase(qubits[0], cmplx.Exp(complex(0, -math.Pi/4)))
	case "rx":
		s.applyRX(qubits[0], theta)
	case "ry":
		s.applyRY(qubits[0], theta)
	case "rz":
		s.applyRZ(qubits[0], theta)
	case "cx":
		s.applyCX(qubits[0], qubits[1])
	case "cz":
		s.applyCZ(qubits[0], qubits[1])
	case "swap":
		s.applySwap(qubits[0], qubits[1])
	case "ccx":
		s.applyCCX(qubits[0], qubits[1], qubits[2])
	default:
		return fmt.Errorf("simulate: no kernel for gate %q", g.Name)
	}

	return nil
}

func (s *State) applyH(q int) {
	factor := complex(1/math.Sqrt2, 0)
	bit := 1 << uint(q)
	out := make([]complex128, len(s.Amplitudes))
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			out[i] = factor * (s.Amplitudes[i] + s.Amplitudes[j])
			out[j] = factor * (s.Amplitudes[i] - s.Amplitudes[j])
		}
	}
	s.Amplitudes = out
}

func (s *State) applyX(q int) {
	bit := 1 << uint(q)
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *State) applyY(q int) {
	bit := 1 << uint(q)
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = 1i*s.Amplitudes[j], -1i*s.Amplitudes[i]
		}
	}
}

func (s *State) applyZ(q int) {
	s.applyPhase(q, -1)
}

func (s *State) applyPhase(q int, factor complex128) {
	bit := 1 << uint(q)
	for i := range s.Amplitudes {
		if i&bit != 0 {
			s.Amplitudes[i] *= factor
		}
	}
}

func (s *State) applySX(q int) {
	bit := 1 << uint(q)
	half := complex(0.5, 0.5)
	conj := complex(0.5, -0.5)
	out := make([]complex128, len(s.Amplitudes))
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			out[i] = half*s.Amplitudes[i] + conj*s.Amplitudes[j]
			out[j] = conj*s.Amplitudes[i] + half*s.Amplitudes[j]
		}
	}
	s.Amplitudes = out
}

func (s *State) applyRX(q int, theta float64) {
	bit := 1 << uint(q)
	c := complex(math.Cos(theta/2), 0)
	minusISin := complex(0, -math.Sin(theta/2))
	out := make([]complex128, len(s.Amplitudes))
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			out[i] = c*s.Amplitudes[i] + minusISin*s.Amplitudes[j]
			out[j] = minusISin*s.Amplitudes[i] + c*s.Amplitudes[j]
		}
	}
	s.Amplitudes = out
}

func (s *State) applyRY(q int, theta float64) {
	bit := 1 << uint(q)
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	out := make([]complex128, len(s.Amplitudes))
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			out[i] = c*s.Amplitudes[i] - sn*s.Amplitudes[j]
			out[j] = sn*s.Amplitudes[i] + c*s.Amplitudes[j]
		}
	}
	s.Amplitudes = out
}

func (s *State) applyRZ(q int, theta float64) {
	bit := 1 << uint(q)
	phase := cmplx.Exp(complex(0, theta/2))
	conjPhase := cmplx.Conj(phase)
	for i := range s.Amplitudes {
		if i&bit != 0 {
			s.Amplitudes[i] *= phase
		} else {
			s.Amplitudes[i] *= conjPhase
		}
	}
}

func (s *State) applyCX(control, target int) {
	cBit := 1 << uint(control)
	tBit := 1 << uint(target)
	for i := range s.Amplitudes {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *State) applyCZ(control, target int) {
	cBit := 1 << uint(control)
	tBit := 1 << uint(target)
	for i := range s.Amplitudes {
		if i&cBit != 0 && i&tBit != 0 {
			s.Amplitudes[i] *= -1
		}
	}
}

func (s *State) applySwap(a, b int) {
	bitA := 1 << uint(a)
	bitB := 1 << uint(b)
	for i := range s.Amplitudes {
		if i&bitA != 0 && i&bitB == 0 {
			j := (i &^ bitA) | bitB
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *State) applyCCX(c1, c2, target int) {
	c1Bit := 1 << uint(c1)
	c2Bit := 1 << uint(c2)
	tBit := 1 << uint(target)
	for i := range s.Amplitudes {
		if i&c1Bit != 0 && i&c2Bit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}
