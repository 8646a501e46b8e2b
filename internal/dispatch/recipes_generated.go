// Copyright 2026 qbraid authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dispatch

// AppliedQubitRole names which qubit of a two-qubit rebase step a recipe
// entry's qubit placeholder resolves to, mirroring the teacher's
// generator-emitted enum-table convention (one constant block per
// generated data table, values never hand-edited).
type AppliedQubitRole int

const (
	AppliedQubit1 AppliedQubitRole = iota
	AppliedQubit2
)

// RecipeStep is one gate emission in a basis-rebase recipe: a gate name,
// a fixed angle parameter (zero when the gate takes none), and which
// qubit role it applies to.
type RecipeStep struct {
	Gate  string
	Angle float64
	Qubit AppliedQubitRole
}

// BasisSet names a target gate basis a circuit can be rebased onto.
type BasisSet int

const (
	BasisRotationalCX BasisSet = iota
	BasisCliffordT
)

// RebaseRecipes is the fixed gate-by-gate rewrite table for each
// (source gate, target basis) pair. It is the transcription of the
// reference tool's DECOMPOSITION_RULES table: ground truth data, not
// derived at runtime.
var RebaseRecipes = map[BasisSet]map[string][]RecipeStep{
	BasisRotationalCX: {
		"h":    {{Gate: "ry", Angle: halfPi, Qubit: AppliedQubit1}, {Gate: "rx", Angle: pi, Qubit: AppliedQubit1}},
		"x":    {{Gate: "rx", Angle: pi, Qubit: AppliedQubit1}},
		"y":    {{Gate: "ry", Angle: pi, Qubit: AppliedQubit1}},
		"z":    {{Gate: "rz", Angle: pi, Qubit: AppliedQubit1}},
		"s":    {{Gate: "rz", Angle: halfPi, Qubit: AppliedQubit1}},
		"sdg":  {{Gate: "rz", Angle: -halfPi, Qubit: AppliedQubit1}},
		"t":    {{Gate: "rz", Angle: quarterPi, Qubit: AppliedQubit1}},
		"tdg":  {{Gate: "rz", Angle: -quarterPi, Qubit: AppliedQubit1}},
		"sx":   {{Gate: "rx", Angle: halfPi, Qubit: AppliedQubit1}},
		"sxdg": {{Gate: "rx", Angle: -halfPi, Qubit: AppliedQubit1}},
		"cz": {
			{Gate: "ry", Angle: halfPi, Qubit: AppliedQubit2},
			{Gate: "rx", Angle: pi, Qubit: AppliedQubit2},
			{Gate: "cx", Qubit: AppliedQubit1},
			{Gate: "ry", Angle: halfPi, Qubit: AppliedQubit2},
			{Gate: "rx", Angle: pi, Qubit: AppliedQubit2},
		},
		"swap": {
			{Gate: "cx", Qubit: AppliedQubit1},
			{Gate: "cx", Qubit: AppliedQubit2},
			{Gate: "cx", Qubit: AppliedQubit1},
		},
	},
	BasisCliffordT: {
		"rx": nil,
		"ry": nil,
		"rz": nil,
		"h":  {{Gate: "h", Qubit: AppliedQubit1}},
		"x":  {{Gate: "h", Qubit: AppliedQubit1}, {Gate: "z", Qubit: AppliedQubit1}, {Gate: "h", Qubit: AppliedQubit1}},
		"y": {
			{Gate: "z", Qubit: AppliedQubit1},
			{Gate: "h", Qubit: AppliedQubit1},
			{Gate: "z", Qubit: AppliedQubit1},
			{Gate: "h", Qubit: AppliedQubit1},
		},
		"z":    {{Gate: "z", Qubit: AppliedQubit1}},
		"s":    {{Gate: "s", Qubit: AppliedQubit1}},
		"sdg":  {{Gate: "sdg", Qubit: AppliedQubit1}},
		"t":    {{Gate: "t", Qubit: AppliedQubit1}},
		"tdg":  {{Gate: "tdg", Qubit: AppliedQubit1}},
		"cx":   {{Gate: "cx", Qubit: AppliedQubit1}},
		"cz":   {{Gate: "cz", Qubit: AppliedQubit1}},
		"swap": {{Gate: "swap", Qubit: AppliedQubit1}},
	},
}

const (
	pi        = 3.14159265358979323846
	halfPi    = pi / 2
	quarterPi = pi / 4
)
