// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package bitset provides a compact set of unsigned integers. It backs the
// Register Model's TouchSet; the Depth Tracker keeps its own maps and does
// not use it.
package bitset

import (
	"fmt"
	"strings"

	bbloom "github.com/bits-and-blooms/bitset"
)

// Set is a set of (unsigned) integer identities, implemented atop
// bits-and-blooms/bitset. This replaces the teacher's hand-rolled
// pkg/util/collection/bit.Set with the equivalent third-party package,
// since nothing here needs the teacher's custom iterator machinery.
type Set struct {
	bits *bbloom.BitSet
}

// NewSet creates an empty set with initial capacity for the given number of
// identities (capacity grows automatically beyond this).
func NewSet(capacity uint) *Set {
	return &Set{bits: bbloom.New(capacity)}
}

// Clone creates a true copy of this set.
func (s *Set) Clone() *Set {
	return &Set{bits: s.bits.Clone()}
}

// Insert adds val to the set.
func (s *Set) Insert(val uint) {
	s.bits.Set(val)
}

// InsertAll adds zero or more values to the set.
func (s *Set) InsertAll(vals ...uint) {
	for _, v := range vals {
		s.Insert(v)
	}
}

// Remove drops val from the set, if present.
func (s *Set) Remove(val uint) {
	s.bits.Clear(val)
}

// Contains reports whether val is a member.
func (s *Set) Contains(val uint) bool {
	return s.bits.Test(val)
}

// Union inserts every element of other into this set.
func (s *Set) Union(other *Set) {
	s.bits.InPlaceUnion(other.bits)
}

// Count returns the number of members.
func (s *Set) Count() uint {
	return s.bits.Count()
}

// Elements returns the sorted list of members.
func (s *Set) Elements() []uint {
	out := make([]uint, 0, s.bits.Count())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		out = append(out, i)
	}

	return out
}

// HasDuplicate reports whether any value occurs more than once in vals,
// returning the first repeated value if so.
func HasDuplicate(vals []uint) (uint, bool) {
	seen := NewSet(uint(len(vals)))
	for _, v := range vals {
		if seen.Contains(v) {
			return v, true
		}

		seen.Insert(v)
	}

	return 0, false
}

func (s *Set) String() string {
	elems := s.Elements()
	parts := make([]string, len(elems))

	for i, e := range elems {
		parts[i] = fmt.Sprintf("%d", e)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}
