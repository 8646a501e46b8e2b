// Package values parses and formats the rotation-angle literals that show
// up outside the expression evaluator: angle text given as a plain string
// (Parse, ParseList), and the pretty-printed gate parameters that Dumps
// renders back out (Format). The expression evaluator (internal/eval)
// already folds "pi", "pi/2", and arithmetic over them when they appear
// inside a parsed ast.Expression; this package exists for the surrounding
// places where an angle arrives or leaves as plain text instead.
package values

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// piExpr matches a coefficient*pi/denominator expression: pi, 2pi, 2*pi,
// pi/2, 3pi/4, 3*pi/4, -pi, -pi/2, -3*pi/4.
var piExpr = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// piForm is one entry in the recognized-fraction table used by Format.
type piForm struct {
	value   float64
	display string
}

// commonPiFractions lists the pi fractions Format will render by name
// rather than as a decimal. The entries lie far further apart than
// piFractionTolerance, so at most one of them can match a given value.
var commonPiFractions = []piForm{
	{2 * math.Pi, "2*pi"},
	{math.Pi, "pi"},
	{math.Pi / 2, "pi/2"},
	{math.Pi / 3, "pi/3"},
	{math.Pi / 4, "pi/4"},
	{math.Pi / 6, "pi/6"},
	{math.Pi / 8, "pi/8"},
	{3 * math.Pi / 4, "3*pi/4"},
	{3 * math.Pi / 2, "3*pi/2"},
	{2 * math.Pi / 3, "2*pi/3"},
}

// piFractionTolerance is how close a value has to land to a table entry
// to be reported by name instead of as a decimal.
const piFractionTolerance = 1e-10

// Parse parses a single angle literal: a plain number ("1.5707", "-0.5",
// "3.14e-2") or a pi expression ("pi", "pi/2", "3*pi/4", "-pi/2"). It does
// not consult the expression evaluator and has no notion of identifiers
// other than "pi" — it is for text that never went through an
// ast.Expression in the first place.
func Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("values: empty angle literal")
	}

	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return val, nil
	}

	lowered := strings.ToLower(s)
	matches := piExpr.FindStringSubmatch(lowered)
	if matches == nil {
		return 0, fmt.Errorf("values: %q is not a valid angle literal", s)
	}

	negative := matches[1] == "-"
	coeffText, denomText := matches[2], matches[3]

	coeff := 1.0
	if coeffText != "" {
		var err error
		coeff, err = strconv.ParseFloat(coeffText, 64)
		if err != nil {
			return 0, fmt.Errorf("values: %q has an invalid pi coefficient: %w", s, err)
		}
	}

	result := coeff * math.Pi

	if denomText != "" {
		denom, err := strconv.ParseFloat(denomText, 64)
		if err != nil {
			return 0, fmt.Errorf("values: %q has an invalid pi denominator: %w", s, err)
		}
		if denom == 0 {
			return 0, fmt.Errorf("values: %q divides by zero", s)
		}
		result /= denom
	}

	if negative {
		result = -result
	}

	return result, nil
}

// ParseList splits a comma-separated list of angle literals, trimming
// whitespace and skipping empty entries. It fails on the first
// unparseable element.
func ParseList(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		val, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

// Format renders an angle using pi notation when it lands within
// piFractionTolerance of a commonly-seen fraction of pi, falling back to
// a plain decimal otherwise. This is the display side of Parse: the two
// round-trip for every entry in commonPiFractions.
func Format(radians float64) string {
	for _, pf := range commonPiFractions {
		if math.Abs(radians-pf.value) < piFractionTolerance {
			return pf.display
		}
		if math.Abs(radians+pf.value) < piFractionTolerance {
			return "-" + pf.display
		}
	}

	return fmt.Sprintf("%g", radians)
}
