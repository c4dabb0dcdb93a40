package sightline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MarginUnit says how a Margin value is resolved against the root.
type MarginUnit uint8

const (
	UnitPixel   MarginUnit = iota // absolute offset in pixels
	UnitPercent                   // percentage of the root's height (top/bottom) or width (left/right)
)

// Margin is one signed side offset of a RootMargin.
type Margin struct {
	Value float64
	Unit  MarginUnit
}

// String formats the margin as "<value>px" or "<value>%".
func (m Margin) String() string {
	v := strconv.FormatFloat(m.Value, 'f', -1, 64)
	if m.Unit == UnitPercent {
		return v + "%"
	}
	return v + "px"
}

// resolve converts the margin to pixels against the given root extent.
func (m Margin) resolve(extent float64) float64 {
	if m.Unit == UnitPercent {
		return m.Value * extent / 100
	}
	return m.Value
}

// RootMargin holds the four resolved sides in CSS order: top, right, bottom, left.
type RootMargin [4]Margin

// DefaultRootMargin is the margin string used when none is supplied.
const DefaultRootMargin = "0px"

var marginTokenRE = regexp.MustCompile(`^(-?\d*\.?\d+)(px|%)$`)

// ParseRootMargin parses a CSS-shorthand margin string of one to four
// whitespace-separated "<number>px" or "<number>%" tokens. An empty or
// blank string parses as DefaultRootMargin.
//
// 1 value applies to all sides; 2 values are vertical then horizontal;
// 3 values are top, horizontal, bottom; 4 values are top, right, bottom, left.
func ParseRootMargin(s string) (RootMargin, error) {
	var m RootMargin
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		tokens = []string{DefaultRootMargin}
	}
	if len(tokens) > 4 {
		return m, fmt.Errorf("%w: %q has %d tokens", ErrMarginTokenCount, s, len(tokens))
	}

	parsed := make([]Margin, len(tokens))
	for i, tok := range tokens {
		match := marginTokenRE.FindStringSubmatch(tok)
		if match == nil {
			return m, fmt.Errorf("%w: %q", ErrMarginFormat, tok)
		}
		v, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return m, fmt.Errorf("%w: %q: %v", ErrMarginFormat, tok, err)
		}
		unit := UnitPixel
		if match[2] == "%" {
			unit = UnitPercent
		}
		parsed[i] = Margin{Value: v, Unit: unit}
	}

	switch len(parsed) {
	case 1:
		m = RootMargin{parsed[0], parsed[0], parsed[0], parsed[0]}
	case 2:
		m = RootMargin{parsed[0], parsed[1], parsed[0], parsed[1]}
	case 3:
		m = RootMargin{parsed[0], parsed[1], parsed[2], parsed[1]}
	case 4:
		m = RootMargin{parsed[0], parsed[1], parsed[2], parsed[3]}
	}
	return m, nil
}

// String returns the canonical four-component form, e.g. "5px 10% 5px 10%".
func (m RootMargin) String() string {
	return m[0].String() + " " + m[1].String() + " " + m[2].String() + " " + m[3].String()
}

// Expand grows root by the margins. Positive values enlarge the rectangle on
// every side; percentages resolve against the root's own size.
func (m RootMargin) Expand(root Rect) Rect {
	top := m[0].resolve(root.Height)
	right := m[1].resolve(root.Width)
	bottom := m[2].resolve(root.Height)
	left := m[3].resolve(root.Width)
	if top == 0 && right == 0 && bottom == 0 && left == 0 {
		return root
	}
	return rectFromEdges(
		root.Left-left,
		root.Top-top,
		root.Right+right,
		root.Bottom+bottom,
	)
}
