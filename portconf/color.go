package portconf

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is an opaque RGB color. In YAML it is written
// either as "#rrggbb" or as a [r, g, b] sequence.
type Color struct{ R, G, B uint8 }

// RGB returns the color with an opaque alpha channel.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) { return c.NRGBA().RGBA() }

// NRGBA returns the color with alpha 255.
func (c Color) NRGBA() color.NRGBA { return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff} }

// Hex returns the "#rrggbb" notation.
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

func (c Color) String() string { return c.Hex() }

// ParseColor accepts "#rrggbb", "rrggbb" and "#rgb".
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func (c Color) MarshalYAML() (interface{}, error) { return c.Hex(), nil }

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseColor(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		var comps []int
		if err := value.Decode(&comps); err != nil {
			return err
		}
		if len(comps) != 3 {
			return fmt.Errorf("line %d: color needs 3 components, got %d", value.Line, len(comps))
		}
		for _, v := range comps {
			if v < 0 || v > 255 {
				return fmt.Errorf("line %d: color component %d out of range", value.Line, v)
			}
		}
		*c = Color{R: uint8(comps[0]), G: uint8(comps[1]), B: uint8(comps[2])}
		return nil
	default:
		return fmt.Errorf("line %d: invalid color", value.Line)
	}
}

// Region is an inclusive pixel rectangle of the base image:
// both corners belong to the port.
type Region struct{ X1, Y1, X2, Y2 int }

// Center returns the middle of the region, rounded down.
func (r Region) Center() (x, y int) { return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2 }

// Size returns the corner to corner distances.
func (r Region) Size() (w, h int) { return r.X2 - r.X1, r.Y2 - r.Y1 }

// Translate shifts the region down by dy pixels.
func (r Region) Translate(dy int) Region {
	return Region{X1: r.X1, Y1: r.Y1 + dy, X2: r.X2, Y2: r.Y2 + dy}
}

func (r Region) String() string { return fmt.Sprintf("[%d %d %d %d]", r.X1, r.Y1, r.X2, r.Y2) }

func (r Region) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range [4]int{r.X1, r.Y1, r.X2, r.Y2} {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)})
	}
	return n, nil
}

func (r *Region) UnmarshalYAML(value *yaml.Node) error {
	var vs []int
	if err := value.Decode(&vs); err != nil {
		return err
	}
	if len(vs) != 4 {
		return fmt.Errorf("line %d: region needs 4 coordinates, got %d", value.Line, len(vs))
	}
	*r = Region{X1: vs[0], Y1: vs[1], X2: vs[2], Y2: vs[3]}
	return nil
}
