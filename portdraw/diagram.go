package portdraw

import (
	"image"
	"image/color"
	"math"

	"github.com/benoitkugler/portmap/portconf"
	"github.com/benoitkugler/portmap/portcsv"
)

var (
	black = color.NRGBA{A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	// frame of the panels in schematic mode
	frameGray = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

// Diagram is the backend independent layout of a port map:
// one panel per switch, stacked from the top, then the legend band.
type Diagram struct {
	Width, Height int

	// PanelSize is the size of the base image.
	PanelSize image.Point
	Sentinel  color.NRGBA
	Panels    []Panel
	Legend    Legend
	Caption   *Caption // nil when disabled
}

// Panel is one copy of the base image.
type Panel struct {
	Switch int
	Y      int    // top of the panel on the canvas
	Tiles  []Tile // sorted by port
}

// Bounds returns the area covered by the panel.
func (p Panel) Bounds(size image.Point) image.Rectangle {
	return image.Rect(0, p.Y, size.X, p.Y+size.Y)
}

// Tile is a port listed in the CSV which has a region on the base image.
type Tile struct {
	Port int
	VLAN int
	// Region is in canvas coordinates, both corners included.
	Region portconf.Region
	// Fill is the VLAN color; Colored is false for unknown VLANs,
	// whose pixels are left untouched.
	Fill    color.NRGBA
	Colored bool
	// Marker is only meaningful when Up is true.
	Up     bool
	Marker Marker
}

// Marker is a filled circle covering the pixels
// from X-R to X+R and from Y-R to Y+R.
type Marker struct {
	X, Y, R int
	Color   color.NRGBA
}

// Legend is the row of VLAN swatches.
type Legend struct {
	Swatches    []Swatch
	BorderWidth float64
	TextColor   color.NRGBA
}

// Swatch is a colored box with a label. Its box covers
// the pixels from (X, Y) to (X+W, Y+H), both included.
type Swatch struct {
	X, Y, W, H int
	Fill       color.NRGBA
	Label      string
}

// Area returns the box covered by the swatch pixels.
func (s Swatch) Area() Rect {
	return Rect{float64(s.X), float64(s.Y), float64(s.X + s.W + 1), float64(s.Y + s.H + 1)}
}

// TextBox is the box the label is centered in.
func (s Swatch) TextBox() Rect {
	return Rect{float64(s.X), float64(s.Y), float64(s.X + s.W), float64(s.Y + s.H)}
}

// Caption is the source file name written under the legend.
type Caption struct {
	Box  Rect
	Text string
}

// Build computes the layout of the inventory drawn on a base image
// of the given size.
func Build(cfg *portconf.Config, inv *portcsv.Inventory, base image.Point) *Diagram {
	d := &Diagram{
		Width:     base.X,
		Height:    base.Y*len(inv.Switches) + cfg.Legend.BandHeight,
		PanelSize: base,
		Sentinel:  cfg.Sentinel.NRGBA(),
	}
	ports := cfg.PortNumbers()
	for i, sw := range inv.Switches {
		panel := Panel{Switch: sw.Number, Y: i * base.Y}
		for _, port := range ports {
			state, ok := sw.Ports[port]
			if !ok {
				continue
			}
			panel.Tiles = append(panel.Tiles, newTile(cfg, port, state, panel.Y))
		}
		d.Panels = append(d.Panels, panel)
	}
	legendY := base.Y*len(inv.Switches) + cfg.Legend.TopMargin
	d.Legend = buildLegend(cfg, base.X, legendY)
	if cfg.Legend.ShowSource && inv.Source != "" {
		top := float64(legendY + cfg.Legend.BoxHeight + 4)
		d.Caption = &Caption{
			Box:  Rect{0, top, float64(base.X), top + cfg.Legend.FontSize + 4},
			Text: inv.Source,
		}
	}
	return d
}

func newTile(cfg *portconf.Config, port int, state portcsv.PortState, dy int) Tile {
	region := cfg.Ports[port].Translate(dy)
	t := Tile{Port: port, VLAN: state.VLAN, Region: region, Up: state.Up}
	if c, ok := cfg.ColorOf(state.VLAN); ok {
		t.Fill, t.Colored = c.NRGBA(), true
	}
	if state.Up {
		x, y := region.Center()
		w, h := region.Size()
		r := w
		if h < r {
			r = h
		}
		// the configuration may not have been validated
		div := cfg.Status.RadiusDivisor
		if div <= 0 {
			div = portconf.DefaultRadiusDivisor
		}
		t.Marker = Marker{X: x, Y: y, R: r / div, Color: cfg.Status.Color.NRGBA()}
	}
	return t
}

// buildLegend centers the swatches; the row may start
// at a negative X when the canvas is too narrow.
func buildLegend(cfg *portconf.Config, width, y int) Legend {
	lg := cfg.Legend
	l := Legend{BorderWidth: float64(lg.BorderWidth), TextColor: black}
	total := len(cfg.VLANs) * (lg.BoxWidth + lg.Spacing)
	x := floorDiv(width-total, 2)
	for _, v := range cfg.VLANs {
		l.Swatches = append(l.Swatches, Swatch{
			X: x, Y: y, W: lg.BoxWidth, H: lg.BoxHeight,
			Fill:  v.Color.NRGBA(),
			Label: cfg.LabelOf(v),
		})
		x += lg.BoxWidth + lg.Spacing
	}
	return l
}

// floorDiv rounds toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Tiles returns every tile of the diagram, panel after panel.
func (d *Diagram) Tiles() []Tile {
	var out []Tile
	for _, p := range d.Panels {
		out = append(out, p.Tiles...)
	}
	return out
}

// SchematicSize returns a panel size enclosing every port region,
// with the same margin on both sides, for use when no base image
// is available.
func SchematicSize(cfg *portconf.Config) image.Point {
	if len(cfg.Ports) == 0 {
		return image.Point{}
	}
	minX, minY := math.MaxInt, math.MaxInt
	var maxX, maxY int
	for _, r := range cfg.Ports {
		minX, minY = min(minX, r.X1), min(minY, r.Y1)
		maxX, maxY = max(maxX, r.X2), max(maxY, r.Y2)
	}
	return image.Pt(maxX+1+minX, maxY+1+minY)
}
