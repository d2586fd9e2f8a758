package portdraw

import (
	"image/color"

	"github.com/srwiley/rasterx"
)

// Paint draws the overlays of the diagram: the status markers of the
// running ports, the legend and the caption. The panels themselves
// (the recolored base images) are the responsibility of the backend.
func Paint(d *Diagram, drv Driver) {
	for _, p := range d.Panels {
		paintMarkers(d, p, drv)
	}
	paintLegend(d.Legend, drv)
	if d.Caption != nil {
		drv.Text(d.Caption.Box, d.Caption.Text, d.Legend.TextColor)
	}
}

// PaintSchematic is used by backends which have no access to the
// base image: each panel is reduced to its frame and its port tiles,
// filled with the VLAN color, or the sentinel color when the VLAN is unknown.
func PaintSchematic(d *Diagram, drv Driver) {
	fillRect(drv, Rect{0, 0, float64(d.Width), float64(d.Height)}, white)
	for _, p := range d.Panels {
		b := p.Bounds(d.PanelSize)
		strokeRect(drv, Rect{float64(b.Min.X), float64(b.Min.Y), float64(b.Max.X), float64(b.Max.Y)}.Inset(0.5), 1, frameGray)
		for _, t := range p.Tiles {
			fill := d.Sentinel
			if t.Colored {
				fill = t.Fill
			}
			r := t.Region
			fillRect(drv, Rect{float64(r.X1), float64(r.Y1), float64(r.X2 + 1), float64(r.Y2 + 1)}, fill)
		}
	}
	Paint(d, drv)
}

// paintMarkers draws the markers of one panel, clipped to
// the panel when the driver supports it.
func paintMarkers(d *Diagram, p Panel, drv Driver) {
	var up []Marker
	for _, t := range p.Tiles {
		if t.Up {
			up = append(up, t.Marker)
		}
	}
	if len(up) == 0 {
		return
	}
	if c, ok := drv.(Clipper); ok {
		b := p.Bounds(d.PanelSize)
		c.PushClip(Rect{float64(b.Min.X), float64(b.Min.Y), float64(b.Max.X), float64(b.Max.Y)})
		defer c.PopClip()
	}
	for _, m := range up {
		paintMarker(m, drv)
	}
}

// paintMarker fills the pixels of the circle, whose
// bounding box is inclusive.
func paintMarker(m Marker, drv Driver) {
	filler, _ := drv.SetupDrawers(true, false)
	filler.Clear()
	filler.SetColor(m.Color)
	rasterx.AddCircle(float64(m.X)+0.5, float64(m.Y)+0.5, float64(m.R)+0.5, filler)
	filler.Draw()
}

func paintLegend(l Legend, drv Driver) {
	for _, s := range l.Swatches {
		area := s.Area()
		fillRect(drv, area, s.Fill)
		if l.BorderWidth > 0 {
			// the border is drawn inside the swatch area
			strokeRect(drv, area.Inset(l.BorderWidth/2), l.BorderWidth, black)
		}
		drv.Text(s.TextBox(), s.Label, l.TextColor)
	}
}

func fillRect(drv Driver, r Rect, c color.NRGBA) {
	filler, _ := drv.SetupDrawers(true, false)
	filler.Clear()
	filler.SetColor(c)
	rasterx.AddRect(r.X0, r.Y0, r.X1, r.Y1, 0, filler)
	filler.Draw()
}

func strokeRect(drv Driver, r Rect, width float64, c color.NRGBA) {
	_, stroker := drv.SetupDrawers(false, true)
	stroker.Clear()
	stroker.SetColor(c)
	stroker.SetLineWidth(width)
	rasterx.AddRect(r.X0, r.Y0, r.X1, r.Y1, 0, stroker)
	stroker.Draw()
}
