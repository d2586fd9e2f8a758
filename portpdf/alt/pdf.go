// Alternative implementation of PDF rendering, writing the
// content stream directly. Since the base image is not embedded,
// the panels are drawn as a schematic.
package alt

import (
	"image"
	"image/color"

	"github.com/benoitkugler/pdf/contentstream"
	"github.com/benoitkugler/pdf/model"
	"github.com/benoitkugler/portmap/portdraw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// assert interface conformance
var (
	_ portdraw.Driver  = Renderer{}
	_ portdraw.Clipper = Renderer{}
	_ portdraw.Drawer  = (*filler)(nil)
	_ portdraw.Stroker = (*stroker)(nil)
)

type Renderer struct {
	pdf                 *contentstream.Appearance
	face                font.Face
	fillOpacityStates   map[float64]*model.GraphicState
	strokeOpacityStates map[float64]*model.GraphicState
}

// implements the common path commands,
// shared by the filler and the stroker
type pather struct {
	pdf     *contentstream.Appearance
	current fixed.Point26_6
}

// implements the filling operation
type filler struct {
	pather
	fillOpacityStates map[float64]*model.GraphicState
}

// implements the stroking operation
type stroker struct {
	pather
	strokeOpacityStates map[float64]*model.GraphicState
}

// WriteFile draws the schematic of `d` on a single page,
// one pixel being one point, and saves it to `pdfName`.
func WriteFile(pdfName string, d *portdraw.Diagram) error {
	w, h := float64(d.Width), float64(d.Height)
	pdf := contentstream.NewAppearance(w, h)
	renderer := NewRenderer(&pdf)
	// diagrams use a downward Y axis
	pdf.Ops(
		contentstream.OpSave{},
		contentstream.OpConcat{Matrix: model.Matrix{1, 0, 0, -1, 0, h}},
	)
	portdraw.PaintSchematic(d, renderer)
	pdf.Ops(contentstream.OpRestore{})

	var page model.PageObject
	pdf.ApplyToPageObject(&page, true)
	var doc model.Document
	doc.Catalog.Pages.Kids = append(doc.Catalog.Pages.Kids, &page)
	return doc.WriteFile(pdfName, nil)
}

// NewRenderer return a renderer which will
// write to the given `pdf`.
func NewRenderer(cs *contentstream.Appearance) Renderer {
	return Renderer{
		pdf:                 cs,
		face:                basicfont.Face7x13,
		fillOpacityStates:   make(map[float64]*model.GraphicState),
		strokeOpacityStates: make(map[float64]*model.GraphicState),
	}
}

func (r Renderer) SetupDrawers(willFill, willStroke bool) (f portdraw.Drawer, s portdraw.Stroker) {
	if willFill {
		f = &filler{pather: pather{pdf: r.pdf}, fillOpacityStates: r.fillOpacityStates}
	}
	if willStroke {
		s = &stroker{pather: pather{pdf: r.pdf}, strokeOpacityStates: r.strokeOpacityStates}
	}
	return f, s
}

func fixedTof(a fixed.Point26_6) (float64, float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}

// quadToCubic returns the control points of the cubic curve
// equivalent to the quadratic one (p0, b, c).
func quadToCubic(p0, b, c fixed.Point26_6) (c1, c2 fixed.Point26_6) {
	c1 = p0.Add(b.Sub(p0).Mul(fixed.I(2)).Div(fixed.I(3)))
	c2 = c.Add(b.Sub(c).Mul(fixed.I(2)).Div(fixed.I(3)))
	return c1, c2
}

func (p *pather) Clear() {}

func (p *pather) Start(a fixed.Point26_6) {
	x, y := fixedTof(a)
	p.pdf.Ops(contentstream.OpMoveTo{X: x, Y: y})
	p.current = a
}

func (p *pather) Line(b fixed.Point26_6) {
	x, y := fixedTof(b)
	p.pdf.Ops(contentstream.OpLineTo{X: x, Y: y})
	p.current = b
}

func (p *pather) QuadBezier(b fixed.Point26_6, c fixed.Point26_6) {
	c1, c2 := quadToCubic(p.current, b, c)
	p.CubeBezier(c1, c2, c)
}

func (p *pather) CubeBezier(b fixed.Point26_6, c fixed.Point26_6, d fixed.Point26_6) {
	cx0, cy0 := fixedTof(b)
	cx1, cy1 := fixedTof(c)
	x, y := fixedTof(d)
	p.pdf.Ops(contentstream.OpCubicTo{X1: cx0, Y1: cy0, X2: cx1, Y2: cy1, X3: x, Y3: y})
	p.current = d
}

func (p *pather) Stop(closeLoop bool) {
	if closeLoop {
		p.pdf.Ops(contentstream.OpClosePath{})
	}
}

// cache the opacity states
func opacityState(states map[float64]*model.GraphicState, opacity float64, stroke bool) *model.GraphicState {
	gs, ok := states[opacity]
	if !ok {
		gs = &model.GraphicState{BM: []model.Name{"Normal"}}
		if stroke {
			gs.CA = model.ObjFloat(opacity)
		} else {
			gs.Ca = model.ObjFloat(opacity)
		}
		states[opacity] = gs
	}
	return gs
}

// the color operators are not allowed inside a path object,
// so they are written before the path starts.
func (f *filler) SetColor(c color.NRGBA) {
	f.pdf.SetColorFill(c)
	gs := opacityState(f.fillOpacityStates, float64(c.A)/255, false)
	f.pdf.SetGraphicState(gs)
}

func (f *filler) Draw() {
	f.pdf.Ops(contentstream.OpFill{})
}

func (s *stroker) SetLineWidth(width float64) {
	s.pdf.Ops(
		contentstream.OpSetLineWidth{W: width},
		contentstream.OpSetLineCap{Style: 0},
		contentstream.OpSetLineJoin{Style: 0},
		contentstream.OpSetMiterLimit{Limit: 4},
	)
}

func (s *stroker) SetColor(c color.NRGBA) {
	s.pdf.SetColorStroke(c)
	gs := opacityState(s.strokeOpacityStates, float64(c.A)/255, true)
	s.pdf.SetGraphicState(gs)
}

func (s *stroker) Draw() {
	s.pdf.Ops(contentstream.OpStroke{})
}

func (r Renderer) PushClip(box portdraw.Rect) {
	r.pdf.SaveState()
	r.pdf.Ops(
		contentstream.OpRectangle{X: box.X0, Y: box.Y0, W: box.Dx(), H: box.Dy()},
		contentstream.OpClip{},
		contentstream.OpEndPath{},
	)
}

// PopClip also restores the colors cached by the appearance.
func (r Renderer) PopClip() { _ = r.pdf.RestoreState() }

// Text draws the glyphs of the bitmap face as filled squares,
// so that the page needs no font resource.
func (r Renderer) Text(box portdraw.Rect, text string, c color.NRGBA) {
	pixels := glyphPixels(r.face, box, text)
	if len(pixels) == 0 {
		return
	}
	f, _ := r.SetupDrawers(true, false)
	f.Clear()
	f.SetColor(c)
	for _, px := range pixels {
		x, y := float64(px.X), float64(px.Y)
		f.Start(portdraw.ToFixed(x, y))
		f.Line(portdraw.ToFixed(x+1, y))
		f.Line(portdraw.ToFixed(x+1, y+1))
		f.Line(portdraw.ToFixed(x, y+1))
		f.Stop(true)
	}
	f.Draw()
}

// glyphPixels returns the inked pixels of `text`, centered in box.
func glyphPixels(face font.Face, box portdraw.Rect, text string) []image.Point {
	m := face.Metrics()
	width := font.MeasureString(face, text)
	x := box.X0 + (box.Dx()-float64(width)/64)/2
	y := box.Y0 + (box.Dy()-float64(m.Ascent+m.Descent)/64)/2 + float64(m.Ascent)/64
	dot := fixed.P(int(x), int(y))

	var out []image.Point
	prev := rune(-1)
	for _, r := range text {
		if prev >= 0 {
			dot.X += face.Kern(prev, r)
		}
		dr, mask, maskp, advance, ok := face.Glyph(dot, r)
		if ok {
			for py := dr.Min.Y; py < dr.Max.Y; py++ {
				for px := dr.Min.X; px < dr.Max.X; px++ {
					_, _, _, a := mask.At(maskp.X+px-dr.Min.X, maskp.Y+py-dr.Min.Y).RGBA()
					if a >= 0x8000 {
						out = append(out, image.Pt(px, py))
					}
				}
			}
		}
		dot.X += advance
		prev = r
	}
	return out
}
