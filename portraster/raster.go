// Implements a raster backend to render port maps,
// by wrapping rasterx.
package portraster

import (
	"image"
	"image/color"

	"github.com/benoitkugler/portmap/portdraw"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// assert interface conformance
var (
	_ portdraw.Driver  = (*Renderer)(nil)
	_ portdraw.Clipper = (*Renderer)(nil)
)

// Renderer paints the overlays of a diagram on an image.
type Renderer struct {
	dasher *rasterx.Dasher // to avoid shared state
	filler *rasterx.Filler // we use separated instance
	img    *image.NRGBA
	face   font.Face
}

// NewRenderer returns a renderer drawing on img.
// If face is nil, basicfont.Face7x13 is used for text.
func NewRenderer(img *image.NRGBA, face font.Face) *Renderer {
	if face == nil {
		face = basicfont.Face7x13
	}
	w, h := img.Bounds().Max.X, img.Bounds().Max.Y
	return &Renderer{
		dasher: rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds())),
		filler: rasterx.NewFiller(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds())),
		img:    img,
		face:   face,
	}
}

type filler struct{ *rasterx.Filler }

func (f filler) SetColor(c color.NRGBA) { f.Filler.SetColor(c) }

type stroker struct{ *rasterx.Dasher }

func (s stroker) SetColor(c color.NRGBA) { s.Dasher.SetColor(c) }

func (s stroker) SetLineWidth(width float64) {
	s.SetStroke(fixed.Int26_6(width*64), 4*64, rasterx.ButtCap, rasterx.ButtCap,
		rasterx.FlatGap, rasterx.Miter, nil, 0)
}

func (rd *Renderer) SetupDrawers(willFill, willStroke bool) (f portdraw.Drawer, s portdraw.Stroker) {
	if willFill {
		f = filler{rd.filler}
	}
	if willStroke {
		s = stroker{rd.dasher}
	}
	return f, s
}

// PushClip restricts painting to the pixels covered by box.
func (rd *Renderer) PushClip(box portdraw.Rect) {
	clip := image.Rect(int(box.X0), int(box.Y0), int(box.X1), int(box.Y1))
	rd.filler.SetClip(clip)
	rd.dasher.SetClip(clip)
}

func (rd *Renderer) PopClip() {
	rd.filler.SetClip(image.ZR)
	rd.dasher.SetClip(image.ZR)
}

// Text draws text centered in box, snapped to whole pixels.
func (rd *Renderer) Text(box portdraw.Rect, text string, c color.NRGBA) {
	d := &font.Drawer{Dst: rd.img, Src: image.NewUniform(c), Face: rd.face}
	m := rd.face.Metrics()
	width := d.MeasureString(text).Ceil()
	height := (m.Ascent + m.Descent).Ceil()
	x := int(box.X0) + (int(box.Dx())-width)/2
	y := int(box.Y0) + (int(box.Dy())-height)/2 + m.Ascent.Ceil()
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}
