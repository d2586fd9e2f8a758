// Implements an SVG backend to render port maps,
// by wrapping github.com/ajstarks/svgo.
package portsvg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/benoitkugler/portmap/portdraw"
	"github.com/benoitkugler/portmap/portraster"
	"golang.org/x/image/math/fixed"
)

// assert interface conformance
var (
	_ portdraw.Driver  = Renderer{}
	_ portdraw.Clipper = Renderer{}
)

// Renderer writes the overlays as SVG elements.
type Renderer struct {
	canvas     *svg.SVG
	fontFamily string
	fontSize   float64
	clips      *int // clip paths defined so far
}

// NewRenderer return a renderer which will
// write to the given `canvas`.
func NewRenderer(canvas *svg.SVG, fontFamily string, fontSize float64) Renderer {
	return Renderer{canvas: canvas, fontFamily: fontFamily, fontSize: fontSize, clips: new(int)}
}

// implements the common path commands,
// shared by the filler and the stroker
type pather struct {
	canvas *svg.SVG
	d      strings.Builder
	color  color.NRGBA
}

type filler struct{ pather }

type stroker struct {
	pather
	width float64
}

func (r Renderer) SetupDrawers(willFill, willStroke bool) (f portdraw.Drawer, s portdraw.Stroker) {
	if willFill {
		f = &filler{pather: pather{canvas: r.canvas}}
	}
	if willStroke {
		s = &stroker{pather: pather{canvas: r.canvas}, width: 1}
	}
	return f, s
}

func num(v fixed.Int26_6) string {
	return strconv.FormatFloat(float64(v)/64, 'f', -1, 64)
}

func (p *pather) point(cmd byte, pts ...fixed.Point26_6) {
	p.d.WriteByte(cmd)
	for i, a := range pts {
		if i > 0 {
			p.d.WriteByte(' ')
		}
		p.d.WriteString(num(a.X))
		p.d.WriteByte(' ')
		p.d.WriteString(num(a.Y))
	}
}

func (p *pather) Clear() { p.d.Reset() }

func (p *pather) Start(a fixed.Point26_6) { p.point('M', a) }

func (p *pather) Line(b fixed.Point26_6) { p.point('L', b) }

func (p *pather) QuadBezier(b, c fixed.Point26_6) { p.point('Q', b, c) }

func (p *pather) CubeBezier(b, c, d fixed.Point26_6) { p.point('C', b, c, d) }

func (p *pather) Stop(closeLoop bool) {
	if closeLoop {
		p.d.WriteByte('Z')
	}
}

func (p *pather) SetColor(c color.NRGBA) { p.color = c }

func rgb(c color.NRGBA) string {
	s := fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
	if c.A != 0xff {
		s += fmt.Sprintf(";opacity:%.3f", float64(c.A)/255)
	}
	return s
}

func (f *filler) Draw() {
	f.canvas.Path(f.d.String(), "fill:"+rgb(f.color)+";stroke:none")
}

func (s *stroker) SetLineWidth(width float64) { s.width = width }

func (s *stroker) Draw() {
	s.canvas.Path(s.d.String(), fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g;stroke-linejoin:miter", rgb(s.color), s.width))
}

// PushClip defines a clip path for box and opens a group using it.
func (r Renderer) PushClip(box portdraw.Rect) {
	id := fmt.Sprintf("clip%d", *r.clips)
	*r.clips++
	r.canvas.Def()
	r.canvas.ClipPath(`id="` + id + `"`)
	r.canvas.Rect(int(box.X0), int(box.Y0), int(box.Dx()), int(box.Dy()))
	r.canvas.ClipEnd()
	r.canvas.DefEnd()
	r.canvas.Group(`clip-path="url(#` + id + `)"`)
}

func (r Renderer) PopClip() { r.canvas.Gend() }

func (r Renderer) Text(box portdraw.Rect, text string, c color.NRGBA) {
	x, y := box.Center()
	r.canvas.Text(int(x), int(y), text, fmt.Sprintf(
		"text-anchor:middle;dominant-baseline:central;font-family:%s;font-size:%gpx;fill:%s",
		r.fontFamily, r.fontSize, rgb(c)))
}

// errWriter keeps the first write error, since svgo ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// Options controls the SVG output.
type Options struct {
	FontFamily string
	FontSize   float64
}

// Write renders the diagram as an SVG document. The underlay, when not nil,
// is embedded as a PNG image below the overlays; otherwise the panels
// are drawn as a schematic.
func Write(w io.Writer, d *portdraw.Diagram, underlay image.Image, opts Options) error {
	if opts.FontFamily == "" {
		opts.FontFamily = "Arial, Helvetica, sans-serif"
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 14
	}
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(d.Width, d.Height)
	if d.Caption != nil {
		canvas.Title(d.Caption.Text)
	}
	rd := NewRenderer(canvas, opts.FontFamily, opts.FontSize)
	if underlay != nil {
		var buf bytes.Buffer
		if err := portraster.EncodePNG(&buf, underlay); err != nil {
			return fmt.Errorf("encoding underlay: %w", err)
		}
		b := underlay.Bounds()
		canvas.Image(0, 0, b.Dx(), b.Dy(), "data:image/png;base64,"+base64.StdEncoding.EncodeToString(buf.Bytes()))
		portdraw.Paint(d, rd)
	} else {
		portdraw.PaintSchematic(d, rd)
	}
	canvas.End()
	return ew.err
}

// WriteFile is like Write, creating the file at path.
func WriteFile(path string, d *portdraw.Diagram, underlay image.Image, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, d, underlay, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
