// Implements a PDF backend to render port maps,
// by wrapping github.com/jung-kurt/gofpdf.
package portpdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/benoitkugler/portmap/portdraw"
	"github.com/benoitkugler/portmap/portraster"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/math/fixed"
)

// assert interface conformance
var (
	_ portdraw.Driver  = Renderer{}
	_ portdraw.Clipper = Renderer{}
	_ portdraw.Drawer  = filler{}
	_ portdraw.Stroker = stroker{}
)

// Renderer draws with the PDF path operators, one pixel being one point.
type Renderer struct {
	pdf      *gofpdf.Fpdf
	fontSize float64
}

// implements the common path commands,
// shared by the filler and the stroker
type pather struct {
	pdf *gofpdf.Fpdf
}

// implements the filling operation
type filler struct {
	pather
}

// implements the stroking operation
type stroker struct {
	pather
}

// NewRenderer return a renderer which will
// write to the given `pdf`.
func NewRenderer(pdf *gofpdf.Fpdf, fontSize float64) Renderer {
	return Renderer{pdf: pdf, fontSize: fontSize}
}

func (r Renderer) SetupDrawers(willFill, willStroke bool) (f portdraw.Drawer, s portdraw.Stroker) {
	if willFill {
		f = filler{pather{r.pdf}}
	}
	if willStroke {
		s = stroker{pather{r.pdf}}
	}
	return f, s
}

func fixedTof(a fixed.Point26_6) (float64, float64) {
	return float64(a.X) / 64, float64(a.Y) / 64
}

// the path is written to the page as it is built
func (p pather) Clear() {}

func (p pather) Start(a fixed.Point26_6) {
	p.pdf.MoveTo(fixedTof(a))
}

func (p pather) Line(b fixed.Point26_6) {
	p.pdf.LineTo(fixedTof(b))
}

func (p pather) QuadBezier(b fixed.Point26_6, c fixed.Point26_6) {
	cx, cy := fixedTof(b)
	x, y := fixedTof(c)
	p.pdf.CurveTo(cx, cy, x, y)
}

func (p pather) CubeBezier(b fixed.Point26_6, c fixed.Point26_6, d fixed.Point26_6) {
	cx0, cy0 := fixedTof(b)
	cx1, cy1 := fixedTof(c)
	x, y := fixedTof(d)
	p.pdf.CurveBezierCubicTo(cx0, cy0, cx1, cy1, x, y)
}

func (p pather) Stop(closeLoop bool) {
	if closeLoop {
		p.pdf.ClosePath()
	}
}

func (f filler) SetColor(c color.NRGBA) {
	f.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	f.pdf.SetAlpha(float64(c.A)/255, "Normal")
}

func (f filler) Draw() {
	f.pdf.DrawPath("F")
}

func (s stroker) SetColor(c color.NRGBA) {
	s.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	s.pdf.SetAlpha(float64(c.A)/255, "Normal")
}

func (s stroker) SetLineWidth(width float64) {
	s.pdf.SetLineWidth(width)
	s.pdf.SetLineJoinStyle("miter")
	s.pdf.SetLineCapStyle("butt")
}

func (s stroker) Draw() {
	s.pdf.DrawPath("D")
}

func (r Renderer) PushClip(box portdraw.Rect) {
	r.pdf.ClipRect(box.X0, box.Y0, box.Dx(), box.Dy(), false)
}

func (r Renderer) PopClip() { r.pdf.ClipEnd() }

// Text uses the Helvetica core font, whose metrics are
// close to the Arial used by the raster output.
func (r Renderer) Text(box portdraw.Rect, text string, c color.NRGBA) {
	r.pdf.SetFont("Helvetica", "", r.fontSize)
	r.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	x, y := box.Center()
	w := r.pdf.GetStringWidth(text)
	// the cap height of Helvetica is about 0.72 em
	r.pdf.Text(x-w/2, y+0.36*r.fontSize, text)
}

// Options controls the PDF output.
type Options struct {
	FontSize float64
	Title    string
}

// New returns a document whose single page has the size of the diagram.
func New(d *portdraw.Diagram, opts Options) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(d.Width), Ht: float64(d.Height)},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("portmap", true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	pdf.AddPage()
	return pdf
}

// Write renders the diagram: the underlay is placed as an image
// covering the page, and the overlays are drawn as vector paths.
func Write(w io.Writer, d *portdraw.Diagram, underlay image.Image, opts Options) error {
	if opts.FontSize <= 0 {
		opts.FontSize = 14
	}
	if opts.Title == "" && d.Caption != nil {
		opts.Title = d.Caption.Text
	}
	pdf := New(d, opts)

	var buf bytes.Buffer
	if err := portraster.EncodePNG(&buf, underlay); err != nil {
		return fmt.Errorf("encoding underlay: %w", err)
	}
	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("underlay", imgOpts, &buf)
	b := underlay.Bounds()
	pdf.ImageOptions("underlay", 0, 0, float64(b.Dx()), float64(b.Dy()), false, imgOpts, 0, "")

	portdraw.Paint(d, NewRenderer(pdf, opts.FontSize))
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// WriteFile is like Write, creating the file at path.
func WriteFile(path string, d *portdraw.Diagram, underlay image.Image, opts Options) error {
	var buf bytes.Buffer
	if err := Write(&buf, d, underlay, opts); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
