package portraster

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/benoitkugler/portmap/portconf"
	"github.com/benoitkugler/portmap/portdraw"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
)

// OpenBase decodes the base switch image.
func OpenBase(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening base image: %w", err)
	}
	return img, nil
}

// Opaque returns a copy of img with every alpha value set to 255,
// keeping the color channels as they are.
func Opaque(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}

// Recolor replaces, inside the inclusive region r, the pixels
// whose color is exactly from. The region is clipped to the image.
// It returns the number of pixels changed.
func Recolor(img *image.NRGBA, r portconf.Region, from, to color.NRGBA) int {
	area := image.Rect(r.X1, r.Y1, r.X2+1, r.Y2+1).Intersect(img.Bounds())
	n := 0
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			i := img.PixOffset(x, y)
			p := img.Pix[i : i+3 : i+3]
			if p[0] == from.R && p[1] == from.G && p[2] == from.B {
				p[0], p[1], p[2] = to.R, to.G, to.B
				n++
			}
		}
	}
	return n
}

// Underlay stacks one recolored copy of base per panel
// on a white canvas, leaving the legend band empty.
func Underlay(d *portdraw.Diagram, base image.Image) *image.NRGBA {
	rgb := Opaque(base)
	canvas := imaging.New(d.Width, d.Height, color.White)
	for _, p := range d.Panels {
		panel := imaging.Clone(rgb)
		for _, t := range p.Tiles {
			if t.Colored {
				Recolor(panel, t.Region.Translate(-p.Y), d.Sentinel, t.Fill)
			}
		}
		canvas = imaging.Paste(canvas, panel, image.Pt(0, p.Y))
	}
	return canvas
}

// Render returns the complete diagram: the underlay
// with the markers, the legend and the caption painted over it.
func Render(d *portdraw.Diagram, base image.Image, face font.Face) *image.NRGBA {
	canvas := Underlay(d, base)
	portdraw.Paint(d, NewRenderer(canvas, face))
	return canvas
}

// Fit scales img down to maxWidth, keeping its aspect ratio.
// Images already narrow enough, or a zero maxWidth, are returned as is.
func Fit(img *image.NRGBA, maxWidth int) *image.NRGBA {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
}

// Save writes img, in the format given by the file extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}
