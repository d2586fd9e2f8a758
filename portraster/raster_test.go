package portraster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/portmap/portconf"
	"github.com/benoitkugler/portmap/portcsv"
	"github.com/benoitkugler/portmap/portdraw"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
)

var (
	dark     = color.NRGBA{R: 10, G: 10, B: 10, A: 255}
	sentinel = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}
	red      = color.NRGBA{R: 255, A: 255}
	green    = color.NRGBA{G: 255, A: 255}
)

// testBase is a 60x30 switch with two sentinel colored ports.
func testBase() *image.NRGBA {
	img := imaging.New(60, 30, dark)
	for y := 2; y <= 11; y++ {
		for x := 2; x <= 11; x++ {
			img.SetNRGBA(x, y, sentinel)
			img.SetNRGBA(x+18, y, sentinel)
		}
	}
	img.SetNRGBA(2, 2, dark)
	return img
}

func testConfig() *portconf.Config {
	cfg := portconf.Default()
	cfg.Ports = map[int]portconf.Region{
		1: {X1: 2, Y1: 2, X2: 11, Y2: 11},
		2: {X1: 20, Y1: 2, X2: 29, Y2: 11},
	}
	cfg.VLANs = []portconf.VLAN{{ID: 10, Color: portconf.RGB(255, 0, 0)}}
	cfg.Legend.BandHeight = 40
	cfg.Legend.BoxWidth = 20
	cfg.Legend.BoxHeight = 10
	cfg.Legend.Spacing = 5
	cfg.Legend.ShowSource = false
	return cfg
}

func testDiagram(t *testing.T) *portdraw.Diagram {
	t.Helper()
	data := "Switch,Port,VLAN,Running\n1,1,10,UP\n1,2,99,DOWN\n2,2,10,DOWN\n"
	inv, err := portcsv.Read(strings.NewReader(data), portcsv.Options{})
	require.NoError(t, err)
	return portdraw.Build(testConfig(), inv, image.Pt(60, 30))
}

func TestRecolor(t *testing.T) {
	img := testBase()
	n := Recolor(img, portconf.Region{X1: 2, Y1: 2, X2: 11, Y2: 11}, sentinel, red)
	assert.Equal(t, 99, n)
	assert.Equal(t, dark, img.NRGBAAt(2, 2))
	assert.Equal(t, red, img.NRGBAAt(11, 11))
	assert.Equal(t, sentinel, img.NRGBAAt(20, 2))

	// regions are clipped to the image
	n = Recolor(img, portconf.Region{X1: 18, Y1: 0, X2: 100, Y2: 100}, sentinel, red)
	assert.Equal(t, 100, n)
}

func TestOpaque(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0})
	img.SetNRGBA(1, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 128})

	out := Opaque(img)
	assert.Equal(t, sentinel, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, out.NRGBAAt(1, 0))
	// the source is not modified
	assert.Equal(t, uint8(0), img.NRGBAAt(0, 0).A)
}

func TestUnderlay(t *testing.T) {
	d := testDiagram(t)
	base := testBase()
	out := Underlay(d, base)

	require.Equal(t, image.Rect(0, 0, 60, 100), out.Bounds())
	// first switch: port 1 recolored, port 2 has an unknown VLAN
	assert.Equal(t, red, out.NRGBAAt(5, 5))
	assert.Equal(t, dark, out.NRGBAAt(2, 2))
	assert.Equal(t, sentinel, out.NRGBAAt(25, 5))
	// second switch: only port 2 is listed
	assert.Equal(t, sentinel, out.NRGBAAt(5, 35))
	assert.Equal(t, red, out.NRGBAAt(25, 35))
	// legend band
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(5, 90))
	// the base image is shared by every panel and must stay intact
	assert.Equal(t, sentinel, base.NRGBAAt(5, 5))
}

func isDark(c color.NRGBA) bool { return c.R < 16 && c.G < 16 && c.B < 16 }

func TestRender(t *testing.T) {
	d := testDiagram(t)
	out := Render(d, testBase(), basicfont.Face7x13)

	// status marker of switch 1 port 1, centered on (6, 6)
	assert.Equal(t, green, out.NRGBAAt(6, 6))
	assert.Equal(t, red, out.NRGBAAt(3, 10))
	// port 2 of switch 2 is down
	assert.Equal(t, red, out.NRGBAAt(24, 36))

	// one swatch: x from (60 - 25) / 2 = 17, y from 60 + 10 = 70
	sw := d.Legend.Swatches[0]
	require.Equal(t, 17, sw.X)
	require.Equal(t, 70, sw.Y)
	assert.Equal(t, red, out.NRGBAAt(35, 78))
	assert.True(t, isDark(out.NRGBAAt(17, 75)), "left border")
	assert.True(t, isDark(out.NRGBAAt(18, 75)), "left border")
	assert.True(t, isDark(out.NRGBAAt(30, 80)), "bottom border")
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(16, 75))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.NRGBAAt(38, 75))
}

func TestRender_MarkerStaysInPanel(t *testing.T) {
	cfg := testConfig()
	// a port on the bottom edge, with a marker larger than the panel margin
	cfg.Ports = map[int]portconf.Region{1: {X1: 40, Y1: 20, X2: 59, Y2: 29}}
	cfg.Status.RadiusDivisor = 1
	inv, err := portcsv.Read(strings.NewReader("Switch,Port,VLAN,Running\n1,1,10,UP\n2,1,10,DOWN\n"), portcsv.Options{})
	require.NoError(t, err)
	d := portdraw.Build(cfg, inv, image.Pt(60, 30))
	require.Equal(t, portdraw.Marker{X: 49, Y: 24, R: 9, Color: green}, d.Panels[0].Tiles[0].Marker)

	out := Render(d, testBase(), nil)
	assert.Equal(t, green, out.NRGBAAt(49, 29))
	// the next switch is left untouched
	assert.Equal(t, dark, out.NRGBAAt(49, 30))
	assert.Equal(t, dark, out.NRGBAAt(49, 32))
}

func TestRender_Text(t *testing.T) {
	img := imaging.New(40, 20, color.White)
	rd := NewRenderer(img, nil)
	rd.Text(portdraw.Rect{X0: 0, Y0: 0, X1: 40, Y1: 20}, "88", color.NRGBA{A: 255})

	var inked, outside int
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			if img.NRGBAAt(x, y).R < 128 {
				inked++
				if x < 13 || x > 27 {
					outside++
				}
			}
		}
	}
	assert.NotZero(t, inked)
	// "88" is 14 pixels wide, centered
	assert.Zero(t, outside)
}

func TestFit(t *testing.T) {
	img := imaging.New(100, 50, color.White)
	assert.Same(t, img, Fit(img, 0))
	assert.Same(t, img, Fit(img, 100))

	small := Fit(img, 50)
	assert.Equal(t, image.Rect(0, 0, 50, 25), small.Bounds())
}

func TestSave(t *testing.T) {
	d := testDiagram(t)
	out := Render(d, testBase(), nil)
	path := filepath.Join(t.TempDir(), "rack.png")
	require.NoError(t, Save(out, path))

	back, err := OpenBase(path)
	require.NoError(t, err)
	assert.Equal(t, out.Bounds(), back.Bounds())

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, out))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, out.Bounds(), decoded.Bounds())

	_, err = OpenBase(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestLoadFace_Fallback(t *testing.T) {
	face, err := LoadFace("no-such-font-portmap.ttf", 14)
	assert.Error(t, err)
	assert.Equal(t, basicfont.Face7x13, face)

	_, err = LoadFace(filepath.Join(t.TempDir(), "dir", "x.ttf"), 14)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ttf")
	require.NoError(t, os.WriteFile(path, []byte("not a font"), 0o644))

	found, err := findFont(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	// an existing file which is not a font
	face, err := LoadFace(path, 14)
	assert.ErrorContains(t, err, "parsing font")
	assert.Equal(t, basicfont.Face7x13, face)

	_, err = findFont("no-such-font-portmap.ttf")
	assert.Error(t, err)
}
