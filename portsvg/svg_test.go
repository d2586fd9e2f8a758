package portsvg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"image"
	"image/color"
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
)

type svgPath struct {
	D     string `xml:"d,attr"`
	Style string `xml:"style,attr"`
}

type svgDoc struct {
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`
	Title  string `xml:"title"`
	Images []struct {
		Href string `xml:"href,attr"`
	} `xml:"image"`
	Clips []struct {
		ID string `xml:"id,attr"`
	} `xml:"defs>clipPath"`
	Groups []struct {
		ClipPath string    `xml:"clip-path,attr"`
		Paths    []svgPath `xml:"path"`
	} `xml:"g"`
	Paths []svgPath `xml:"path"`
	Texts []string  `xml:"text"`
}

func diagram(t *testing.T) *portdraw.Diagram {
	t.Helper()
	cfg := portconf.Default()
	cfg.VLANs = cfg.VLANs[:2]
	inv, err := portcsv.Read(strings.NewReader("Switch,Port,VLAN,Running\n1,1,298,UP\n1,2,90,DOWN\n"), portcsv.Options{})
	require.NoError(t, err)
	inv.Source = "rack<1>.csv"
	return portdraw.Build(cfg, inv, image.Pt(400, 200))
}

func parse(t *testing.T, data []byte) svgDoc {
	t.Helper()
	var doc svgDoc
	require.NoError(t, xml.Unmarshal(data, &doc))
	return doc
}

func TestWrite_Underlay(t *testing.T) {
	d := diagram(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, d, imaging.New(d.Width, d.Height, color.White), Options{}))

	doc := parse(t, buf.Bytes())
	assert.Equal(t, "400", doc.Width)
	assert.Equal(t, "260", doc.Height)
	assert.Equal(t, "rack<1>.csv", doc.Title)
	require.Len(t, doc.Images, 1)
	assert.True(t, strings.HasPrefix(doc.Images[0].Href, "data:image/png;base64,"))

	// the marker is clipped to its panel
	require.Len(t, doc.Clips, 1)
	require.Len(t, doc.Groups, 1)
	assert.Equal(t, "url(#"+doc.Clips[0].ID+")", doc.Groups[0].ClipPath)
	require.Len(t, doc.Groups[0].Paths, 1)
	assert.Contains(t, doc.Groups[0].Paths[0].Style, "fill:rgb(0,255,0)")
	assert.Contains(t, doc.Groups[0].Paths[0].D, "C")

	// fill and border of both swatches
	require.Len(t, doc.Paths, 4)
	assert.Contains(t, doc.Paths[0].Style, "fill:rgb(128,0,128)")
	assert.Contains(t, doc.Paths[1].Style, "stroke:rgb(0,0,0);stroke-width:2")
	assert.True(t, strings.HasSuffix(doc.Paths[0].D, "Z"))

	assert.Equal(t, []string{"298", "90", "rack<1>.csv"}, doc.Texts)
}

func TestWrite_Schematic(t *testing.T) {
	d := diagram(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, d, nil, Options{FontFamily: "Verdana", FontSize: 10}))

	doc := parse(t, buf.Bytes())
	assert.Empty(t, doc.Images)
	// background, frame, two tiles, two swatches with borders
	require.Len(t, doc.Paths, 8)
	require.Len(t, doc.Groups, 1)
	assert.Equal(t, "M0 0L400 0L400 260L0 260Z", doc.Paths[0].D)
	assert.Contains(t, doc.Paths[3].Style, "fill:rgb(255,165,0)")
	assert.Contains(t, buf.String(), "font-family:Verdana;font-size:10px")
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite_Error(t *testing.T) {
	err := Write(failingWriter{}, diagram(t), nil, Options{})
	assert.EqualError(t, err, "disk full")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rack.svg")
	require.NoError(t, WriteFile(path, diagram(t), nil, Options{}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	assert.Error(t, WriteFile(filepath.Join(t.TempDir(), "no", "rack.svg"), diagram(t), nil, Options{}))
}
