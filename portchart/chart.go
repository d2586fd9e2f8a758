// Draws a bar chart summarizing how many ports
// are assigned to each VLAN, using github.com/wcharczuk/go-chart.
package portchart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/benoitkugler/portmap/portconf"
	"github.com/benoitkugler/portmap/portcsv"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when the inventory has no port to count.
var ErrNoData = errors.New("no port to chart")

const (
	barWidth   = 50
	barSpacing = 20
	minWidth   = 400
	height     = 400
)

// unknown VLANs are drawn in gray
var unknownColor = drawing.Color{R: 0x99, G: 0x99, B: 0x99, A: 0xff}

func fillColor(c portconf.Color) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Bars returns one bar per VLAN in use: first the configured
// VLANs, in legend order, then the unknown ones by increasing id.
func Bars(cfg *portconf.Config, inv *portcsv.Inventory) []chart.Value {
	counts := inv.VLANCounts()
	var out []chart.Value
	for _, v := range cfg.VLANs {
		n, ok := counts[v.ID]
		if !ok {
			continue
		}
		delete(counts, v.ID)
		out = append(out, bar(cfg.LabelOf(v), n, fillColor(v.Color)))
	}
	var unknown []int
	for id := range counts {
		unknown = append(unknown, id)
	}
	sort.Ints(unknown)
	for _, id := range unknown {
		out = append(out, bar(fmt.Sprint(id), counts[id], unknownColor))
	}
	return out
}

func bar(label string, n int, fill drawing.Color) chart.Value {
	return chart.Value{
		Label: label,
		Value: float64(n),
		Style: chart.Style{
			FillColor:   fill,
			StrokeColor: drawing.ColorBlack,
			StrokeWidth: 1,
		},
	}
}

// New returns the chart of the inventory, or ErrNoData.
func New(cfg *portconf.Config, inv *portcsv.Inventory) (chart.BarChart, error) {
	bars := Bars(cfg, inv)
	if len(bars) == 0 {
		return chart.BarChart{}, ErrNoData
	}
	var top float64
	for _, b := range bars {
		top = math.Max(top, b.Value)
	}
	width := len(bars)*(barWidth+barSpacing) + 120
	if width < minWidth {
		width = minWidth
	}
	// a single valued range is degenerate
	yRange := &chart.ContinuousRange{Min: 0, Max: top + 1}
	return chart.BarChart{
		Title:      fmt.Sprintf("Ports per VLAN: %s", inv.Source),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis:      chart.YAxis{Range: yRange},
		Bars:       bars,
	}, nil
}

// Write renders the chart of the inventory as a PNG image.
func Write(w io.Writer, cfg *portconf.Config, inv *portcsv.Inventory) error {
	bc, err := New(cfg, inv)
	if err != nil {
		return err
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

// WriteFile is like Write, creating the file at path.
func WriteFile(path string, cfg *portconf.Config, inv *portcsv.Inventory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, cfg, inv); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
