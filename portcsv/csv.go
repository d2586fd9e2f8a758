// Reads the per-port CSV export describing, for every
// switch of a stack, the VLAN and the link state of its ports.
package portcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// Column names of the header row.
const (
	ColSwitch  = "Switch"
	ColPort    = "Port"
	ColVLAN    = "VLAN"
	ColRunning = "Running"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// PortState is what the CSV says about one port.
type PortState struct {
	VLAN int
	Up   bool
}

// Switch groups the ports of one stack member.
type Switch struct {
	Number int
	Ports  map[int]PortState
}

// Inventory is the content of one CSV file.
type Inventory struct {
	// Source is the file name, printed under the legend.
	Source string
	// Switches are in order of first appearance.
	Switches []*Switch
	// Skipped counts the rows ignored because a cell was not a number.
	Skipped int
}

// Options tunes Read. The zero value is usable.
type Options struct {
	// Charset is an encoding label such as "windows-1252".
	// Empty means detect a byte order mark, defaulting to UTF-8.
	Charset string
	Logger  *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// decode wraps r to produce UTF-8.
func (o Options) decode(r io.Reader) (io.Reader, error) {
	if o.Charset != "" {
		out, err := charset.NewReaderLabel(o.Charset, r)
		if err != nil {
			return nil, fmt.Errorf("unsupported charset %q: %w", o.Charset, err)
		}
		return out, nil
	}
	// the content type only provides the fallback, a BOM wins
	out, err := charset.NewReader(r, "text/csv; charset=utf-8")
	if err == io.EOF {
		return strings.NewReader(""), nil
	}
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}
	return out, nil
}

// Read parses the CSV content. The first row names the columns;
// Switch, Port and VLAN are required, Running is optional.
// Rows whose numeric cells do not parse are skipped.
func Read(r io.Reader, opts Options) (*Inventory, error) {
	log := opts.logger()
	decoded, err := opts.decode(r)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1 // short rows are skipped below, not rejected
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols, err := columns(header)
	if err != nil {
		return nil, err
	}

	inv := &Inventory{}
	index := make(map[int]*Switch)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}
		sw, port, state, ok := cols.parse(record)
		if !ok {
			log.Debug("skipping row", zap.Int("line", line), zap.Strings("record", record))
			inv.Skipped++
			continue
		}
		s := index[sw]
		if s == nil {
			s = &Switch{Number: sw, Ports: make(map[int]PortState)}
			index[sw] = s
			inv.Switches = append(inv.Switches, s)
		}
		s.Ports[port] = state
	}
	return inv, nil
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string, opts Options) (*Inventory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	inv, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	inv.Source = filepath.Base(path)
	return inv, nil
}

type columnIndex struct {
	sw, port, vlan, running int // running is -1 when absent
}

func columns(header []string) (columnIndex, error) {
	idx := columnIndex{sw: -1, port: -1, vlan: -1, running: -1}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch name {
		case ColSwitch:
			idx.sw = i
		case ColPort:
			idx.port = i
		case ColVLAN:
			idx.vlan = i
		case ColRunning:
			idx.running = i
		}
	}
	required := []struct {
		name string
		i    int
	}{{ColSwitch, idx.sw}, {ColPort, idx.port}, {ColVLAN, idx.vlan}}
	for _, r := range required {
		if r.i < 0 {
			return idx, fmt.Errorf("%w: %s", ErrMissingColumn, r.name)
		}
	}
	return idx, nil
}

func (c columnIndex) parse(record []string) (sw, port int, state PortState, ok bool) {
	cell := func(i int) (int, bool) {
		if i >= len(record) {
			return 0, false
		}
		v, err := strconv.Atoi(strings.TrimSpace(record[i]))
		return v, err == nil
	}
	var okS, okP, okV bool
	sw, okS = cell(c.sw)
	port, okP = cell(c.port)
	state.VLAN, okV = cell(c.vlan)
	if !okS || !okP || !okV {
		return 0, 0, PortState{}, false
	}
	if c.running >= 0 && c.running < len(record) {
		state.Up = strings.ToUpper(strings.TrimSpace(record[c.running])) == "UP"
	}
	return sw, port, state, true
}

// Switch returns the switch numbered n, or nil.
func (inv *Inventory) Switch(n int) *Switch {
	for _, s := range inv.Switches {
		if s.Number == n {
			return s
		}
	}
	return nil
}

// VLANCounts returns the number of ports assigned to each VLAN,
// over all switches.
func (inv *Inventory) VLANCounts() map[int]int {
	out := make(map[int]int)
	for _, s := range inv.Switches {
		for _, st := range s.Ports {
			out[st.VLAN]++
		}
	}
	return out
}

// Find returns the CSV files of dir, sorted by name.
func Find(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// OutputPath returns csvPath with its extension replaced by ext
// (which includes the dot), placed in dir when dir is not empty.
func OutputPath(csvPath, dir, ext string) string {
	out := strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ext
	if dir != "" {
		out = filepath.Join(dir, filepath.Base(out))
	}
	return out
}
