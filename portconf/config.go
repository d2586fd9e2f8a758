// Holds the description of a switch front panel:
// where each port sits on the base image, which
// color each VLAN is painted with, and how the
// legend and the outputs are laid out.
package portconf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every error returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Output formats understood by the command line.
const (
	FormatPNG       = "png"
	FormatSVG       = "svg"
	FormatPDF       = "pdf"
	FormatPDFVector = "pdf-vector"
	FormatChart     = "chart"
)

// Formats lists every known output format.
var Formats = []string{FormatPNG, FormatSVG, FormatPDF, FormatPDFVector, FormatChart}

// Config holds all portmap configuration.
type Config struct {
	// BaseImage is the picture of one switch, stacked once per switch.
	BaseImage string `yaml:"base_image"`

	// Sentinel is the only color replaced inside port regions.
	Sentinel Color `yaml:"sentinel"`

	// Ports maps a physical port number to its area on the base image.
	Ports map[int]Region `yaml:"ports"`

	// VLANs are painted and listed in the legend in this order.
	VLANs []VLAN `yaml:"vlans"`

	Legend Legend `yaml:"legend"`
	Status Status `yaml:"status"`
	Output Output `yaml:"output"`
}

// VLAN binds a VLAN id to its color.
type VLAN struct {
	ID    int    `yaml:"id"`
	Color Color  `yaml:"color"`
	Label string `yaml:"label,omitempty"`
	// Patch marks the reserved entry used for patched (untagged) ports,
	// labeled with Legend.PatchLabel instead of its id.
	Patch bool `yaml:"patch,omitempty"`
}

// Legend configures the band appended below the switches.
type Legend struct {
	BoxWidth    int     `yaml:"box_width"`
	BoxHeight   int     `yaml:"box_height"`
	Spacing     int     `yaml:"spacing"`
	BandHeight  int     `yaml:"band_height"`
	TopMargin   int     `yaml:"top_margin"`
	BorderWidth int     `yaml:"border_width"`
	Font        string  `yaml:"font"`
	FontSize    float64 `yaml:"font_size"`
	PatchLabel  string  `yaml:"patch_label"`
	ShowSource  bool    `yaml:"show_source"`
}

// Status configures the marker drawn over ports with a running link.
type Status struct {
	Color         Color `yaml:"color"`
	RadiusDivisor int   `yaml:"radius_divisor"`
}

// Output configures what is written for each CSV file.
type Output struct {
	Formats  []string `yaml:"formats"`
	MaxWidth int      `yaml:"max_width"`
	// Charset is the label of the CSV encoding; empty means detect
	// from the byte order mark, falling back to UTF-8.
	Charset string `yaml:"charset"`
}

// Load reads the YAML file at path on top of Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	// a ports table in the file replaces the default one entirely
	cfg.Ports = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Ports == nil {
		cfg.Ports = Default().Ports
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadOrDefault is like Load, returning Default
// with the environment overrides when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	return Load(path)
}

// Save writes the configuration as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PORTMAP_BASE_IMAGE"); v != "" {
		c.BaseImage = v
	}
}

// Validate checks the regions, the VLAN table and the output formats.
func (c *Config) Validate() error {
	if c.BaseImage == "" {
		return fmt.Errorf("%w: base image not configured", ErrInvalid)
	}
	for _, port := range c.PortNumbers() {
		r := c.Ports[port]
		if r.X1 < 0 || r.Y1 < 0 || r.X1 > r.X2 || r.Y1 > r.Y2 {
			return fmt.Errorf("%w: port %d has region %v", ErrInvalid, port, r)
		}
	}
	seen := make(map[int]bool, len(c.VLANs))
	for _, v := range c.VLANs {
		if seen[v.ID] {
			return fmt.Errorf("%w: VLAN %d listed twice", ErrInvalid, v.ID)
		}
		seen[v.ID] = true
	}
	for _, f := range c.Output.Formats {
		if !isFormat(f) {
			return fmt.Errorf("%w: unknown output format %q (valid: %v)", ErrInvalid, f, Formats)
		}
	}
	if c.Status.RadiusDivisor <= 0 {
		return fmt.Errorf("%w: radius divisor must be positive", ErrInvalid)
	}
	return nil
}

func isFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// ColorOf returns the color of the given VLAN id.
func (c *Config) ColorOf(vlan int) (Color, bool) {
	for _, v := range c.VLANs {
		if v.ID == vlan {
			return v.Color, true
		}
	}
	return Color{}, false
}

// LabelOf returns the legend text of v.
func (c *Config) LabelOf(v VLAN) string {
	switch {
	case v.Patch:
		return c.Legend.PatchLabel
	case v.Label != "":
		return v.Label
	default:
		return fmt.Sprint(v.ID)
	}
}

// PortNumbers returns the configured ports in increasing order.
func (c *Config) PortNumbers() []int {
	out := make([]int, 0, len(c.Ports))
	for p := range c.Ports {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// HasFormat reports whether f is one of the requested output formats.
func (c *Config) HasFormat(f string) bool {
	for _, g := range c.Output.Formats {
		if g == f {
			return true
		}
	}
	return false
}
