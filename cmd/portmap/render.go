package main

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/benoitkugler/portmap/portchart"
	"github.com/benoitkugler/portmap/portconf"
	"github.com/benoitkugler/portmap/portcsv"
	"github.com/benoitkugler/portmap/portdraw"
	"github.com/benoitkugler/portmap/portpdf"
	"github.com/benoitkugler/portmap/portpdf/alt"
	"github.com/benoitkugler/portmap/portraster"
	"github.com/benoitkugler/portmap/portsvg"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/image/font"
)

// renderer holds what is shared by every CSV file of a run.
type renderer struct {
	cfg    *portconf.Config
	base   image.Image // nil when no format needs it
	face   font.Face
	outDir string
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	files, failed := inputFiles(args)
	total := len(files) + failed
	if total == 0 {
		logger.Warn("no CSV file to render")
		return nil
	}
	if len(files) > 0 {
		r, err := newRenderer(cfg, outDir)
		if err != nil {
			return err
		}
		for _, path := range files {
			if err := r.renderFile(path); err != nil {
				logger.Error("failed to render", zap.String("file", path), zap.Error(err))
				failed++
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, total)
	}
	return nil
}

// inputFiles expands directories into their CSV files;
// no argument means the working directory.
// Unreadable arguments are logged and counted as failed.
func inputFiles(args []string) (files []string, failed int) {
	if len(args) == 0 {
		args = []string{"."}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			logger.Error("failed to read input", zap.String("path", arg), zap.Error(err))
			failed++
			continue
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := portcsv.Find(arg)
		if err != nil {
			logger.Error("failed to list directory", zap.String("path", arg), zap.Error(err))
			failed++
			continue
		}
		files = append(files, found...)
	}
	return files, failed
}

func needsBase(cfg *portconf.Config) bool {
	return cfg.HasFormat(portconf.FormatPNG) || cfg.HasFormat(portconf.FormatSVG) || cfg.HasFormat(portconf.FormatPDF)
}

func newRenderer(cfg *portconf.Config, outDir string) (*renderer, error) {
	r := &renderer{cfg: cfg, outDir: outDir}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if needsBase(cfg) {
		base, err := portraster.OpenBase(cfg.BaseImage)
		if err != nil {
			return nil, err
		}
		r.base = base
		logger.Debug("loaded base image", zap.String("path", cfg.BaseImage),
			zap.Int("width", base.Bounds().Dx()), zap.Int("height", base.Bounds().Dy()))
	}
	if cfg.HasFormat(portconf.FormatPNG) {
		face, err := portraster.LoadFace(cfg.Legend.Font, cfg.Legend.FontSize)
		if err != nil {
			logger.Debug("using the built-in font", zap.Error(err))
		}
		r.face = face
	}
	return r, nil
}

// panelSize is the size of one switch: the base image,
// or the extent of the port regions.
func (r *renderer) panelSize() image.Point {
	if r.base != nil {
		return r.base.Bounds().Size()
	}
	return portdraw.SchematicSize(r.cfg)
}

func (r *renderer) output(csvPath, ext string) string {
	return portcsv.OutputPath(csvPath, r.outDir, ext)
}

func (r *renderer) renderFile(path string) error {
	inv, err := portcsv.ReadFile(path, portcsv.Options{Charset: r.cfg.Output.Charset, Logger: logger})
	if err != nil {
		return err
	}
	if inv.Skipped > 0 {
		logger.Info("skipped rows", zap.String("file", path), zap.Int("count", inv.Skipped))
	}
	d := portdraw.Build(r.cfg, inv, r.panelSize())

	var underlay *image.NRGBA
	if r.cfg.HasFormat(portconf.FormatSVG) || r.cfg.HasFormat(portconf.FormatPDF) {
		underlay = portraster.Underlay(d, r.base)
	}

	for _, format := range r.cfg.Output.Formats {
		var out string
		switch format {
		case portconf.FormatPNG:
			out = r.output(path, ".png")
			img := portraster.Fit(portraster.Render(d, r.base, r.face), r.cfg.Output.MaxWidth)
			err = portraster.Save(img, out)
		case portconf.FormatSVG:
			out = r.output(path, ".svg")
			err = portsvg.WriteFile(out, d, underlay, portsvg.Options{FontSize: r.cfg.Legend.FontSize})
		case portconf.FormatPDF:
			out = r.output(path, ".pdf")
			err = portpdf.WriteFile(out, d, underlay, portpdf.Options{FontSize: r.cfg.Legend.FontSize})
		case portconf.FormatPDFVector:
			out = r.output(path, ".vector.pdf")
			err = alt.WriteFile(out, d)
		case portconf.FormatChart:
			out = r.output(path, ".vlans.png")
			err = portchart.WriteFile(out, r.cfg, inv)
			if errors.Is(err, portchart.ErrNoData) {
				logger.Info("no port to chart", zap.String("file", path))
				continue
			}
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", format, err)
		}
		logger.Info("wrote", zap.String("file", out), zap.Int("switches", len(inv.Switches)))
	}
	return nil
}
