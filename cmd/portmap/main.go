package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string
	baseImage  string
	formats    []string
	outDir     string
	maxWidth   int
	charset    string

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "portmap [csv files or directories...]",
	Short: "Draw the VLAN and link state of switch ports",
	Long: `portmap reads CSV exports listing, for every switch of a stack,
the VLAN and the running state of each port, and draws one picture per file:
the switch front panel is repeated once per switch, ports are painted with
the color of their VLAN, running ports get a status dot, and a legend is
appended at the bottom.

Without arguments, every .csv file of the working directory is rendered.
The CSV header must name the Switch, Port and VLAN columns; Running is optional.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
	RunE:         runRender,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file (defaults are used when empty)")

	rootCmd.Flags().StringVar(&baseImage, "base", "", "Override the base image of one switch")
	rootCmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "Output formats: png, svg, pdf, pdf-vector, chart (repeatable)")
	rootCmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Write outputs to this directory instead of next to the CSV files")
	rootCmd.Flags().IntVar(&maxWidth, "max-width", 0, "Downscale PNG outputs wider than this (0 keeps the size)")
	rootCmd.Flags().StringVar(&charset, "charset", "", "Encoding of the CSV files, such as windows-1252 (detected when empty)")

	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
