package main

import (
	"fmt"
	"os"

	"github.com/benoitkugler/portmap/portconf"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the portmap configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration (HPE 5130 48 ports)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "portmap.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := portconf.Default().Save(path); err != nil {
		return err
	}
	logger.Info("wrote default configuration", zap.String("path", path))
	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// loadConfig reads the configuration file, if any,
// and applies the command line overrides.
func loadConfig() (*portconf.Config, error) {
	cfg, err := portconf.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if baseImage != "" {
		cfg.BaseImage = baseImage
	}
	if len(formats) > 0 {
		cfg.Output.Formats = formats
	}
	if maxWidth > 0 {
		cfg.Output.MaxWidth = maxWidth
	}
	if charset != "" {
		cfg.Output.Charset = charset
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
