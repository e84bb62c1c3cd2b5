package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/gekko3d/motionblur"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Steps      int
	Debug      bool
	Format     string // "text" | "json"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the motionbounds CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "motionbounds",
		Short: "Bound keyframed motion in a scene",
		Long:  "Loads a scene of keyframed boxes, samples each entity's motion and reports the swept bounds.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Steps < 0 {
				return fmt.Errorf("invalid steps %d: must not be negative", opts.Steps)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML config file")
	cmd.PersistentFlags().IntVar(&opts.Steps, "steps", 0, "time samples per motion (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewBoundsCommand(opts))
	cmd.AddCommand(NewAtCommand(opts))

	return cmd
}

// Config resolves the effective configuration: defaults, then the config
// file, then flags.
func (o *RootOptions) Config() (motionblur.Config, error) {
	cfg := motionblur.DefaultConfig()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = motionblur.LoadConfig(o.ConfigPath); err != nil {
			return cfg, err
		}
	}
	if o.Steps > 0 {
		cfg.BoundsSteps = o.Steps
	}
	if o.Debug {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}

// Logger writes every level to w so command output stays clean.
func (o *RootOptions) Logger(cfg motionblur.Config, w io.Writer) motionblur.Logger {
	return motionblur.NewWriterLogger(cfg.LogPrefix, cfg.Debug, w, w)
}
