package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theapemachine/qstore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	config *qstore.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Config returns the configuration resolved from the environment and flags.
func (opts *RootOptions) Config() *qstore.Config {
	if opts.config == nil {
		return &qstore.Config{Verbose: opts.Verbose, Format: opts.Format}
	}
	return opts.config
}

// NewRootCommand creates the root command for the qstore CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "qstore",
		Short: "qstore - quantum state and measurement store",
		Long: `An in-memory store of quantum states and the measurements that collapse them.

Calls are read from a script and executed against a single in-process space,
so ids and collapses carry over from one line to the next.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := qstore.LoadConfig()
			if err != nil {
				return WrapExitError(ExitCommandError, "load config", err)
			}

			// Flags win over the environment only when given explicitly.
			if cmd.Flags().Changed("verbose") {
				cfg.Verbose = opts.Verbose
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = opts.Format
			}

			if !isValidFormat(cfg.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf(
					"invalid format %q: must be one of %v", cfg.Format, ValidFormats,
				))
			}

			opts.Verbose = cfg.Verbose
			opts.Format = cfg.Format
			opts.config = cfg
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewMethodsCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
