package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theapemachine/qstore"
)

// NewMethodsCommand creates the methods command.
func NewMethodsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "methods",
		Short:         "List the call names a script may use",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.Config()
			methods := qstore.NewDispatcher(qstore.NewSpace(cfg)).Methods()

			if cfg.Format == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(methods)
			}

			for _, method := range methods {
				fmt.Fprintln(cmd.OutOrStdout(), method)
			}
			return nil
		},
	}
}
