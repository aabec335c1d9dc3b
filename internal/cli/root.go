package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Execute runs the botspec CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "botspec",
		Short:         "Compile the Bot API HTML reference into a typed IR",
		Long:          "botspec reads the saved Telegram Bot API reference page and compiles every type and method into a typed intermediate representation, failing loudly on any layout or phrasing it does not recognize.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Convert Cobra flag errors (like unknown flags) into friendly usage errors
	// that also show the command's help text.
	cmd.SetFlagErrorFunc(flagUsageError)

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (YAML or JSON)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging output")

	for _, sub := range []*cobra.Command{newGenerateCmd(), newListCmd(), newInitCmd()} {
		sub.SetFlagErrorFunc(flagUsageError)
		cmd.AddCommand(sub)
	}

	return cmd
}

func flagUsageError(c *cobra.Command, err error) error {
	return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
}
