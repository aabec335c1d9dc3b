package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
	Verbose    bool

	stdout io.Writer
}

const defaultConfigName = "botspec.yaml"

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample botspec configuration file",
		Long:  "Scaffold a commented botspec configuration file that documents available options.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			cfg := &InitConfig{
				OutputPath: out,
				Force:      force,
				Verbose:    verbose,
				stdout:     cmd.OutOrStdout(),
			}
			return initRunner(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("out", defaultConfigName, "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")

	return cmd
}

func runInit(ctx context.Context, cfg *InitConfig) error {
	_ = ctx

	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = defaultConfigName
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if st, err := os.Stat(absPath); err == nil && !cfg.Force {
		if st.Mode().IsRegular() {
			return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", absPath))
		}
	}

	if err := writeOutput(absPath, []byte(strings.TrimSpace(sampleConfigYAML)+"\n"), true); err != nil {
		return err
	}

	stdout := cfg.stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	fmt.Fprintf(stdout, "Wrote sample config to %s\n", absPath)
	return nil
}

// sampleConfigYAML is a commented example config documenting available options.
const sampleConfigYAML = `# botspec configuration (YAML)
# All fields are optional. Command-line flags override config values.

# Saved copy of https://core.telegram.org/bots/api, or - for stdin.
# input: ./api.html

# Output format: json, yaml, openapi or openapi-yaml. Defaults to json.
# format: json

# Output file. Written to stdout when omitted.
# output: ./ir.json

# Version recorded in the info block of OpenAPI output.
# apiVersion: "9.0"

# Return types for methods whose description does not state one.
# Each entry is keyed by method name and its plain-text description.
# returnHints: ./return-hints.yaml

# Base URL for relative links in descriptions. Set to "" to keep them relative.
# baseURL: https://core.telegram.org/bots/api

# Type headings left out of the IR.
# excludeTypes: [InputFile]

# Prose-only types that are unions even without saying "one of".
# oneOfTypes: [BotCommandScope, ChatMember, InlineQueryResult, InputMessageContent]

# Type names that may be referenced without being declared.
# opaqueTypes: [InputFile]

# Accept references to undeclared types.
# skipClosureCheck: false

# Overwrite an existing output file.
# force: false

# Enable verbose logging.
# verbose: false
`
