package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mark3labs/botspec/internal/schema"
)

// ListConfig captures the options for the list command.
type ListConfig struct {
	GenerateConfig
	Only string // types, methods or empty for both
}

var listRunner = runList

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the extracted types and methods as tables",
		Long: "Run the extractor and print a summary of every type and method. " +
			"Reads the same config file and extraction flags as generate.",
		Example: strings.TrimSpace(`  botspec list --input api.html
  botspec list --input api.html --only methods`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveListConfig(cmd)
			if err != nil {
				return err
			}
			return listRunner(cmd.Context(), cfg)
		},
	}

	addExtractFlags(cmd.Flags())
	cmd.Flags().String("only", "", "Restrict output to types or methods")

	return cmd
}

func resolveListConfig(cmd *cobra.Command) (*ListConfig, error) {
	cfg := ListConfig{GenerateConfig: defaultGenerateConfig()}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if configPath = strings.TrimSpace(configPath); configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg.GenerateConfig, configPath); err != nil {
			return nil, err
		}
	}
	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg.GenerateConfig); err != nil {
		return nil, err
	}
	cfg.normalize()
	if cfg.Input == "" {
		return nil, newUsageError("list: --input is required (set via flag or config file)")
	}

	only, err := cmd.Flags().GetString("only")
	if err != nil {
		return nil, err
	}
	cfg.Only = strings.ToLower(strings.TrimSpace(only))
	switch cfg.Only {
	case "", "types", "methods":
	default:
		return nil, newUsageError(fmt.Sprintf("list: unsupported --only %q (allowed: types, methods)", cfg.Only))
	}

	cfg.stdout = cmd.OutOrStdout()
	cfg.stderr = cmd.ErrOrStderr()
	return &cfg, nil
}

func runList(ctx context.Context, cfg *ListConfig) error {
	ir, err := extractIR(ctx, &cfg.GenerateConfig, newLogger(cfg.stderr, cfg.Verbose))
	if err != nil {
		return err
	}
	out := cfg.stdout
	if out == nil {
		out = os.Stdout
	}
	if cfg.Only != "methods" {
		fmt.Fprintf(out, "Types:\n%s\n", renderTypes(ir.Types))
	}
	if cfg.Only != "types" {
		fmt.Fprintf(out, "Methods:\n%s\n", renderMethods(ir.Methods))
	}
	return nil
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	return tbl
}

func renderTypes(types []schema.ApiType) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Name", "Kind", "Members"})
	for _, t := range types {
		var members string
		switch t.Kind {
		case schema.OneOfType:
			members = strings.Join(t.OneOf, ", ")
		case schema.ObjectType:
			members = fieldSummary(t.Fields)
		}
		tbl.AppendRow(table.Row{t.Name, string(t.Kind), members})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d", len(types)), "", ""})
	return tbl.Render()
}

func renderMethods(methods []schema.ApiMethod) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Name", "Parameters", "Returns"})
	for _, m := range methods {
		tbl.AppendRow(table.Row{m.Name, fieldSummary(m.Parameters), m.Returns.String()})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d", len(methods)), "", ""})
	return tbl.Render()
}

// fieldSummary lists field names, marking optional ones with a trailing "?".
func fieldSummary(fields []schema.Field) string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Required {
			names = append(names, f.Name)
		} else {
			names = append(names, f.Name+"?")
		}
	}
	return strings.Join(names, ", ")
}
