package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/botspec/internal/emitter/iremitter"
	"github.com/mark3labs/botspec/internal/emitter/oasemitter"
	"github.com/mark3labs/botspec/internal/extract"
	"github.com/mark3labs/botspec/internal/schema"
)

// Output formats accepted by generate.
const (
	FormatJSON        = "json"
	FormatYAML        = "yaml"
	FormatOpenAPI     = "openapi"
	FormatOpenAPIYAML = "openapi-yaml"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Input            string
	Format           string
	Output           string
	ReturnHints      string
	BaseURL          string
	APIVersion       string
	ExcludeTypes     []string // nil keeps the extractor defaults
	OneOfTypes       []string
	OpaqueTypes      []string
	SkipClosureCheck bool
	Force            bool
	ConfigPath       string
	Verbose          bool

	stdout io.Writer
	stderr io.Writer
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{Format: FormatJSON, BaseURL: extract.DefaultBaseURL}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Extract the typed IR from a saved Bot API reference page",
		Long: "Extract every type and method of the Bot API reference page into a typed " +
			"intermediate representation and write it as JSON, YAML or an OpenAPI document. " +
			"Options can be provided via flags, config files, or defaults.",
		Example: strings.TrimSpace(`  botspec generate --input api.html > ir.json
  botspec generate --input api.html --format openapi-yaml --output openapi.yaml
  botspec --config botspec.yaml generate --skip-closure-check`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	addExtractFlags(flags)
	flags.String("format", "", "Output format (json|yaml|openapi|openapi-yaml); defaults to json")
	flags.StringP("output", "o", "", "Write to this file instead of stdout")
	flags.String("api-version", "", "Version string recorded in OpenAPI output")
	flags.Bool("force", false, "Overwrite the output file when it already exists")

	return cmd
}

// addExtractFlags registers the flags shared by every command that runs the extractor.
func addExtractFlags(flags *pflag.FlagSet) {
	flags.String("input", "", "Path to the saved reference page, or - for stdin")
	flags.String("return-hints", "", "YAML file pinning return types the descriptions leave open")
	flags.String("base-url", "", "Base URL for relative links in descriptions (empty string keeps them relative)")
	flags.StringSlice("exclude-types", nil, "Type headings left out of the IR (default InputFile)")
	flags.StringSlice("one-of-types", nil, "Prose-only types always treated as one-of unions")
	flags.StringSlice("opaque-types", nil, "Type names that may be referenced without a declaration (default InputFile)")
	flags.Bool("skip-closure-check", false, "Accept references to undeclared types")
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.stdout = cmd.OutOrStdout()
	cfg.stderr = cmd.ErrOrStderr()

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"input", &cfg.Input},
		{"format", &cfg.Format},
		{"output", &cfg.Output},
		{"return-hints", &cfg.ReturnHints},
		{"base-url", &cfg.BaseURL},
		{"api-version", &cfg.APIVersion},
	}
	for _, s := range strs {
		if flags.Lookup(s.name) == nil || !flags.Changed(s.name) {
			continue
		}
		value, err := flags.GetString(s.name)
		if err != nil {
			return err
		}
		*s.dst = strings.TrimSpace(value)
	}

	lists := []struct {
		name string
		dst  *[]string
	}{
		{"exclude-types", &cfg.ExcludeTypes},
		{"one-of-types", &cfg.OneOfTypes},
		{"opaque-types", &cfg.OpaqueTypes},
	}
	for _, l := range lists {
		if flags.Lookup(l.name) == nil || !flags.Changed(l.name) {
			continue
		}
		value, err := flags.GetStringSlice(l.name)
		if err != nil {
			return err
		}
		*l.dst = sanitizeNames(value)
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"skip-closure-check", &cfg.SkipClosureCheck},
		{"force", &cfg.Force},
		{"verbose", &cfg.Verbose},
	}
	for _, b := range bools {
		if flags.Lookup(b.name) == nil || !flags.Changed(b.name) {
			continue
		}
		value, err := flags.GetBool(b.name)
		if err != nil {
			return err
		}
		*b.dst = value
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Output = strings.TrimSpace(c.Output)
	c.ReturnHints = strings.TrimSpace(c.ReturnHints)
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	c.APIVersion = strings.TrimSpace(c.APIVersion)
	if c.ExcludeTypes != nil {
		c.ExcludeTypes = sanitizeNames(c.ExcludeTypes)
	}
	if c.OneOfTypes != nil {
		c.OneOfTypes = sanitizeNames(c.OneOfTypes)
	}
	if c.OpaqueTypes != nil {
		c.OpaqueTypes = sanitizeNames(c.OpaqueTypes)
	}
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --input is required (set via flag or config file)")
	}

	switch c.Format {
	case "", FormatJSON, FormatYAML, FormatOpenAPI, FormatOpenAPIYAML:
		if c.Format == "" {
			c.Format = FormatJSON
		}
	default:
		return newUsageError(fmt.Sprintf("generate: unsupported --format %q (allowed: json, yaml, openapi, openapi-yaml)", c.Format))
	}

	if c.Output == "-" {
		c.Output = ""
	}
	if c.Output != "" && c.Output == c.Input {
		return newUsageError("generate: --output must differ from --input")
	}

	return nil
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	logger := newLogger(cfg.stderr, cfg.Verbose)

	// 1) Extract the IR
	ir, err := extractIR(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// 2) Render in the requested format
	var buf bytes.Buffer
	switch cfg.Format {
	case FormatJSON, FormatYAML:
		format, err := iremitter.ParseFormat(cfg.Format)
		if err != nil {
			return newUsageError(err.Error())
		}
		if _, err := iremitter.Emit(ctx, ir, &buf, iremitter.Options{Format: format}); err != nil {
			return err
		}
	case FormatOpenAPI, FormatOpenAPIYAML:
		res, err := oasemitter.Emit(ctx, ir, &buf, oasemitter.Options{
			Version: cfg.APIVersion,
			YAML:    cfg.Format == FormatOpenAPIYAML,
		})
		if err != nil {
			return err
		}
		logger.Debug("generate: openapi document", "paths", res.Paths, "schemas", res.Schemas)
	default:
		return newUsageError(fmt.Sprintf("generate: unsupported --format %q", cfg.Format))
	}

	// 3) Write to stdout or the output file
	if cfg.Output == "" {
		out := cfg.stdout
		if out == nil {
			out = os.Stdout
		}
		_, err := out.Write(buf.Bytes())
		return err
	}
	if err := writeOutput(cfg.Output, buf.Bytes(), cfg.Force); err != nil {
		return err
	}
	logger.Info("generate: wrote output", "path", cfg.Output, "format", cfg.Format, "bytes", buf.Len())
	return nil
}

// extractIR loads the document and runs the extractor configured by cfg.
// Extraction failures are reported as usage errors naming the spot in the
// document that needs a new rule.
func extractIR(ctx context.Context, cfg *GenerateConfig, logger *slog.Logger) (*schema.IR, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := []extract.Option{
		extract.WithLogger(logger),
		extract.WithBaseURL(cfg.BaseURL),
		extract.WithClosureCheck(!cfg.SkipClosureCheck),
	}
	if cfg.ExcludeTypes != nil {
		opts = append(opts, extract.WithExcludedTypes(cfg.ExcludeTypes...))
	}
	if cfg.OneOfTypes != nil {
		opts = append(opts, extract.WithOneOfTypes(cfg.OneOfTypes...))
	}
	if cfg.OpaqueTypes != nil {
		opts = append(opts, extract.WithOpaqueTypes(cfg.OpaqueTypes...))
	}
	if cfg.ReturnHints != "" {
		hints, err := extract.LoadReturnHints(cfg.ReturnHints)
		if err != nil {
			return nil, wrapUsageError(fmt.Sprintf("return hints: %v", err), err)
		}
		logger.Debug("generate: loaded return hints", "path", cfg.ReturnHints, "count", hints.Len())
		opts = append(opts, extract.WithReturnHints(hints))
	}

	doc, err := extract.LoadDocument(cfg.Input)
	if err != nil {
		return nil, describeExtractError(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ir, err := extract.New(opts...).Extract(doc)
	if err != nil {
		return nil, describeExtractError(err)
	}
	return ir, nil
}

func describeExtractError(err error) error {
	var pe *extract.ParseError
	if !errors.As(err, &pe) {
		return err
	}
	msg := fmt.Sprintf("extract: %s", pe.Message)
	msg = fmt.Sprintf("%s\nCode: %s\nStage: %s", msg, pe.Code, pe.Stage)
	if pe.Section != "" {
		msg = fmt.Sprintf("%s\nSection: %s", msg, pe.Section)
	}
	if pe.Text != "" {
		msg = fmt.Sprintf("%s\nText: %s", msg, pe.Text)
	}
	return wrapUsageError(msg, err)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// writeOutput places data at path atomically via temp file + rename.
func writeOutput(path string, data []byte, force bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if st, err := os.Stat(abs); err == nil && !force {
		if st.Mode().IsRegular() {
			return newUsageError(fmt.Sprintf("generate: %q already exists (use --force to overwrite)", abs))
		}
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return newUsageError(fmt.Sprintf("generate: cannot create parent directory: %v", err))
	}
	tmp := abs + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return newUsageError(fmt.Sprintf("output error for %s: %v\nHint: choose a different --output or check directory permissions.", abs, err))
	}
	if err := os.Rename(tmp, abs); err != nil {
		_ = os.Remove(tmp)
		return newUsageError(fmt.Sprintf("output error for %s: %v", abs, err))
	}
	return nil
}

func sanitizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	for key, value := range raw {
		var err error
		switch normalizeKey(key) {
		case "input":
			cfg.Input, err = valueAsString(value)
		case "format":
			cfg.Format, err = valueAsString(value)
		case "output":
			cfg.Output, err = valueAsString(value)
		case "returnhints":
			cfg.ReturnHints, err = valueAsString(value)
		case "baseurl":
			cfg.BaseURL, err = valueAsString(value)
		case "apiversion":
			cfg.APIVersion, err = valueAsString(value)
		case "excludetypes":
			cfg.ExcludeTypes, err = valueAsNameList(value)
		case "oneoftypes":
			cfg.OneOfTypes, err = valueAsNameList(value)
		case "opaquetypes":
			cfg.OpaqueTypes, err = valueAsNameList(value)
		case "skipclosurecheck":
			cfg.SkipClosureCheck, err = valueAsBool(value)
		case "force":
			cfg.Force, err = valueAsBool(value)
		case "verbose":
			cfg.Verbose, err = valueAsBool(value)
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
		if err != nil {
			return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
		}
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

// valueAsNameList keeps an explicit empty list distinct from an absent one:
// "excludeTypes: []" clears the defaults.
func valueAsNameList(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return []string{}, nil
	case string:
		return splitAndTrim(val), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n", "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
