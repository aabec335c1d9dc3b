// Package extract compiles the HTML reference page of the bot API into the
// typed IR defined in package schema.
//
// Every entity of the page is an <h4> heading followed by an optional table and
// some prose. The extractor is deliberately strict: any drift in that layout, any
// type text or description phrasing it does not recognize, and any naming
// violation aborts the whole run with a *ParseError. There is no best-effort mode.
package extract

import (
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/mark3labs/botspec/internal/schema"
)

// entityHeading is the heading level that introduces types and methods.
const entityHeading = atom.H4

const DefaultBaseURL = "https://core.telegram.org/bots/api"

// Settings configures the extractor.
type Settings struct {
	// BaseURL resolves relative links in descriptions. Empty keeps them relative.
	BaseURL string
	// ExcludedTypes are PascalCase headings left out of the IR.
	ExcludedTypes []string
	// OneOfTypes are prose-only types known to be unions even though their
	// description does not say "one of".
	OneOfTypes []string
	// OpaqueTypes may be referenced without being declared.
	OpaqueTypes []string
	// ClosureCheck rejects references to undeclared types.
	ClosureCheck bool
	// ReturnHints backfills return types the descriptions do not pin down.
	ReturnHints *ReturnHints
	Logger      *slog.Logger
}

// DefaultSettings returns the settings matching the current reference page.
func DefaultSettings() Settings {
	return Settings{
		BaseURL:       DefaultBaseURL,
		ExcludedTypes: []string{"InputFile"},
		OneOfTypes:    []string{"BotCommandScope", "ChatMember", "InlineQueryResult", "InputMessageContent"},
		OpaqueTypes:   []string{"InputFile"},
		ClosureCheck:  true,
	}
}

// Option mutates Settings.
type Option func(*Settings)

func WithLogger(l *slog.Logger) Option { return func(s *Settings) { s.Logger = l } }
func WithBaseURL(u string) Option { return func(s *Settings) { s.BaseURL = u } }
func WithReturnHints(h *ReturnHints) Option { return func(s *Settings) { s.ReturnHints = h } }
func WithExcludedTypes(names ...string) Option { return func(s *Settings) { s.ExcludedTypes = names } }
func WithOneOfTypes(names ...string) Option { return func(s *Settings) { s.OneOfTypes = names } }
func WithOpaqueTypes(names ...string) Option { return func(s *Settings) { s.OpaqueTypes = names } }
func WithClosureCheck(enabled bool) Option { return func(s *Settings) { s.ClosureCheck = enabled } }

// Extractor runs the pipeline. It holds no per-run state and may be reused.
type Extractor struct {
	settings Settings
	excluded map[string]struct{}
	oneOf    map[string]struct{}
	opaque   map[string]struct{}
	md       *markdownConverter
	desc     *descriptionNormalizer
	logger   *slog.Logger
}

func New(opts ...Option) *Extractor {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}
	logger := settings.Logger
	if logger == nil {
		logger = slog.Default()
	}
	md := newMarkdownConverter(settings.BaseURL)
	return &Extractor{
		settings: settings,
		excluded: toSet(settings.ExcludedTypes),
		oneOf:    toSet(settings.OneOfTypes),
		opaque:   toSet(settings.OpaqueTypes),
		md:       md,
		desc:     &descriptionNormalizer{md: md},
		logger:   logger,
	}
}

// Extract compiles the document into the IR. On error no IR is returned.
func (e *Extractor) Extract(doc *html.Node) (*schema.IR, error) {
	if doc == nil {
		return nil, &ParseError{Code: InputError, Stage: StageLoad, Message: "nil document"}
	}
	asm := newAssembler()
	unresolved := 0
	for _, h := range findAll(doc, entityHeading) {
		name := nodeText(h)
		kind := classifyHeading(name, e.excluded)
		if kind == skipHeading {
			e.logger.Debug("extract: skipping heading", "heading", name)
			continue
		}
		if err := checkAnchor(h, name); err != nil {
			return nil, err
		}
		sec, err := segment(sectionContext{heading: h, name: name, kind: kind})
		if err != nil {
			return nil, err
		}
		e.logger.Debug("extract: section", "kind", kind.String(), "name", name, "table", sec.table != nil, "prose", len(sec.prose))

		switch kind {
		case typeHeading:
			t, err := e.buildType(sec)
			if err != nil {
				return nil, err
			}
			if err := asm.addType(t); err != nil {
				return nil, err
			}
		case methodHeading:
			m, err := e.buildMethod(sec)
			if err != nil {
				return nil, err
			}
			if !m.Returns.IsResolved() {
				unresolved++
				e.logger.Warn("extract: return type unresolved", "method", m.Name)
			}
			if err := asm.addMethod(m); err != nil {
				return nil, err
			}
		}
	}

	ir := asm.ir
	if e.settings.ClosureCheck {
		if err := validateClosure(&ir, e.opaque); err != nil {
			return nil, err
		}
	}
	e.logger.Info("extract: done", "types", len(ir.Types), "methods", len(ir.Methods), "unresolved_returns", unresolved)
	return &ir, nil
}

func (e *Extractor) buildType(sec section) (schema.ApiType, error) {
	t := schema.ApiType{Name: sec.name}
	if sec.table != nil {
		fields, err := e.buildFields(sec)
		if err != nil {
			return schema.ApiType{}, err
		}
		desc, err := e.proseMarkdown(sec, sec.prose)
		if err != nil {
			return schema.ApiType{}, err
		}
		t.Kind, t.Fields, t.Description = schema.ObjectType, fields, desc
		return t, nil
	}

	plain := strings.ToLower(nodesText(sec.prose))
	_, listedOneOf := e.oneOf[sec.name]
	switch {
	case strings.Contains(plain, "currently holds no information"):
		desc, err := e.proseMarkdown(sec, sec.prose)
		if err != nil {
			return schema.ApiType{}, err
		}
		t.Kind, t.Description = schema.EmptyType, desc
		return t, nil
	case listedOneOf || strings.Contains(plain, "one of"):
		members, rest, err := oneOfMembers(sec)
		if err != nil {
			return schema.ApiType{}, err
		}
		desc, err := e.proseMarkdown(sec, rest)
		if err != nil {
			return schema.ApiType{}, err
		}
		t.Kind, t.OneOf, t.Description = schema.OneOfType, members, desc
		return t, nil
	}
	return schema.ApiType{}, newError(StructuralDrift, StageTable, sec.name, "", "type has no table and its description is neither empty nor one-of")
}

// oneOfMembers reads the first bullet list of the section. Each item must be a
// bare type name. The remaining prose nodes are returned for the description.
func oneOfMembers(sec section) ([]string, []*html.Node, error) {
	for i, n := range sec.prose {
		if n.DataAtom != atom.Ul {
			continue
		}
		items := childElements(n, atom.Li)
		if len(items) == 0 {
			break
		}
		members := make([]string, 0, len(items))
		for _, li := range items {
			name := nodeText(li)
			if !typeNameRe.MatchString(name) {
				return nil, nil, newError(NamingViolation, StageTable, sec.name, name, "one-of item is not a type name")
			}
			members = append(members, name)
		}
		rest := make([]*html.Node, 0, len(sec.prose)-1)
		rest = append(rest, sec.prose[:i]...)
		rest = append(rest, sec.prose[i+1:]...)
		return members, rest, nil
	}
	return nil, nil, newError(StructuralDrift, StageTable, sec.name, "", "one-of type has no member list")
}

func (e *Extractor) buildMethod(sec section) (schema.ApiMethod, error) {
	desc, err := e.proseMarkdown(sec, sec.prose)
	if err != nil {
		return schema.ApiMethod{}, err
	}
	m := schema.ApiMethod{Name: sec.name, Description: desc, Parameters: []schema.Field{}}

	plain := plainText(desc)
	if sec.table != nil {
		params, err := e.buildFields(sec)
		if err != nil {
			return schema.ApiMethod{}, err
		}
		m.Parameters = params
	} else if !strings.Contains(strings.ToLower(plain), "requires no parameters") {
		return schema.ApiMethod{}, newError(StructuralDrift, StageTable, sec.name, "", "method has no parameter table and does not say it requires no parameters")
	}

	m.Returns = inferReturnType(plain)
	if !m.Returns.IsResolved() {
		if hinted, ok := e.settings.ReturnHints.Lookup(sec.name, plain); ok {
			m.Returns = hinted
		}
	}
	return m, nil
}

// buildFields compiles every table row: type text through the grammar, then
// the description through the normalizer, which may refine the type.
func (e *Extractor) buildFields(sec section) ([]schema.Field, error) {
	rows, err := parseTable(sec)
	if err != nil {
		return nil, err
	}
	fields := make([]schema.Field, 0, len(rows))
	for _, row := range rows {
		vt, err := CompileType(row.TypeText)
		if err != nil {
			return nil, inSection(err, sec.name)
		}
		n, err := e.desc.normalizeDescription(sec.name, row, vt)
		if err != nil {
			return nil, err
		}
		fields = append(fields, schema.Field{
			Name:           row.Name,
			Type:           n.Type,
			Required:       n.Required,
			Description:    n.Text,
			JSONSerialized: n.JSONSerialized,
		})
	}
	return fields, nil
}

func (e *Extractor) proseMarkdown(sec section, nodes []*html.Node) (string, error) {
	if len(nodes) == 0 {
		return "", nil
	}
	fragment, err := outerHTML(nodes)
	if err != nil {
		return "", &ParseError{Code: StructuralDrift, Stage: StageDescription, Section: sec.name, Message: "render description: " + err.Error(), Cause: err}
	}
	md, err := e.md.convert(fragment)
	if err != nil {
		return "", &ParseError{Code: StructuralDrift, Stage: StageDescription, Section: sec.name, Message: "convert description: " + err.Error(), Cause: err}
	}
	return md, nil
}

func nodesText(nodes []*html.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, nodeText(n))
	}
	return strings.Join(parts, " ")
}

// inSection attaches the section name to grammar errors raised without one.
func inSection(err error, name string) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Section == "" {
		pe.Section = name
	}
	return err
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
