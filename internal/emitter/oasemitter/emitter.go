// Package oasemitter renders the IR as an OpenAPI 3.0 document. Every method
// becomes a POST operation at /{method} taking a JSON body of its parameters
// and answering with the {ok, result} envelope; every type becomes a
// component schema.
package oasemitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/botspec/internal/schema"
)

const (
	DefaultTitle     = "Telegram Bot API"
	DefaultVersion   = "0.0.0"
	DefaultServerURL = "https://api.telegram.org/bot{token}"

	componentPrefix = "#/components/schemas/"
)

// Options controls the rendered document.
type Options struct {
	Title          string
	Version        string
	ServerURL      string // may contain a {token} variable
	YAML           bool   // JSON when false
	SkipValidation bool
}

// Result describes the rendered document.
type Result struct {
	Paths   int
	Schemas int
	Size    int
}

// Build converts the IR into an OpenAPI document without validating it.
func Build(ir *schema.IR, opts Options) (*openapi3.T, error) {
	if ir == nil {
		return nil, fmt.Errorf("oasemitter: nil IR")
	}
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = DefaultTitle
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = DefaultVersion
	}
	serverURL := strings.TrimSpace(opts.ServerURL)
	if serverURL == "" {
		serverURL = DefaultServerURL
	}

	doc := &openapi3.T{
		OpenAPI:    "3.0.3",
		Info:       &openapi3.Info{Title: title, Version: version},
		Paths:      openapi3.Paths{},
		Components: &openapi3.Components{Schemas: openapi3.Schemas{}},
		Servers:    openapi3.Servers{newServer(serverURL)},
	}

	b := &builder{components: make(map[string]*openapi3.Schema, len(ir.Types))}
	// allocate first so references resolve regardless of declaration order
	for _, t := range ir.Types {
		b.components[t.Name] = &openapi3.Schema{}
	}
	for _, t := range ir.Types {
		s := b.components[t.Name]
		b.fillType(s, t)
		doc.Components.Schemas[t.Name] = openapi3.NewSchemaRef("", s)
	}
	for _, m := range ir.Methods {
		doc.Paths["/"+m.Name] = &openapi3.PathItem{Post: b.operation(m)}
	}
	return doc, nil
}

// Emit builds, validates and writes the document.
func Emit(ctx context.Context, ir *schema.IR, w io.Writer, opts Options) (*Result, error) {
	doc, err := Build(ir, opts)
	if err != nil {
		return nil, err
	}
	if !opts.SkipValidation {
		if err := doc.Validate(ctx); err != nil {
			return nil, fmt.Errorf("oasemitter: invalid document: %w", err)
		}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}
	if opts.YAML {
		if data, err = jsonToYAML(data); err != nil {
			return nil, err
		}
	} else {
		data = append(data, '\n')
	}
	n, err := w.Write(data)
	if err != nil {
		return nil, fmt.Errorf("write openapi: %w", err)
	}
	return &Result{Paths: len(doc.Paths), Schemas: len(doc.Components.Schemas), Size: n}, nil
}

func newServer(url string) *openapi3.Server {
	srv := &openapi3.Server{URL: url}
	if strings.Contains(url, "{token}") {
		srv.Variables = map[string]*openapi3.ServerVariable{
			"token": {Default: "TOKEN", Description: "Bot token issued by @BotFather"},
		}
	}
	return srv
}

type builder struct {
	components map[string]*openapi3.Schema
}

func (b *builder) fillType(s *openapi3.Schema, t schema.ApiType) {
	s.Description = t.Description
	switch t.Kind {
	case schema.OneOfType:
		for _, member := range t.OneOf {
			s.OneOf = append(s.OneOf, b.ref(member))
		}
	default:
		s.Type = "object"
		if len(t.Fields) > 0 {
			s.Properties, s.Required = b.properties(t.Fields)
		}
	}
}

func (b *builder) properties(fields []schema.Field) (openapi3.Schemas, []string) {
	props := make(openapi3.Schemas, len(fields))
	var required []string
	for _, f := range fields {
		ref := b.valueSchema(f.Type)
		if ref.Ref == "" && ref.Value != nil {
			ref.Value.Description = f.Description
		}
		props[f.Name] = ref
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return props, required
}

func (b *builder) operation(m schema.ApiMethod) *openapi3.Operation {
	op := &openapi3.Operation{
		OperationID: m.Name,
		Description: m.Description,
		Responses:   openapi3.Responses{},
	}
	if len(m.Parameters) > 0 {
		body := openapi3.NewObjectSchema()
		body.Properties, body.Required = b.properties(m.Parameters)
		bodyRef := openapi3.NewSchemaRef("", body)
		content := openapi3.Content{"application/json": openapi3.NewMediaType().WithSchemaRef(bodyRef)}
		if takesUpload(m.Parameters) {
			content["multipart/form-data"] = openapi3.NewMediaType().WithSchemaRef(bodyRef)
		}
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(hasRequired(m.Parameters)).WithContent(content),
		}
	}

	envelope := openapi3.NewObjectSchema()
	envelope.Properties = openapi3.Schemas{
		"ok":     openapi3.NewSchemaRef("", okSchema()),
		"result": b.valueSchema(m.Returns),
	}
	envelope.Required = []string{"ok", "result"}
	op.Responses["200"] = &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription("Successful call").
			WithJSONSchemaRef(openapi3.NewSchemaRef("", envelope)),
	}
	return op
}

// valueSchema maps a ValueType to a fresh schema, or to a component reference.
func (b *builder) valueSchema(v schema.ValueType) *openapi3.SchemaRef {
	switch v.Kind {
	case schema.KindString:
		s := openapi3.NewStringSchema()
		if v.StringLiteral != nil {
			s.Enum = []any{*v.StringLiteral}
		}
		return openapi3.NewSchemaRef("", s)
	case schema.KindBoolean:
		s := openapi3.NewBoolSchema()
		if v.BoolLiteral != nil {
			s.Enum = []any{*v.BoolLiteral}
		}
		return openapi3.NewSchemaRef("", s)
	case schema.KindInteger32:
		s := openapi3.NewInt32Schema()
		if v.IntLiteral != nil {
			s.Enum = []any{float64(*v.IntLiteral)}
		}
		return openapi3.NewSchemaRef("", s)
	case schema.KindInteger52:
		return openapi3.NewSchemaRef("", openapi3.NewInt64Schema())
	case schema.KindFloat:
		return openapi3.NewSchemaRef("", openapi3.NewFloat64Schema().WithFormat("double"))
	case schema.KindInputFile:
		return openapi3.NewSchemaRef("", openapi3.NewStringSchema().WithFormat("binary"))
	case schema.KindRef:
		return b.ref(v.Name)
	case schema.KindArray:
		items := openapi3.NewSchemaRef("", &openapi3.Schema{})
		if v.Of != nil {
			items = b.valueSchema(*v.Of)
		}
		s := openapi3.NewArraySchema()
		s.Items = items
		return openapi3.NewSchemaRef("", s)
	case schema.KindUnion:
		s := &openapi3.Schema{}
		for _, alt := range v.Types {
			s.OneOf = append(s.OneOf, b.valueSchema(alt))
		}
		return openapi3.NewSchemaRef("", s)
	default:
		// unresolved: accept anything
		return openapi3.NewSchemaRef("", &openapi3.Schema{Description: "Result type not stated by the reference"})
	}
}

// ref points at a component. Names without a component (opaque or
// unchecked references) degrade to an unconstrained inline schema.
func (b *builder) ref(name string) *openapi3.SchemaRef {
	if s, ok := b.components[name]; ok {
		return openapi3.NewSchemaRef(componentPrefix+name, s)
	}
	return openapi3.NewSchemaRef("", &openapi3.Schema{Description: name})
}

func okSchema() *openapi3.Schema {
	s := openapi3.NewBoolSchema()
	s.Enum = []any{true}
	return s
}

func takesUpload(params []schema.Field) bool {
	for _, p := range params {
		if usesInputFile(p.Type) {
			return true
		}
	}
	return false
}

func usesInputFile(v schema.ValueType) bool {
	switch v.Kind {
	case schema.KindInputFile:
		return true
	case schema.KindArray:
		return v.Of != nil && usesInputFile(*v.Of)
	case schema.KindUnion:
		for _, alt := range v.Types {
			if usesInputFile(alt) {
				return true
			}
		}
	}
	return false
}

func hasRequired(params []schema.Field) bool {
	for _, p := range params {
		if p.Required {
			return true
		}
	}
	return false
}

// jsonToYAML re-encodes a JSON document as block-style YAML, keeping key order.
func jsonToYAML(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("convert openapi to yaml: %w", err)
	}
	clearStyle(&node)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("convert openapi to yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("convert openapi to yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
