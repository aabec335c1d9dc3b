package extract

import (
	"fmt"
	"strings"
)

// ErrorCode categorizes extraction failures. Every code is fatal: the run
// aborts on the first error and no partial IR is returned.
type ErrorCode string

const (
	InputError ErrorCode = "InputError"
	// StructuralDrift means the document no longer follows the
	// heading → [table] → prose layout the extractor expects.
	StructuralDrift ErrorCode = "StructuralDrift"
	// GrammarMiss means a type text or description phrasing matched no rule.
	GrammarMiss       ErrorCode = "GrammarMiss"
	NamingViolation   ErrorCode = "NamingViolation"
	DanglingReference ErrorCode = "DanglingReference"
)

// Stage names the pipeline step that rejected the document.
type Stage string

const (
	StageLoad        Stage = "load"
	StageSegment     Stage = "segment"
	StageHeading     Stage = "heading"
	StageTable       Stage = "table"
	StageGrammar     Stage = "grammar"
	StageDescription Stage = "description"
	StageAssemble    Stage = "assemble"
)

// ParseError carries the stage, the section being processed and the offending
// text, so a human can find the spot in the document and add a rule.
type ParseError struct {
	Code    ErrorCode
	Stage   Stage
	Section string // heading text of the entity, empty outside sections
	Text    string // offending source text
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Stage))
	if e.Section != "" {
		b.WriteString(": ")
		b.WriteString(e.Section)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Text != "" {
		fmt.Fprintf(&b, " (text %q)", e.Text)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Cause }

func newError(code ErrorCode, stage Stage, section, text, format string, args ...any) *ParseError {
	return &ParseError{
		Code:    code,
		Stage:   stage,
		Section: section,
		Text:    text,
		Message: fmt.Sprintf(format, args...),
	}
}
