package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type headingKind int

const (
	skipHeading headingKind = iota
	typeHeading
	methodHeading
)

func (k headingKind) String() string {
	switch k {
	case typeHeading:
		return "type"
	case methodHeading:
		return "method"
	default:
		return "skip"
	}
}

var (
	typeHeadingRe   = regexp.MustCompile(`^[A-Z][A-Za-z0-9]+$`)
	methodHeadingRe = regexp.MustCompile(`^[a-z][A-Za-z]+$`)
)

// classifyHeading decides from casing alone whether a heading introduces a
// type (PascalCase), a method (camelCase) or nothing at all. Types listed in
// excluded are structurally special and left out of the IR.
func classifyHeading(text string, excluded map[string]struct{}) headingKind {
	switch {
	case typeHeadingRe.MatchString(text):
		if _, skip := excluded[text]; skip {
			return skipHeading
		}
		return typeHeading
	case methodHeadingRe.MatchString(text):
		return methodHeading
	default:
		return skipHeading
	}
}

// headingAnchor returns the heading's machine-readable id: the name of its
// anchor link, or the heading's own id attribute.
func headingAnchor(h *html.Node) (string, bool) {
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.A && hasAttr(c, "name") {
			return attr(c, "name"), true
		}
	}
	if hasAttr(h, "id") {
		return attr(h, "id"), true
	}
	return "", false
}

// checkAnchor verifies the anchor equals the lower-cased heading text.
func checkAnchor(h *html.Node, text string) error {
	anchor, ok := headingAnchor(h)
	if !ok {
		return newError(StructuralDrift, StageHeading, text, text, "heading has no anchor")
	}
	if anchor != strings.ToLower(text) {
		return newError(StructuralDrift, StageHeading, text, anchor, "anchor %q does not match heading text", anchor)
	}
	return nil
}
