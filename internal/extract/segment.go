package extract

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// sectionContext is the immutable view every stage works from: the heading
// that owns the current section, its text and its classification.
type sectionContext struct {
	heading *html.Node
	name    string
	kind    headingKind
}

// section is the slice of the document owned by one heading.
type section struct {
	sectionContext
	table *html.Node   // nil when the entity is defined by prose only
	prose []*html.Node // description paragraphs, lists and quotes
}

// segment walks forward from the heading and collects its section. It stops
// at a heading of the same or a higher level, or at a horizontal rule.
func segment(sc sectionContext) (section, error) {
	sec := section{sectionContext: sc}
	level := headingLevel(sc.heading)
	for n := sc.heading.NextSibling; n != nil; n = n.NextSibling {
		if isBlank(n) {
			continue
		}
		if n.Type != html.ElementNode {
			return section{}, newError(StructuralDrift, StageSegment, sc.name, nodeText(n), "unexpected bare text in section")
		}
		if l := headingLevel(n); l > 0 && l <= level {
			break
		}
		switch n.DataAtom {
		case atom.Hr:
			return sec, nil
		case atom.Table:
			if sec.table != nil {
				return section{}, newError(StructuralDrift, StageSegment, sc.name, "", "section has more than one table")
			}
			sec.table = n
		case atom.P, atom.Ul, atom.Ol, atom.Blockquote, atom.Pre:
			sec.prose = append(sec.prose, n)
		default:
			return section{}, newError(StructuralDrift, StageSegment, sc.name, n.Data, "unexpected <%s> in section", n.Data)
		}
	}
	return sec, nil
}
