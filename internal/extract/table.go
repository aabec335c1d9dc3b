package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	fieldHeader = []string{"Field", "Type", "Description"}
	paramHeader = []string{"Parameter", "Type", "Required", "Description"}

	snakeCaseRe = regexp.MustCompile(`^[a-z][a-z_0-9]+$`)
)

// rawRow is one table row before type compilation and description cleanup.
type rawRow struct {
	Name            string
	TypeText        string
	Required        bool // always true for field tables; see normalizeDescription
	DescriptionHTML string
	params          bool // row comes from a parameter table
}

// parseTable extracts the rows of the section's table. Types must use a
// field table and methods a parameter table, with header text matching exactly.
func parseTable(sec section) ([]rawRow, error) {
	rows := tableRows(sec.table)
	if len(rows) == 0 {
		return nil, newError(StructuralDrift, StageTable, sec.name, "", "table has no rows")
	}

	want := fieldHeader
	if sec.kind == methodHeading {
		want = paramHeader
	}
	header := make([]string, 0, len(want))
	for c := rows[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Th || c.DataAtom == atom.Td) {
			header = append(header, nodeText(c))
		}
	}
	if !equalStrings(header, want) {
		got := strings.Join(header, " | ")
		return nil, newError(StructuralDrift, StageTable, sec.name, got, "unexpected table header, want %q", strings.Join(want, " | "))
	}

	out := make([]rawRow, 0, len(rows)-1)
	for _, tr := range rows[1:] {
		cells := childElements(tr, atom.Td)
		if len(cells) != len(want) {
			return nil, newError(StructuralDrift, StageTable, sec.name, nodeText(tr), "row has %d cells, want %d", len(cells), len(want))
		}
		row := rawRow{
			Name:     nodeText(cells[0]),
			TypeText: nodeText(cells[1]),
			Required: true,
			params:   sec.kind == methodHeading,
		}
		if !snakeCaseRe.MatchString(row.Name) {
			return nil, newError(NamingViolation, StageTable, sec.name, row.Name, "field name is not snake_case")
		}
		descCell := cells[2]
		if row.params {
			switch req := nodeText(cells[2]); req {
			case "Yes":
				row.Required = true
			case "Optional":
				row.Required = false
			default:
				return nil, newError(StructuralDrift, StageTable, sec.name, req, "required column of %s must read Yes or Optional", row.Name)
			}
			descCell = cells[3]
		}
		desc, err := innerHTML(descCell)
		if err != nil {
			return nil, &ParseError{Code: StructuralDrift, Stage: StageTable, Section: sec.name, Message: "render description: " + err.Error(), Cause: err}
		}
		row.DescriptionHTML = desc
		out = append(out, row)
	}
	return out, nil
}

// tableRows returns the rows of a table in order, looking through
// thead/tbody/tfoot wrappers.
func tableRows(table *html.Node) []*html.Node {
	var rows []*html.Node
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Tr:
			rows = append(rows, c)
		case atom.Thead, atom.Tbody, atom.Tfoot:
			rows = append(rows, childElements(c, atom.Tr)...)
		}
	}
	return rows
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
