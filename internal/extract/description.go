package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mark3labs/botspec/internal/schema"
)

// Description normalization is table driven. Each concern (optionality,
// serialization, integer width, literals) is a list of matchers with their
// effect; a new phrasing in the document is a new table entry.

// optionalMarkers open the description of optional fields. The document
// usually emphasizes the word, which survives conversion as *Optional*.
var optionalMarkers = []string{"Optional. ", "*Optional*. ", "_Optional_. "}

type serializationRule struct {
	re          *regexp.Regexp
	replacement string
	accepts     func(schema.ValueType) bool
	want        string
}

func isArray(v schema.ValueType) bool { return v.Kind == schema.KindArray }

func isObjectLike(v schema.ValueType) bool {
	return v.Kind == schema.KindRef || v.Kind == schema.KindUnion
}

// Rules match the container word, not what follows it: the document writes
// both "A JSON-serialized list of X" and "A JSON-serialized array describing
// messages to be sent". Forms with an article come first so the article
// agrees with the replacement noun.
var serializationRules = []serializationRule{
	{regexp.MustCompile(`\bA JSON-serialized list\b`), "A list", isArray, "Array"},
	{regexp.MustCompile(`\ba JSON-serialized list\b`), "a list", isArray, "Array"},
	{regexp.MustCompile(`\bA JSON-serialized array\b`), "An array", isArray, "Array"},
	{regexp.MustCompile(`\ba JSON-serialized array\b`), "an array", isArray, "Array"},
	{regexp.MustCompile(`\bJSON-serialized (list|array)\b`), "$1", isArray, "Array"},
	{regexp.MustCompile(`\bA JSON-serialized object\b`), "An object", isObjectLike, "a type reference or union"},
	{regexp.MustCompile(`\ba JSON-serialized object\b`), "an object", isObjectLike, "a type reference or union"},
	{regexp.MustCompile(`\bJSON-serialized object\b`), "object", isObjectLike, "a type reference or union"},
}

// serializationExempt lists fields typed as plain strings even though their
// description talks about JSON serialization.
var serializationExempt = map[string]struct{}{
	"InputInvoiceMessageContent.provider_data": {},
	"sendInvoice.provider_data":                {},
}

const wideIntegerLead = "This number may have more than 32 significant bits and some programming languages may have difficulty/silent defects in interpreting it. But it has at most 52 significant bits, so "

var wideIntegerSentences = []string{
	wideIntegerLead + "a signed 64-bit integer or double-precision float type are safe for storing this identifier.",
	wideIntegerLead + "a 64-bit integer or double-precision float type are safe for storing this identifier.",
	wideIntegerLead + "a signed 64-bit integer or double-precision float type are safe for storing this value.",
	wideIntegerLead + "a 64-bit integer or double-precision float type are safe for storing this value.",
	wideIntegerLead + "64-bit integers or double-precision float types are safe for storing this identifier.",
}

// leftoverChecks must not match once every rule has run; a match means the
// document grew a phrasing no rule handles. Serialized data carried in a plain
// string ("JSON-serialized data about the invoice") is not a container and
// passes.
var leftoverChecks = []struct {
	re      *regexp.Regexp
	concern string
	exempt  bool // skipped for serializationExempt fields
}{
	{regexp.MustCompile(`JSON-serialized (?:list|array|object)`), "serialization", true},
	{regexp.MustCompile(`significant bits`), "integer width", false},
}

type literalRule struct {
	kind   schema.Kind
	fields map[string]struct{} // nil matches every field
	re     *regexp.Regexp
	build  func(match string) (schema.ValueType, bool)
}

// Discriminator fields pin their value in prose: "Type of the result, must be
// *article*" or "The member's status in the chat, always “creator”". Integer
// fields do the same with a leading "Always 0." (InaccessibleMessage.date).
var literalRules = []literalRule{
	{
		kind:   schema.KindString,
		fields: map[string]struct{}{"type": {}, "status": {}, "source": {}},
		re:     regexp.MustCompile(`(?:must be|always) “?([a-z_]+)”?\s*\.?$`),
		build: func(m string) (schema.ValueType, bool) {
			return schema.StringLiteral(m), true
		},
	},
	{
		kind: schema.KindInteger32,
		re:   regexp.MustCompile(`^Always (-?\d+)\.`),
		build: func(m string) (schema.ValueType, bool) {
			n, err := strconv.ParseInt(m, 10, 32)
			if err != nil {
				return schema.ValueType{}, false
			}
			return schema.Integer32Literal(int32(n)), true
		},
	},
}

func hasLiteral(v schema.ValueType) bool {
	return v.StringLiteral != nil || v.BoolLiteral != nil || v.IntLiteral != nil
}

// normalized is a description with its structural signals extracted.
type normalized struct {
	Text           string
	Type           schema.ValueType
	Required       bool
	JSONSerialized bool
}

type descriptionNormalizer struct {
	md *markdownConverter
}

// normalizeDescription converts a row's description and applies every rule
// against the already compiled type. section is the owning entity name.
func (d *descriptionNormalizer) normalizeDescription(section string, row rawRow, typ schema.ValueType) (normalized, error) {
	text, err := d.md.convert(row.DescriptionHTML)
	if err != nil {
		return normalized{}, &ParseError{Code: StructuralDrift, Stage: StageDescription, Section: section, Text: row.Name, Message: "convert description: " + err.Error(), Cause: err}
	}
	out := normalized{Text: text, Type: typ, Required: row.Required}
	key := section + "." + row.Name
	fail := func(code ErrorCode, snippet, format string, args ...any) (normalized, error) {
		return normalized{}, newError(code, StageDescription, section, snippet, row.Name+": "+format, args...)
	}

	for _, marker := range optionalMarkers {
		if !strings.HasPrefix(out.Text, marker) {
			continue
		}
		if row.params {
			return fail(StructuralDrift, marker, "parameter carries an Optional marker next to its Required column")
		}
		out.Text = strings.TrimPrefix(out.Text, marker)
		out.Required = false
		break
	}

	// serialization
	_, exempt := serializationExempt[key]
	if !exempt {
		for _, rule := range serializationRules {
			phrase := rule.re.FindString(out.Text)
			if phrase == "" {
				continue
			}
			if !rule.accepts(out.Type) {
				return fail(GrammarMiss, phrase, "description says %q but type is %s, want %s", phrase, out.Type, rule.want)
			}
			out.Text = rule.re.ReplaceAllString(out.Text, rule.replacement)
			out.JSONSerialized = true
		}
	}

	// integer width
	for _, sentence := range wideIntegerSentences {
		if !strings.Contains(out.Text, sentence) {
			continue
		}
		if out.Type.Kind != schema.KindInteger32 {
			return fail(GrammarMiss, sentence, "wide integer caveat on a %s value", out.Type)
		}
		out.Text = removeSentence(out.Text, sentence)
		out.Type = schema.Integer52()
	}

	for _, check := range leftoverChecks {
		if check.exempt && exempt {
			continue
		}
		if m := check.re.FindString(out.Text); m != "" {
			return fail(GrammarMiss, out.Text, "unhandled %s phrasing", check.concern)
		}
	}

	if !hasLiteral(out.Type) {
		plain := plainText(out.Text)
		for _, rule := range literalRules {
			if rule.kind != out.Type.Kind {
				continue
			}
			if _, ok := rule.fields[row.Name]; rule.fields != nil && !ok {
				continue
			}
			m := rule.re.FindStringSubmatch(plain)
			if m == nil {
				continue
			}
			if vt, ok := rule.build(m[1]); ok {
				out.Type = vt
				break
			}
		}
	}
	return out, nil
}

func removeSentence(text, sentence string) string {
	text = strings.ReplaceAll(text, " "+sentence, "")
	text = strings.ReplaceAll(text, sentence+" ", "")
	text = strings.ReplaceAll(text, sentence, "")
	return strings.TrimSpace(text)
}
