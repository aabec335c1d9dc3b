package extract

import (
	"regexp"
	"strings"

	"github.com/mark3labs/botspec/internal/schema"
)

// The type grammar is closed-world: it recognizes exactly the phrasings the
// reference document uses. A new phrasing must be added here, never guessed.

var typeNameRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9]+$`)

// typeExceptions are compound phrases that do not fit the regular rules.
// They are matched verbatim before anything else, at any nesting depth.
var typeExceptions = map[string]func() schema.ValueType{
	"InputMediaAudio, InputMediaDocument, InputMediaPhoto and InputMediaVideo": func() schema.ValueType {
		return schema.UnionOf(
			schema.Ref("InputMediaAudio"),
			schema.Ref("InputMediaDocument"),
			schema.Ref("InputMediaPhoto"),
			schema.Ref("InputMediaVideo"),
		)
	},
	"Float number": schema.Float,
}

var typeKeywords = map[string]func() schema.ValueType{
	"Boolean":   schema.Boolean,
	"True":      schema.True,
	"String":    schema.String,
	"Integer":   schema.Integer32,
	"Float":     schema.Float,
	"InputFile": schema.InputFile,
}

// CompileType parses the text of a "Type" cell into a value type.
// It is pure: the same text always yields a structurally identical result.
func CompileType(text string) (schema.ValueType, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return schema.ValueType{}, newError(GrammarMiss, StageGrammar, "", text, "empty type text")
	}
	return compileTokens(tokens, strings.Join(tokens, " "))
}

func compileTokens(tokens []string, source string) (schema.ValueType, error) {
	if mk, ok := typeExceptions[strings.Join(tokens, " ")]; ok {
		return mk(), nil
	}
	if len(tokens) >= 3 && tokens[0] == "Array" && tokens[1] == "of" {
		of, err := compileTokens(tokens[2:], source)
		if err != nil {
			return schema.ValueType{}, err
		}
		return schema.ArrayOf(of), nil
	}
	if isAlternation(tokens) {
		alts := make([]schema.ValueType, 0, len(tokens)/2+1)
		for i := 0; i < len(tokens); i += 2 {
			alt, err := compileAtom(tokens[i], source)
			if err != nil {
				return schema.ValueType{}, err
			}
			alts = append(alts, alt)
		}
		return schema.UnionOf(alts...), nil
	}
	if len(tokens) == 1 {
		return compileAtom(tokens[0], source)
	}
	return schema.ValueType{}, newError(GrammarMiss, StageGrammar, "", source, "unrecognized type phrase %q", strings.Join(tokens, " "))
}

// isAlternation reports whether tokens read "A or B [or C ...]".
func isAlternation(tokens []string) bool {
	if len(tokens) < 3 || len(tokens)%2 == 0 {
		return false
	}
	for i, tok := range tokens {
		if i%2 == 1 {
			if tok != "or" {
				return false
			}
			continue
		}
		if !isAtom(tok) {
			return false
		}
	}
	return true
}

func isAtom(tok string) bool {
	if _, ok := typeKeywords[tok]; ok {
		return true
	}
	return typeNameRe.MatchString(tok)
}

func compileAtom(tok, source string) (schema.ValueType, error) {
	if mk, ok := typeKeywords[tok]; ok {
		return mk(), nil
	}
	if typeNameRe.MatchString(tok) {
		return schema.Ref(tok), nil
	}
	return schema.ValueType{}, newError(GrammarMiss, StageGrammar, "", source, "%q is neither a builtin nor a type name", tok)
}
