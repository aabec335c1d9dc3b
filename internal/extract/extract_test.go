package extract

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/botspec/internal/schema"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestExtractor(opts ...Option) *Extractor {
	base := []Option{WithLogger(quietLogger()), WithBaseURL("")}
	return New(append(base, opts...)...)
}

func extractFixture(t *testing.T, opts ...Option) *schema.IR {
	t.Helper()
	doc, err := LoadDocument("testdata/api.html")
	require.NoError(t, err)
	ir, err := newTestExtractor(opts...).Extract(doc)
	require.NoError(t, err)
	return ir
}

// page wraps entity sections the way the reference page nests them.
func page(sections ...string) string {
	return `<html><body><div id="dev_page_content">` + strings.Join(sections, "\n") + `</div></body></html>`
}

func heading(name string) string {
	anchor := strings.ToLower(name)
	return fmt.Sprintf(`<h4><a class="anchor" name="%s" href="#%s"><i class="anchor-icon"></i></a>%s</h4>`, anchor, anchor, name)
}

func table(header []string, rows ...[]string) string {
	var b strings.Builder
	b.WriteString("<table class=\"table\"><thead><tr>")
	for _, h := range header {
		fmt.Fprintf(&b, "<th>%s</th>", h)
	}
	b.WriteString("</tr></thead><tbody>")
	for _, r := range rows {
		b.WriteString("<tr>")
		for _, c := range r {
			fmt.Fprintf(&b, "<td>%s</td>", c)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

func fields(rows ...[]string) string { return table(fieldHeader, rows...) }

func params(rows ...[]string) string { return table(paramHeader, rows...) }

func extractPage(t *testing.T, html string, opts ...Option) (*schema.IR, error) {
	t.Helper()
	doc, err := ParseDocument([]byte(html))
	require.NoError(t, err)
	return newTestExtractor(opts...).Extract(doc)
}

func requireParseError(t *testing.T, err error, code ErrorCode, stage Stage) *ParseError {
	t.Helper()
	require.Error(t, err)
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "want *ParseError, got %T: %v", err, err)
	assert.Equal(t, code, pe.Code, pe.Error())
	assert.Equal(t, stage, pe.Stage, pe.Error())
	return pe
}

func TestExtractFixtureOrder(t *testing.T) {
	t.Parallel()
	ir := extractFixture(t)

	var typeNames []string
	for _, ty := range ir.Types {
		typeNames = append(typeNames, ty.Name)
	}
	assert.Equal(t, []string{
		"Update", "User", "Chat", "Message", "PhotoSize", "ForumTopicClosed",
		"ChatMember", "ChatMemberOwner", "ChatMemberMember", "ReactionType",
		"ReactionTypeEmoji", "InlineKeyboardMarkup", "InlineKeyboardButton", "ForceReply",
	}, typeNames)

	var methodNames []string
	for _, m := range ir.Methods {
		methodNames = append(methodNames, m.Name)
	}
	assert.Equal(t, []string{"getUpdates", "getMe", "close", "sendMessage", "sendPhoto", "getChatMember", "editMessageText"}, methodNames)
}

func TestExtractFixtureTypes(t *testing.T) {
	t.Parallel()
	ir := extractFixture(t)

	user, ok := ir.TypeByName("User")
	require.True(t, ok)
	assert.Equal(t, schema.ObjectType, user.Kind)
	assert.Equal(t, "This object represents a Telegram user or bot.", user.Description)
	require.Len(t, user.Fields, 4)
	assert.Equal(t, "id", user.Fields[0].Name)
	assert.Equal(t, schema.Integer52(), user.Fields[0].Type)
	assert.Equal(t, "Unique identifier for this user or bot.", user.Fields[0].Description)
	assert.True(t, user.Fields[0].Required)
	assert.Equal(t, schema.Boolean(), user.Fields[1].Type)
	assert.Equal(t, "last_name", user.Fields[3].Name)
	assert.False(t, user.Fields[3].Required)
	assert.Equal(t, "User's or bot's last name", user.Fields[3].Description)

	chat, _ := ir.TypeByName("Chat")
	assert.Equal(t, schema.Integer52(), chat.Fields[0].Type)
	assert.Equal(t, schema.String(), chat.Fields[1].Type, "enumerations are not literals")

	msg, _ := ir.TypeByName("Message")
	assert.Equal(t, schema.ArrayOf(schema.Ref("PhotoSize")), msg.Fields[3].Type)
	assert.Contains(t, msg.Fields[4].Description, "🎲")

	closed, _ := ir.TypeByName("ForumTopicClosed")
	assert.Equal(t, schema.EmptyType, closed.Kind)
	assert.Empty(t, closed.Fields)
	assert.Empty(t, closed.OneOf)

	member, _ := ir.TypeByName("ChatMember")
	assert.Equal(t, schema.OneOfType, member.Kind)
	assert.Equal(t, []string{"ChatMemberOwner", "ChatMemberMember"}, member.OneOf)
	assert.Empty(t, member.Fields)
	assert.NotContains(t, member.Description, "ChatMemberOwner")

	reaction, _ := ir.TypeByName("ReactionType")
	assert.Equal(t, schema.OneOfType, reaction.Kind)
	assert.Equal(t, []string{"ReactionTypeEmoji"}, reaction.OneOf)

	owner, _ := ir.TypeByName("ChatMemberOwner")
	assert.Equal(t, schema.StringLiteral("creator"), owner.Fields[0].Type)
	emoji, _ := ir.TypeByName("ReactionTypeEmoji")
	assert.Equal(t, schema.StringLiteral("emoji"), emoji.Fields[0].Type)
	assert.Equal(t, schema.String(), emoji.Fields[1].Type)

	kb, _ := ir.TypeByName("InlineKeyboardMarkup")
	assert.Equal(t, schema.ArrayOf(schema.ArrayOf(schema.Ref("InlineKeyboardButton"))), kb.Fields[0].Type)
	fr, _ := ir.TypeByName("ForceReply")
	assert.Equal(t, schema.True(), fr.Fields[0].Type)

	_, excluded := ir.TypeByName("InputFile")
	assert.False(t, excluded)
}

func TestExtractFixtureMethods(t *testing.T) {
	t.Parallel()
	ir := extractFixture(t)

	getUpdates, ok := ir.MethodByName("getUpdates")
	require.True(t, ok)
	assert.Equal(t, schema.ArrayOf(schema.Ref("Update")), getUpdates.Returns)
	require.Len(t, getUpdates.Parameters, 2)
	allowed := getUpdates.Parameters[1]
	assert.False(t, allowed.Required)
	assert.True(t, allowed.JSONSerialized)
	assert.Equal(t, schema.ArrayOf(schema.String()), allowed.Type)
	assert.True(t, strings.HasPrefix(allowed.Description, "A list of the update types"), allowed.Description)

	getMe, _ := ir.MethodByName("getMe")
	assert.NotNil(t, getMe.Parameters)
	assert.Empty(t, getMe.Parameters)
	assert.Equal(t, schema.Ref("User"), getMe.Returns)

	closeMethod, _ := ir.MethodByName("close")
	assert.Equal(t, schema.Unresolved(), closeMethod.Returns)

	send, _ := ir.MethodByName("sendMessage")
	assert.Equal(t, schema.Ref("Message"), send.Returns)
	assert.Equal(t, schema.UnionOf(schema.Integer32(), schema.String()), send.Parameters[0].Type)
	assert.True(t, send.Parameters[0].Required)
	markup := send.Parameters[2]
	assert.False(t, markup.Required)
	assert.True(t, markup.JSONSerialized)
	assert.Equal(t, schema.UnionOf(schema.Ref("InlineKeyboardMarkup"), schema.Ref("ForceReply")), markup.Type)
	assert.NotContains(t, markup.Description, "JSON-serialized")

	photo, _ := ir.MethodByName("sendPhoto")
	assert.Equal(t, schema.UnionOf(schema.InputFile(), schema.String()), photo.Parameters[1].Type)

	member, _ := ir.MethodByName("getChatMember")
	assert.Equal(t, schema.Ref("ChatMember"), member.Returns)

	edit, _ := ir.MethodByName("editMessageText")
	assert.Equal(t, schema.UnionOf(schema.True(), schema.Ref("Message")), edit.Returns)
}

func TestExtractReturnHintsBackfill(t *testing.T) {
	t.Parallel()

	hints, err := NewReturnHints([]ReturnHint{{
		Method:      "close",
		Description: "Use this method to close the bot instance before moving it from one local server to another.   Requires no parameters.",
		Returns:     "True",
	}})
	require.NoError(t, err)
	ir := extractFixture(t, WithReturnHints(hints))

	closeMethod, _ := ir.MethodByName("close")
	assert.Equal(t, schema.True(), closeMethod.Returns)

	// hints never override what the description already says
	getMe, _ := ir.MethodByName("getMe")
	assert.Equal(t, schema.Ref("User"), getMe.Returns)
}

func TestExtractRoundTripMinimalDocument(t *testing.T) {
	t.Parallel()

	html := page(
		heading("Dice"),
		`<p>This object represents an animated emoji.</p>`,
		fields(
			[]string{"emoji", "String", "Emoji on which the dice throw animation is based"},
			[]string{"value", "Integer", "Value of the dice"},
		),
		heading("sendDice"),
		`<p>Use this method to send an animated emoji. Returns <em>True</em> on success.</p>`,
		params([]string{"chat_id", "Integer or String", "Yes", "Unique identifier for the target chat"}),
	)
	ir, err := extractPage(t, html)
	require.NoError(t, err)

	require.Len(t, ir.Types, 1)
	require.Len(t, ir.Methods, 1)
	dice := ir.Types[0]
	assert.Equal(t, "Dice", dice.Name)
	require.Len(t, dice.Fields, 2)
	assert.Equal(t, "emoji", dice.Fields[0].Name)
	assert.Equal(t, "value", dice.Fields[1].Name)
	assert.Equal(t, schema.Integer32(), dice.Fields[1].Type)

	send := ir.Methods[0]
	assert.Equal(t, "sendDice", send.Name)
	require.Len(t, send.Parameters, 1)
	assert.Equal(t, "chat_id", send.Parameters[0].Name)
	assert.Equal(t, schema.True(), send.Returns)
}

func TestExtractIsDeterministic(t *testing.T) {
	t.Parallel()
	first := extractFixture(t)
	second := extractFixture(t)
	assert.Equal(t, first, second)
}

func TestExtractWrongFieldHeaderAborts(t *testing.T) {
	t.Parallel()

	html := page(
		heading("Dice"),
		`<p>Dice.</p>`,
		table([]string{"Field", "Kind", "Description"}, []string{"value", "Integer", "Value"}),
	)
	ir, err := extractPage(t, html)
	assert.Nil(t, ir)
	pe := requireParseError(t, err, StructuralDrift, StageTable)
	assert.Equal(t, "Dice", pe.Section)
	assert.Equal(t, "Field | Kind | Description", pe.Text)
}

func TestExtractMethodWithFieldTableAborts(t *testing.T) {
	t.Parallel()

	html := page(heading("sendDice"), `<p>Returns True on success.</p>`, fields([]string{"value", "Integer", "Value"}))
	_, err := extractPage(t, html)
	requireParseError(t, err, StructuralDrift, StageTable)
}

func TestExtractOptionalMarker(t *testing.T) {
	t.Parallel()

	t.Run("field table", func(t *testing.T) {
		ir, err := extractPage(t, page(heading("Dice"), `<p>Dice.</p>`, fields([]string{"value", "Integer", "Optional. Value of the dice"})))
		require.NoError(t, err)
		f := ir.Types[0].Fields[0]
		assert.False(t, f.Required)
		assert.Equal(t, "Value of the dice", f.Description)
	})

	t.Run("parameter table", func(t *testing.T) {
		_, err := extractPage(t, page(heading("sendDice"), `<p>Returns True on success.</p>`, params([]string{"emoji", "String", "Optional", "Optional. Emoji"})))
		pe := requireParseError(t, err, StructuralDrift, StageDescription)
		assert.Equal(t, "sendDice", pe.Section)
	})
}

func TestExtractTableRowViolations(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		html  string
		code  ErrorCode
		stage Stage
	}{
		{
			"camel case field",
			page(heading("Dice"), `<p>Dice.</p>`, fields([]string{"diceValue", "Integer", "Value"})),
			NamingViolation, StageTable,
		},
		{
			"required column",
			page(heading("sendDice"), `<p>Returns True on success.</p>`, params([]string{"emoji", "String", "No", "Emoji"})),
			StructuralDrift, StageTable,
		},
		{
			"short row",
			page(heading("Dice"), `<p>Dice.</p>`, fields([]string{"value", "Integer"})),
			StructuralDrift, StageTable,
		},
		{
			"unknown type text",
			page(heading("Dice"), `<p>Dice.</p>`, fields([]string{"value", "Integer number", "Value"})),
			GrammarMiss, StageGrammar,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := extractPage(t, tc.html)
			pe := requireParseError(t, err, tc.code, tc.stage)
			assert.NotEmpty(t, pe.Section)
		})
	}
}

func TestExtractSerializationConsistency(t *testing.T) {
	t.Parallel()

	t.Run("list needs array", func(t *testing.T) {
		_, err := extractPage(t, page(heading("Dice"), `<p>Dice.</p>`, fields([]string{"values", "String", "A JSON-serialized list of values"})))
		requireParseError(t, err, GrammarMiss, StageDescription)
	})

	t.Run("object needs reference", func(t *testing.T) {
		_, err := extractPage(t, page(heading("Dice"), `<p>Dice.</p>`, fields([]string{"values", "Array of String", "A JSON-serialized object"})))
		requireParseError(t, err, GrammarMiss, StageDescription)
	})

	t.Run("unknown phrasing", func(t *testing.T) {
		_, err := extractPage(t, page(heading("Dice"), `<p>Dice.</p>`, fields([]string{"values", "Array of String", "Values as JSON-serialized lists"})))
		requireParseError(t, err, GrammarMiss, StageDescription)
	})

	t.Run("exempt field", func(t *testing.T) {
		ir, err := extractPage(t, page(
			heading("sendInvoice"),
			`<p>Use this method to send invoices. On success, the sent Message is returned.</p>`,
			params([]string{"provider_data", "String", "Optional", "JSON-serialized data about the invoice"}),
			heading("Message"), `<p>A message.</p>`, fields([]string{"message_id", "Integer", "Identifier"}),
		))
		require.NoError(t, err)
		p := ir.Methods[0].Parameters[0]
		assert.Equal(t, schema.String(), p.Type)
		assert.False(t, p.JSONSerialized)
		assert.Equal(t, "JSON-serialized data about the invoice", p.Description)
	})
}

func TestExtractSerializedContainerPhrasings(t *testing.T) {
	t.Parallel()

	t.Run("array describing", func(t *testing.T) {
		ir, err := extractPage(t, page(
			heading("sendMediaGroup"),
			`<p>Use this method to send a group of photos, videos, documents or audios as an album.</p>`,
			params(
				[]string{"chat_id", "Integer or String", "Yes", "Unique identifier for the target chat"},
				[]string{"media", "Array of InputMediaAudio, InputMediaDocument, InputMediaPhoto and InputMediaVideo", "Yes", "A JSON-serialized array describing messages to be sent, must include 2-10 items"},
			),
		), WithClosureCheck(false))
		require.NoError(t, err)
		media := ir.Methods[0].Parameters[1]
		assert.Equal(t, "media", media.Name)
		assert.True(t, media.JSONSerialized)
		assert.Equal(t, "An array describing messages to be sent, must include 2-10 items", media.Description)
		assert.Equal(t, schema.ArrayOf(schema.UnionOf(
			schema.Ref("InputMediaAudio"),
			schema.Ref("InputMediaDocument"),
			schema.Ref("InputMediaPhoto"),
			schema.Ref("InputMediaVideo"),
		)), media.Type)
	})

	t.Run("lowercase array", func(t *testing.T) {
		ir, err := extractPage(t, page(
			heading("setPassportDataErrors"),
			`<p>Informs a user that some of the Telegram Passport elements they provided contains errors. Returns True on success.</p>`,
			params([]string{"errors", "Array of PassportElementError", "Yes", "Describes the errors, a JSON-serialized array describing the errors"}),
		), WithClosureCheck(false))
		require.NoError(t, err)
		p := ir.Methods[0].Parameters[0]
		assert.True(t, p.JSONSerialized)
		assert.Equal(t, "Describes the errors, an array describing the errors", p.Description)
	})

	t.Run("array phrasing on a string", func(t *testing.T) {
		_, err := extractPage(t, page(heading("Dice"), `<p>Dice.</p>`, fields([]string{"values", "String", "A JSON-serialized array describing values"})))
		pe := requireParseError(t, err, GrammarMiss, StageDescription)
		assert.Equal(t, "A JSON-serialized array", pe.Text)
	})

	t.Run("serialized data in a string", func(t *testing.T) {
		ir, err := extractPage(t, page(
			heading("EncryptedCredentials"),
			`<p>Describes data required for decrypting and authenticating EncryptedPassportElement.</p>`,
			fields([]string{"data", "String", "Base64-encoded encrypted JSON-serialized data with unique user's payload, data hashes and secrets"}),
		))
		require.NoError(t, err)
		f := ir.Types[0].Fields[0]
		assert.Equal(t, schema.String(), f.Type)
		assert.False(t, f.JSONSerialized)
		assert.Equal(t, "Base64-encoded encrypted JSON-serialized data with unique user's payload, data hashes and secrets", f.Description)
	})
}

func TestExtractWideIntegerOnNonInteger(t *testing.T) {
	t.Parallel()

	desc := "Identifier. " + wideIntegerSentences[0]
	_, err := extractPage(t, page(heading("Dice"), `<p>Dice.</p>`, fields([]string{"value", "String", desc})))
	requireParseError(t, err, GrammarMiss, StageDescription)

	_, err = extractPage(t, page(heading("Dice"), `<p>Dice.</p>`, fields([]string{"value", "Integer", "It may have more than 32 significant bits."})))
	requireParseError(t, err, GrammarMiss, StageDescription)
}

func TestExtractSegmentViolations(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		html string
	}{
		{"two tables", page(heading("Dice"), `<p>Dice.</p>`, fields([]string{"value", "Integer", "V"}), fields([]string{"emoji", "String", "E"}))},
		{"unknown tag", page(heading("Dice"), `<div class="blockquote">Dice.</div>`, fields([]string{"value", "Integer", "V"}))},
		{"bare text", page(heading("Dice"), `Dice.`, fields([]string{"value", "Integer", "V"}))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := extractPage(t, tc.html)
			requireParseError(t, err, StructuralDrift, StageSegment)
		})
	}
}

func TestExtractSectionStopsAtRuleAndHeadings(t *testing.T) {
	t.Parallel()

	html := page(
		heading("Dice"), `<p>Dice.</p>`, fields([]string{"value", "Integer", "V"}),
		`<hr>`, `<div>not part of any section</div>`,
		`<h3><a class="anchor" name="available-methods" href="#available-methods"></a>Available methods</h3>`,
		`<table><tr><td>ignored</td></tr></table>`,
		heading("Sticker"), `<p>Sticker.</p>`, fields([]string{"emoji", "String", "E"}),
	)
	ir, err := extractPage(t, html)
	require.NoError(t, err)
	require.Len(t, ir.Types, 2)
	assert.Len(t, ir.Types[0].Fields, 1)
}

func TestExtractAnchorMismatch(t *testing.T) {
	t.Parallel()

	html := page(`<h4><a class="anchor" name="dice-type" href="#dice-type"></a>Dice</h4>`, `<p>Dice.</p>`, fields([]string{"value", "Integer", "V"}))
	_, err := extractPage(t, html)
	requireParseError(t, err, StructuralDrift, StageHeading)

	_, err = extractPage(t, page(`<h4>Dice</h4>`, `<p>Dice.</p>`))
	requireParseError(t, err, StructuralDrift, StageHeading)

	// organizational headings are never checked
	ir, err := extractPage(t, page(`<h4>Formatting options</h4>`, `<div>anything</div>`))
	require.NoError(t, err)
	assert.Empty(t, ir.Types)
}

func TestExtractProseOnlyShapes(t *testing.T) {
	t.Parallel()

	t.Run("unrecognized type prose", func(t *testing.T) {
		_, err := extractPage(t, page(heading("Dice"), `<p>This object represents a dice.</p>`))
		requireParseError(t, err, StructuralDrift, StageTable)
	})

	t.Run("method without parameters sentence", func(t *testing.T) {
		_, err := extractPage(t, page(heading("logOut"), `<p>Use this method to log out. Returns True on success.</p>`))
		requireParseError(t, err, StructuralDrift, StageTable)
	})

	t.Run("one-of without list", func(t *testing.T) {
		_, err := extractPage(t, page(heading("MenuButton"), `<p>It can be one of the buttons.</p>`))
		requireParseError(t, err, StructuralDrift, StageTable)
	})

	t.Run("one-of item not a type", func(t *testing.T) {
		_, err := extractPage(t, page(heading("MenuButton"), `<p>It can be one of</p>`, `<ul><li>menu button commands</li></ul>`))
		requireParseError(t, err, NamingViolation, StageTable)
	})

	t.Run("allow-listed one-of", func(t *testing.T) {
		ir, err := extractPage(t, page(
			heading("InputMessageContent"),
			`<p>Telegram clients currently support the following 1 type:</p>`,
			`<ul><li><a href="#inputtextmessagecontent">InputTextMessageContent</a></li></ul>`,
		), WithClosureCheck(false))
		require.NoError(t, err)
		assert.Equal(t, []string{"InputTextMessageContent"}, ir.Types[0].OneOf)
	})
}

func TestExtractClosureCheck(t *testing.T) {
	t.Parallel()

	html := page(heading("Dice"), `<p>Dice.</p>`, fields([]string{"owner", "Array of User", "Owner"}))
	_, err := extractPage(t, html)
	pe := requireParseError(t, err, DanglingReference, StageAssemble)
	assert.Equal(t, "User", pe.Text)

	ir, err := extractPage(t, html, WithClosureCheck(false))
	require.NoError(t, err)
	assert.Equal(t, []string{"User"}, ir.Types[0].Fields[0].Type.Refs())

	ir, err = extractPage(t, html, WithOpaqueTypes("User"))
	require.NoError(t, err)
	assert.Len(t, ir.Types, 1)

	_, err = extractPage(t, page(heading("getDice"), `<p>Requires no parameters. Returns a Dice object.</p>`))
	requireParseError(t, err, DanglingReference, StageAssemble)

	_, err = extractPage(t, page(heading("DiceKind"), `<p>It can be one of</p>`, `<ul><li>DiceRoll</li></ul>`))
	requireParseError(t, err, DanglingReference, StageAssemble)
}

func TestExtractDuplicates(t *testing.T) {
	t.Parallel()

	dice := heading("Dice") + `<p>Dice.</p>` + fields([]string{"value", "Integer", "V"})
	_, err := extractPage(t, page(dice, dice))
	requireParseError(t, err, NamingViolation, StageAssemble)

	_, err = extractPage(t, page(heading("Dice"), `<p>Dice.</p>`, fields([]string{"value", "Integer", "V"}, []string{"value", "String", "V"})))
	requireParseError(t, err, NamingViolation, StageAssemble)
}

func TestExtractExcludedTypes(t *testing.T) {
	t.Parallel()

	html := page(heading("Dice"), `<p>This object represents a dice.</p>`)
	ir, err := extractPage(t, html, WithExcludedTypes("Dice"))
	require.NoError(t, err)
	assert.Empty(t, ir.Types)
}

func TestLoadDocumentErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadDocument("")
	requireParseError(t, err, InputError, StageLoad)

	_, err = LoadDocument("https://core.telegram.org/bots/api")
	requireParseError(t, err, InputError, StageLoad)

	_, err = LoadDocument("testdata/missing.html")
	pe := requireParseError(t, err, InputError, StageLoad)
	assert.True(t, errors.Is(pe, os.ErrNotExist))
}

func TestParseErrorMessage(t *testing.T) {
	t.Parallel()

	err := newError(GrammarMiss, StageGrammar, "sendDice", "Integer number", "unrecognized type phrase")
	assert.Equal(t, `grammar: sendDice: unrecognized type phrase (text "Integer number")`, err.Error())
}
