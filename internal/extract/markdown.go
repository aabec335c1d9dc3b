package extract

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// markdownConverter turns description HTML fragments into markdown. Fragments
// are sanitized first so only prose markup reaches the converter.
type markdownConverter struct {
	policy  *bluemonday.Policy
	md      *converter.Converter
	baseURL string
}

func newMarkdownConverter(baseURL string) *markdownConverter {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("p", "br", "ul", "ol", "li", "blockquote", "pre", "code", "em", "i", "strong", "b", "a")
	policy.AllowAttrs("href").OnElements("a")
	policy.AllowRelativeURLs(true)
	policy.AllowURLSchemes("http", "https", "tg", "mailto")

	return &markdownConverter{
		policy: policy,
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
		baseURL: baseURL,
	}
}

// convert returns the markdown form of an HTML fragment.
func (c *markdownConverter) convert(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	flat, err := inlineEmoji(fragment)
	if err != nil {
		return "", err
	}
	clean := c.policy.Sanitize(flat)
	var out string
	if c.baseURL != "" {
		out, err = c.md.ConvertString(clean, converter.WithDomain(c.baseURL))
	} else {
		out, err = c.md.ConvertString(clean)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// inlineEmoji replaces <img alt="…"> with its alt text. The fragment is
// reparsed so the shared document tree is never touched.
func inlineEmoji(fragment string) (string, error) {
	if !strings.Contains(fragment, "<img") {
		return fragment, nil
	}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	for _, img := range findAll(body, atom.Img) {
		img.Parent.InsertBefore(&html.Node{Type: html.TextNode, Data: attr(img, "alt")}, img)
		img.Parent.RemoveChild(img)
	}
	return innerHTML(body)
}

var (
	mdLinkRe   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdEscapeRe = regexp.MustCompile(`\\([\\*_\[\]()#+\-.!<>~|` + "`" + `])`)
)

// plainText drops link targets, emphasis and escapes from markdown so phrase
// rules can match the prose as a reader sees it.
func plainText(md string) string {
	s := mdLinkRe.ReplaceAllString(md, "$1")
	s = mdEscapeRe.ReplaceAllString(s, "$1")
	s = strings.NewReplacer("**", "", "*", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
