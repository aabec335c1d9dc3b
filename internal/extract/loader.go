package extract

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// LoadDocument reads and parses the reference page. input is a filesystem
// path, or "-" for stdin. Fetching over the network is left to the caller:
// http(s) inputs are rejected with a hint to download the page first.
func LoadDocument(input string) (*html.Node, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &ParseError{Code: InputError, Stage: StageLoad, Message: "input is empty"}
	}

	var (
		raw      []byte
		location = input
		err      error
	)
	if input == "-" {
		raw, err = io.ReadAll(os.Stdin)
		location = "stdin"
	} else {
		if u, uerr := url.Parse(input); uerr == nil && u.Scheme != "" && u.Host != "" {
			return nil, &ParseError{Code: InputError, Stage: StageLoad, Text: input, Message: fmt.Sprintf("remote %s inputs are not fetched; download the page and pass the file", u.Scheme)}
		}
		abs, aerr := filepath.Abs(input)
		if aerr != nil {
			return nil, &ParseError{Code: InputError, Stage: StageLoad, Text: input, Message: fmt.Sprintf("resolve path: %v", aerr), Cause: aerr}
		}
		location = abs
		raw, err = os.ReadFile(abs)
	}
	if err != nil {
		return nil, &ParseError{Code: InputError, Stage: StageLoad, Text: location, Message: fmt.Sprintf("read %s: %v", location, err), Cause: err}
	}
	return ParseDocument(raw)
}

// ParseDocument parses raw HTML into a document tree.
func ParseDocument(raw []byte) (*html.Node, error) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, &ParseError{Code: InputError, Stage: StageLoad, Message: fmt.Sprintf("parse html: %v", err), Cause: err}
	}
	return doc, nil
}
