package markup

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

// Parser turns a decoded response body into a Document. baseURL is the
// resolved request URL. Implementations must be safe for concurrent use.
type Parser interface {
	Parse(text, baseURL string) (Document, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(text, baseURL string) (Document, error)

// Parse calls f(text, baseURL).
func (f ParserFunc) Parse(text, baseURL string) (Document, error) {
	return f(text, baseURL)
}

// Names accepted by ParserByName.
const (
	ParserHTML = "html"
	ParserXML  = "xml"
)

// HTMLParser returns a parser producing *HTMLDocument values.
func HTMLParser() Parser {
	return ParserFunc(func(text, baseURL string) (Document, error) {
		root, err := html.Parse(strings.NewReader(text))
		if err != nil {
			return nil, fmt.Errorf("markup: parse html: %w", err)
		}
		return NewHTMLDocument(root, baseURL, MediaTypeHTML), nil
	})
}

// XMLParser returns a parser producing *XMLDocument values.
func XMLParser() Parser {
	return ParserFunc(func(text, baseURL string) (Document, error) {
		doc := etree.NewDocument()
		if err := doc.ReadFromString(text); err != nil {
			return nil, fmt.Errorf("markup: parse xml: %w", err)
		}
		if doc.Root() == nil {
			return nil, fmt.Errorf("markup: parse xml: no root element")
		}
		return NewXMLDocument(doc, baseURL, MediaTypeApplicationXML), nil
	})
}

// ParserByName returns the built-in parser called name.
func ParserByName(name string) (Parser, error) {
	switch strings.ToLower(name) {
	case ParserHTML:
		return HTMLParser(), nil
	case ParserXML:
		return XMLParser(), nil
	default:
		return nil, fmt.Errorf("markup: unknown parser %q (want %q or %q)", name, ParserHTML, ParserXML)
	}
}
