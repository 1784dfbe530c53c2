package markup

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

// Document is a parsed markup tree. The transformer only passes documents
// through; callers type-switch or assert to *HTMLDocument or *XMLDocument to
// walk the tree.
type Document interface {
	// BaseURL is the URL relative references in the document resolve against.
	BaseURL() string
	// MediaType is the declared media type the document was parsed from.
	MediaType() MediaType
}

var (
	_ Document = (*HTMLDocument)(nil)
	_ Document = (*XMLDocument)(nil)
)

// mediaTyper is implemented by the built-in documents so the transformer can
// record the media type the response actually declared.
type mediaTyper interface {
	setMediaType(MediaType)
}

// HTMLDocument is an HTML tree queryable with CSS selectors.
type HTMLDocument struct {
	*goquery.Document
	baseURL   string
	mediaType MediaType
}

// NewHTMLDocument wraps an already parsed HTML tree.
func NewHTMLDocument(root *html.Node, baseURL string, mt MediaType) *HTMLDocument {
	doc := goquery.NewDocumentFromNode(root)
	if u, err := url.Parse(baseURL); err == nil && baseURL != "" {
		doc.Url = u
	}
	return &HTMLDocument{Document: doc, baseURL: baseURL, mediaType: mt}
}

// BaseURL implements Document.
func (d *HTMLDocument) BaseURL() string { return d.baseURL }

// MediaType implements Document.
func (d *HTMLDocument) MediaType() MediaType { return d.mediaType }

func (d *HTMLDocument) setMediaType(mt MediaType) { d.mediaType = mt }

// Root returns the document node of the underlying x/net/html tree.
func (d *HTMLDocument) Root() *html.Node {
	if len(d.Nodes) == 0 {
		return nil
	}
	return d.Nodes[0]
}

// Title returns the trimmed text of the first <title> element.
func (d *HTMLDocument) Title() string {
	return strings.TrimSpace(d.Find("title").First().Text())
}

// ResolveURL resolves ref against the document's <base href> if present,
// otherwise against BaseURL.
func (d *HTMLDocument) ResolveURL(ref string) (string, error) {
	base := d.baseURL
	if href, ok := d.Find("base[href]").First().Attr("href"); ok {
		resolved, err := resolve(base, href)
		if err != nil {
			return "", err
		}
		base = resolved
	}
	return resolve(base, ref)
}

// XMLDocument is an XML element tree.
type XMLDocument struct {
	*etree.Document
	baseURL   string
	mediaType MediaType
}

// NewXMLDocument wraps an already parsed XML tree.
func NewXMLDocument(doc *etree.Document, baseURL string, mt MediaType) *XMLDocument {
	return &XMLDocument{Document: doc, baseURL: baseURL, mediaType: mt}
}

// BaseURL implements Document.
func (d *XMLDocument) BaseURL() string { return d.baseURL }

// MediaType implements Document.
func (d *XMLDocument) MediaType() MediaType { return d.mediaType }

func (d *XMLDocument) setMediaType(mt MediaType) { d.mediaType = mt }

// ResolveURL resolves ref against BaseURL.
func (d *XMLDocument) ResolveURL(ref string) (string, error) {
	return resolve(d.baseURL, ref)
}

func resolve(base, ref string) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("markup: parse reference %q: %w", ref, err)
	}
	if base == "" {
		return r.String(), nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("markup: parse base URL %q: %w", base, err)
	}
	return b.ResolveReference(r).String(), nil
}
