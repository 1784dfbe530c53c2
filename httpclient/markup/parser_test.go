package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title> Sample Page </title><base href="/docs/"></head>
<body>
<a class="nav" href="intro.html">Intro</a>
<a class="nav" href="https://other.example/x">Other</a>
</body>
</html>`

func TestHTMLParser(t *testing.T) {
	doc, err := HTMLParser().Parse(samplePage, "http://example.com/index.html")
	require.NoError(t, err)

	html, ok := doc.(*HTMLDocument)
	require.True(t, ok, "expected *HTMLDocument, got %T", doc)

	assert.Equal(t, "Sample Page", html.Title())
	assert.Equal(t, "http://example.com/index.html", html.BaseURL())
	assert.Equal(t, MediaTypeHTML, html.MediaType())
	assert.Equal(t, 2, html.Find("a.nav").Length())
	require.NotNil(t, html.Root())
	require.NotNil(t, html.Url)
	assert.Equal(t, "example.com", html.Url.Host)
}

func TestHTMLDocument_ResolveURL(t *testing.T) {
	doc, err := HTMLParser().Parse(samplePage, "http://example.com/index.html")
	require.NoError(t, err)
	html := doc.(*HTMLDocument)

	got, err := html.ResolveURL("intro.html")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/docs/intro.html", got)

	got, err = html.ResolveURL("https://other.example/x")
	require.NoError(t, err)
	assert.Equal(t, "https://other.example/x", got)
}

func TestHTMLDocument_ResolveURLWithoutBase(t *testing.T) {
	doc, err := HTMLParser().Parse("<p>hi</p>", "http://example.com/a/b.html")
	require.NoError(t, err)

	got, err := doc.(*HTMLDocument).ResolveURL("../c.html")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/c.html", got)
}

func TestXMLParser(t *testing.T) {
	doc, err := XMLParser().Parse("<a>1</a>", "http://example.com/feed")
	require.NoError(t, err)

	xml, ok := doc.(*XMLDocument)
	require.True(t, ok, "expected *XMLDocument, got %T", doc)

	require.NotNil(t, xml.Root())
	assert.Equal(t, "a", xml.Root().Tag)
	assert.Equal(t, "1", xml.Root().Text())
	assert.Equal(t, "http://example.com/feed", xml.BaseURL())

	got, err := xml.ResolveURL("item/2")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/item/2", got)
}

func TestXMLParser_NoRoot(t *testing.T) {
	for _, in := range []string{"", "just text", "<?xml version=\"1.0\"?>"} {
		_, err := XMLParser().Parse(in, "")
		assert.Error(t, err, "input %q", in)
	}
}

func TestParserByName(t *testing.T) {
	p, err := ParserByName("HTML")
	require.NoError(t, err)
	doc, err := p.Parse("<p>x</p>", "")
	require.NoError(t, err)
	assert.IsType(t, &HTMLDocument{}, doc)

	p, err = ParserByName("xml")
	require.NoError(t, err)
	doc, err = p.Parse("<r/>", "")
	require.NoError(t, err)
	assert.IsType(t, &XMLDocument{}, doc)

	_, err = ParserByName("json")
	assert.ErrorContains(t, err, `unknown parser "json"`)
}
