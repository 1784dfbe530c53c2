package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"

	"github.com/kbukum/docclient/httpclient/markup"
)

type query struct {
	selector string
	xpath    string
	attr     string
}

// render prints the document summary followed by the matched nodes, one
// value per line.
func render(w io.Writer, doc markup.Document, q query) error {
	fmt.Fprintf(w, "media type: %s\n", doc.MediaType())
	fmt.Fprintf(w, "base url:   %s\n", doc.BaseURL())

	switch d := doc.(type) {
	case *markup.HTMLDocument:
		if q.xpath != "" {
			return errors.New("--xpath applies to XML documents, use --selector")
		}
		if q.selector == "" {
			fmt.Fprintf(w, "title:      %s\n", d.Title())
			return nil
		}
		return printMatches(w, selectHTML(d, q))
	case *markup.XMLDocument:
		if q.selector != "" {
			return errors.New("--selector applies to HTML documents, use --xpath")
		}
		if q.xpath == "" {
			root := ""
			if r := d.Root(); r != nil {
				root = r.FullTag()
			}
			fmt.Fprintf(w, "root:       %s\n", root)
			return nil
		}
		values, err := selectXML(d, q)
		if err != nil {
			return err
		}
		return printMatches(w, values)
	default:
		return fmt.Errorf("unsupported document type %T", doc)
	}
}

func printMatches(w io.Writer, values []string) error {
	fmt.Fprintf(w, "matches:    %d\n", len(values))
	for _, v := range values {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return nil
}

// selectHTML returns the text or attribute of every node matching the CSS
// selector. href and src attributes are resolved against the document.
func selectHTML(d *markup.HTMLDocument, q query) []string {
	var values []string
	d.Find(q.selector).Each(func(_ int, s *goquery.Selection) {
		if q.attr == "" {
			values = append(values, strings.TrimSpace(s.Text()))
			return
		}
		v, ok := s.Attr(q.attr)
		if !ok {
			return
		}
		if q.attr == "href" || q.attr == "src" {
			if resolved, err := d.ResolveURL(v); err == nil {
				v = resolved
			}
		}
		values = append(values, v)
	})
	return values
}

// selectXML returns the text or attribute of every element matching path.
func selectXML(d *markup.XMLDocument, q query) ([]string, error) {
	path, err := etree.CompilePath(q.xpath)
	if err != nil {
		return nil, fmt.Errorf("invalid --xpath %q: %w", q.xpath, err)
	}
	var values []string
	for _, el := range d.FindElementsPath(path) {
		if q.attr == "" {
			values = append(values, strings.TrimSpace(el.Text()))
			continue
		}
		if a := el.SelectAttr(q.attr); a != nil {
			values = append(values, a.Value)
		}
	}
	return values, nil
}
