// Package markup turns HTML and XML HTTP responses into parsed documents.
//
// A Transformer is an httpclient.ResponseStage. When a caller asks for a
// Document (or any type a Document can be assigned to) and the response
// declares a content type found in the Registry, the body is read once,
// converted to UTF-8 and handed to the matching Parser together with the
// resolved request URL. The resulting Document replaces the raw body; status
// and headers are untouched. Any other response passes through unchanged.
//
// Parsing is retried: DefaultMaxAttempts calls with DefaultRetryDelay waited
// after each failure. Once attempts run out the last parser error is returned
// as an httpclient decode error.
//
// # Usage
//
//	t := markup.NewTransformer()
//	client, _ := httpclient.New(cfg, httpclient.WithStages(t))
//	resp, err := httpclient.Get[markup.Document](client, ctx, "/feed.xml")
//	if doc, ok := resp.Data.(*markup.XMLDocument); ok {
//	    fmt.Println(doc.Root().Tag)
//	}
//
// # Registry
//
// DefaultRegistry maps text/html to HTMLParser and text/xml and
// application/xml to XMLParser. Matching compares type and subtype only,
// ignoring parameters and case; the first registered key that matches wins.
//
//	reg, err := markup.NewRegistryBuilder().
//	    WithDefaults().
//	    RegisterContentType("application/rss+xml", markup.XMLParser()).
//	    Build()
package markup
