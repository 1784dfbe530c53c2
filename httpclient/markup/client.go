package markup

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/kbukum/docclient/httpclient"
	"github.com/kbukum/docclient/provider"
)

// Fetch issues a GET for path and returns the response body as a Document.
// The adapter must have a Transformer among its stages. A response whose
// content type is not registered yields a decode error; the body is never
// decoded as JSON.
func Fetch(ctx context.Context, a *httpclient.Adapter, path string, opts ...httpclient.RequestOption) (*httpclient.TypedResponse[Document], error) {
	resp, err := a.Do(ctx, httpclient.NewRequest(http.MethodGet, path, opts...))
	if err != nil {
		return nil, err
	}
	doc, err := viaStages(ctx, a, resp)
	if err != nil {
		return nil, err
	}
	return &httpclient.TypedResponse[Document]{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		URL:        resp.URL,
		Data:       doc,
	}, nil
}

// NewProvider exposes fetch-and-parse as a provider. With a nil t the
// adapter's own stages decode the body, exactly as in Fetch; otherwise t
// decodes it directly and the adapter needs no stages.
func NewProvider(a *httpclient.Adapter, t *Transformer) provider.RequestResponse[httpclient.Request, Document] {
	decode := func(ctx context.Context, resp *httpclient.Response) (Document, error) {
		return viaStages(ctx, a, resp)
	}
	if t != nil {
		decode = func(ctx context.Context, resp *httpclient.Response) (Document, error) {
			meta := Meta{ContentType: resp.ContentType(), URL: resp.URL, StatusCode: resp.StatusCode}
			out, err := t.Transform(ctx, meta, bytes.NewReader(resp.Body), documentType)
			if err != nil {
				return nil, err
			}
			if !out.Replaced {
				return nil, noDocument(resp)
			}
			return out.Document, nil
		}
	}
	return provider.Adapt[httpclient.Request, Document, httpclient.Request, *httpclient.Response](
		a,
		a.Name()+".markup",
		func(_ context.Context, req httpclient.Request) (httpclient.Request, error) {
			if req.Method == "" {
				req.Method = http.MethodGet
			}
			return req, nil
		},
		decode,
	)
}

func viaStages(ctx context.Context, a *httpclient.Adapter, resp *httpclient.Response) (Document, error) {
	value, ok, err := a.Decode(ctx, resp, documentType)
	if err != nil {
		return nil, err
	}
	doc, isDoc := value.(Document)
	if !ok || !isDoc {
		return nil, noDocument(resp)
	}
	return doc, nil
}

func noDocument(resp *httpclient.Response) error {
	return httpclient.NewDecodeError(resp.StatusCode,
		fmt.Errorf("markup: no document for content type %q", resp.ContentType()))
}
