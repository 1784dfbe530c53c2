package markup

import (
	"fmt"
	"mime"
	"strings"
)

const wildcard = "*"

// MediaType is a content-type key made of a primary type and a subtype.
// Either part may be the wildcard "*". Parameters such as charset are never
// part of a MediaType.
type MediaType struct {
	Type    string
	Subtype string
}

// Well-known media types registered by DefaultRegistry.
var (
	MediaTypeHTML           = MediaType{Type: "text", Subtype: "html"}
	MediaTypeTextXML        = MediaType{Type: "text", Subtype: "xml"}
	MediaTypeApplicationXML = MediaType{Type: "application", Subtype: "xml"}
)

// ParseMediaType parses a Content-Type value such as
// "text/html; charset=utf-8" and returns its type/subtype, lower-cased.
// Parameters are discarded.
func ParseMediaType(v string) (MediaType, error) {
	mt, _, err := parseContentType(v)
	return mt, err
}

// MustParseMediaType is like ParseMediaType but panics on error.
// It is intended for package-level registrations.
func MustParseMediaType(v string) MediaType {
	mt, err := ParseMediaType(v)
	if err != nil {
		panic(err)
	}
	return mt
}

// parseContentType splits a Content-Type header into its media type and
// parameters.
func parseContentType(v string) (MediaType, map[string]string, error) {
	full, params, err := mime.ParseMediaType(v)
	if err != nil {
		return MediaType{}, nil, fmt.Errorf("markup: invalid media type %q: %w", v, err)
	}
	typ, sub, ok := strings.Cut(full, "/")
	if !ok || typ == "" || sub == "" {
		return MediaType{}, nil, fmt.Errorf("markup: invalid media type %q: missing subtype", v)
	}
	if typ == wildcard && sub != wildcard {
		return MediaType{}, nil, fmt.Errorf("markup: invalid media type %q: wildcard type needs wildcard subtype", v)
	}
	return MediaType{Type: typ, Subtype: sub}, params, nil
}

// String returns the "type/subtype" form.
func (m MediaType) String() string {
	return m.Type + "/" + m.Subtype
}

// IsZero reports whether m is the zero MediaType.
func (m MediaType) IsZero() bool {
	return m.Type == "" && m.Subtype == ""
}

// IsWildcard reports whether m matches more than one concrete media type.
func (m MediaType) IsWildcard() bool {
	return m.Type == wildcard || m.Subtype == wildcard
}

func (m MediaType) normalize() MediaType {
	return MediaType{Type: strings.ToLower(m.Type), Subtype: strings.ToLower(m.Subtype)}
}

// Includes reports whether the declared media type falls under m.
// Only type and subtype are compared.
func (m MediaType) Includes(declared MediaType) bool {
	if m.Type != wildcard && !strings.EqualFold(m.Type, declared.Type) {
		return false
	}
	return m.Subtype == wildcard || strings.EqualFold(m.Subtype, declared.Subtype)
}
