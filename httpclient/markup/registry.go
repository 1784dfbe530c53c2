package markup

import (
	"errors"
	"fmt"
)

type registryEntry struct {
	key    MediaType
	parser Parser
}

// Registry maps media types to parsers. It is immutable once built and safe
// for concurrent lookups. Lookups walk the entries in registration order and
// the first key that includes the declared media type wins.
type Registry struct {
	entries []registryEntry
}

// DefaultRegistry returns a registry with parsers for text/html, text/xml
// and application/xml.
func DefaultRegistry() *Registry {
	r, _ := NewRegistryBuilder().WithDefaults().Build()
	return r
}

// Lookup returns the parser for the declared media type together with the
// registry key that matched.
func (r *Registry) Lookup(declared MediaType) (Parser, MediaType, bool) {
	if r == nil {
		return nil, MediaType{}, false
	}
	for _, e := range r.entries {
		if e.key.Includes(declared) {
			return e.parser, e.key, true
		}
	}
	return nil, MediaType{}, false
}

// Keys returns the registered media types in registration order.
func (r *Registry) Keys() []MediaType {
	if r == nil {
		return nil
	}
	keys := make([]MediaType, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.key
	}
	return keys
}

// Len returns the number of registered media types.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// RegistryBuilder assembles a Registry. It is not safe for concurrent use;
// build once at client setup and share the resulting Registry.
type RegistryBuilder struct {
	entries []registryEntry
	errs    []error
}

// NewRegistryBuilder returns an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{}
}

// WithDefaults registers the HTML parser for text/html and the XML parser
// for text/xml and application/xml.
func (b *RegistryBuilder) WithDefaults() *RegistryBuilder {
	xml := XMLParser()
	return b.
		Register(MediaTypeHTML, HTMLParser()).
		Register(MediaTypeTextXML, xml).
		Register(MediaTypeApplicationXML, xml)
}

// Register maps key to p. Registering a key that is already present replaces
// its parser and keeps its original position.
func (b *RegistryBuilder) Register(key MediaType, p Parser) *RegistryBuilder {
	if key.IsZero() {
		b.errs = append(b.errs, errors.New("markup: empty media type"))
		return b
	}
	if p == nil {
		b.errs = append(b.errs, fmt.Errorf("markup: nil parser for %s", key))
		return b
	}
	key = key.normalize()
	for i, e := range b.entries {
		if e.key == key {
			b.entries[i].parser = p
			return b
		}
	}
	b.entries = append(b.entries, registryEntry{key: key, parser: p})
	return b
}

// RegisterContentType parses contentType and registers p for it.
func (b *RegistryBuilder) RegisterContentType(contentType string, p Parser) *RegistryBuilder {
	key, err := ParseMediaType(contentType)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	return b.Register(key, p)
}

// Build returns the immutable Registry, or the joined registration errors.
func (b *RegistryBuilder) Build() (*Registry, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	entries := make([]registryEntry, len(b.entries))
	copy(entries, b.entries)
	return &Registry{entries: entries}, nil
}
