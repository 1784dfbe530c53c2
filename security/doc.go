// Package security builds client TLS settings for the document client.
//
//	cfg := security.TLSConfig{
//	    CAFile:     "/etc/docfetch/ca.pem",
//	    MinVersion: security.TLSVersion13,
//	}
//
//	tlsConfig, err := cfg.Build()
//
// Build returns nil when nothing is configured so callers can keep the
// transport defaults.
package security
