package markup

import (
	"fmt"
	"time"

	"github.com/kbukum/docclient/validation"
)

func init() {
	_ = validation.RegisterValidation("mediatype", func(v string) bool {
		_, err := ParseMediaType(v)
		return err == nil
	})
}

// Config is the file/env representation of a Transformer.
//
//	markup:
//	  parsers:
//	    - media_type: application/rss+xml
//	      parser: xml
//	    - media_type: application/vnd.api+xml
//	      parser: xml
//	  max_attempts: 20
//	  retry_delay: 5ms
//	  max_concurrent_parses: 8
type Config struct {
	// Parsers registers additional media types, in order, after the defaults.
	Parsers []ParserMapping `yaml:"parsers" mapstructure:"parsers" validate:"dive"`
	// DisableDefaults drops the text/html, text/xml and application/xml entries.
	DisableDefaults bool `yaml:"disable_defaults" mapstructure:"disable_defaults"`
	// MaxAttempts is the number of parser calls before giving up.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=0"`
	// RetryDelay is waited after every failed parser call.
	RetryDelay time.Duration `yaml:"retry_delay" mapstructure:"retry_delay" validate:"gte=0"`
	// MaxConcurrentParses caps parallel parser calls. 0 means unlimited.
	MaxConcurrentParses int `yaml:"max_concurrent_parses" mapstructure:"max_concurrent_parses" validate:"gte=0"`
	// ParseSlotWait bounds the wait for a parse slot when MaxConcurrentParses is set.
	ParseSlotWait time.Duration `yaml:"parse_slot_wait" mapstructure:"parse_slot_wait" validate:"gte=0"`
}

// ParserMapping binds a media type (wildcards allowed) to a built-in parser.
type ParserMapping struct {
	MediaType string `yaml:"media_type" mapstructure:"media_type" validate:"required,mediatype"`
	Parser    string `yaml:"parser" mapstructure:"parser" validate:"required,oneof=html xml"`
}

// ApplyDefaults sets the retry defaults on zero fields.
func (c *Config) ApplyDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.MaxConcurrentParses > 0 && c.ParseSlotWait == 0 {
		c.ParseSlotWait = time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("markup: %w", err)
	}
	if c.DisableDefaults && len(c.Parsers) == 0 {
		return fmt.Errorf("markup: disable_defaults requires at least one parser")
	}
	return nil
}

// Registry builds the parser registry described by c. Configured media types
// are registered after the defaults in the order listed; listing a media type
// twice keeps its first position and the last parser.
func (c *Config) Registry() (*Registry, error) {
	b := NewRegistryBuilder()
	if !c.DisableDefaults {
		b.WithDefaults()
	}
	for _, m := range c.Parsers {
		mt, err := ParseMediaType(m.MediaType)
		if err != nil {
			return nil, err
		}
		p, err := ParserByName(m.Parser)
		if err != nil {
			return nil, err
		}
		b.Register(mt, p)
	}
	return b.Build()
}

// NewFromConfig validates cfg and builds a Transformer from it. opts are
// applied after the configured settings.
func NewFromConfig(cfg Config, opts ...Option) (*Transformer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithRegistry(reg),
		WithRetry(cfg.MaxAttempts, cfg.RetryDelay),
		WithMaxConcurrentParses(cfg.MaxConcurrentParses, cfg.ParseSlotWait),
	}
	return NewTransformer(append(base, opts...)...), nil
}
