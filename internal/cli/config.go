package cli

import (
	"fmt"

	"github.com/kbukum/docclient/config"
	"github.com/kbukum/docclient/httpclient"
	"github.com/kbukum/docclient/httpclient/markup"
	"github.com/kbukum/docclient/validation"
	"github.com/kbukum/docclient/version"
)

const serviceName = "docfetch"

// FetchConfig is the docfetch configuration file.
//
//	name: docfetch
//	logger:
//	  level: info
//	http:
//	  timeout: 15s
//	  request_id_header: X-Request-ID
//	  retry:
//	    max_attempts: 3
//	markup:
//	  parsers:
//	    - media_type: application/rss+xml
//	      parser: xml
//	telemetry:
//	  enabled: true
//	  endpoint: localhost:4318
type FetchConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HTTP      httpclient.Config `yaml:"http" mapstructure:"http"`
	Markup    markup.Config     `yaml:"markup" mapstructure:"markup"`
	Telemetry TelemetryConfig   `yaml:"telemetry" mapstructure:"telemetry"`
}

// TelemetryConfig enables OTLP export of transformation spans and metrics.
type TelemetryConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// ApplyDefaults fills unset fields. Logs go to stderr so they never mix with
// the document printed on stdout.
func (c *FetchConfig) ApplyDefaults() {
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
	c.ServiceConfig.ApplyDefaults()

	if c.HTTP.Name == "" {
		c.HTTP.Name = serviceName
	}
	if c.HTTP.Headers == nil {
		c.HTTP.Headers = make(map[string]string)
	}
	if _, ok := c.HTTP.Headers["User-Agent"]; !ok {
		c.HTTP.Headers["User-Agent"] = version.UserAgent(serviceName)
	}
	c.HTTP.ApplyDefaults()
	c.Markup.ApplyDefaults()

	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			c.Telemetry.Endpoint = "localhost:4318"
		}
		if c.Telemetry.SampleRate == 0 {
			c.Telemetry.SampleRate = 1.0
		}
	}
}

// Validate checks every section.
func (c *FetchConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Markup.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(&c.Telemetry); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig(o *fetchOptions) (*FetchConfig, error) {
	var opts []config.LoaderOption
	if o.configFile != "" {
		opts = append(opts, config.WithConfigFile(o.configFile))
	}
	cfg, err := config.Load[FetchConfig](serviceName, opts...)
	if err != nil {
		return nil, err
	}

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.timeout > 0 {
		cfg.HTTP.Timeout = o.timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
