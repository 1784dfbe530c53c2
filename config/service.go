package config

import (
	"fmt"

	"github.com/kbukum/docclient/logger"
	"github.com/kbukum/docclient/validation"
)

// ServiceConfig holds the settings shared by every docclient command.
// Commands embed it with mapstructure squash:
//
//	type FetchConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    HTTP   httpclient.Config `yaml:"http" mapstructure:"http"`
//	    Markup markup.Config     `yaml:"markup" mapstructure:"markup"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string        `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logger" mapstructure:"logger"`
}

// GetServiceConfig lets an embedding struct satisfy Config.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults defaults the environment to development, which turns on
// debug, and tags log lines with the service name. Embedding configs call it
// from their own ApplyDefaults.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate checks the shared fields and the logger section.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
