// Package config loads command configuration for docclient tools.
//
// Viper reads a YAML file and the process environment; godotenv loads a
// .env file first when one is found. Each key of the target struct, named by
// its mapstructure tags, binds to the upper-cased key path with dots turned
// into underscores: MARKUP_RETRY_DELAY sets markup.retry_delay.
//
// # Usage
//
//	cfg, err := config.Load[FetchConfig]("docfetch", config.WithConfigFile(path))
//
// Load applies defaults and validates the result; LoadConfig only unmarshals.
package config
