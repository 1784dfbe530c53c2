// Package validation checks configuration structs against their `validate`
// tags using go-playground/validator. Failures are reported by mapstructure
// key so they read like the config file:
//
//	type Config struct {
//	    MaxAttempts int `mapstructure:"max_attempts" validate:"gte=1"`
//	}
//	err := validation.Validate(cfg) // validation failed: max_attempts: must be at least 1
package validation
