package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule. Field is the dotted config key, without
// the name of the validated struct.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lists every failed rule of one Validate call.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	engine     *validator.Validate
	engineOnce sync.Once
)

func instance() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		engine.RegisterTagNameFunc(keyName)
	})
	return engine
}

// keyName reports fields by their mapstructure key so messages match the
// config file.
func keyName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
	if name == "" || name == "-" {
		return snakeCase(f.Name)
	}
	return name
}

// RegisterValidation adds a string rule usable in `validate` tags. Call it
// from an init function, before the first Validate.
func RegisterValidation(tag string, fn func(value string) bool) error {
	return instance().RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
}

// Validate checks s against its `validate` tags and returns an *Error
// listing every failure.
func Validate(s any) error {
	err := instance().Struct(s)
	var failed validator.ValidationErrors
	if !errors.As(err, &failed) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(failed))}
	for _, fe := range failed {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		out.Fields = append(out.Fields, FieldError{Field: field, Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param() + unit
	case "max", "lte":
		return "must be at most " + fe.Param() + unit
	case "gt":
		return "must be greater than " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "is invalid (" + fe.Tag() + ")"
}

// snakeCase lowercases a Go field name, starting a new word at each upper
// case letter that follows a lower case one or begins a capitalized word
// after an acronym: BaseURL becomes base_url, HTTPClient http_client.
func snakeCase(s string) string {
	rs := []rune(s)
	var b strings.Builder
	for i, r := range rs {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(rs[i-1])
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if prevLower || (unicode.IsUpper(rs[i-1]) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
