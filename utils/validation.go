package utils

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// customValidators are the tags request DTOs use beyond the built-in set.
var customValidators = map[string]validator.Func{
	"notblank": validators.NotBlank,
}

// RegisterValidators adds the custom tags used by request DTOs to gin's
// validator engine. Registration runs once; later calls return the first
// result.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding engine is not a go-playground validator")
			return
		}
		registerErr = registerAll(v, customValidators)
	})
	return registerErr
}

// MustRegisterValidators is RegisterValidators for startup code. It panics on
// failure so that no request is ever bound against a missing tag.
func MustRegisterValidators() {
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

func registerAll(v *validator.Validate, fns map[string]validator.Func) error {
	for tag, fn := range fns {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q validator: %w", tag, err)
		}
	}
	return nil
}

// FieldErrors maps each failing field, lower-cased, to a user-facing message.
// It returns nil when err is not a validator error.
func FieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	out := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		if _, seen := out[field]; !seen {
			out[field] = fieldMessage(field, fe)
		}
	}
	return out
}

// SanitizeValidationError takes a binding error and returns a user-friendly
// message without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	fields := FieldErrors(err)
	if len(fields) == 0 {
		return "Invalid request body"
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	messages := make([]string, 0, len(names))
	for _, name := range names {
		messages = append(messages, fields[name])
	}
	return strings.Join(messages, "; ")
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
