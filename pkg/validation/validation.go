// Package validation wraps go-playground/validator with the custom rules used
// by request and import payloads.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"storyhub/pkg/apperr"
)

var (
	once     sync.Once
	validate *validator.Validate
)

var langCodeRX = regexp.MustCompile(`^[a-z]{2,3}(-[a-z0-9]{2,4})?$`)

// Validator returns the shared instance with custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("langcode", validateLangCode)
		_ = validate.RegisterValidation("no_xss", validateNoXSS)
		_ = validate.RegisterValidation("notblank", validateNotBlank)
	})
	return validate
}

// validateLangCode accepts ISO 639 codes with an optional region, e.g. "pt-br".
func validateLangCode(fl validator.FieldLevel) bool {
	return langCodeRX.MatchString(fl.Field().String())
}

func validateNoXSS(fl validator.FieldLevel) bool {
	value := strings.ToLower(fl.Field().String())
	for _, p := range []string{"<script", "javascript:", "onerror=", "onload=", "<iframe", "<object", "<embed"} {
		if strings.Contains(value, p) {
			return false
		}
	}
	return true
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Struct validates v and reports the first failures as an apperr validation error.
func Struct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return apperr.Validation("%s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "langcode":
		return field + " must be a language code like \"en\""
	case "no_xss":
		return field + " contains markup that is not allowed"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
