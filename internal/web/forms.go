package web

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// FormKey holds a message that is not tied to a single field.
const FormKey = "_form"

var messages = map[string]string{
	"required": "This field is required.",
	"notblank": "This field is required.",
	"email":    "Invalid email address.",
	"number":   "Must be a whole number.",
	"url":      "Invalid URL.",
	"max":      "Too long.",
}

func init() {
	// report validation errors under the form field name the template knows
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		// whitespace-only input counts as missing
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			panic(err)
		}
	}
}

// FieldErrors maps a binding error to messages keyed by form field name.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out[FormKey] = "The form could not be read, please try again."
		return out
	}
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "Invalid value."
		}
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = msg
		}
	}
	return out
}
