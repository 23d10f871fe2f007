package users

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/moviemaestro/moviemaestro-backend/pkg/errors"
)

// emailPattern mirrors the account email rule enforced at signup: word
// characters with optional single dot or dash separators, and a 2-3 letter TLD.
var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	if err := v.RegisterValidation("account_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

func validateInput(input any) error {
	if err := validate.Struct(input); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "account_email":
		return "must be a valid email address"
	}
	return "is invalid"
}
