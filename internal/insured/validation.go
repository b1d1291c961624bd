package insured

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/redmonkez12/insured-api/internal/cpf"
)

const (
	msgBlank          = "This field may not be blank."
	msgInvalidEmail   = "Enter a valid email address."
	msgMaxLength      = "Ensure this field has no more than %d characters."
	msgMinLength      = "Ensure this field has at least %d characters."
	msgCPFFormat      = "CPF needs to have 11 digits."
	msgCPFChecksum    = "Invalid CPF."
	msgDuplicateEmail = "An insured with this email already exists."
	msgDuplicateCPF   = "An insured with this cpf already exists."
	msgInvalidGeneric = "Invalid value."
	msgMaxLengthParam = "Ensure this field has no more than %s characters."
	msgMinLengthParam = "Ensure this field has at least %s characters."
)

// RegisterInput is the registration payload
type RegisterInput struct {
	Name       string `json:"name" validate:"required,max=50"`
	Email      string `json:"email" validate:"required,max=254,email"`
	NationalID string `json:"cpf" validate:"required,cpf"`
	Password   string `json:"password" validate:"required,min=6,max=128"`
}

// NewValidator returns a validator that reports JSON field names and knows the cpf tag
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return cpf.Validate(fl.Field().String()) == nil
	})

	return v
}

// collectFieldErrors turns validator output into a ValidationError
func collectFieldErrors(err error, into *ValidationError) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	for _, fe := range fieldErrs {
		into.Add(fe.Field(), fieldMessage(fe))
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgBlank
	case "email":
		return msgInvalidEmail
	case "max":
		return fmt.Sprintf(msgMaxLengthParam, fe.Param())
	case "min":
		return fmt.Sprintf(msgMinLengthParam, fe.Param())
	case "cpf":
		if errors.Is(cpf.Validate(fmt.Sprint(fe.Value())), cpf.ErrInvalidFormat) {
			return msgCPFFormat
		}
		return msgCPFChecksum
	default:
		return msgInvalidGeneric
	}
}
