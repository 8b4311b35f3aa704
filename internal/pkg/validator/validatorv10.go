package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/growguard/internal/pkg/strcase"
)

var (
	// Local (03001234567) or international (+923001234567) mobile numbers.
	rePhone = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

	reNumeric = regexp.MustCompile(`^[0-9]+$`)

	reAlphaSpace = regexp.MustCompile(`^[\p{L} ]+$`)
)

// ErrTranslatorNotFound is returned when the english translator cannot be loaded.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator with go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError maps snake_case field names to translated messages.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator builds a validator with english messages and the
// "phone", "otp" and "alphaspace" rules registered.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	rules := []struct {
		tag string
		re  *regexp.Regexp
		msg string
	}{
		{tag: "phone", re: rePhone, msg: "{0} must be a valid mobile number"},
		{tag: "otp", re: reNumeric, msg: "{0} must contain digits only"},
		{tag: "alphaspace", re: reAlphaSpace, msg: "{0} can contain only letters and spaces"},
	}

	for _, r := range rules {
		if err := register(validate, enTrans, r.tag, r.re, r.msg); err != nil {
			return nil, err
		}
	}

	return &V10Validator{validate: validate, translator: enTrans}, nil
}

// Validate returns a V10ValidationError when data breaks any of its rules.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return err
	}

	errV10 := make(V10ValidationError, len(validateErrs))
	for _, fe := range validateErrs {
		errV10[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
	}

	return errV10
}

func register(validate *validator.Validate, trans ut.Translator, tag string, re *regexp.Regexp, msg string) error {
	err := validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && re.MatchString(s)
	})
	if err != nil {
		return err
	}

	return validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			// alphaspace also ships with the library; ours accepts any letter.
			return ut.Add(tag, msg, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(fe.Tag(), fe.Field())
			if err != nil {
				slog.Warn("warning: error translating", "tag", fe.Tag(), "error", err)
				return fe.Error()
			}
			return t
		},
	)
}
