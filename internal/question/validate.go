package question

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// Validator validates question records before they enter the table.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewValidator builds a validator with English translations and the
// correct-answer membership rule.
func NewValidator() (*Validator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		q := sl.Current().Interface().(Question)
		if q.CorrectAnswer == "" {
			return // covered by the required rule
		}
		if !slices.Contains(q.Options, q.CorrectAnswer) {
			sl.ReportError(q.CorrectAnswer, "correct_answer", "CorrectAnswer", "answeroption", "")
		}
	}, Question{})

	if err := validate.RegisterTranslation("answeroption", trans, func(ut ut.Translator) error {
		return ut.Add("answeroption", "{0} must be one of the options", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("answeroption", fe.Field())
		return t
	}); err != nil {
		return nil, fmt.Errorf("failed to register answeroption translation: %w", err)
	}

	return &Validator{validate: validate, trans: trans}, nil
}

// Validate checks a single question record. It returns the translated list of
// failures, or nil when the record is acceptable.
func (v *Validator) Validate(q Question) []string {
	err := v.validate.Struct(q)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages = append(messages, fieldError.Translate(v.trans))
	}
	return messages
}
