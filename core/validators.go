package core

import (
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"
	"github.com/pkg/errors"
)

const defaultLocale = "en"

var (
	// custom validation tags
	notBlankTag     = "notblank"
	finiteTag       = "finite"
	integerTag      = "integer"
	requiredTag     = "required"
	requiredWithTag = "required_with"
	gteTag          = "gte"

	// custom validation texts, by locale
	texts = map[string]map[string]string{
		"en": {
			notBlankTag:     "this field is required",
			finiteTag:       "must be a number",
			integerTag:      "must be a whole number",
			requiredTag:     "this field is required",
			requiredWithTag: "this field is required",
			gteTag:          "must be at least {0}",
		},
		"fr": {
			notBlankTag:     "ce champ est obligatoire",
			finiteTag:       "doit être un nombre",
			integerTag:      "doit être un nombre entier",
			requiredTag:     "ce champ est obligatoire",
			requiredWithTag: "ce champ est obligatoire",
			gteTag:          "doit être au moins {0}",
		},
	}
)

// NewTranslator returns the translator for locale, falling back to english.
func NewTranslator(locale string) ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en, fr.New())
	translator, found := uni.GetTranslator(CleanString(locale, true /* lower */))
	if !found {
		translator, _ = uni.GetTranslator(defaultLocale)
	}
	return translator
}

// InitValidators instantiates the validator for use.
// It panics if a rule or a translation cannot be registered.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	var err error
	switch translator.Locale() {
	case "fr":
		err = fr_translations.RegisterDefaultTranslations(validate, translator)
	default:
		err = en_translations.RegisterDefaultTranslations(validate, translator)
	}
	MustRegister(err)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	MustRegister(validate.RegisterValidation(notBlankTag, notBlankValidation))
	MustRegister(validate.RegisterValidation(finiteTag, finiteValidation))
	MustRegister(validate.RegisterValidation(integerTag, integerValidation))

	msgs := LocaleTexts(translator, texts)
	MustRegister(RegisterCustomTranslation(validate, translator, notBlankTag, msgs[notBlankTag]))
	MustRegister(RegisterCustomTranslation(validate, translator, finiteTag, msgs[finiteTag]))
	MustRegister(RegisterCustomTranslation(validate, translator, integerTag, msgs[integerTag]))
	MustRegister(RegisterCustomTranslation(validate, translator, requiredTag, msgs[requiredTag], true))
	MustRegister(RegisterCustomTranslation(validate, translator, requiredWithTag, msgs[requiredWithTag], true))
	MustRegister(RegisterCustomTranslation(validate, translator, gteTag, msgs[gteTag], true))
}

// MustRegister panics on a validator rule or translation registration error.
func MustRegister(err error) {
	if err != nil {
		panic(errors.Wrap(err, "registering validator"))
	}
}

// LocaleTexts picks the texts matching the translator's locale, falling back to english.
func LocaleTexts(translator ut.Translator, byLocale map[string]map[string]string) map[string]string {
	if msgs, ok := byLocale[translator.Locale()]; ok {
		return msgs
	}
	return byLocale[defaultLocale]
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
// The text may reference the tag param as {0}.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) error {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	return validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, err := t.T(tag, fe.Param())
			if err != nil {
				return fe.Error()
			}
			return s
		},
	)
}

// TranslateErrors converts validator.ValidationErrors into FieldErrors, keeping their order.
func TranslateErrors(errs validator.ValidationErrors, translator ut.Translator) []FieldError {
	fldErrs := make([]FieldError, 0, len(errs))
	for _, vErr := range errs {
		fldErrs = append(fldErrs, FieldError{Field: vErr.Field(), Error: vErr.Translate(translator)})
	}
	return fldErrs
}

// Custom Global Validators

// notBlankValidation requires a string with at least one non-whitespace character.
func notBlankValidation(fl validator.FieldLevel) bool {
	return CleanString(fl.Field().String()) != ""
}

// finiteValidation rejects NaN and infinities.
func finiteValidation(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// integerValidation rejects numbers with a fractional part.
func integerValidation(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return f == math.Trunc(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
