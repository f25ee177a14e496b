// Package validation wires go-playground/validator into echo with English
// messages keyed by JSON field names.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"

	"kisansetu/pkg/calculator"
	"kisansetu/pkg/cropdata"
)

const (
	cropTag   = "crop"
	methodTag = "irrigation_method"
	soilTag   = "soil"
)

type Validator struct {
	v     *validator.Validate
	trans ut.Translator
}

// New returns a validator with the custom tags registered against crops.
func New(crops *cropdata.Table) *Validator {
	v := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})

	out := &Validator{v: v, trans: trans}
	_ = v.RegisterValidation(cropTag, func(fl validator.FieldLevel) bool {
		_, ok := crops.Lookup(fl.Field().String())
		return ok
	})
	out.register(cropTag, "{0} is not a known crop")

	_ = v.RegisterValidation(methodTag, func(fl validator.FieldLevel) bool {
		_, ok := calculator.Efficiency(calculator.Method(fl.Field().String()))
		return ok
	})
	methods := make([]string, 0, len(calculator.Methods()))
	for _, m := range calculator.Methods() {
		methods = append(methods, string(m))
	}
	out.register(methodTag, "{0} must be one of "+strings.Join(methods, ", "))

	_ = v.RegisterValidation(soilTag, func(fl validator.FieldLevel) bool {
		_, ok := calculator.IntervalDays(calculator.Soil(fl.Field().String()))
		return ok
	})
	out.register(soilTag, "{0} must be one of sand, loam, clay")
	return out
}

func (x *Validator) register(tag, text string) {
	_ = x.v.RegisterTranslation(tag, x.trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Validate implements echo.Validator.
func (x *Validator) Validate(i interface{}) error {
	return x.v.Struct(i)
}

// Fields flattens a validation error into field -> message. It returns nil
// when err is not a validation error.
func (x *Validator) Fields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(x.trans)
	}
	return out
}
