package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"tzface/faceos/zones"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

type checker struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newChecker() (*checker, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, errors.New("translator not found")
	}
	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	registerCustom(validate, enTrans)
	return &checker{validate: validate, translator: enTrans}, nil
}

//nolint:errcheck // registration only fails on empty tags
func registerCustom(validate *validator.Validate, enTrans ut.Translator) {
	validate.RegisterValidation("utcoffset", func(fl validator.FieldLevel) bool {
		v := fl.Field().Int()
		return v >= zones.MinOffsetMinutes && v <= zones.MaxOffsetMinutes
	})
	validate.RegisterTranslation("utcoffset", enTrans,
		func(ut ut.Translator) error {
			return ut.Add("utcoffset", "{0} must be between -720 and 840 minutes", false)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(fe.Tag(), fe.Field())
			return t
		},
	)

	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		n := sl.Current().Interface().(Night)
		if n.DawnHour != nil && n.DuskHour != nil && *n.DuskHour < *n.DawnHour {
			sl.ReportError(n.DuskHour, "DuskHour", "DuskHour", "dusk", "")
		}
	}, Night{})
	validate.RegisterTranslation("dusk", enTrans,
		func(ut ut.Translator) error {
			return ut.Add("dusk", "{0} must not be before DawnHour", false)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(fe.Tag(), fe.Field())
			return t
		},
	)
}

func validate(cfg *Config) error {
	c, err := newChecker()
	if err != nil {
		return fmt.Errorf("validator setup: %w", err)
	}
	if err := c.validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fieldPath(fe)+": "+fe.Translate(c.translator))
		}
		sort.Strings(msgs)
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	return nil
}

// fieldPath drops the root struct name: "Config.Locations[0].Name" ->
// "Locations[0].Name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
