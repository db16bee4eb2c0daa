// Package validate provides a process-wide validator with english messages
// Drivers use it to check option structs before a run starts
package validate

import (
	"reflect"
	"strings"
	"sync"

	perr "winscope/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Svc holds a singleton validator and translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	once sync.Once
	svc  *Svc
)

// Init initializes the singleton validator with english translations and flag tag names
func Init() *Svc {
	once.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// prefer flag tag names in messages so errors read like the CLI surface
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("flag")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		svc = &Svc{Validator: v, Translator: trans}
	})
	return svc
}

// Struct validates v and returns a platform validation error naming the first bad field
func Struct(v any) error {
	s := Init()
	err := s.Validator.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return perr.Wrap(err, perr.ErrorCodeValidation, "validation failed")
	}
	fe := verrs[0]
	return perr.WithField(
		perr.Validationf("%s", fe.Translate(s.Translator)),
		fe.Field(),
	)
}
