// Package validate checks request structs against their `validate` tags and
// reports failures per field, keyed by the JSON field path
// (e.g. "products.0.qty").
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field path to its messages. A nil or empty Errors means the
// input is valid.
type Errors map[string][]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, strings.Join(e[k], " "))
	}
	return "validation failed: " + strings.Join(parts, " ")
}

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Err returns e as an error, or nil when nothing was recorded.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// As extracts Errors from err.
func As(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var (
	once sync.Once
	v    *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	})
	return v
}

// Struct validates s and returns the collected field errors (empty when valid).
// A non-validation failure, like passing a non-struct, panics the way the
// validator itself reports programmer errors.
func Struct(s any) Errors {
	out := Errors{}
	err := engine().Struct(s)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		panic(err)
	}
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		out.Add(field, message(field, fe))
	}
	return out
}

var indexRe = regexp.MustCompile(`\[(\d+)\]`)

// fieldPath turns "Request.products[0].qty" into "products.0.qty".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return indexRe.ReplaceAllString(ns, ".$1")
}

func message(field string, fe validator.FieldError) string {
	label := strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", label)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", label, fe.Param())
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("The %s field must be at least %s characters.", label, fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("The %s field must have at least %s items.", label, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", label, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s field must be greater than or equal to %s.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", label)
	}
	return fmt.Sprintf("The %s field is invalid.", label)
}

// Unique is the message used when a uniqueness check fails.
func Unique(field string) string {
	return fmt.Sprintf("The %s has already been taken.", strings.ReplaceAll(field, "_", " "))
}

// Invalid is the message used when a referenced record does not exist.
func Invalid(field string) string {
	return fmt.Sprintf("The selected %s is invalid.", strings.ReplaceAll(field, "_", " "))
}

// InUse is the message used when a record cannot be deleted because other
// records still reference it.
func InUse(field string) string {
	return fmt.Sprintf("The %s is still in use and cannot be deleted.", strings.ReplaceAll(field, "_", " "))
}

// InUseError reports field as still referenced, for deletes the store refuses.
func InUseError(field string) error {
	errs := Errors{}
	errs.Add(field, InUse(field))
	return errs
}
