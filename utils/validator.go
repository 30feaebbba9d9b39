package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
)

// Tag-driven struct validation. Supported rules:
// - required (non-empty string, or non-nil pointer)
// - emailfmt (basic RFC-ish shape, 191 chars max to fit the index)
// - titleok (5-100 chars)
// - descok (20-500 chars)
// - pwdmin (min length 6)
// - eqfield=OtherField (field equals another field)

var reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateStruct inspects struct tags `validate:"..."` and returns the first error encountered.
func ValidateStruct(s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errors.New("ValidateStruct expects a struct or pointer to struct")
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}
		parts := strings.Split(tag, ",")
		fv := v.Field(i)
		var sval string
		if fv.IsValid() && fv.Kind() == reflect.String {
			sval = fv.String()
		}
		for _, p := range parts {
			p = strings.TrimSpace(p)
			switch {
			case p == "required":
				if fv.Kind() == reflect.Ptr {
					if fv.IsNil() {
						return errors.New(field.Name + " is required")
					}
				} else if sval == "" {
					return errors.New(field.Name + " is required")
				}
			case p == "emailfmt":
				if sval != "" && (len(sval) > 191 || !reEmail.MatchString(sval)) {
					return errors.New(field.Name + " must be a valid email address")
				}
			case p == "titleok":
				if n := len(strings.TrimSpace(sval)); n < 5 || n > 100 {
					return errors.New(field.Name + " must be between 5 and 100 characters")
				}
			case p == "descok":
				if n := len(strings.TrimSpace(sval)); n < 20 || n > 500 {
					return errors.New(field.Name + " must be between 20 and 500 characters")
				}
			case p == "pwdmin":
				if len(sval) < 6 {
					return errors.New(field.Name + " must be at least 6 characters")
				}
			case strings.HasPrefix(p, "eqfield="):
				other := strings.TrimPrefix(p, "eqfield=")
				of := v.FieldByName(other)
				if of.IsValid() && of.Kind() == reflect.String {
					if sval != of.String() {
						return errors.New(field.Name + " must equal " + other)
					}
				}
			}
		}
	}
	return nil
}
