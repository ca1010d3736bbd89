package util

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var ErrStructNotInitialized = errors.New("struct is not fully initialized")

// IsStructInitialized returns an error listing every exported nil pointer/interface/slice/map field of s.
// Fields tagged with `wire:"-"` are skipped.
func IsStructInitialized(s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return errors.Wrap(ErrStructNotInitialized, "nil pointer")
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct, got %s", v.Kind())
	}

	t := v.Type()
	var missing []string
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("wire") == "-" {
			continue
		}

		fv := v.Field(i)
		switch fv.Kind() { //nolint:exhaustive
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if fv.IsNil() {
				missing = append(missing, field.Name)
			}
		}
	}

	if len(missing) > 0 {
		return errors.Wrapf(ErrStructNotInitialized, "missing fields %v", missing)
	}

	return nil
}
