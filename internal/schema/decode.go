package schema

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidTarget is returned when the destination is not a non-nil pointer.
var ErrInvalidTarget = errors.New("schema: destination must be a non-nil pointer")

// Binder binds and validates typed records. The zero value is not usable;
// use NewBinder or the package-level functions.
type Binder struct {
	validate *validator.Validate
}

// NewBinder returns a Binder with its own constraint checker.
func NewBinder() *Binder {
	return &Binder{validate: newValidate()}
}

var std = NewBinder()

// Decode coerces raw into the value dst points to and runs its constraints.
// prefix is prepended to every issue location. It returns the set of fields
// explicitly present in raw; on failure the error is Issues.
func Decode(raw any, dst any, prefix ...string) (FieldSet, error) {
	return std.Decode(raw, dst, prefix...)
}

// Validate runs the constraint tags of the struct v.
func Validate(v any, prefix ...string) Issues {
	return std.Validate(v, prefix...)
}

// Decode is the Binder form of the package-level Decode.
func (b *Binder) Decode(raw any, dst any, prefix ...string) (FieldSet, error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, ErrInvalidTarget
	}
	target := rv.Elem()

	d := newDecoder()
	d.value(prefix, nil, raw, target)

	rootFailed := d.failed[strings.Join(prefix, ".")]
	root := deref(target.Type())
	if !rootFailed && root.Kind() == reflect.Struct && !isLeafType(root) && !isNilPointer(target) {
		d.issues = append(d.issues, check(b.validate, reflect.Indirect(target), prefixLocator(prefix), d.failed)...)
	}
	if len(d.issues) > 0 {
		return d.set, d.issues
	}
	return d.set, nil
}

// Validate is the Binder form of the package-level Validate.
func (b *Binder) Validate(v any, prefix ...string) Issues {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return check(b.validate, rv, prefixLocator(prefix), nil)
}

func isNilPointer(v reflect.Value) bool {
	return v.Kind() == reflect.Pointer && v.IsNil()
}
