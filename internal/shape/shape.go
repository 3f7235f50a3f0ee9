// Package shape turns handler results into response bodies that follow a
// declared output model: values are coerced to the model's types and fields
// are filtered by the active options.
package shape

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"

	"tutorialapi/internal/schema"
)

// ErrIncludeAndExclude is returned when both an inclusion and an exclusion set
// are configured for the same response.
var ErrIncludeAndExclude = errors.New("shape: include and exclude are mutually exclusive")

// Options selects which fields of the output model end up in the body.
type Options struct {
	// ExcludeUnset drops fields the result never provided.
	ExcludeUnset bool
	// ExcludeDefaults drops fields equal to their declared default.
	ExcludeDefaults bool
	// ExcludeNone drops null values.
	ExcludeNone bool
	// Include keeps only these top-level fields.
	Include []string
	// Exclude removes these top-level fields.
	Exclude []string
}

// Validate reports configuration errors.
func (o Options) Validate() error {
	if len(o.Include) > 0 && len(o.Exclude) > 0 {
		return ErrIncludeAndExclude
	}
	return nil
}

// ResponseError means the handler result does not fit the output model.
// It is a server-side failure, not a client validation error.
type ResponseError struct {
	Model  string
	Issues schema.Issues
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("response does not match %s: %s", e.Model, e.Issues.Error())
}

// Schema is a declared output model.
type Schema interface {
	// Name identifies the schema in errors and logs.
	Name() string
	coerce(tree any) (reflect.Value, schema.FieldSet, error)
}

type model struct {
	t reflect.Type
}

// Model declares the struct type T as an output model. It panics when T is
// not a struct with fields of its own, so a bad model fails at route setup.
func Model[T any]() Schema {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct || isLeaf(t) {
		panic(fmt.Sprintf("shape: model %s is not a struct", t))
	}
	return model{t: t}
}

func (m model) Name() string { return m.t.Name() }

func (m model) coerce(tree any) (reflect.Value, schema.FieldSet, error) {
	ptr := reflect.New(m.t)
	set, err := schema.Decode(tree, ptr.Interface(), "response")
	if err != nil {
		return reflect.Value{}, nil, err
	}
	return ptr.Elem(), set, nil
}

type union struct {
	members []Schema
}

// OneOf declares a union of models. The first member the result fits wins.
func OneOf(members ...Schema) Schema {
	return union{members: members}
}

func (u union) Name() string {
	names := make([]string, len(u.members))
	for i, m := range u.members {
		names[i] = m.Name()
	}
	return strings.Join(names, " | ")
}

func (u union) coerce(tree any) (reflect.Value, schema.FieldSet, error) {
	var all schema.Issues
	for _, m := range u.members {
		v, set, err := m.coerce(tree)
		if err == nil {
			return v, set, nil
		}
		iss, ok := schema.AsIssues(err)
		if !ok {
			return reflect.Value{}, nil, err
		}
		all = append(all, iss...)
	}
	return reflect.Value{}, nil, all
}

// Render coerces result into s and returns the filtered body.
func Render(result any, s Schema, opts Options) (map[string]any, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	tree, err := Encode(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	v, set, err := s.coerce(tree)
	if err != nil {
		if iss, ok := schema.AsIssues(err); ok {
			return nil, &ResponseError{Model: s.Name(), Issues: iss}
		}
		return nil, err
	}

	r := renderer{opts: opts, set: set}
	return r.object(v, "", true), nil
}

// Encode converts v into its JSON-compatible form: maps, slices, strings,
// numbers, booleans and nil.
func Encode(v any) (any, error) {
	b, err := gojson.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := gojson.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

var (
	timeType          = reflect.TypeOf(time.Time{})
	jsonMarshalerType = reflect.TypeOf((*gojson.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

type renderer struct {
	opts Options
	set  schema.FieldSet
}

func (r renderer) object(v reflect.Value, path string, top bool) map[string]any {
	out := map[string]any{}
	for _, f := range schema.FieldsOf(v.Type()) {
		p := f.Name
		if path != "" {
			p = path + "." + f.Name
		}
		if top && !r.selected(f.Name) {
			continue
		}
		if r.opts.ExcludeUnset && !r.set.Has(p) {
			continue
		}
		fv := v.FieldByIndex(f.Index)
		if r.opts.ExcludeDefaults && isDefault(f, fv) {
			continue
		}
		val := r.value(fv, p)
		if r.opts.ExcludeNone && val == nil {
			continue
		}
		out[f.Name] = val
	}
	return out
}

func (r renderer) selected(name string) bool {
	if len(r.opts.Include) > 0 {
		return contains(r.opts.Include, name)
	}
	return !contains(r.opts.Exclude, name)
}

func (r renderer) value(v reflect.Value, path string) any {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return r.value(v.Elem(), path)
	case reflect.Struct:
		if isLeaf(v.Type()) {
			break
		}
		return r.object(v, path, false)
	case reflect.Slice:
		if v.IsNil() && v.Type().Elem().Kind() != reflect.Uint8 {
			return []any{}
		}
		if deref(v.Type().Elem()).Kind() == reflect.Struct && !isLeaf(deref(v.Type().Elem())) {
			out := make([]any, v.Len())
			for i := range out {
				out[i] = r.value(v.Index(i), path+"."+strconv.Itoa(i))
			}
			return out
		}
	}
	enc, err := Encode(v.Interface())
	if err != nil {
		return nil
	}
	if r.opts.ExcludeNone {
		return dropNulls(enc)
	}
	return enc
}

func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			if item == nil {
				delete(t, k)
				continue
			}
			t[k] = dropNulls(item)
		}
	case []any:
		for i, item := range t {
			t[i] = dropNulls(item)
		}
	}
	return v
}

func isLeaf(t reflect.Type) bool {
	return t == timeType ||
		t.Implements(jsonMarshalerType) || reflect.PointerTo(t).Implements(jsonMarshalerType) ||
		t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)
}

func isDefault(f schema.Field, v reflect.Value) bool {
	if f.Required {
		return false
	}
	def, err := f.DefaultValue()
	if err != nil {
		return false
	}
	return sameValue(v, def)
}

// sameValue is reflect.DeepEqual except that nil and empty slices or maps match.
func sameValue(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Slice, reflect.Map:
		if a.Len() == 0 && b.Len() == 0 {
			return true
		}
	}
	return reflect.DeepEqual(a.Interface(), b.Interface())
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
