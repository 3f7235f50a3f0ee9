package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Source is where a field's raw value is read from.
type Source int

const (
	// SourceJSON marks plain record fields addressed by their json name.
	SourceJSON Source = iota
	SourcePath
	SourceQuery
	SourceHeader
	SourceCookie
	SourceForm
	SourceFile
	SourceBody
)

var sourceTags = []struct {
	tag string
	src Source
}{
	{"path", SourcePath},
	{"query", SourceQuery},
	{"header", SourceHeader},
	{"cookie", SourceCookie},
	{"form", SourceForm},
	{"file", SourceFile},
	{"body", SourceBody},
}

// Loc returns the error location for values read from s.
func (s Source) Loc() string {
	switch s {
	case SourcePath:
		return LocPath
	case SourceQuery:
		return LocQuery
	case SourceHeader:
		return LocHeader
	case SourceCookie:
		return LocCookie
	default:
		return LocBody
	}
}

// Field is the declared shape of one struct field.
type Field struct {
	GoName     string
	Name       string
	Source     Source
	Embed      bool
	Required   bool
	HasDefault bool
	Default    string
	Type       reflect.Type
	Index      []int
}

type structPlan struct {
	fields []Field
	byGo   map[string]int
}

var plans sync.Map // reflect.Type -> *structPlan

// FieldsOf returns the declared fields of struct type t (or pointer to struct).
// Fields of embedded structs are flattened; outer fields shadow inner ones.
func FieldsOf(t reflect.Type) []Field {
	return planFor(t).fields
}

func planFor(t reflect.Type) *structPlan {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if p, ok := plans.Load(t); ok {
		return p.(*structPlan)
	}
	p := &structPlan{byGo: map[string]int{}}
	seen := map[string]bool{}
	collectFields(t, nil, p, seen)
	for i, f := range p.fields {
		p.byGo[f.GoName] = i
	}
	actual, _ := plans.LoadOrStore(t, p)
	return actual.(*structPlan)
}

func collectFields(t reflect.Type, index []int, p *structPlan, seen map[string]bool) {
	var embedded []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get("json") == "" {
			embedded = append(embedded, sf)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		f, ok := fieldFromTag(sf)
		if !ok || seen[f.Name] {
			continue
		}
		f.Index = append(append([]int{}, index...), i)
		seen[f.Name] = true
		p.fields = append(p.fields, f)
	}
	for _, sf := range embedded {
		collectFields(sf.Type, append(append([]int{}, index...), sf.Index...), p, seen)
	}
}

func fieldFromTag(sf reflect.StructField) (Field, bool) {
	f := Field{GoName: sf.Name, Type: sf.Type, Source: SourceJSON}

	name, opts := sf.Name, ""
	found := false
	for _, st := range sourceTags {
		if v, ok := sf.Tag.Lookup(st.tag); ok {
			name, opts, _ = strings.Cut(v, ",")
			f.Source = st.src
			found = true
			break
		}
	}
	if !found {
		if v, ok := sf.Tag.Lookup("json"); ok {
			name, opts, _ = strings.Cut(v, ",")
			if name == "-" {
				return Field{}, false
			}
		}
	}
	if name == "" {
		name = sf.Name
	}
	f.Name = name
	f.Embed = hasOpt(opts, "embed")

	f.Default, f.HasDefault = sf.Tag.Lookup("default")
	switch {
	case f.HasDefault:
	case f.Source == SourceFile:
		// uploads are declared as pointers or slices but are required unless marked optional
		f.Required = !hasOpt(opts, "optional")
	default:
		f.Required = requiredKind(sf.Type) || hasOpt(sf.Tag.Get("validate"), "required")
	}
	return f, true
}

func requiredKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return false
	}
	return true
}

func hasOpt(list, opt string) bool {
	for _, o := range strings.Split(list, ",") {
		if o == opt {
			return true
		}
	}
	return false
}

// DefaultValue decodes the field's default literal into a value of the field
// type. Fields without a default yield the zero value.
func (f Field) DefaultValue() (reflect.Value, error) {
	v := reflect.New(f.Type).Elem()
	if !f.HasDefault {
		return v, nil
	}
	d := newDecoder()
	d.value([]string{f.Name}, nil, defaultRaw(f.Default), v)
	if len(d.issues) > 0 {
		return v, fmt.Errorf("default for %s: %w", f.Name, d.issues)
	}
	return v, nil
}
