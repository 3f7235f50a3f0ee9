package schema

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
)

var (
	timeType            = reflect.TypeOf(time.Time{})
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// decoder converts untyped values into typed Go values, collecting every
// failure instead of stopping at the first one.
type decoder struct {
	issues Issues
	set    FieldSet
	failed map[string]bool
}

func newDecoder() *decoder {
	return &decoder{set: FieldSet{}, failed: map[string]bool{}}
}

func (d *decoder) fail(loc []string, typ, msg string, input any, ctx map[string]any) {
	d.issues = append(d.issues, Issue{Loc: loc, Msg: msg, Type: typ, Input: input, Ctx: ctx})
	d.failed[strings.Join(loc, ".")] = true
}

func isTextType(t reflect.Type) bool {
	return t != timeType && reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// isLeafType reports whether t is coerced as a single value rather than
// field by field.
func isLeafType(t reflect.Type) bool {
	return t == timeType || isTextType(t)
}

// value coerces raw into v. loc is the error location, path the FieldSet path.
func (d *decoder) value(loc, path []string, raw any, v reflect.Value) {
	t := v.Type()

	if t.Kind() == reflect.Pointer {
		if raw == nil {
			v.Set(reflect.Zero(t))
			return
		}
		elem := reflect.New(t.Elem())
		before := len(d.issues)
		d.value(loc, path, raw, elem.Elem())
		if len(d.issues) == before {
			v.Set(elem)
		}
		return
	}

	if t.Kind() == reflect.Interface {
		if raw != nil && reflect.TypeOf(raw).AssignableTo(t) {
			v.Set(reflect.ValueOf(raw))
		}
		return
	}

	if t == timeType {
		d.timeValue(loc, raw, v)
		return
	}

	if isTextType(t) {
		s, ok := scalarText(raw)
		if !ok {
			d.fail(loc, TypeStringType, "Input should be a valid string", raw, nil)
			return
		}
		if err := v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			d.fail(loc, TypeValueError, err.Error(), raw, nil)
		}
		return
	}

	switch t.Kind() {
	case reflect.String:
		s, ok := scalarText(raw)
		if !ok {
			d.fail(loc, TypeStringType, "Input should be a valid string", raw, nil)
			return
		}
		v.SetString(s)

	case reflect.Bool:
		b, ok := toBool(raw)
		if !ok {
			d.fail(loc, TypeBoolParsing, "Input should be a valid boolean, unable to interpret input", raw, nil)
			return
		}
		v.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := toInt(raw)
		if !ok || v.OverflowInt(n) {
			d.fail(loc, TypeIntParsing, "Input should be a valid integer, unable to parse string as an integer", raw, nil)
			return
		}
		v.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := toUint(raw)
		if !ok || v.OverflowUint(n) {
			d.fail(loc, TypeIntParsing, "Input should be a valid integer, unable to parse string as an integer", raw, nil)
			return
		}
		v.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, ok := toFloat(raw)
		if !ok || v.OverflowFloat(f) {
			d.fail(loc, TypeFloatParsing, "Input should be a valid number, unable to parse string as a number", raw, nil)
			return
		}
		v.SetFloat(f)

	case reflect.Slice:
		d.sliceValue(loc, path, raw, v)

	case reflect.Map:
		d.mapValue(loc, path, raw, v)

	case reflect.Struct:
		obj, ok := raw.(map[string]any)
		if !ok {
			d.fail(loc, TypeModelType, "Input should be a valid dictionary or object to extract fields from", raw, nil)
			return
		}
		d.structValue(loc, path, obj, v)

	default:
		d.fail(loc, TypeValueError, fmt.Sprintf("unsupported field type %s", t), raw, nil)
	}
}

func (d *decoder) structValue(loc, path []string, obj map[string]any, v reflect.Value) {
	for _, f := range planFor(v.Type()).fields {
		fv := v.FieldByIndex(f.Index)
		floc := joinLoc(loc, f.Name)
		fpath := joinLoc(path, f.Name)

		raw, ok := obj[f.Name]
		if !ok {
			d.absent(f, floc, fv)
			continue
		}
		d.set.add(fpath)
		d.value(floc, fpath, raw, fv)
	}
}

// absent handles a field missing from the input: default, missing issue, or zero.
func (d *decoder) absent(f Field, loc []string, fv reflect.Value) {
	switch {
	case f.HasDefault:
		// defaults never count as set
		set := d.set
		d.set = FieldSet{}
		d.value(loc, nil, defaultRaw(f.Default), fv)
		d.set = set
	case f.Required:
		d.fail(loc, TypeMissing, "Field required", nil, nil)
	}
}

func (d *decoder) sliceValue(loc, path []string, raw any, v reflect.Value) {
	t := v.Type()
	if t.Elem().Kind() == reflect.Uint8 {
		switch s := raw.(type) {
		case string:
			v.SetBytes([]byte(s))
			return
		case []byte:
			v.SetBytes(s)
			return
		}
	}

	var items []any
	switch r := raw.(type) {
	case []any:
		items = r
	case []string:
		items = make([]any, len(r))
		for i, s := range r {
			items[i] = s
		}
	case nil:
		v.Set(reflect.Zero(t))
		return
	default:
		d.fail(loc, TypeListType, "Input should be a valid list", raw, nil)
		return
	}

	out := reflect.MakeSlice(t, len(items), len(items))
	for i, item := range items {
		idx := strconv.Itoa(i)
		ipath := joinLoc(path, idx)
		d.set.add(ipath)
		d.value(joinLoc(loc, idx), ipath, item, out.Index(i))
	}
	v.Set(out)
}

func (d *decoder) mapValue(loc, path []string, raw any, v reflect.Value) {
	t := v.Type()
	if raw == nil {
		v.Set(reflect.Zero(t))
		return
	}
	obj, ok := raw.(map[string]any)
	if !ok || t.Key().Kind() != reflect.String {
		d.fail(loc, TypeDictType, "Input should be a valid dictionary", raw, nil)
		return
	}
	out := reflect.MakeMapWithSize(t, len(obj))
	for k, item := range obj {
		ev := reflect.New(t.Elem()).Elem()
		kpath := joinLoc(path, k)
		d.set.add(kpath)
		d.value(joinLoc(loc, k), kpath, item, ev)
		out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), ev)
	}
	v.Set(out)
}

func (d *decoder) timeValue(loc []string, raw any, v reflect.Value) {
	if s, ok := raw.(string); ok {
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				v.Set(reflect.ValueOf(ts))
				return
			}
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			v.Set(reflect.ValueOf(time.Unix(n, 0).UTC()))
			return
		}
	} else if n, ok := toInt(raw); ok {
		v.Set(reflect.ValueOf(time.Unix(n, 0).UTC()))
		return
	}
	d.fail(loc, TypeDatetimeParsing, "Input should be a valid datetime", raw, nil)
}

// defaultRaw turns a default literal into a raw value. JSON arrays and objects
// are decoded, everything else stays text and goes through normal coercion.
func defaultRaw(lit string) any {
	if lit == "null" {
		return nil
	}
	if strings.HasPrefix(lit, "[") || strings.HasPrefix(lit, "{") {
		var out any
		if err := gojson.Unmarshal([]byte(lit), &out); err == nil {
			return out
		}
	}
	return lit
}

// numberText returns the decimal text of numeric raw values.
func numberText(raw any) (string, bool) {
	switch n := raw.(type) {
	case gojson.Number:
		return n.String(), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(n), true
	}
	return "", false
}

func scalarText(raw any) (string, bool) {
	switch s := raw.(type) {
	case string:
		return s, true
	case []string:
		if len(s) == 0 {
			return "", false
		}
		return s[len(s)-1], true
	case bool:
		return strconv.FormatBool(s), true
	}
	return numberText(raw)
}

func toInt(raw any) (int64, bool) {
	s, ok := integerText(raw)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return n, true
	}
	if !isFloatText(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < -(1<<63) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

func toUint(raw any) (uint64, bool) {
	s, ok := integerText(raw)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err == nil {
		return n, true
	}
	if !isFloatText(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < 0 || f >= 1<<64 {
		return 0, false
	}
	return uint64(f), true
}

func integerText(raw any) (string, bool) {
	if _, isBool := raw.(bool); isBool {
		return "", false
	}
	s, ok := scalarText(raw)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// isFloatText reports whether s is written with a fraction or exponent.
// Plain digit strings that overflow never go through float64.
func isFloatText(s string) bool {
	return strings.ContainsAny(s, ".eE")
}

func toFloat(raw any) (float64, bool) {
	if _, isBool := raw.(bool); isBool {
		return 0, false
	}
	s, ok := scalarText(raw)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func toBool(raw any) (bool, bool) {
	if b, ok := raw.(bool); ok {
		return b, true
	}
	s, ok := scalarText(raw)
	if !ok {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on", "y", "t":
		return true, true
	case "false", "0", "no", "off", "n", "f":
		return false, true
	}
	return false, false
}
