package schema

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var patterns sync.Map // string -> *regexp.Regexp

// newValidate builds the constraint checker. Besides the built-in tags it
// registers "pattern=<regexp>"; the expression cannot contain ',' or '|'
// since validator uses them as separators.
func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		f, ok := fieldFromTag(sf)
		if !ok {
			return ""
		}
		return f.Name
	})
	_ = v.RegisterValidation("pattern", matchPattern)
	return v
}

func matchPattern(fl validator.FieldLevel) bool {
	expr := fl.Param()
	re, ok := patterns.Load(expr)
	if !ok {
		compiled, err := regexp.Compile(expr)
		if err != nil {
			return false
		}
		re, _ = patterns.LoadOrStore(expr, compiled)
	}
	return re.(*regexp.Regexp).MatchString(fl.Field().String())
}

// locator maps the top-level field of a validated value to its error location.
type locator func(f Field) []string

// prefixLocator is used for plain records: every path hangs below prefix.
func prefixLocator(prefix []string) locator {
	return func(f Field) []string {
		return joinLoc(prefix, f.Name)
	}
}

// check runs constraint tags on v and converts violations to issues. Paths
// that already failed coercion are skipped.
func check(vd *validator.Validate, v reflect.Value, loc locator, failed map[string]bool) Issues {
	err := vd.Struct(v.Interface())
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return Issues{{Loc: loc(Field{}), Msg: err.Error(), Type: TypeValueError}}
	}

	var out Issues
	for _, fe := range fes {
		top, rest := externalPath(v.Type(), fe.StructNamespace())
		if top == nil {
			continue
		}
		issueLoc := append(loc(*top), rest...)
		if failedUnder(failed, issueLoc) {
			continue
		}
		typ, msg, ctx := describe(fe)
		out = append(out, Issue{Loc: issueLoc, Msg: msg, Type: typ, Input: fe.Value(), Ctx: ctx})
	}
	return out
}

func failedUnder(failed map[string]bool, loc []string) bool {
	for i := 1; i <= len(loc); i++ {
		if failed[strings.Join(loc[:i], ".")] {
			return true
		}
	}
	return false
}

type nsSegment struct {
	name string
	keys []string
}

// parseNamespace splits "Req.Item.Tags[1]" into segments, dropping the root type.
func parseNamespace(ns string) []nsSegment {
	parts := strings.Split(ns, ".")
	if len(parts) > 0 {
		parts = parts[1:]
	}
	out := make([]nsSegment, 0, len(parts))
	for _, p := range parts {
		seg := nsSegment{}
		name, rest, _ := strings.Cut(p, "[")
		seg.name = name
		for rest != "" {
			key, tail, _ := strings.Cut(rest, "]")
			seg.keys = append(seg.keys, key)
			rest = strings.TrimPrefix(tail, "[")
		}
		out = append(out, seg)
	}
	return out
}

// externalPath walks root along a validator struct namespace and returns the
// top-level field plus the external names below it. Flattened embedded
// structs do not appear in the result.
func externalPath(root reflect.Type, structNS string) (*Field, []string) {
	var top *Field
	var rest []string
	t := root
	for _, seg := range parseNamespace(structNS) {
		t = deref(t)
		if t.Kind() != reflect.Struct {
			rest = append(rest, seg.name)
			continue
		}
		sf, ok := t.FieldByName(seg.name)
		if !ok {
			rest = append(rest, seg.name)
			continue
		}
		if sf.Anonymous && deref(sf.Type).Kind() == reflect.Struct && sf.Tag.Get("json") == "" {
			t = sf.Type
			continue
		}
		if top == nil {
			p := planFor(root)
			i, ok := p.byGo[sf.Name]
			if !ok {
				return nil, nil
			}
			f := p.fields[i]
			top = &f
		} else {
			f, _ := fieldFromTag(sf)
			rest = append(rest, f.Name)
		}
		rest = append(rest, seg.keys...)
		t = sf.Type
		for range seg.keys {
			t = deref(t).Elem()
		}
	}
	return top, rest
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func describe(fe validator.FieldError) (string, string, map[string]any) {
	p := fe.Param()
	kind := fe.Kind()
	isString := kind == reflect.String
	isList := kind == reflect.Slice || kind == reflect.Array || kind == reflect.Map

	switch fe.Tag() {
	case "required":
		return TypeMissing, "Field required", nil
	case "min":
		switch {
		case isString:
			return TypeStringTooShort, fmt.Sprintf("String should have at least %s characters", p), map[string]any{"min_length": p}
		case isList:
			return TypeTooShort, fmt.Sprintf("List should have at least %s items", p), map[string]any{"min_length": p}
		}
		return TypeGreaterThanEqual, "Input should be greater than or equal to " + p, map[string]any{"ge": p}
	case "max":
		switch {
		case isString:
			return TypeStringTooLong, fmt.Sprintf("String should have at most %s characters", p), map[string]any{"max_length": p}
		case isList:
			return TypeTooLong, fmt.Sprintf("List should have at most %s items", p), map[string]any{"max_length": p}
		}
		return TypeLessThanEqual, "Input should be less than or equal to " + p, map[string]any{"le": p}
	case "len":
		if isString {
			return TypeStringTooLong, fmt.Sprintf("String should have exactly %s characters", p), map[string]any{"length": p}
		}
		return TypeTooLong, fmt.Sprintf("List should have exactly %s items", p), map[string]any{"length": p}
	case "gt":
		return TypeGreaterThan, "Input should be greater than " + p, map[string]any{"gt": p}
	case "gte":
		return TypeGreaterThanEqual, "Input should be greater than or equal to " + p, map[string]any{"ge": p}
	case "lt":
		return TypeLessThan, "Input should be less than " + p, map[string]any{"lt": p}
	case "lte":
		return TypeLessThanEqual, "Input should be less than or equal to " + p, map[string]any{"le": p}
	case "oneof":
		opts := strings.Fields(p)
		quoted := make([]string, len(opts))
		for i, o := range opts {
			quoted[i] = "'" + o + "'"
		}
		return TypeEnum, "Input should be " + joinOr(quoted), map[string]any{"expected": joinOr(quoted)}
	case "pattern":
		return TypePatternMismatch, fmt.Sprintf("String should match pattern '%s'", p), map[string]any{"pattern": p}
	case "email":
		return TypeValueError, "value is not a valid email address", nil
	case "url", "http_url", "uri":
		return TypeURLParsing, "Input should be a valid URL", nil
	case "unique":
		return TypeValueError, "List items should be unique", nil
	}
	if p != "" {
		return TypeValueError, fmt.Sprintf("Value failed the '%s=%s' constraint", fe.Tag(), p), nil
	}
	return TypeValueError, fmt.Sprintf("Value failed the '%s' constraint", fe.Tag()), nil
}

func joinOr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
}
