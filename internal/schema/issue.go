package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Location names where a failing value came from. Form fields and uploaded
// files are reported under LocBody.
const (
	LocPath   = "path"
	LocQuery  = "query"
	LocHeader = "header"
	LocCookie = "cookie"
	LocBody   = "body"
)

// Issue types.
const (
	TypeMissing          = "missing"
	TypeIntParsing       = "int_parsing"
	TypeFloatParsing     = "float_parsing"
	TypeBoolParsing      = "bool_parsing"
	TypeStringType       = "string_type"
	TypeDatetimeParsing  = "datetime_parsing"
	TypeListType         = "list_type"
	TypeDictType         = "dict_type"
	TypeModelType        = "model_type"
	TypeJSONInvalid      = "json_invalid"
	TypeStringTooShort   = "string_too_short"
	TypeStringTooLong    = "string_too_long"
	TypeTooShort         = "too_short"
	TypeTooLong          = "too_long"
	TypeGreaterThan      = "greater_than"
	TypeGreaterThanEqual = "greater_than_equal"
	TypeLessThan         = "less_than"
	TypeLessThanEqual    = "less_than_equal"
	TypeEnum             = "enum"
	TypePatternMismatch  = "string_pattern_mismatch"
	TypeURLParsing       = "url_parsing"
	TypeValueError       = "value_error"
)

// Issue describes one field that failed conversion or a constraint.
type Issue struct {
	// Loc starts with the location (path, query, header, cookie, body) followed
	// by the external field path. List indices are rendered in decimal.
	Loc   []string       `json:"loc"`
	Msg   string         `json:"msg"`
	Type  string         `json:"type"`
	Input any            `json:"input,omitempty"`
	Ctx   map[string]any `json:"ctx,omitempty"`
}

// Path joins Loc with dots, e.g. "body.item.price".
func (i Issue) Path() string {
	return strings.Join(i.Loc, ".")
}

// Issues is the full list of failures for one request. It implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Type, iss[i].Path())
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Has reports whether an issue with the given type exists at the dotted path.
func (iss Issues) Has(path, typ string) bool {
	for _, it := range iss {
		if it.Path() == path && it.Type == typ {
			return true
		}
	}
	return false
}

// AsIssues extracts Issues from an error using errors.As.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func joinLoc(loc []string, more ...string) []string {
	out := make([]string, 0, len(loc)+len(more))
	out = append(out, loc...)
	return append(out, more...)
}
