package schema

import (
	"errors"
	"math"
	"net/netip"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	ID       int        `json:"id"`
	Name     string     `json:"name" default:"John Doe"`
	SignupTS *time.Time `json:"signup_ts"`
	Friends  []int      `json:"friends" default:"[]"`
}

type image struct {
	URL  string `json:"url" validate:"http_url"`
	Name string `json:"name"`
}

type item struct {
	Name        string   `json:"name"`
	Description *string  `json:"description" validate:"omitempty,max=5"`
	Price       float64  `json:"price" validate:"gt=0"`
	Tax         *float64 `json:"tax"`
	Tags        []string `json:"tags" validate:"unique"`
	Image       *image   `json:"image"`
}

type BaseVehicle struct {
	Description string `json:"description"`
	Type        string `json:"type"`
}

type car struct {
	BaseVehicle
	Type string `json:"type" default:"car"`
}

type color string

func (c *color) UnmarshalText(b []byte) error {
	switch string(b) {
	case "red", "green":
		*c = color(b)
		return nil
	}
	return errors.New("unknown color")
}

type host struct {
	Addr netip.Addr `json:"addr"`
}

type paint struct {
	Color color `json:"color"`
}

func TestDecode_CoercesLooseInput(t *testing.T) {
	raw := map[string]any{
		"id":        "123",
		"signup_ts": "2017-06-01 12:22",
		"friends":   []any{1, "2", 3.0},
	}

	var p profile
	set, err := Decode(raw, &p)
	require.NoError(t, err)

	assert.Equal(t, 123, p.ID)
	assert.Equal(t, "John Doe", p.Name)
	require.NotNil(t, p.SignupTS)
	assert.Equal(t, time.Date(2017, 6, 1, 12, 22, 0, 0, time.UTC), *p.SignupTS)
	assert.Equal(t, []int{1, 2, 3}, p.Friends)

	assert.True(t, set.Has("id"))
	assert.True(t, set.Has("friends"))
	assert.True(t, set.Has("friends.1"))
	assert.False(t, set.Has("name"))
}

func TestDecode_ReportsEveryField(t *testing.T) {
	raw := map[string]any{
		"name":        "Foo",
		"description": "too long",
	}

	var it item
	_, err := Decode(raw, &it, LocBody)
	iss, ok := AsIssues(err)
	require.True(t, ok)

	assert.Len(t, iss, 2)
	assert.True(t, iss.Has("body.price", TypeMissing))
	assert.True(t, iss.Has("body.description", TypeStringTooLong))
}

func TestDecode_TypeErrors(t *testing.T) {
	raw := map[string]any{
		"name":  5,
		"price": "abc",
		"tags":  []any{"a", map[string]any{}},
		"tax":   true,
	}

	var it item
	_, err := Decode(raw, &it, LocBody)
	iss, ok := AsIssues(err)
	require.True(t, ok)

	assert.Len(t, iss, 3)
	assert.True(t, iss.Has("body.price", TypeFloatParsing))
	assert.True(t, iss.Has("body.tags.1", TypeStringType))
	assert.True(t, iss.Has("body.tax", TypeFloatParsing))
	assert.Equal(t, "5", it.Name)
}

func TestDecode_NestedConstraints(t *testing.T) {
	raw := map[string]any{
		"name":  "Foo",
		"price": 0,
		"tags":  []any{"a", "a"},
		"image": map[string]any{"url": "not a url", "name": "img"},
	}

	var it item
	_, err := Decode(raw, &it, LocBody)
	iss, ok := AsIssues(err)
	require.True(t, ok)

	assert.Len(t, iss, 3)
	assert.True(t, iss.Has("body.price", TypeGreaterThan))
	assert.True(t, iss.Has("body.tags", TypeValueError))
	assert.True(t, iss.Has("body.image.url", TypeURLParsing))
}

func TestDecode_ValidNested(t *testing.T) {
	raw := map[string]any{
		"name":  "Foo",
		"price": "42.5",
		"tax":   nil,
		"image": map[string]any{"url": "http://example.com/baz.jpg", "name": "The Foo live"},
	}

	var it item
	set, err := Decode(raw, &it)
	require.NoError(t, err)

	assert.Equal(t, 42.5, it.Price)
	assert.Nil(t, it.Tax)
	require.NotNil(t, it.Image)
	assert.Equal(t, "The Foo live", it.Image.Name)
	assert.True(t, set.Has("tax"))
	assert.True(t, set.Has("image.url"))
	assert.False(t, set.Has("tags"))
}

func TestDecode_EmbeddedShadowing(t *testing.T) {
	var c car
	set, err := Decode(map[string]any{"description": "low rider"}, &c)
	require.NoError(t, err)

	assert.Equal(t, "low rider", c.Description)
	assert.Equal(t, "car", c.Type)
	assert.Empty(t, c.BaseVehicle.Type)
	assert.Equal(t, []string{"description"}, set.Keys())
}

func TestDecode_TextUnmarshaler(t *testing.T) {
	var p paint
	_, err := Decode(map[string]any{"color": "red"}, &p)
	require.NoError(t, err)
	assert.Equal(t, color("red"), p.Color)

	_, err = Decode(map[string]any{"color": "blue"}, &p, LocQuery)
	iss, ok := AsIssues(err)
	require.True(t, ok)
	assert.True(t, iss.Has("query.color", TypeValueError))
	assert.Equal(t, "unknown color", iss[0].Msg)
}

func TestDecode_TextUnmarshalerStruct(t *testing.T) {
	var h host
	_, err := Decode(map[string]any{"addr": "127.0.0.1"}, &h)
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("127.0.0.1"), h.Addr)

	_, err = Decode(map[string]any{"addr": "nope"}, &h, LocQuery)
	iss, ok := AsIssues(err)
	require.True(t, ok)
	assert.True(t, iss.Has("query.addr", TypeValueError))

	_, err = Decode(map[string]any{"addr": map[string]any{}}, &h, LocQuery)
	iss, ok = AsIssues(err)
	require.True(t, ok)
	assert.True(t, iss.Has("query.addr", TypeStringType))
}

func TestDecode_Map(t *testing.T) {
	var prices map[string]float64
	_, err := Decode(map[string]any{"a": "1.5", "b": "x"}, &prices, LocBody)
	iss, ok := AsIssues(err)
	require.True(t, ok)

	assert.Len(t, iss, 1)
	assert.True(t, iss.Has("body.b", TypeFloatParsing))
	assert.Equal(t, 1.5, prices["a"])
}

func TestDecode_RootNotObject(t *testing.T) {
	var it item
	_, err := Decode([]any{1}, &it, LocBody)
	iss, ok := AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, TypeModelType, iss[0].Type)
	assert.Equal(t, []string{LocBody}, iss[0].Loc)
}

func TestDecode_InvalidTarget(t *testing.T) {
	var it item
	_, err := Decode(map[string]any{}, it)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestCoercion(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		dst  any
		want any
		ok   bool
	}{
		{"int from string", "42", new(int), 42, true},
		{"int from integral float", 3.0, new(int), 3, true},
		{"int from fraction", 3.5, new(int), 0, false},
		{"int overflow", "300", new(int8), int8(0), false},
		{"uint negative", "-1", new(uint), uint(0), false},
		{"int64 max", "9223372036854775807", new(int64), int64(math.MaxInt64), true},
		{"int64 one past max", "9223372036854775808", new(int64), int64(0), false},
		{"int64 far past max", "9223372036854776000", new(int64), int64(0), false},
		{"int64 fraction at max", "9223372036854775807.5", new(int64), int64(0), false},
		{"int from exponent", "1e3", new(int), 1000, true},
		{"int from huge float", 1e20, new(int64), int64(0), false},
		{"uint64 max", "18446744073709551615", new(uint64), uint64(math.MaxUint64), true},
		{"uint64 overflow", "18446744073709551616", new(uint64), uint64(0), false},
		{"float from string", "9.99", new(float64), 9.99, true},
		{"bool from yes", "yes", new(bool), true, true},
		{"bool from 0", 0, new(bool), false, true},
		{"bool garbage", "maybe", new(bool), false, false},
		{"string from bool", true, new(string), "true", true},
		{"string from object", map[string]any{}, new(string), "", false},
		{"bytes from string", "abc", new([]byte), []byte("abc"), true},
		{"time unix", 0, new(time.Time), time.Unix(0, 0).UTC(), true},
		{"time from text", "2017-06-01 12:22", new(time.Time), time.Date(2017, 6, 1, 12, 22, 0, 0, time.UTC), true},
		{"addr from text", "127.0.0.1", new(netip.Addr), netip.MustParseAddr("127.0.0.1"), true},
		{"time garbage", "yesterday", new(time.Time), time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw, tt.dst)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
			assert.Equal(t, tt.want, reflect.ValueOf(tt.dst).Elem().Interface())
		})
	}
}

func TestFieldsOf(t *testing.T) {
	fields := FieldsOf(reflect.TypeOf(car{}))
	require.Len(t, fields, 2)

	assert.Equal(t, "type", fields[0].Name)
	assert.True(t, fields[0].HasDefault)
	assert.False(t, fields[0].Required)
	assert.Equal(t, "description", fields[1].Name)
	assert.True(t, fields[1].Required)

	def, err := fields[0].DefaultValue()
	require.NoError(t, err)
	assert.Equal(t, "car", def.Interface())
}

func TestIssuesError(t *testing.T) {
	iss := Issues{
		{Loc: []string{"query", "a"}, Type: TypeMissing},
		{Loc: []string{"query", "b"}, Type: TypeMissing},
		{Loc: []string{"query", "c"}, Type: TypeMissing},
		{Loc: []string{"query", "d"}, Type: TypeMissing},
	}
	msg := iss.Error()
	assert.True(t, strings.HasPrefix(msg, "missing at query.a; missing at query.b"))
	assert.Contains(t, msg, "(total 4)")
}
