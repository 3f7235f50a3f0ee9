package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

var (
	uploadType      = reflect.TypeOf((*UploadFile)(nil))
	uploadSliceType = reflect.TypeOf([]*UploadFile(nil))
	bytesType       = reflect.TypeOf([]byte(nil))
	bytesSliceType  = reflect.TypeOf([][]byte(nil))
)

// Bound is the result of a successful Bind. It owns the uploaded files opened
// while binding; Release must be called once the request is done with them.
type Bound struct {
	Set   FieldSet
	files []*UploadFile
}

// Release closes every upload opened during binding.
func (b *Bound) Release() error {
	if b == nil {
		return nil
	}
	var errs []error
	for _, f := range b.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.files = nil
	return errors.Join(errs...)
}

// Bind fills the struct dst points to from the request. See Binder.Bind.
func Bind(c *fiber.Ctx, dst any) (*Bound, error) {
	return std.Bind(c, dst)
}

// Bind reads every declared parameter of dst from c, coerces it and checks
// its constraints. All failures are returned together as Issues. The
// returned Bound is non-nil even on failure so opened uploads can be
// released.
func (b *Binder) Bind(c *fiber.Ctx, dst any) (*Bound, error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return &Bound{}, ErrInvalidTarget
	}
	target := rv.Elem()
	p := planFor(target.Type())

	r := &requestReader{c: c, d: newDecoder(), bound: &Bound{}}
	r.readBody(p)

	for _, f := range p.fields {
		fv := target.FieldByIndex(f.Index)
		switch f.Source {
		case SourceBody:
			r.bodyField(p, f, fv)
		case SourceFile:
			r.fileField(f, fv)
		case SourceJSON:
			// undeclared source: not bound
		default:
			r.paramField(f, fv)
		}
	}

	r.bound.Set = r.d.set
	iss := r.d.issues
	iss = append(iss, check(b.validate, target, requestLocator(p), r.d.failed)...)
	if len(iss) > 0 {
		return r.bound, iss
	}
	return r.bound, nil
}

// requestLocator places top-level request fields by their source. A single
// non-embedded body field stands for the whole body.
func requestLocator(p *structPlan) locator {
	whole := wholeBodyField(p)
	return func(f Field) []string {
		if f.Source == SourceBody && whole != nil && f.GoName == whole.GoName {
			return []string{LocBody}
		}
		return []string{f.Source.Loc(), f.Name}
	}
}

func wholeBodyField(p *structPlan) *Field {
	var body []Field
	for _, f := range p.fields {
		if f.Source == SourceBody {
			body = append(body, f)
		}
	}
	if len(body) == 1 && !body[0].Embed {
		return &body[0]
	}
	return nil
}

type requestReader struct {
	c     *fiber.Ctx
	d     *decoder
	bound *Bound

	body       any
	bodyFound  bool
	bodyBroken bool
	form       *multipart.Form
}

func (r *requestReader) contentType() string {
	ct := string(r.c.Request().Header.ContentType())
	ct, _, _ = strings.Cut(ct, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

func (r *requestReader) isMultipart() bool {
	return r.contentType() == fiber.MIMEMultipartForm
}

func (r *requestReader) multipartForm() *multipart.Form {
	if r.form == nil && r.isMultipart() {
		if form, err := r.c.MultipartForm(); err == nil {
			r.form = form
		}
	}
	return r.form
}

// readBody decodes the JSON body once when the plan declares body fields.
func (r *requestReader) readBody(p *structPlan) {
	needed := false
	for _, f := range p.fields {
		if f.Source == SourceBody {
			needed = true
			break
		}
	}
	if !needed {
		return
	}
	switch r.contentType() {
	case fiber.MIMEApplicationForm, fiber.MIMEMultipartForm:
		return
	}
	raw := r.c.Body()
	if len(bytes.TrimSpace(raw)) == 0 {
		return
	}
	dec := gojson.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		r.d.fail([]string{LocBody}, TypeJSONInvalid, "JSON decode error", nil, map[string]any{"error": err.Error()})
		r.bodyBroken = true
		return
	}
	r.body = doc
	r.bodyFound = true
}

func (r *requestReader) bodyField(p *structPlan, f Field, fv reflect.Value) {
	if r.bodyBroken {
		return
	}
	if whole := wholeBodyField(p); whole != nil {
		loc := []string{LocBody}
		if !r.bodyFound {
			r.d.absent(f, loc, fv)
			return
		}
		r.d.set.add([]string{f.Name})
		r.d.value(loc, []string{f.Name}, r.body, fv)
		return
	}

	loc := []string{LocBody, f.Name}
	if !r.bodyFound {
		r.d.absent(f, loc, fv)
		return
	}
	obj, ok := r.body.(map[string]any)
	if !ok {
		if !r.d.failed[LocBody] {
			r.d.fail([]string{LocBody}, TypeModelType, "Input should be a valid dictionary or object to extract fields from", r.body, nil)
		}
		return
	}
	raw, ok := obj[f.Name]
	if !ok {
		r.d.absent(f, loc, fv)
		return
	}
	r.d.set.add([]string{f.Name})
	r.d.value(loc, []string{f.Name}, raw, fv)
}

// paramField handles path, query, header, cookie and form values.
func (r *requestReader) paramField(f Field, fv reflect.Value) {
	loc := []string{f.Source.Loc(), f.Name}
	values := r.lookup(f)
	if len(values) == 0 {
		r.d.absent(f, loc, fv)
		return
	}
	r.d.set.add([]string{f.Name})

	var raw any = values[len(values)-1]
	if deref(f.Type).Kind() == reflect.Slice && f.Type != bytesType {
		raw = values
	}
	r.d.value(loc, []string{f.Name}, raw, fv)
}

func (r *requestReader) lookup(f Field) []string {
	c := r.c
	switch f.Source {
	case SourcePath:
		if v := c.Params(f.Name); v != "" {
			return []string{v}
		}
	case SourceQuery:
		return bytesToStrings(c.Context().QueryArgs().PeekMulti(f.Name))
	case SourceHeader:
		return bytesToStrings(c.Request().Header.PeekAll(f.Name))
	case SourceCookie:
		if v := c.Cookies(f.Name); v != "" {
			return []string{v}
		}
	case SourceForm:
		if form := r.multipartForm(); form != nil {
			return form.Value[f.Name]
		}
		if r.contentType() == fiber.MIMEApplicationForm {
			return bytesToStrings(c.Context().PostArgs().PeekMulti(f.Name))
		}
	}
	return nil
}

func (r *requestReader) fileField(f Field, fv reflect.Value) {
	loc := []string{LocBody, f.Name}
	var headers []*multipart.FileHeader
	if form := r.multipartForm(); form != nil {
		headers = form.File[f.Name]
	}
	if len(headers) == 0 {
		r.d.absent(f, loc, fv)
		return
	}
	r.d.set.add([]string{f.Name})

	switch f.Type {
	case uploadType:
		if u := r.open(loc, headers[0]); u != nil {
			fv.Set(reflect.ValueOf(u))
		}
	case uploadSliceType:
		out := make([]*UploadFile, 0, len(headers))
		for i, fh := range headers {
			if u := r.open(joinLoc(loc, fmt.Sprint(i)), fh); u != nil {
				out = append(out, u)
			}
		}
		fv.Set(reflect.ValueOf(out))
	case bytesType:
		if data, ok := r.readAll(loc, headers[0]); ok {
			fv.SetBytes(data)
		}
	case bytesSliceType:
		out := make([][]byte, 0, len(headers))
		for i, fh := range headers {
			if data, ok := r.readAll(joinLoc(loc, fmt.Sprint(i)), fh); ok {
				out = append(out, data)
			}
		}
		fv.Set(reflect.ValueOf(out))
	default:
		r.d.fail(loc, TypeValueError, fmt.Sprintf("unsupported file field type %s", f.Type), nil, nil)
	}
}

func (r *requestReader) open(loc []string, fh *multipart.FileHeader) *UploadFile {
	u, err := openUpload(fh)
	if err != nil {
		r.d.fail(loc, TypeValueError, "Cannot open uploaded file", fh.Filename, nil)
		return nil
	}
	r.bound.files = append(r.bound.files, u)
	return u
}

func (r *requestReader) readAll(loc []string, fh *multipart.FileHeader) ([]byte, bool) {
	f, err := fh.Open()
	if err != nil {
		r.d.fail(loc, TypeValueError, "Cannot open uploaded file", fh.Filename, nil)
		return nil, false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		r.d.fail(loc, TypeValueError, "Cannot read uploaded file", fh.Filename, nil)
		return nil, false
	}
	return data, true
}

func bytesToStrings(in [][]byte) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, b := range in {
		out[i] = string(b)
	}
	return out
}
