package schema

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bindApp registers a route that binds T and answers 204, or 422 with the issues.
func bindApp[T any](method, route string, got *T, set *FieldSet) *fiber.App {
	app := fiber.New()
	app.Add(method, route, func(c *fiber.Ctx) error {
		var req T
		b, err := Bind(c, &req)
		defer b.Release()
		if iss, ok := AsIssues(err); ok {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(iss)
		}
		if err != nil {
			return err
		}
		*got = req
		if set != nil {
			*set = b.Set
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func issuesOf(t *testing.T, resp *http.Response) Issues {
	t.Helper()
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	var iss Issues
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&iss))
	return iss
}

type dbQuery struct {
	Page  string  `query:"page"`
	Size  int     `query:"size" validate:"gte=1,lte=100"`
	Short bool    `query:"short" default:"false"`
	Q     *string `query:"q" validate:"omitempty,max=10,pattern=^fixed"`
	IDs   []int   `query:"id"`
}

func TestBind_Query(t *testing.T) {
	var got dbQuery
	var set FieldSet
	app := bindApp("GET", "/db", &got, &set)

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/db?page=1&size=5&q=fixedquery&id=3&id=4", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

		assert.Equal(t, "1", got.Page)
		assert.Equal(t, 5, got.Size)
		assert.False(t, got.Short)
		require.NotNil(t, got.Q)
		assert.Equal(t, "fixedquery", *got.Q)
		assert.Equal(t, []int{3, 4}, got.IDs)
		assert.True(t, set.Has("page"))
		assert.False(t, set.Has("short"))
	})

	t.Run("every failing field is reported", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/db?size=abc&short=maybe&id=x", nil)
		resp, _ := app.Test(req)
		iss := issuesOf(t, resp)

		assert.Len(t, iss, 4)
		assert.True(t, iss.Has("query.page", TypeMissing))
		assert.True(t, iss.Has("query.size", TypeIntParsing))
		assert.True(t, iss.Has("query.short", TypeBoolParsing))
		assert.True(t, iss.Has("query.id.0", TypeIntParsing))
	})

	t.Run("constraints", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/db?page=1&size=500&q=nope", nil)
		resp, _ := app.Test(req)
		iss := issuesOf(t, resp)

		assert.Len(t, iss, 2)
		assert.True(t, iss.Has("query.size", TypeLessThanEqual))
		assert.True(t, iss.Has("query.q", TypePatternMismatch))
	})
}

type userItemParams struct {
	UserID    int     `path:"user_id"`
	ItemID    string  `path:"item_id"`
	Model     string  `path:"model" validate:"oneof=alexnet resnet lenet"`
	UserAgent *string `header:"User-Agent"`
	AdsID     *string `cookie:"ads_id"`
}

func TestBind_PathHeaderCookie(t *testing.T) {
	var got userItemParams
	app := bindApp("GET", "/users/:user_id/items/:item_id/:model", &got, nil)

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/7/items/foo/lenet", nil)
		req.Header.Set("User-Agent", "tester/1.0")
		req.AddCookie(&http.Cookie{Name: "ads_id", Value: "abc"})
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

		assert.Equal(t, 7, got.UserID)
		assert.Equal(t, "foo", got.ItemID)
		require.NotNil(t, got.UserAgent)
		assert.Equal(t, "tester/1.0", *got.UserAgent)
		require.NotNil(t, got.AdsID)
		assert.Equal(t, "abc", *got.AdsID)
	})

	t.Run("invalid path values", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/users/me/items/foo/vgg", nil)
		resp, _ := app.Test(req)
		iss := issuesOf(t, resp)

		assert.Len(t, iss, 2)
		assert.True(t, iss.Has("path.user_id", TypeIntParsing))
		assert.True(t, iss.Has("path.model", TypeEnum))
	})
}

type itemBody struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Tax   *float64 `json:"tax"`
}

type userBody struct {
	Username string  `json:"username" validate:"min=3"`
	FullName *string `json:"full_name"`
}

type singleBody struct {
	ItemID int      `path:"item_id"`
	Item   itemBody `body:"item"`
}

type multiBody struct {
	Item itemBody `body:"item"`
	User userBody `body:"user"`
}

type embeddedBody struct {
	Item itemBody `body:"item,embed"`
}

func postJSON(app *fiber.App, path, body string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	return resp
}

func TestBind_SingleBody(t *testing.T) {
	var got singleBody
	app := bindApp("POST", "/items/:item_id", &got, nil)

	resp := postJSON(app, "/items/3", `{"name":"Foo","price":"42.0","tax":3.2}`)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 3, got.ItemID)
	assert.Equal(t, "Foo", got.Item.Name)
	assert.Equal(t, 42.0, got.Item.Price)

	iss := issuesOf(t, postJSON(app, "/items/3", `{"name":"Foo"}`))
	require.Len(t, iss, 1)
	assert.Equal(t, []string{"body", "price"}, iss[0].Loc)
	assert.Equal(t, TypeMissing, iss[0].Type)

	iss = issuesOf(t, postJSON(app, "/items/3", ``))
	assert.True(t, iss.Has("body", TypeMissing))

	iss = issuesOf(t, postJSON(app, "/items/3", `{"name":`))
	assert.True(t, iss.Has("body", TypeJSONInvalid))
}

func TestBind_MultipleBodies(t *testing.T) {
	var got multiBody
	app := bindApp("POST", "/items", &got, nil)

	resp := postJSON(app, "/items", `{"item":{"name":"Foo","price":1},"user":{"username":"dave","full_name":"Dave Grohl"}}`)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "dave", got.User.Username)
	require.NotNil(t, got.User.FullName)

	iss := issuesOf(t, postJSON(app, "/items", `{"item":{"name":"Foo","price":1},"user":{"username":"da"}}`))
	require.Len(t, iss, 1)
	assert.True(t, iss.Has("body.user.username", TypeStringTooShort))

	iss = issuesOf(t, postJSON(app, "/items", `{"item":{"price":1}}`))
	assert.Len(t, iss, 2)
	assert.True(t, iss.Has("body.item.name", TypeMissing))
	assert.True(t, iss.Has("body.user", TypeMissing))

	iss = issuesOf(t, postJSON(app, "/items", `[1,2]`))
	assert.True(t, iss.Has("body", TypeModelType))
}

func TestBind_EmbeddedBody(t *testing.T) {
	var got embeddedBody
	app := bindApp("POST", "/embed", &got, nil)

	resp := postJSON(app, "/embed", `{"item":{"name":"Foo","price":2}}`)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 2.0, got.Item.Price)

	iss := issuesOf(t, postJSON(app, "/embed", `{"name":"Foo","price":2}`))
	assert.True(t, iss.Has("body.item", TypeMissing))
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func TestBind_URLEncodedForm(t *testing.T) {
	var got loginForm
	app := bindApp("POST", "/login", &got, nil)

	form := url.Values{"username": {"alice"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "alice", got.Username)

	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("username=alice"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, _ = app.Test(req)
	iss := issuesOf(t, resp)
	assert.Equal(t, Issues{{Loc: []string{"body", "password"}, Msg: "Field required", Type: TypeMissing}}, iss)
}

type uploadForm struct {
	File  []byte      `file:"file"`
	FileB *UploadFile `file:"fileb"`
	Token string      `form:"token"`
}

func multipartBody(t *testing.T, files map[string]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, content := range files {
		part, err := w.CreateFormFile(name, name+".txt")
		require.NoError(t, err)
		_, _ = part.Write([]byte(content))
	}
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestBind_Files(t *testing.T) {
	var content []byte
	var upload *UploadFile
	var got uploadForm

	app := fiber.New()
	app.Post("/test", func(c *fiber.Ctx) error {
		b, err := Bind(c, &got)
		defer b.Release()
		if iss, ok := AsIssues(err); ok {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(iss)
		}
		upload = got.FileB
		content, err = got.FileB.Bytes()
		if err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	t.Run("valid", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"file": "hello world", "fileb": "second"}, map[string]string{"token": "tok"})
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", ct)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

		assert.Equal(t, []byte("hello world"), got.File)
		assert.Equal(t, "tok", got.Token)
		assert.Equal(t, "second", string(content))
		assert.Equal(t, "fileb.txt", upload.Filename)
		assert.Equal(t, "application/octet-stream", upload.ContentType)

		// released once the request completed
		_, err = upload.Read(make([]byte, 1))
		assert.ErrorIs(t, err, ErrFileClosed)
		_, err = io.ReadAll(upload)
		assert.ErrorIs(t, err, ErrFileClosed)
	})

	t.Run("missing parts", func(t *testing.T) {
		body, ct := multipartBody(t, map[string]string{"file": "x"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)
		iss := issuesOf(t, resp)

		assert.Len(t, iss, 2)
		assert.True(t, iss.Has("body.fileb", TypeMissing))
		assert.True(t, iss.Has("body.token", TypeMissing))
	})
}

func TestBind_InvalidTarget(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		var n int
		_, err := Bind(c, &n)
		assert.ErrorIs(t, err, ErrInvalidTarget)
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
