package handler

import (
	"github.com/gofiber/fiber/v2"

	"tutorialapi/internal/schema"
)

type loginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type fileBytesRequest struct {
	File []byte `file:"file"`
}

type uploadRequest struct {
	File *schema.UploadFile `file:"file"`
}

type mixedFormRequest struct {
	File  []byte             `file:"file"`
	FileB *schema.UploadFile `file:"fileb"`
	Token string             `form:"token"`
}

func registerForms(app *fiber.App) {
	app.Post("/login", Handle(func(c *fiber.Ctx, req *loginRequest) (any, error) {
		return fiber.Map{"username": req.Username}, nil
	}))

	app.Post("/file", Handle(func(c *fiber.Ctx, req *fileBytesRequest) (any, error) {
		return fiber.Map{"file_len": len(req.File)}, nil
	}))

	app.Post("/upload", Handle(func(c *fiber.Ctx, req *uploadRequest) (any, error) {
		if _, err := req.File.Bytes(); err != nil {
			return nil, err
		}
		return fiber.Map{"filename": req.File.Filename}, nil
	}))

	app.Post("/test", Handle(func(c *fiber.Ctx, req *mixedFormRequest) (any, error) {
		return fiber.Map{
			"file_size":          len(req.File),
			"token":              req.Token,
			"fileb_content_type": req.FileB.ContentType,
		}, nil
	}))
}
