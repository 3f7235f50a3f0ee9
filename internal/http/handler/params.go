package handler

import (
	"github.com/gofiber/fiber/v2"

	"tutorialapi/internal/model"
)

type modelRequest struct {
	ModelName model.ModelName `path:"model_name" validate:"oneof=alexnet resnet lenet"`
}

type filePathRequest struct {
	FilePath string `path:"*"`
}

type pageRequest struct {
	Page  string `query:"page"`
	Size  int    `query:"size"`
	Short bool   `query:"short" default:"false"`
}

type userItemRequest struct {
	UserID int     `path:"user_id"`
	ItemID string  `path:"item_id"`
	Q      *string `query:"q"`
	Short  bool    `query:"short" default:"false"`
}

type searchRequest struct {
	Q *string `query:"q" validate:"omitempty,max=50"`
}

type cookieRequest struct {
	AdsID *string `cookie:"ads_id"`
}

type headerRequest struct {
	UserAgent *string `header:"User-Agent"`
}

func registerParams(app *fiber.App) {
	app.Get("/models/:model_name", Handle(func(c *fiber.Ctx, req *modelRequest) (any, error) {
		return fiber.Map{"model_name": req.ModelName, "message": req.ModelName.Describe()}, nil
	}))

	app.Get("/files/*", Handle(func(c *fiber.Ctx, req *filePathRequest) (any, error) {
		return fiber.Map{"file_path": req.FilePath}, nil
	}))

	app.Get("/db", Handle(func(c *fiber.Ctx, req *pageRequest) (any, error) {
		return fiber.Map{"page": req.Page, "size": req.Size, "short": req.Short}, nil
	}))

	app.Get("/users/:user_id/items/:item_id", Handle(func(c *fiber.Ctx, req *userItemRequest) (any, error) {
		item := fiber.Map{"item_id": req.ItemID, "owner_id": req.UserID}
		if req.Q != nil && *req.Q != "" {
			item["q"] = *req.Q
		}
		if !req.Short {
			item["description"] = "This is an amazing item that has a long description"
		}
		return item, nil
	}))

	app.Get("/items/", Handle(func(c *fiber.Ctx, req *searchRequest) (any, error) {
		results := fiber.Map{"items": []fiber.Map{{"item_id": "Foo"}, {"item_id": "Bar"}}}
		if req.Q != nil && *req.Q != "" {
			results["q"] = *req.Q
		}
		return results, nil
	}))

	app.Get("/items/item", Handle(func(c *fiber.Ctx, req *cookieRequest) (any, error) {
		return fiber.Map{"ads_id": req.AdsID}, nil
	}))

	app.Get("/cookie", Handle0(func(c *fiber.Ctx) (any, error) {
		c.Cookie(&fiber.Cookie{Name: "key", Value: "value"})
		return fiber.Map{"message": "create cookie success"}, nil
	}))

	app.Get("/header", Handle(func(c *fiber.Ctx, req *headerRequest) (any, error) {
		return fiber.Map{"header": req.UserAgent}, nil
	}))
}
