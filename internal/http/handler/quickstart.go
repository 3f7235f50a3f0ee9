package handler

import (
	"github.com/gofiber/fiber/v2"

	"tutorialapi/internal/model"
)

type helloRequest struct {
	Message string  `path:"message"`
	Q       *string `query:"q"`
}

type quickItemRequest struct {
	ItemID int             `path:"item_id"`
	Item   model.QuickItem `body:"item"`
}

func registerQuickstart(r fiber.Router) {
	r.Get("/", Handle0(func(c *fiber.Ctx) (any, error) {
		return fiber.Map{"message": "index"}, nil
	}))

	r.Get("/hello/:message", Handle(func(c *fiber.Ctx, req *helloRequest) (any, error) {
		return fiber.Map{"message": req.Message}, nil
	}))

	r.Put("/items/:item_id", Handle(func(c *fiber.Ctx, req *quickItemRequest) (any, error) {
		return fiber.Map{"item_name": req.Item.Name, "item_id": req.ItemID}, nil
	}))
}
