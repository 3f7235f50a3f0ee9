package handler

import (
	"github.com/gofiber/fiber/v2"

	"tutorialapi/internal/model"
	"tutorialapi/internal/shape"
)

type createItemRequest struct {
	ItemID string     `path:"item_id"`
	Item   model.Item `body:"item"`
}

// itemUserRequest declares two bodies, so each is read from its own key.
type itemUserRequest struct {
	ItemID int        `path:"item_id"`
	Item   model.Item `body:"item"`
	User   model.User `body:"user"`
}

type embeddedItemRequest struct {
	ItemID int        `path:"item_id"`
	Item   model.Item `body:"item,embed"`
}

type taggedItemRequest struct {
	ItemID int         `path:"item_id"`
	Item   model.Item2 `body:"item"`
}

type item4Request struct {
	ItemID int         `path:"item_id"`
	Item   model.Item4 `body:"item"`
}

type jsonItemRequest struct {
	Item model.Item `body:"item"`
}

func registerBodies(app *fiber.App) {
	app.Post("/item/:item_id", Handle(func(c *fiber.Ctx, req *createItemRequest) (any, error) {
		return fiber.Map{"item_id": req.ItemID, "item": req.Item}, nil
	}))

	app.Post("/items/:item_id", Handle(func(c *fiber.Ctx, req *itemUserRequest) (any, error) {
		return fiber.Map{"item_id": req.ItemID, "item": req.Item, "user": req.User}, nil
	}))

	app.Post("/items/:item_id/embed", Handle(func(c *fiber.Ctx, req *embeddedItemRequest) (any, error) {
		return fiber.Map{"item_id": req.ItemID, "item": req.Item}, nil
	}))

	app.Put("/items/:item_id", Handle(func(c *fiber.Ctx, req *taggedItemRequest) (any, error) {
		return fiber.Map{"item_id": req.ItemID, "item": req.Item}, nil
	}))

	app.Put("/it/:item_id", Handle(func(c *fiber.Ctx, req *item4Request) (any, error) {
		return fiber.Map{"item_id": req.ItemID, "item": req.Item}, nil
	}))

	app.Post("/json", Handle(func(c *fiber.Ctx, req *jsonItemRequest) (any, error) {
		encoded, err := shape.Encode(req.Item)
		if err != nil {
			return nil, err
		}
		return fiber.Map{"json": encoded}, nil
	}))
}
