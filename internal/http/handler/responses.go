package handler

import (
	"github.com/gofiber/fiber/v2"

	"tutorialapi/internal/model"
	"tutorialapi/internal/repository"
	"tutorialapi/internal/shape"
)

type responseItemRequest struct {
	Item model.ResponseItem `body:"item"`
}

type userInRequest struct {
	User model.UserIn `body:"user"`
}

type itemIDQuery struct {
	ItemID string `query:"item_id"`
}

type itemIDPath struct {
	ItemID string `path:"item_id"`
}

func registerResponses(app *fiber.App, svc Services) {
	// The result is a loosely typed record; the response model coerces price to a number.
	app.Post("/response/", Handle(func(c *fiber.Ctx, req *responseItemRequest) (any, error) {
		return fiber.Map{
			"name":        "wangdong",
			"description": "this is response",
			"price":       "9.99",
			"tax":         0,
			"tags":        []string{"tsr"},
		}, nil
	}, WithResponse(shape.Model[model.ResponseItem](), shape.Options{})))

	app.Post("/user/", Handle(func(c *fiber.Ctx, req *userInRequest) (any, error) {
		return req.User, nil
	}, WithResponse(shape.Model[model.UserOut](), shape.Options{})))

	app.Post("/user/save", Handle(func(c *fiber.Ctx, req *userInRequest) (any, error) {
		return svc.Users.Save(c.UserContext(), req.User)
	}, WithResponse(shape.Model[model.UserOut](), shape.Options{})))

	app.Get("/response_model", Handle(func(c *fiber.Ctx, req *itemIDQuery) (any, error) {
		return lookup(c, svc.Catalog, repository.CollectionItems, req.ItemID)
	}, WithResponse(shape.Model[model.Item](), shape.Options{ExcludeUnset: true, ExcludeNone: true})))

	app.Get("/items/:item_id/name", Handle(func(c *fiber.Ctx, req *itemIDPath) (any, error) {
		return lookup(c, svc.Catalog, repository.CollectionData, req.ItemID)
	}, WithResponse(shape.Model[model.Item5](), shape.Options{Include: []string{"name", "description"}})))

	app.Get("/items/:item_id/public", Handle(func(c *fiber.Ctx, req *itemIDPath) (any, error) {
		return lookup(c, svc.Catalog, repository.CollectionData, req.ItemID)
	}, WithResponse(shape.Model[model.Item5](), shape.Options{Exclude: []string{"tax"}})))

	app.Get("/union", Handle(func(c *fiber.Ctx, req *itemIDQuery) (any, error) {
		return lookup(c, svc.Catalog, repository.CollectionVehicles, req.ItemID)
	}, WithResponse(shape.OneOf(shape.Model[model.PlaneItem](), shape.Model[model.CarItem]()), shape.Options{})))

	app.Get("/status_code", Handle0(func(c *fiber.Ctx) (any, error) {
		return fiber.Map{"status_code": 201}, nil
	}, WithStatus(fiber.StatusMovedPermanently)))
}
