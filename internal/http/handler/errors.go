package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"tutorialapi/internal/apperr"
	"tutorialapi/internal/repository"
)

// UnicornError is raised by the unicorn endpoint and answered with 418.
type UnicornError struct {
	Name string
}

func (e *UnicornError) Error() string {
	return fmt.Sprintf("unicorn %s misbehaved", e.Name)
}

func unicornResponse(e *UnicornError) (int, any) {
	return http.StatusTeapot, fiber.Map{
		"message": fmt.Sprintf("Oops! %s did something. There goes a rainbow...", e.Name),
	}
}

type unicornRequest struct {
	Name string `path:"name"`
}

func registerErrors(app *fiber.App, svc Services) {
	app.Get("/exception", Handle(func(c *fiber.Ctx, req *itemIDQuery) (any, error) {
		rec, err := lookup(c, svc.Catalog, repository.CollectionItems, req.ItemID)
		if err != nil {
			return nil, withErrorHeader(err)
		}
		return fiber.Map{"item": rec}, nil
	}))

	app.Get("/unicorns/:name", Handle(func(c *fiber.Ctx, req *unicornRequest) (any, error) {
		if req.Name == "yolo" {
			return nil, &UnicornError{Name: req.Name}
		}
		return fiber.Map{"unicorn_name": req.Name}, nil
	}))
}

// withErrorHeader tags HTTP errors with the X-Error response header.
func withErrorHeader(err error) error {
	var httpErr *apperr.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.WithHeader("X-Error", "There goes my error")
	}
	return err
}
