package handler

import (
	"errors"

	gojson "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"tutorialapi/internal/apperr"
	"tutorialapi/internal/http/middleware"
	"tutorialapi/internal/service"
)

// Services are the dependencies of the routes.
type Services struct {
	Catalog service.CatalogService
	Users   service.UserService
	// Gatherer backs /metrics. When nil the endpoint is not registered.
	Gatherer prometheus.Gatherer
}

// Config returns the Fiber configuration the routes expect: go-json codecs
// and the global error handler bound to reg.
func Config(reg *apperr.Registry) fiber.Config {
	return fiber.Config{
		JSONEncoder:  gojson.Marshal,
		JSONDecoder:  gojson.Unmarshal,
		ErrorHandler: ErrorHandler(reg),
		UnescapePath: true,
	}
}

// NewErrorRegistry returns the registry of application errors with custom responses.
func NewErrorRegistry() *apperr.Registry {
	reg := apperr.NewRegistry()
	apperr.Register(reg, unicornResponse)
	return reg
}

// RegisterRoutes attaches every HTTP route to app.
func RegisterRoutes(app *fiber.App, svc Services) {
	app.Get("/health", HealthCheck(svc.Catalog))
	app.Get("/healthz", LivenessProbe())
	if svc.Gatherer != nil {
		app.Get(middleware.MetricsPath, Metrics(svc.Gatherer))
	}

	registerQuickstart(app.Group("/quickstart"))
	registerParams(app)
	registerBodies(app)
	registerResponses(app, svc)
	registerForms(app)
	registerErrors(app, svc)
}

// lookup reads a catalog record and turns a missing key into a 404.
func lookup(c *fiber.Ctx, catalog service.CatalogService, collection, id string) (map[string]any, error) {
	rec, err := catalog.Lookup(c.UserContext(), collection, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return nil, apperr.NotFound("Item not found")
		}
		return nil, err
	}
	return rec, nil
}
