package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"tutorialapi/internal/schema"
	"tutorialapi/internal/shape"
)

// Func is a typed endpoint. req is already bound and validated.
type Func[Req any] func(c *fiber.Ctx, req *Req) (any, error)

// Option configures how Handle writes the result.
type Option func(*route)

type route struct {
	status  int
	model   shape.Schema
	options shape.Options
}

// WithStatus sets the success status code. The default is 200.
func WithStatus(code int) Option {
	return func(r *route) { r.status = code }
}

// WithResponse shapes every result through model before it is written.
func WithResponse(model shape.Schema, opts shape.Options) Option {
	return func(r *route) {
		r.model = model
		r.options = opts
	}
}

// Handle adapts fn into a fiber.Handler. It binds and validates Req from the
// request, calls fn, shapes the result when a response model is declared and
// writes it as JSON. Uploads opened while binding are closed when the
// request completes. It panics on invalid options.
func Handle[Req any](fn Func[Req], opts ...Option) fiber.Handler {
	r := route{status: fiber.StatusOK}
	for _, opt := range opts {
		opt(&r)
	}
	if err := r.options.Validate(); err != nil {
		panic(fmt.Errorf("handler: %w", err))
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		log := zerolog.Ctx(c.UserContext()).With().
			Str("method", c.Method()).
			Str("route", c.Route().Path).
			Logger()

		var req Req
		bound, err := schema.Bind(c, &req)
		defer func() {
			if rerr := bound.Release(); rerr != nil {
				log.Warn().Err(rerr).Msg("release uploads")
			}
		}()
		bindDuration := time.Since(start)
		if err != nil {
			log.Debug().Err(err).Dur("validation_duration", bindDuration).Msg("request validation failed")
			return err
		}

		handlerStart := time.Now()
		result, err := fn(c, &req)
		handlerDuration := time.Since(handlerStart)
		if err != nil {
			log.Debug().Err(err).Dur("handler_duration", handlerDuration).Msg("handler returned error")
			return err
		}

		if r.model != nil {
			result, err = shape.Render(result, r.model, r.options)
			if err != nil {
				return err
			}
		}

		log.Debug().
			Dur("validation_duration", bindDuration).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("request completed")
		return c.Status(r.status).JSON(result)
	}
}

// Handle0 is Handle for endpoints without inputs.
func Handle0(fn func(c *fiber.Ctx) (any, error), opts ...Option) fiber.Handler {
	return Handle(func(c *fiber.Ctx, _ *struct{}) (any, error) {
		return fn(c)
	}, opts...)
}
