package router

import (
	"github.com/go-chi/chi/v5"

	"maitred/internal/handlers/availability"
	"maitred/internal/handlers/host"
	"maitred/internal/handlers/reservation"
	"maitred/internal/handlers/table"
	"maitred/internal/handlers/waitlist"
	"maitred/transport/http/middleware"
)

type DomainHandlers struct {
	Availability availability.Handler
	Reservation  reservation.Handler
	Table        table.Handler
	Host         host.Handler
	Waitlist     waitlist.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Middleware     middleware.AppMiddleware
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.Middleware.Tracing)
	router.Use(r.Middleware.CORS)
	router.Use(r.Middleware.Operator)
	router.Use(r.Middleware.RateLimit())

	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Availability.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Table.Router(routerGroup)
		r.DomainHandlers.Host.Router(routerGroup)
		r.DomainHandlers.Waitlist.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, appMiddleware middleware.AppMiddleware) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middleware:     appMiddleware,
	}
}
