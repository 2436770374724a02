//go:build wireinject
// +build wireinject

package di

import (
	"maitred/config"
	"maitred/infras/kafka"
	"maitred/infras/otel"
	"maitred/infras/postgres"
	"maitred/infras/redis"
	"maitred/internal/jobs"
	"maitred/shared/cache"
	"maitred/transport/http"
	"maitred/transport/http/middleware"
	"maitred/transport/http/router"

	availabilityService "maitred/internal/domains/availability/service"
	reservationRepository "maitred/internal/domains/reservation/repository"
	reservationService "maitred/internal/domains/reservation/service"
	seatingRepository "maitred/internal/domains/seating/repository"
	seatingService "maitred/internal/domains/seating/service"
	tableRepository "maitred/internal/domains/table/repository"
	tableService "maitred/internal/domains/table/service"
	waitlistRepository "maitred/internal/domains/waitlist/repository"
	waitlistService "maitred/internal/domains/waitlist/service"

	"github.com/google/wire"

	availabilityHandler "maitred/internal/handlers/availability"
	hostHandler "maitred/internal/handlers/host"
	reservationHandler "maitred/internal/handlers/reservation"
	tableHandler "maitred/internal/handlers/table"
	waitlistHandler "maitred/internal/handlers/waitlist"
)

// App bundles the HTTP transport with the background job scheduler so both
// come out of one object graph.
type App struct {
	HTTP      *http.HTTP
	Scheduler *jobs.Scheduler
}

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var tableDomain = wire.NewSet(
	tableRepository.New,
	tableService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var availabilityDomain = wire.NewSet(
	availabilityService.New,
)

var seatingDomain = wire.NewSet(
	seatingRepository.New,
	seatingService.New,
)

var waitlistDomain = wire.NewSet(
	waitlistRepository.New,
	waitlistService.New,
)

var domains = wire.NewSet(
	tableDomain,
	reservationDomain,
	availabilityDomain,
	seatingDomain,
	waitlistDomain,
)

var background = wire.NewSet(
	jobs.NewScheduler,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	availabilityHandler.New,
	reservationHandler.New,
	tableHandler.New,
	hostHandler.New,
	waitlistHandler.New,
	router.New,
)

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		background,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
