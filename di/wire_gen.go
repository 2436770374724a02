// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"github.com/google/wire"
	"maitred/config"
	"maitred/infras/kafka"
	"maitred/infras/otel"
	"maitred/infras/postgres"
	"maitred/infras/redis"
	"maitred/internal/domains/availability/service"
	"maitred/internal/domains/reservation/repository"
	service2 "maitred/internal/domains/reservation/service"
	repository3 "maitred/internal/domains/seating/repository"
	service4 "maitred/internal/domains/seating/service"
	repository2 "maitred/internal/domains/table/repository"
	service3 "maitred/internal/domains/table/service"
	repository4 "maitred/internal/domains/waitlist/repository"
	service5 "maitred/internal/domains/waitlist/service"
	"maitred/internal/handlers/availability"
	"maitred/internal/handlers/host"
	"maitred/internal/handlers/reservation"
	"maitred/internal/handlers/table"
	"maitred/internal/handlers/waitlist"
	"maitred/internal/jobs"
	"maitred/shared/cache"
	"maitred/transport/http"
	"maitred/transport/http/middleware"
	"maitred/transport/http/router"
)

// Injectors from wire.go:

func InitializeApp() *App {
	configConfig := config.Get()
	connection := postgres.New(configConfig)
	otelOtel := otel.New(configConfig)
	repositoryReservation := repository.New(connection, otelOtel)
	client := redis.New(configConfig)
	redisCache := cache.NewRedisCache(client, otelOtel)
	serviceAvailability := service.New(repositoryReservation, configConfig, redisCache, otelOtel)
	handler := availability.New(serviceAvailability, otelOtel)
	repositoryTable := repository2.New(connection, otelOtel)
	producer := kafka.New(configConfig)
	serviceReservation := service2.New(repositoryReservation, repositoryTable, serviceAvailability, configConfig, redisCache, otelOtel, producer)
	reservationHandler := reservation.New(serviceReservation, otelOtel)
	serviceTable := service3.New(repositoryTable, configConfig, redisCache, otelOtel)
	tableHandler := table.New(serviceTable, otelOtel)
	serviceRecord := repository3.New(connection, otelOtel)
	seating := service4.New(serviceRecord, repositoryReservation, repositoryTable, serviceTable, configConfig, otelOtel, producer)
	hostHandler := host.New(seating, otelOtel)
	repositoryWaitlist := repository4.New(connection, otelOtel)
	serviceWaitlist := service5.New(repositoryWaitlist, repositoryReservation, configConfig, redisCache, otelOtel, producer)
	waitlistHandler := waitlist.New(serviceWaitlist, otelOtel)
	domainHandlers := router.DomainHandlers{
		Availability: handler,
		Reservation:  reservationHandler,
		Table:        tableHandler,
		Host:         hostHandler,
		Waitlist:     waitlistHandler,
	}
	appMiddleware := middleware.NewAppMiddleware(otelOtel, configConfig, redisCache)
	routerRouter := router.New(domainHandlers, appMiddleware)
	httpHTTP := http.New(configConfig, routerRouter)
	scheduler := jobs.NewScheduler(configConfig, serviceReservation)
	app := &App{
		HTTP:      httpHTTP,
		Scheduler: scheduler,
	}
	return app
}

// wire.go:

// App bundles the HTTP transport with the background job scheduler so both
// come out of one object graph.
type App struct {
	HTTP      *http.HTTP
	Scheduler *jobs.Scheduler
}

var configurations = wire.NewSet(config.Get)

var infrastructures = wire.NewSet(postgres.New, otel.New, redis.New, kafka.New)

var middlewares = wire.NewSet(middleware.NewAppMiddleware)

var sharedHelpers = wire.NewSet(cache.NewRedisCache)

var tableDomain = wire.NewSet(repository2.New, service3.New)

var reservationDomain = wire.NewSet(repository.New, service2.New)

var availabilityDomain = wire.NewSet(service.New)

var seatingDomain = wire.NewSet(repository3.New, service4.New)

var waitlistDomain = wire.NewSet(repository4.New, service5.New)

var domains = wire.NewSet(
	tableDomain,
	reservationDomain,
	availabilityDomain,
	seatingDomain,
	waitlistDomain,
)

var background = wire.NewSet(jobs.NewScheduler)

var routing = wire.NewSet(wire.Struct(new(router.DomainHandlers), "*"), availability.New, reservation.New, table.New, host.New, waitlist.New, router.New)
