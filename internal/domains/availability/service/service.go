package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"maitred/config"
	"maitred/infras/otel"
	"maitred/internal/domains/availability/calc"
	"maitred/internal/domains/availability/model/dto"
	resModel "maitred/internal/domains/reservation/model"
	resRepo "maitred/internal/domains/reservation/repository"
	"maitred/shared"
	"maitred/shared/cache"
	"maitred/shared/constant"
)

const cacheCheckAvailability = "availability:check"

// CachePrefix is invalidated by every write that changes a date's seat
// claims.
const CachePrefix = cacheCheckAvailability

type Availability interface {
	Check(ctx context.Context, req dto.CheckAvailabilityRequest) (dto.CheckAvailabilityResponse, error)
}

type serviceImpl struct {
	reservations resRepo.Reservation
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(reservations resRepo.Reservation, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Availability {
	return &serviceImpl{
		reservations: reservations,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

// Check projects the restaurant's occupancy across the requested dining
// window and reports whether the party fits. When it does not, up to three
// nearby open slots within opening hours are offered.
func (s *serviceImpl) Check(ctx context.Context, req dto.CheckAvailabilityRequest) (res dto.CheckAvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Check")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheCheckAvailability, req.Date, req.Time, fmt.Sprintf("%d", req.PartySize))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for availability check")

		return res, nil
	}

	active, err := s.reservations.GetActiveByDate(ctx, req.Date)
	if err != nil {
		log.Error().Err(err).Msg("failed to load reservations for availability check")

		return res, fmt.Errorf("failed to load reservations: %w", err)
	}

	res = s.check(req, active)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save availability check to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) check(req dto.CheckAvailabilityRequest, active []resModel.Reservation) dto.CheckAvailabilityResponse {
	existing := make([]calc.Reservation, len(active))
	for i, reservation := range active {
		existing[i] = calc.Reservation{
			Time:      reservation.Time,
			PartySize: reservation.PartySize,
		}
	}

	capacity := s.cfg.Restaurant.Capacity

	res := dto.CheckAvailabilityResponse{
		Date:      req.Date,
		Time:      req.Time,
		PartySize: req.PartySize,
		Verdict:   calc.CheckSlot(req.Time, req.PartySize, existing, capacity),
	}

	if !res.Available {
		res.Suggestions = calc.SuggestTimes(
			req.Time, req.PartySize, existing, capacity,
			s.cfg.Restaurant.OpenTime, s.cfg.Restaurant.CloseTime,
		)
	}

	return res
}
