package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"maitred/config"
	"maitred/infras/kafka"
	"maitred/infras/otel"
	"maitred/internal/domains/availability/calc"
	availDto "maitred/internal/domains/availability/model/dto"
	availService "maitred/internal/domains/availability/service"
	"maitred/internal/domains/reservation/model"
	"maitred/internal/domains/reservation/model/dto"
	"maitred/internal/domains/reservation/repository"
	tableModel "maitred/internal/domains/table/model"
	tableRepo "maitred/internal/domains/table/repository"
	"maitred/shared"
	"maitred/shared/cache"
	"maitred/shared/constant"
	gDto "maitred/shared/dto"
	"maitred/shared/failure"
	"maitred/shared/timezone"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.CreateReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	Lookup(ctx context.Context, req dto.LookupReservationRequest) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) error
	Cancel(ctx context.Context, id string) error
	MarkNoShows(ctx context.Context) (int, error)
}

type serviceImpl struct {
	repo         repository.Reservation
	tables       tableRepo.Table
	availability availService.Availability
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	producer     kafka.Producer
}

func New(
	repo repository.Reservation,
	tables tableRepo.Table,
	availability availService.Availability,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	producer kafka.Producer,
) Reservation {
	return &serviceImpl{
		repo:         repo,
		tables:       tables,
		availability: availability,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		producer:     producer,
	}
}

type reservationEvent struct {
	Code      string `json:"code"`
	GuestName string `json:"guest_name"`
	PartySize int    `json:"party_size"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Status    string `json:"status"`
}

// Create books a slot after the availability gate passes. A full slot is
// not an error: the caller gets available=false plus nearby alternatives
// and no reservation is written.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.CreateReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	operator := shared.Operator(ctx)

	verdict, err := s.availability.Check(ctx, availDto.CheckAvailabilityRequest{
		Date:      req.Date,
		Time:      req.Time,
		PartySize: req.PartySize,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to check availability for new reservation")

		return res, fmt.Errorf("failed to check availability: %w", err)
	}

	if !verdict.Available {
		return dto.CreateReservationResponse{
			Available:   false,
			Message:     verdict.Reason,
			Suggestions: verdict.Suggestions,
		}, nil
	}

	reservation := req.ToModel(operator)

	if err = s.repo.Insert(ctx, reservation); err != nil {
		return res, err
	}

	s.publish(ctx, constant.TopicReservationCreated, reservation)
	s.invalidate(ctx, reservation.ID)

	var reservationRes dto.ReservationResponse
	reservationRes.FromModel(reservation)

	return dto.CreateReservationResponse{
		Available:   true,
		Message:     fmt.Sprintf("Reservation confirmed for %s, party of %d on %s at %s", reservation.GuestName, reservation.PartySize, reservation.Date, reservation.Time),
		Reservation: &reservationRes,
	}, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

// Lookup finds a reservation by confirmation code, phone or guest name, in
// that order of reliability. At least one identifier is required.
func (s *serviceImpl) Lookup(ctx context.Context, req dto.LookupReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Lookup")
	defer scope.End()
	defer scope.TraceIfError(err)

	var filter gDto.FilterGroup

	switch {
	case req.Code != constant.Empty:
		filter = filterByField(model.FieldCode, req.Code)
	case req.GuestPhone != constant.Empty:
		filter = filterByField(model.FieldGuestPhone, req.GuestPhone)
	case req.GuestName != constant.Empty:
		filter = filterByField(model.FieldGuestName, req.GuestName)
	default:
		return res, failure.BadRequestFromString("provide a confirmation code, phone number or guest name") // nolint:wrapcheck
	}

	reservation, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to look up reservation")

		return res, fmt.Errorf("failed to look up reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	res.FromModel(reservation)

	return res, nil
}

// Update modifies a confirmed reservation. When the slot or party size
// changes, the new slot must pass the availability gate with this
// reservation's own seats excluded from the projection.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	operator := shared.Operator(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation for update")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if current.Status != model.StatusConfirmed {
		return failure.BadRequestFromString(fmt.Sprintf("cannot modify a reservation with status %s", current.Status)) // nolint:wrapcheck
	}

	newDate := current.Date
	if req.Date != constant.Empty {
		newDate = req.Date
	}

	newTime := current.Time
	if req.Time != constant.Empty {
		newTime = req.Time
	}

	newPartySize := current.PartySize
	if req.PartySize != nil {
		newPartySize = *req.PartySize
	}

	slotChanged := newDate != current.Date || newTime != current.Time || newPartySize != current.PartySize

	if slotChanged {
		if err = s.checkSlotExcluding(ctx, current.ID, newDate, newTime, newPartySize); err != nil {
			return err
		}
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, operator), filter); err != nil {
		log.Error().Err(err).Msg("failed to update reservation")

		return fmt.Errorf("failed to update reservation: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// Cancel voids a confirmed reservation and hands any pre-assigned tables
// back to the floor.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	operator := shared.Operator(ctx)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation for cancellation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if current.Status != model.StatusConfirmed {
		return failure.BadRequestFromString(fmt.Sprintf("cannot cancel a reservation with status %s", current.Status)) // nolint:wrapcheck
	}

	fields := map[string]any{model.FieldStatus: model.StatusCancelled}
	fields[constant.FieldModifiedBy] = operator

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to cancel reservation")

		return fmt.Errorf("failed to cancel reservation: %w", err)
	}

	s.releaseTables(ctx, current, operator)

	current.Status = model.StatusCancelled
	s.publish(ctx, constant.TopicReservationCancelled, current)
	s.invalidate(ctx, id)

	return nil
}

// MarkNoShows sweeps today's confirmed reservations whose slot passed the
// grace period without a check-in, marks them no-show and releases their
// tables. It returns how many reservations were marked.
func (s *serviceImpl) MarkNoShows(ctx context.Context) (marked int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.MarkNoShows")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()
	today := now.Format(constant.DayFormat)
	cutoff := now.Add(-time.Duration(s.cfg.Restaurant.NoShowGraceMinutes) * time.Minute).Format(constant.ClockFormat)

	late, err := s.repo.FindLate(ctx, today, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to find late reservations")

		return 0, fmt.Errorf("failed to find late reservations: %w", err)
	}

	for _, reservation := range late {
		fields := map[string]any{model.FieldStatus: model.StatusNoShow}
		fields[constant.FieldModifiedBy] = constant.DefaultOperator

		if err := s.repo.Update(ctx, fields, shared.FilterByID(reservation.ID, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Str("code", reservation.Code).Msg("failed to mark reservation as no-show")

			continue
		}

		s.releaseTables(ctx, reservation, constant.DefaultOperator)

		log.Info().
			Str("code", reservation.Code).
			Str("time", reservation.Time).
			Msg("reservation marked as no-show")

		marked++
	}

	if marked > 0 {
		s.invalidate(ctx, constant.Empty)
	}

	return marked, nil
}

// checkSlotExcluding runs the availability projection with one
// reservation's seats removed, so moving a booking within a busy evening
// does not collide with itself.
func (s *serviceImpl) checkSlotExcluding(ctx context.Context, excludeID, date, checkTime string, partySize int) error {
	active, err := s.repo.GetActiveByDate(ctx, date)
	if err != nil {
		log.Error().Err(err).Msg("failed to load reservations for modification check")

		return fmt.Errorf("failed to load reservations: %w", err)
	}

	existing := []calc.Reservation{}
	for _, reservation := range active {
		if reservation.ID == excludeID {
			continue
		}

		existing = append(existing, calc.Reservation{Time: reservation.Time, PartySize: reservation.PartySize})
	}

	verdict := calc.CheckSlot(checkTime, partySize, existing, s.cfg.Restaurant.Capacity)
	if !verdict.Available {
		return failure.BadRequestFromString(verdict.Reason) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) releaseTables(ctx context.Context, reservation model.Reservation, operator string) {
	if len(reservation.AssignedTableIDs) == 0 {
		return
	}

	released, err := s.tables.SetStatus(ctx, reservation.AssignedTableIDs, tableModel.StatusReserved, tableModel.StatusAvailable, operator)
	if err != nil {
		log.Error().Err(err).Str("code", reservation.Code).Msg("failed to release reserved tables")

		return
	}

	log.Info().Int("released", released).Str("code", reservation.Code).Msg("released reserved tables")
}

func (s *serviceImpl) publish(ctx context.Context, topic string, reservation model.Reservation) {
	go func() {
		c := context.WithoutCancel(ctx)

		err := s.producer.SendMessages(c, topic, kafka.Message{
			Key: reservation.Code,
			Value: reservationEvent{
				Code:      reservation.Code,
				GuestName: reservation.GuestName,
				PartySize: reservation.PartySize,
				Date:      reservation.Date,
				Time:      reservation.Time,
				Status:    reservation.Status,
			},
		})
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("failed to publish reservation event")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete reservation cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
		shared.InvalidateCaches(c, s.cache, availService.CachePrefix)
	}()
}

func filterByField(field string, value any) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    field,
				Value:    value,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}
}
