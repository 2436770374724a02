package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"maitred/config"
	"maitred/infras/kafka"
	"maitred/infras/otel"
	resRepo "maitred/internal/domains/reservation/repository"
	"maitred/internal/domains/waitlist/model"
	"maitred/internal/domains/waitlist/model/dto"
	"maitred/internal/domains/waitlist/repository"
	"maitred/shared"
	"maitred/shared/cache"
	"maitred/shared/constant"
	gDto "maitred/shared/dto"
	"maitred/shared/failure"
	"maitred/shared/timezone"
)

const (
	cacheGetWaitlist    = "waitlist:get"
	cacheGetAllWaitlist = "waitlist:gets"
	cacheQueueWaitlist  = "waitlist:queue"
)

// Queue wait estimation. Each party ahead is worth a quarter hour, larger
// parties are harder to seat, and estimates land on 5-minute marks with a
// 10-minute floor.
const (
	waitPerPartyAhead        = 15
	waitLargePartySurcharge  = 10
	waitMediumPartySurcharge = 5
	waitMinimum              = 10
)

// Walk-up wait estimate thresholds over projected occupancy, plus a flat
// bump during the evening rush.
const (
	peakStartHour    = 18
	peakEndHour      = 20
	peakExtraMinutes = 10
	lookaheadMinutes = 120
)

type Waitlist interface {
	Join(ctx context.Context, req dto.JoinWaitlistRequest) (dto.JoinWaitlistResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetWaitlistResponse, error)
	Queue(ctx context.Context) (dto.GetWaitlistResponse, error)
	Get(ctx context.Context, id string) (dto.WaitlistEntryResponse, error)
	Update(ctx context.Context, req dto.UpdateWaitlistRequest, id string) (dto.WaitlistEntryResponse, error)
	Remove(ctx context.Context, id string) error
	WaitTime(ctx context.Context) (dto.WaitTimeResponse, error)
}

type serviceImpl struct {
	repo         repository.Waitlist
	reservations resRepo.Reservation
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
	producer     kafka.Producer
}

func New(
	repo repository.Waitlist,
	reservations resRepo.Reservation,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	producer kafka.Producer,
) Waitlist {
	return &serviceImpl{
		repo:         repo,
		reservations: reservations,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
		producer:     producer,
	}
}

type waitlistEvent struct {
	Code          string `json:"code"`
	GuestName     string `json:"guest_name"`
	PartySize     int    `json:"party_size"`
	Status        string `json:"status"`
	Priority      int    `json:"priority"`
	EstimatedWait int    `json:"estimated_wait"`
}

// Join appends a party to the back of the queue. The estimated wait is
// derived from the queue length unless the host supplies an override.
func (s *serviceImpl) Join(ctx context.Context, req dto.JoinWaitlistRequest) (res dto.JoinWaitlistResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".waitlist.Join")
	defer scope.End()
	defer scope.TraceIfError(err)

	operator := shared.Operator(ctx)

	queue, err := s.repo.GetQueue(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load waitlist queue")

		return res, fmt.Errorf("failed to load waitlist queue: %w", err)
	}

	entry := req.ToModel(len(queue)+1, operator)

	if entry.EstimatedWait == 0 {
		entry.EstimatedWait = estimateWait(entry.PartySize, len(queue))
	}

	if err = s.repo.Insert(ctx, entry); err != nil {
		return res, err
	}

	s.publish(ctx, constant.TopicWaitlistJoined, entry)
	s.invalidate(ctx, entry.ID)

	res.Message = "Customer added to waitlist"
	res.Entry.FromModel(entry)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetWaitlistResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".waitlist.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllWaitlist, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for waitlist")

		return res, nil
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get waitlist entries")

		return res, fmt.Errorf("failed to get waitlist entries: %w", err)
	}

	res.FromModels(models)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save waitlist to cache")
		}
	}()

	return res, nil
}

// Queue returns the live queue in seating order.
func (s *serviceImpl) Queue(ctx context.Context) (res dto.GetWaitlistResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".waitlist.Queue")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheQueueWaitlist, "live")

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for waitlist queue")

		return res, nil
	}

	queue, err := s.repo.GetQueue(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load waitlist queue")

		return res, fmt.Errorf("failed to load waitlist queue: %w", err)
	}

	res.FromModels(queue)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save waitlist queue to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.WaitlistEntryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".waitlist.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetWaitlist, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for waitlist entry")

		return res, nil
	}

	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(entry)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save waitlist entry to cache")
		}
	}()

	return res, nil
}

// Update changes an entry's status, wait estimate, special requests or
// queue position. Moving to notified stamps the notification time so
// no-show grace can be measured from it.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateWaitlistRequest, id string) (res dto.WaitlistEntryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".waitlist.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	operator := shared.Operator(ctx)

	if req.Empty() {
		return res, failure.BadRequestFromString("at least one field must be provided for update") // nolint:wrapcheck
	}

	if req.Status != constant.Empty && !model.ValidStatus(req.Status) {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid status %s", req.Status)) // nolint:wrapcheck
	}

	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return res, err
	}

	fields := shared.TransformFields(req, operator)

	notified := req.Status == model.StatusNotified && entry.Status != model.StatusNotified
	if notified {
		notifiedAt := timezone.Now()
		fields[model.FieldNotifiedAt] = notifiedAt
		entry.NotifiedAt = &notifiedAt
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update waitlist entry")

		return res, fmt.Errorf("failed to update waitlist entry: %w", err)
	}

	if req.Status != constant.Empty {
		entry.Status = req.Status
	}

	if req.EstimatedWait != nil {
		entry.EstimatedWait = *req.EstimatedWait
	}

	if req.Priority != nil {
		entry.Priority = *req.Priority
	}

	if req.SpecialRequests != constant.Empty {
		entry.SpecialRequests = req.SpecialRequests
	}

	if notified {
		s.publish(ctx, constant.TopicWaitlistNotified, entry)
	}

	s.invalidate(ctx, id)

	res.FromModel(entry)

	return res, nil
}

// Remove takes a party out of the queue entirely, as opposed to cancelling
// it, which keeps the record.
func (s *serviceImpl) Remove(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".waitlist.Remove")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.getEntry(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to remove waitlist entry")

		return fmt.Errorf("failed to remove waitlist entry: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

// WaitTime estimates the current walk-up wait from how busy the next two
// hours look: the more of today's bookings land in that window relative to
// capacity, the longer the quote, with a flat bump during the dinner rush.
func (s *serviceImpl) WaitTime(ctx context.Context) (res dto.WaitTimeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".waitlist.WaitTime")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()
	today := now.Format(constant.DayFormat)

	active, err := s.reservations.GetActiveByDate(ctx, today)
	if err != nil {
		log.Error().Err(err).Msg("failed to load reservations for wait estimate")

		return res, fmt.Errorf("failed to load reservations: %w", err)
	}

	nowMinutes := now.Hour()*60 + now.Minute()

	upcoming := 0
	for _, reservation := range active {
		slot, err := timezone.Parse(constant.ClockFormat, reservation.Time)
		if err != nil {
			continue
		}

		diff := slot.Hour()*60 + slot.Minute() - nowMinutes
		if diff >= 0 && diff <= lookaheadMinutes {
			upcoming++
		}
	}

	occupancy := float64(upcoming) / float64(s.cfg.Restaurant.Capacity)

	waitMinutes := waitMinimum
	switch {
	case occupancy > 0.8:
		waitMinutes = 30
	case occupancy > 0.6:
		waitMinutes = 20
	case occupancy > 0.4:
		waitMinutes = 15
	}

	isPeak := now.Hour() >= peakStartHour && now.Hour() <= peakEndHour
	if isPeak {
		waitMinutes += peakExtraMinutes
	}

	res.EstimatedWaitMinutes = waitMinutes
	res.Message = fmt.Sprintf("Current estimated wait time is %d minutes", waitMinutes)
	res.IsPeakHour = isPeak
	res.OccupancyPercentage = int(occupancy*100 + 0.5)

	return res, nil
}

// estimateWait quotes a wait for a party joining at the given queue
// position.
func estimateWait(partySize, queuePosition int) int {
	wait := queuePosition * waitPerPartyAhead

	switch {
	case partySize >= 6:
		wait += waitLargePartySurcharge
	case partySize >= 4:
		wait += waitMediumPartySurcharge
	}

	wait = (wait + 4) / 5 * 5

	if wait < waitMinimum {
		wait = waitMinimum
	}

	return wait
}

func (s *serviceImpl) getEntry(ctx context.Context, id string) (model.WaitlistEntry, error) {
	entry, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get waitlist entry")

		return entry, fmt.Errorf("failed to get waitlist entry: %w", err)
	}

	if entry.ID == constant.Empty {
		return entry, failure.NotFound("waitlist entry not found") // nolint:wrapcheck
	}

	return entry, nil
}

func (s *serviceImpl) publish(ctx context.Context, topic string, entry model.WaitlistEntry) {
	go func() {
		c := context.WithoutCancel(ctx)

		err := s.producer.SendMessages(c, topic, kafka.Message{
			Key: entry.Code,
			Value: waitlistEvent{
				Code:          entry.Code,
				GuestName:     entry.GuestName,
				PartySize:     entry.PartySize,
				Status:        entry.Status,
				Priority:      entry.Priority,
				EstimatedWait: entry.EstimatedWait,
			},
		})
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("failed to publish waitlist event")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetWaitlist, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete waitlist entry cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllWaitlist)
		shared.InvalidateCaches(c, s.cache, cacheQueueWaitlist)
	}()
}
