package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"maitred/config"
	"maitred/infras/kafka"
	"maitred/infras/otel"
	"maitred/internal/domains/availability/calc"
	resModel "maitred/internal/domains/reservation/model"
	resRepo "maitred/internal/domains/reservation/repository"
	"maitred/internal/domains/seating/assign"
	"maitred/internal/domains/seating/model"
	"maitred/internal/domains/seating/model/dto"
	"maitred/internal/domains/seating/repository"
	tableModel "maitred/internal/domains/table/model"
	tableRepo "maitred/internal/domains/table/repository"
	tableService "maitred/internal/domains/table/service"
	"maitred/shared"
	"maitred/shared/constant"
	"maitred/shared/failure"
	gModel "maitred/shared/model"
	"maitred/shared/timezone"
)

// Seating runs the host stand: checking parties in, matching them to
// tables, and walking tables through the occupied/cleaning cycle.
type Seating interface {
	CheckIn(ctx context.Context, req dto.CheckInRequest) (dto.CheckInResponse, error)
	CheckWalkIn(ctx context.Context, req dto.CheckWalkInRequest) (dto.CheckWalkInResponse, error)
	SeatParty(ctx context.Context, req dto.SeatPartyRequest) (dto.SeatPartyResponse, error)
	CompleteService(ctx context.Context, recordID string) (dto.CompleteServiceResponse, error)
	MarkTablesClean(ctx context.Context, req dto.MarkTablesCleanRequest) (dto.MarkTablesCleanResponse, error)
	Dashboard(ctx context.Context) (dto.DashboardResponse, error)
}

type serviceImpl struct {
	records      repository.ServiceRecord
	reservations resRepo.Reservation
	tables       tableRepo.Table
	floor        tableService.Table
	cfg          *config.Config
	otel         otel.Otel
	producer     kafka.Producer
}

func New(
	records repository.ServiceRecord,
	reservations resRepo.Reservation,
	tables tableRepo.Table,
	floor tableService.Table,
	cfg *config.Config,
	otel otel.Otel,
	producer kafka.Producer,
) Seating {
	return &serviceImpl{
		records:      records,
		reservations: reservations,
		tables:       tables,
		floor:        floor,
		cfg:          cfg,
		otel:         otel,
		producer:     producer,
	}
}

type seatingEvent struct {
	ServiceRecordID string   `json:"service_record_id"`
	GuestName       string   `json:"guest_name"`
	PartySize       int      `json:"party_size"`
	TableIDs        []string `json:"table_ids"`
	Status          string   `json:"status"`
}

// CheckIn marks an arriving reservation as present and hands the host
// ranked table suggestions. The reservation must still be live: cancelled,
// no-show and already-seated bookings are rejected with the specific
// reason.
func (s *serviceImpl) CheckIn(ctx context.Context, req dto.CheckInRequest) (res dto.CheckInResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".seating.CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	operator := shared.Operator(ctx)

	reservation, err := s.getReservationByCode(ctx, req.Code)
	if err != nil {
		return res, err
	}

	switch reservation.Status {
	case resModel.StatusCancelled:
		return res, failure.BadRequestFromString("this reservation was cancelled") // nolint:wrapcheck
	case resModel.StatusNoShow:
		return res, failure.BadRequestFromString("this reservation was marked as a no-show") // nolint:wrapcheck
	case resModel.StatusSeated, resModel.StatusCompleted:
		return res, failure.BadRequestFromString("this reservation has already been checked in") // nolint:wrapcheck
	}

	checkInTime := timezone.Now()

	fields := map[string]any{resModel.FieldCheckedInAt: checkInTime}
	fields[constant.FieldModifiedBy] = operator

	if err = s.reservations.Update(ctx, fields, shared.FilterByID(reservation.ID, resModel.FieldID, resModel.TableName)); err != nil {
		log.Error().Err(err).Str("code", req.Code).Msg("failed to record check-in")

		return res, fmt.Errorf("failed to record check-in: %w", err)
	}

	available, err := s.availableTables(ctx)
	if err != nil {
		return res, err
	}

	res.Reservation = dto.CheckedInReservation{
		Code:              reservation.Code,
		GuestName:         reservation.GuestName,
		PartySize:         reservation.PartySize,
		CheckedInAt:       &checkInTime,
		SpecialRequests:   reservation.SpecialRequests,
		PreferredLocation: reservation.PreferredLocation,
	}
	res.AllOptions = []dto.OptionResponse{}

	if len(available) == 0 {
		res.Message = fmt.Sprintf("Checked in %s, but no tables currently available", reservation.GuestName)

		return res, nil
	}

	res.Message = fmt.Sprintf("Successfully checked in %s", reservation.GuestName)
	res.Recommendation = dto.RecommendationFromResult(assign.Assign(reservation.PartySize, available, reservation.PreferredLocation))
	res.AllOptions = dto.OptionsFromAssign(assign.AllOptions(reservation.PartySize, available, reservation.PreferredLocation))

	return res, nil
}

// CheckWalkIn answers "can we take a party of N right now" without touching
// any state.
func (s *serviceImpl) CheckWalkIn(ctx context.Context, req dto.CheckWalkInRequest) (res dto.CheckWalkInResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".seating.CheckWalkIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	available, err := s.availableTables(ctx)
	if err != nil {
		return res, err
	}

	res.AllOptions = []dto.OptionResponse{}

	if len(available) == 0 {
		res.Message = "No tables currently available"

		return res, nil
	}

	recommendation := assign.Assign(req.PartySize, available, req.PreferredLocation)

	if !recommendation.Success {
		largest := 0
		for _, t := range available {
			if t.Capacity > largest {
				largest = t.Capacity
			}
		}

		res.Message = fmt.Sprintf("Cannot accommodate party of %d with available tables", req.PartySize)
		res.AvailableTablesCount = len(available)
		res.LargestAvailableCapacity = largest

		return res, nil
	}

	res.CanSeat = true
	res.Message = fmt.Sprintf("Can seat party of %d immediately", req.PartySize)
	res.PartySize = req.PartySize
	res.Recommendation = dto.RecommendationFromResult(recommendation)
	res.AllOptions = dto.OptionsFromAssign(assign.AllOptions(req.PartySize, available, req.PreferredLocation))

	return res, nil
}

// SeatParty commits a table assignment: validates the picked tables, flips
// them to occupied, opens a service record and, for reservations, moves the
// booking to seated. The occupied flip is conditional on the tables still
// being available, so two hosts racing for the same table cannot both win.
func (s *serviceImpl) SeatParty(ctx context.Context, req dto.SeatPartyRequest) (res dto.SeatPartyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".seating.SeatParty")
	defer scope.End()
	defer scope.TraceIfError(err)

	operator := shared.Operator(ctx)

	recordType := req.Type
	if recordType == constant.Empty {
		recordType = model.TypeWalkIn
	}

	guestName := req.GuestName
	guestPhone := req.GuestPhone

	var reservation *resModel.Reservation

	if req.ReservationCode != constant.Empty {
		found, err := s.getReservationByCode(ctx, req.ReservationCode)
		if err != nil {
			return res, err
		}

		if found.CheckedInAt == nil {
			return res, failure.BadRequestFromString("reservation must be checked in first") // nolint:wrapcheck
		}

		if found.Status == resModel.StatusSeated {
			return res, failure.BadRequestFromString("this party is already seated") // nolint:wrapcheck
		}

		reservation = &found
		recordType = model.TypeReservation
		guestName = found.GuestName
		guestPhone = found.GuestPhone
	} else if guestName == constant.Empty || guestPhone == constant.Empty {
		return res, failure.BadRequestFromString("guest_name and guest_phone are required for walk-ins and waitlist") // nolint:wrapcheck
	}

	tables, err := s.tables.GetByIDs(ctx, req.TableIDs)
	if err != nil {
		log.Error().Err(err).Msg("failed to load tables for seating")

		return res, fmt.Errorf("failed to load tables: %w", err)
	}

	if len(tables) != len(req.TableIDs) {
		return res, failure.NotFound("one or more tables") // nolint:wrapcheck
	}

	if validation := assign.Validate(tables, req.PartySize); !validation.Valid {
		return res, failure.BadRequestFromString(validation.Reason) // nolint:wrapcheck
	}

	if err = s.tables.CommitAssignment(ctx, req.TableIDs, operator); err != nil {
		log.Error().Err(err).Msg("table assignment rejected")

		return res, failure.Conflict("one or more tables were taken by another party") // nolint:wrapcheck
	}

	record := model.ServiceRecord{
		ID:               uuid.NewString(),
		Type:             recordType,
		GuestName:        guestName,
		GuestPhone:       guestPhone,
		PartySize:        req.PartySize,
		TableIDs:         req.TableIDs,
		SeatedAt:         timezone.Now(),
		ExpectedDuration: calc.SeatingDuration(req.PartySize),
		Status:           model.StatusSeated,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  operator,
			ModifiedBy: operator,
		},
	}

	if reservation != nil {
		record.ReservationID = &reservation.ID
	}

	if err = s.records.Insert(ctx, record); err != nil {
		// Hand the tables back so a failed insert does not strand them.
		if _, revertErr := s.tables.SetStatus(ctx, req.TableIDs, tableModel.StatusOccupied, tableModel.StatusAvailable, operator); revertErr != nil {
			log.Error().Err(revertErr).Msg("failed to revert table assignment")
		}

		return res, err
	}

	if reservation != nil {
		fields := map[string]any{
			resModel.FieldStatus:           resModel.StatusSeated,
			resModel.FieldAssignedTableIDs: pq.StringArray(req.TableIDs),
		}
		fields[constant.FieldModifiedBy] = operator

		if err := s.reservations.Update(ctx, fields, shared.FilterByID(reservation.ID, resModel.FieldID, resModel.TableName)); err != nil {
			log.Error().Err(err).Str("code", reservation.Code).Msg("failed to mark reservation as seated")
		}
	}

	s.floor.InvalidateFloor(ctx)
	s.publish(ctx, constant.TopicPartySeated, record)

	res.Message = fmt.Sprintf("Seated %s, party of %d", guestName, req.PartySize)
	res.ServiceRecord.FromModel(record)
	res.Tables = tableSummaries(tables, tableModel.StatusOccupied)

	return res, nil
}

// CompleteService closes a service record when the party leaves and sends
// its tables to cleaning. A linked reservation is marked completed.
func (s *serviceImpl) CompleteService(ctx context.Context, recordID string) (res dto.CompleteServiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".seating.CompleteService")
	defer scope.End()
	defer scope.TraceIfError(err)

	operator := shared.Operator(ctx)
	filter := shared.FilterByID(recordID, model.FieldID, model.TableName)

	record, err := s.records.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get service record")

		return res, fmt.Errorf("failed to get service record: %w", err)
	}

	if record.ID == constant.Empty {
		return res, failure.NotFound("service record not found") // nolint:wrapcheck
	}

	if record.Status == model.StatusCompleted {
		return res, failure.BadRequestFromString("this service is already completed") // nolint:wrapcheck
	}

	departedAt := timezone.Now()

	fields := map[string]any{
		model.FieldStatus:     model.StatusCompleted,
		model.FieldDepartedAt: departedAt,
	}
	fields[constant.FieldModifiedBy] = operator

	if err = s.records.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to complete service record")

		return res, fmt.Errorf("failed to complete service record: %w", err)
	}

	record.Status = model.StatusCompleted
	record.DepartedAt = &departedAt

	if _, err := s.tables.SetStatus(ctx, record.TableIDs, tableModel.StatusOccupied, tableModel.StatusBeingCleaned, operator); err != nil {
		log.Error().Err(err).Msg("failed to send tables to cleaning")
	}

	if record.ReservationID != nil {
		resFields := map[string]any{resModel.FieldStatus: resModel.StatusCompleted}
		resFields[constant.FieldModifiedBy] = operator

		if err := s.reservations.Update(ctx, resFields, shared.FilterByID(*record.ReservationID, resModel.FieldID, resModel.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to mark reservation as completed")
		}
	}

	s.floor.InvalidateFloor(ctx)
	s.publish(ctx, constant.TopicServiceCompleted, record)

	tables, err := s.tables.GetByIDs(ctx, record.TableIDs)
	if err != nil {
		log.Error().Err(err).Msg("failed to load tables for cleaning summary")

		tables = nil
	}

	res.Message = fmt.Sprintf("Service completed for %s", record.GuestName)
	res.ServiceRecord.FromModel(record)
	res.TablesToClean = tableSummaries(tables, tableModel.StatusBeingCleaned)

	return res, nil
}

// MarkTablesClean returns cleaned tables to the floor. Every listed table
// must actually be in cleaning; a partial list is rejected whole so the
// host's view and the floor never diverge silently.
func (s *serviceImpl) MarkTablesClean(ctx context.Context, req dto.MarkTablesCleanRequest) (res dto.MarkTablesCleanResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".seating.MarkTablesClean")
	defer scope.End()
	defer scope.TraceIfError(err)

	operator := shared.Operator(ctx)

	tables, err := s.tables.GetByIDs(ctx, req.TableIDs)
	if err != nil {
		log.Error().Err(err).Msg("failed to load tables")

		return res, fmt.Errorf("failed to load tables: %w", err)
	}

	if len(tables) != len(req.TableIDs) {
		return res, failure.NotFound("one or more tables") // nolint:wrapcheck
	}

	var notCleaning []string
	for _, t := range tables {
		if t.Status != tableModel.StatusBeingCleaned {
			notCleaning = append(notCleaning, t.Number)
		}
	}

	if len(notCleaning) > 0 {
		return res, failure.BadRequestFromString(fmt.Sprintf("tables must be in being_cleaned status, invalid: %v", notCleaning)) // nolint:wrapcheck
	}

	if _, err = s.tables.SetStatus(ctx, req.TableIDs, tableModel.StatusBeingCleaned, tableModel.StatusAvailable, operator); err != nil {
		log.Error().Err(err).Msg("failed to mark tables clean")

		return res, fmt.Errorf("failed to mark tables clean: %w", err)
	}

	s.floor.InvalidateFloor(ctx)

	res.Message = fmt.Sprintf("%d table(s) marked as available", len(tables))
	res.Tables = tableSummaries(tables, tableModel.StatusAvailable)

	return res, nil
}

// Dashboard assembles the host-stand overview: floor counts overall and per
// location, every open service record and how many reservations are still
// expected today.
func (s *serviceImpl) Dashboard(ctx context.Context) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".seating.Dashboard")
	defer scope.End()
	defer scope.TraceIfError(err)

	floor, err := s.floor.GetFloor(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to load floor: %w", err)
	}

	open, err := s.records.GetOpen(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to load open service records: %w", err)
	}

	today := timezone.Now().Format(constant.DayFormat)

	active, err := s.reservations.GetActiveByDate(ctx, today)
	if err != nil {
		return res, fmt.Errorf("failed to load today's reservations: %w", err)
	}

	res.Locations = map[string]dto.FloorSummary{}

	for _, t := range floor {
		res.Summary.Count(t.Status)

		location := res.Locations[t.Location]
		location.Count(t.Status)
		res.Locations[t.Location] = location
	}

	res.ActiveServices = make([]dto.ServiceRecordResponse, len(open))
	for i, record := range open {
		res.ActiveServices[i].FromModel(record)
	}

	for _, reservation := range active {
		if reservation.Status == resModel.StatusConfirmed {
			res.UpcomingReservations++
		}
	}

	res.Tables = tableSummaries(floor, constant.Empty)

	return res, nil
}

func (s *serviceImpl) getReservationByCode(ctx context.Context, code string) (resModel.Reservation, error) {
	filter := shared.FilterByID(code, resModel.FieldCode, resModel.TableName)

	reservation, err := s.reservations.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound(fmt.Sprintf("reservation %s", code)) // nolint:wrapcheck
	}

	return reservation, nil
}

// availableTables narrows the floor to what a party can be seated at right
// now.
func (s *serviceImpl) availableTables(ctx context.Context) ([]tableModel.Table, error) {
	floor, err := s.floor.GetFloor(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load floor")

		return nil, fmt.Errorf("failed to load floor: %w", err)
	}

	available := []tableModel.Table{}
	for _, t := range floor {
		if t.Status == tableModel.StatusAvailable && t.Active {
			available = append(available, t)
		}
	}

	return available, nil
}

func (s *serviceImpl) publish(ctx context.Context, topic string, record model.ServiceRecord) {
	go func() {
		c := context.WithoutCancel(ctx)

		err := s.producer.SendMessages(c, topic, kafka.Message{
			Key: record.ID,
			Value: seatingEvent{
				ServiceRecordID: record.ID,
				GuestName:       record.GuestName,
				PartySize:       record.PartySize,
				TableIDs:        record.TableIDs,
				Status:          record.Status,
			},
		})
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("failed to publish seating event")
		}
	}()
}

func tableSummaries(tables []tableModel.Table, statusOverride string) []dto.TableSummary {
	summaries := make([]dto.TableSummary, len(tables))
	for i, t := range tables {
		status := t.Status
		if statusOverride != constant.Empty {
			status = statusOverride
		}

		summaries[i] = dto.TableSummary{
			ID:       t.ID,
			Number:   t.Number,
			Capacity: t.Capacity,
			Location: t.Location,
			Status:   status,
		}
	}

	return summaries
}
