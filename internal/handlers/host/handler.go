package host

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"

	"maitred/infras/otel"
	"maitred/internal/domains/seating/model/dto"
	"maitred/internal/domains/seating/service"
	"maitred/shared"
	"maitred/shared/constant"
	"maitred/shared/validator"
	"maitred/transport/http/response"
)

// Handler is the host stand's surface: everything that happens between a
// party arriving and their tables coming back to the floor.
type Handler struct {
	service service.Seating
	otel    otel.Otel
}

func New(service service.Seating, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/host", func(routerGroup chi.Router) {
		routerGroup.Post("/check-in", handler.CheckIn)
		routerGroup.Get("/walk-in", handler.CheckWalkIn)
		routerGroup.Post("/seat", handler.SeatParty)
		routerGroup.Post("/complete/{id}", handler.CompleteService)
		routerGroup.Post("/clean", handler.MarkTablesClean)
		routerGroup.Get("/dashboard", handler.Dashboard)
	})
}

// CheckIn marks an arriving reservation as present.
// @Summary Check in a reservation
// @Description Mark a reservation as arrived and get ranked table suggestions for the party.
// @Tags Host
// @Accept json
// @Produce json
// @Param request body dto.CheckInRequest true "Check In Request"
// @Success 200 {object} dto.CheckInResponse "Check-in outcome with table suggestions"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/host/check-in [post]
func (handler *Handler) CheckIn(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckIn")
	defer scope.End()

	req := dto.CheckInRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.CheckIn(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check in reservation")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Reservation checked in by " + shared.Operator(ctx))

	response.WithJSON(writer, http.StatusOK, res)
}

// CheckWalkIn answers whether a walk-in party can be seated right now.
// @Summary Check walk-in capacity
// @Description Report whether a party of the given size can be seated immediately, without changing any state.
// @Tags Host
// @Accept json
// @Produce json
// @Param party_size query int true "Party size"
// @Param preferred_location query string false "Preferred location"
// @Success 200 {object} dto.CheckWalkInResponse "Walk-in verdict"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/host/walk-in [get]
func (handler *Handler) CheckWalkIn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckWalkIn")
	defer scope.End()

	partySize, _ := strconv.Atoi(r.URL.Query().Get("party_size"))

	req := dto.CheckWalkInRequest{
		PartySize:         partySize,
		PreferredLocation: r.URL.Query().Get("preferred_location"),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate walk-in query")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.CheckWalkIn(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check walk-in capacity")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Walk-in capacity checked successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// SeatParty commits a table assignment and opens a service record.
// @Summary Seat a party
// @Description Assign tables to a reservation, walk-in or waitlist party and open their service record.
// @Tags Host
// @Accept json
// @Produce json
// @Param request body dto.SeatPartyRequest true "Seat Party Request"
// @Success 201 {object} dto.SeatPartyResponse "Seating outcome"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/host/seat [post]
func (handler *Handler) SeatParty(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SeatParty")
	defer scope.End()

	req := dto.SeatPartyRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.SeatParty(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to seat party")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Party seated by " + shared.Operator(ctx))

	response.WithJSON(writer, http.StatusCreated, res)
}

// CompleteService closes a service record when the party leaves.
// @Summary Complete a service
// @Description Close a service record, send its tables to cleaning and complete any linked reservation.
// @Tags Host
// @Accept json
// @Produce json
// @Param id path string true "Service Record ID"
// @Success 200 {object} dto.CompleteServiceResponse "Completion outcome"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/host/complete/{id} [post]
func (handler *Handler) CompleteService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CompleteService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	res, err := handler.service.CompleteService(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete service")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service completed by " + shared.Operator(ctx))

	response.WithJSON(w, http.StatusOK, res)
}

// MarkTablesClean returns cleaned tables to the floor.
// @Summary Mark tables clean
// @Description Return tables from cleaning to available. Every listed table must currently be in cleaning.
// @Tags Host
// @Accept json
// @Produce json
// @Param request body dto.MarkTablesCleanRequest true "Mark Tables Clean Request"
// @Success 200 {object} dto.MarkTablesCleanResponse "Cleaning outcome"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/host/clean [post]
func (handler *Handler) MarkTablesClean(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkTablesClean")
	defer scope.End()

	req := dto.MarkTablesCleanRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.MarkTablesClean(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark tables clean")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Tables marked clean by " + shared.Operator(ctx))

	response.WithJSON(writer, http.StatusOK, res)
}

// Dashboard assembles the host-stand overview.
// @Summary Host dashboard
// @Description Floor summary overall and per location, active services and today's upcoming reservations.
// @Tags Host
// @Accept json
// @Produce json
// @Success 200 {object} dto.DashboardResponse "Dashboard snapshot"
// @Failure 500 {object} response.Error
// @Router /v1/host/dashboard [get]
func (handler *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Dashboard")
	defer scope.End()

	res, err := handler.service.Dashboard(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build dashboard")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Dashboard built successfully")

	response.WithJSON(w, http.StatusOK, res)
}
