package waitlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"

	"maitred/infras/otel"
	"maitred/internal/domains/waitlist/model"
	"maitred/internal/domains/waitlist/model/dto"
	"maitred/internal/domains/waitlist/service"
	"maitred/shared"
	"maitred/shared/constant"
	gDto "maitred/shared/dto"
	"maitred/shared/validator"
	"maitred/transport/http/response"
)

type Handler struct {
	service service.Waitlist
	otel    otel.Otel
}

func New(service service.Waitlist, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/waitlist", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.JoinWaitlist)
		routerGroup.Get("/", handler.GetWaitlist)
		routerGroup.Get("/wait-time", handler.GetWaitTime)
		routerGroup.Get("/{id}", handler.GetWaitlistEntryByID)
		routerGroup.Patch("/{id}", handler.UpdateWaitlistEntry)
		routerGroup.Delete("/{id}", handler.RemoveWaitlistEntry)
	})
}

// JoinWaitlist adds a walk-up party to the back of the queue.
// @Summary Join the waitlist
// @Description Add a party to the waitlist. The estimated wait is derived from the current queue length unless overridden.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param request body dto.JoinWaitlistRequest true "Join Waitlist Request"
// @Success 201 {object} dto.JoinWaitlistResponse "Waitlist entry"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/waitlist [post]
func (handler *Handler) JoinWaitlist(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".JoinWaitlist")
	defer scope.End()

	req := dto.JoinWaitlistRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Join(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to join waitlist")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Waitlist joined successfully by " + shared.Operator(ctx))

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetWaitlist retrieves waitlist entries.
// @Summary Get the waitlist
// @Description List waitlist entries. With active=true only the live queue (waiting and notified) is returned, in seating order.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param status query string false "Filter by status"
// @Param active query bool false "Only the live queue"
// @Success 200 {object} dto.GetWaitlistResponse "Waitlist entries"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/waitlist [get]
func (handler *Handler) GetWaitlist(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWaitlist")
	defer scope.End()

	if active := shared.ConvertStringToBool(r.URL.Query().Get("active")); active != nil && *active {
		queue, err := handler.service.Queue(ctx)
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to get waitlist queue")

			response.WithError(w, err)

			return
		}

		scope.AddEvent("Waitlist queue retrieved successfully")

		response.WithJSON(w, http.StatusOK, queue)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
	}

	if status := r.URL.Query().Get(model.FieldStatus); status != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	waitlist, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get waitlist")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Waitlist retrieved successfully")

	response.WithJSON(w, http.StatusOK, waitlist)
}

// GetWaitTime quotes the current walk-up wait.
// @Summary Get the current wait estimate
// @Description Estimate the walk-up wait from how many of today's bookings land in the next two hours.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Success 200 {object} dto.WaitTimeResponse "Wait estimate"
// @Failure 500 {object} response.Error
// @Router /v1/waitlist/wait-time [get]
func (handler *Handler) GetWaitTime(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWaitTime")
	defer scope.End()

	res, err := handler.service.WaitTime(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to estimate wait time")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Wait time estimated successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetWaitlistEntryByID retrieves a single waitlist entry.
// @Summary Get a waitlist entry by ID
// @Description Retrieve a waitlist entry by its unique identifier.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param id path string true "Waitlist entry ID"
// @Success 200 {object} dto.WaitlistEntryResponse "Waitlist entry"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/waitlist/{id} [get]
func (handler *Handler) GetWaitlistEntryByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetWaitlistEntryByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	entry, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get waitlist entry")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Waitlist entry retrieved successfully")

	response.WithJSON(w, http.StatusOK, entry)
}

// UpdateWaitlistEntry changes an entry's status, wait estimate or queue
// position.
// @Summary Update a waitlist entry by ID
// @Description Change a waitlist entry. Moving it to notified stamps the notification time.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param id path string true "Waitlist entry ID"
// @Param request body dto.UpdateWaitlistRequest true "Update Waitlist Request"
// @Success 200 {object} dto.WaitlistEntryResponse "Updated waitlist entry"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/waitlist/{id} [patch]
func (handler *Handler) UpdateWaitlistEntry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateWaitlistEntry")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateWaitlistRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	entry, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update waitlist entry")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Waitlist entry updated successfully by " + shared.Operator(ctx))

	response.WithJSON(w, http.StatusOK, entry)
}

// RemoveWaitlistEntry takes a party off the waitlist.
// @Summary Remove a waitlist entry by ID
// @Description Remove a party from the waitlist entirely.
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param id path string true "Waitlist entry ID"
// @Success 200 {object} response.Message "Waitlist entry removed successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/waitlist/{id} [delete]
func (handler *Handler) RemoveWaitlistEntry(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RemoveWaitlistEntry")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Remove(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to remove waitlist entry")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Waitlist entry removed successfully by " + shared.Operator(ctx))

	response.WithMessage(w, http.StatusOK, "Customer removed from waitlist")
}
