package availability

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"

	"maitred/infras/otel"
	"maitred/internal/domains/availability/model/dto"
	"maitred/internal/domains/availability/service"
	"maitred/shared/constant"
	"maitred/shared/validator"
	"maitred/transport/http/response"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/availability", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.CheckAvailability)
	})
}

// CheckAvailability projects occupancy for a requested slot.
// @Summary Check slot availability
// @Description Report whether a party fits at the requested date and time; when it does not, nearby alternatives are offered.
// @Tags Availability
// @Accept json
// @Produce json
// @Param date query string true "Dining date (YYYY-MM-DD)"
// @Param time query string true "Dining time (HH:MM)"
// @Param party_size query int true "Party size"
// @Success 200 {object} dto.CheckAvailabilityResponse "Availability verdict"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability [get]
func (handler *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckAvailability")
	defer scope.End()

	partySize, _ := strconv.Atoi(r.URL.Query().Get("party_size"))

	req := dto.CheckAvailabilityRequest{
		Date:      r.URL.Query().Get("date"),
		Time:      r.URL.Query().Get("time"),
		PartySize: partySize,
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate availability query")

		response.WithError(w, err)

		return
	}

	verdict, err := handler.service.Check(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability checked successfully")

	response.WithJSON(w, http.StatusOK, verdict)
}
