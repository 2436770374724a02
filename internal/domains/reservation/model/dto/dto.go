package dto

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"maitred/internal/domains/availability/calc"
	"maitred/internal/domains/reservation/model"
	"maitred/shared"
	"maitred/shared/constant"
	gDto "maitred/shared/dto"
	gModel "maitred/shared/model"
	"maitred/shared/timezone"
)

type CreateReservationRequest struct {
	Date              string `json:"date"               validate:"required,day"`
	Time              string `json:"time"               validate:"required,hhmm"`
	PartySize         int    `json:"party_size"         validate:"required,min=1"`
	GuestName         string `json:"guest_name"         validate:"required,max=100"`
	GuestPhone        string `json:"guest_phone"        validate:"required,max=30"`
	GuestEmail        string `json:"guest_email"        validate:"omitempty,email,max=100"`
	SpecialRequests   string `json:"special_requests"   validate:"omitempty,max=500"`
	PreferredLocation string `json:"preferred_location" validate:"omitempty,max=100"`
}

func (c *CreateReservationRequest) ToModel(operator string) model.Reservation {
	return model.Reservation{
		ID:                uuid.NewString(),
		Code:              NewCode(timezone.Now()),
		GuestName:         c.GuestName,
		GuestPhone:        c.GuestPhone,
		GuestEmail:        c.GuestEmail,
		PartySize:         c.PartySize,
		Date:              c.Date,
		Time:              c.Time,
		Status:            model.StatusConfirmed,
		SpecialRequests:   c.SpecialRequests,
		PreferredLocation: c.PreferredLocation,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  operator,
			ModifiedBy: operator,
		},
	}
}

// NewCode builds a human-readable confirmation code, e.g. RES-20260901-0042.
// The date part is the booking date, not the dining date, so phone staff can
// read the vintage of a code at a glance.
func NewCode(now time.Time) string {
	return fmt.Sprintf("RES-%s-%04d", now.Format(constant.ReservationDay), rand.IntN(10000))
}

type UpdateReservationRequest struct {
	Date              string `db:"reservation_date"   json:"date"               validate:"omitempty,day"`
	Time              string `db:"reservation_time"   json:"time"               validate:"omitempty,hhmm"`
	PartySize         *int   `db:"party_size"         json:"party_size"         validate:"omitempty,min=1"`
	SpecialRequests   string `db:"special_requests"   json:"special_requests"   validate:"omitempty,max=500"`
	PreferredLocation string `db:"preferred_location" json:"preferred_location" validate:"omitempty,max=100"`
}

type LookupReservationRequest struct {
	Code       string `json:"code"        validate:"omitempty,max=30"`
	GuestPhone string `json:"guest_phone" validate:"omitempty,max=30"`
	GuestName  string `json:"guest_name"  validate:"omitempty,max=100"`
}

type ReservationResponse struct {
	ID                string     `json:"id"`
	Code              string     `json:"code"`
	GuestName         string     `json:"guest_name"`
	GuestPhone        string     `json:"guest_phone"`
	GuestEmail        string     `json:"guest_email,omitempty"`
	PartySize         int        `json:"party_size"`
	Date              string     `json:"date"`
	Time              string     `json:"time"`
	Status            string     `json:"status"`
	SpecialRequests   string     `json:"special_requests,omitempty"`
	PreferredLocation string     `json:"preferred_location,omitempty"`
	CheckedInAt       *time.Time `json:"checked_in_at,omitempty"`
	AssignedTableIDs  []string   `json:"assigned_table_ids,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.Code = model.Code
	r.GuestName = model.GuestName
	r.GuestPhone = model.GuestPhone
	r.GuestEmail = model.GuestEmail
	r.PartySize = model.PartySize
	r.Date = model.Date
	r.Time = model.Time
	r.Status = model.Status
	r.SpecialRequests = model.SpecialRequests
	r.PreferredLocation = model.PreferredLocation
	r.CheckedInAt = model.CheckedInAt
	r.AssignedTableIDs = model.AssignedTableIDs
	r.Metadata.FromModel(model.Metadata)
}

type CreateReservationResponse struct {
	Available   bool                 `json:"available"`
	Message     string               `json:"message"`
	Reservation *ReservationResponse `json:"reservation,omitempty"`
	Suggestions []calc.Suggestion    `json:"suggestions,omitempty"`
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}
