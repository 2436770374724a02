package dto

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"maitred/internal/domains/waitlist/model"
	"maitred/shared/constant"
	gDto "maitred/shared/dto"
	gModel "maitred/shared/model"
	"maitred/shared/timezone"
)

type JoinWaitlistRequest struct {
	GuestName       string `json:"guest_name"       validate:"required,max=100"`
	GuestPhone      string `json:"guest_phone"      validate:"required,max=30"`
	GuestEmail      string `json:"guest_email"      validate:"omitempty,email,max=100"`
	PartySize       int    `json:"party_size"       validate:"required,min=1,max=20"`
	SpecialRequests string `json:"special_requests" validate:"omitempty,max=500"`
	EstimatedWait   int    `json:"estimated_wait"   validate:"omitempty,min=1"`
}

// ToModel places the request at the given queue position. The estimated
// wait is taken from the request when the host overrides it, otherwise it
// stays zero for the service to fill in.
func (j *JoinWaitlistRequest) ToModel(priority int, operator string) model.WaitlistEntry {
	return model.WaitlistEntry{
		ID:              uuid.NewString(),
		Code:            NewCode(timezone.Now()),
		GuestName:       j.GuestName,
		GuestPhone:      j.GuestPhone,
		GuestEmail:      j.GuestEmail,
		PartySize:       j.PartySize,
		EstimatedWait:   j.EstimatedWait,
		Status:          model.StatusWaiting,
		Priority:        priority,
		SpecialRequests: j.SpecialRequests,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  operator,
			ModifiedBy: operator,
		},
	}
}

// NewCode builds a readable waitlist code, e.g. WAIT-20260901-0042, in the
// same shape as reservation confirmation codes.
func NewCode(now time.Time) string {
	return fmt.Sprintf("WAIT-%s-%04d", now.Format(constant.ReservationDay), rand.IntN(10000))
}

type UpdateWaitlistRequest struct {
	Status          string `db:"status"           json:"status"           validate:"omitempty,max=20"`
	EstimatedWait   *int   `db:"estimated_wait"   json:"estimated_wait"   validate:"omitempty,min=1"`
	Priority        *int   `db:"priority"         json:"priority"         validate:"omitempty,min=1"`
	SpecialRequests string `db:"special_requests" json:"special_requests" validate:"omitempty,max=500"`
}

// Empty reports whether the update carries no field at all.
func (u UpdateWaitlistRequest) Empty() bool {
	return u.Status == constant.Empty &&
		u.EstimatedWait == nil &&
		u.Priority == nil &&
		u.SpecialRequests == constant.Empty
}

type WaitlistEntryResponse struct {
	ID              string     `json:"id"`
	Code            string     `json:"code"`
	GuestName       string     `json:"guest_name"`
	GuestPhone      string     `json:"guest_phone"`
	GuestEmail      string     `json:"guest_email,omitempty"`
	PartySize       int        `json:"party_size"`
	EstimatedWait   int        `json:"estimated_wait"`
	Status          string     `json:"status"`
	Priority        int        `json:"priority"`
	SpecialRequests string     `json:"special_requests,omitempty"`
	NotifiedAt      *time.Time `json:"notified_at,omitempty"`
	gDto.Metadata
}

func (w *WaitlistEntryResponse) FromModel(model model.WaitlistEntry) {
	w.ID = model.ID
	w.Code = model.Code
	w.GuestName = model.GuestName
	w.GuestPhone = model.GuestPhone
	w.GuestEmail = model.GuestEmail
	w.PartySize = model.PartySize
	w.EstimatedWait = model.EstimatedWait
	w.Status = model.Status
	w.Priority = model.Priority
	w.SpecialRequests = model.SpecialRequests
	w.NotifiedAt = model.NotifiedAt
	w.Metadata.FromModel(model.Metadata)
}

type JoinWaitlistResponse struct {
	Message string                `json:"message"`
	Entry   WaitlistEntryResponse `json:"waitlist_entry"`
}

type GetWaitlistResponse struct {
	Count   int                     `json:"count"`
	Entries []WaitlistEntryResponse `json:"waitlist"`
}

func (g *GetWaitlistResponse) FromModels(models []model.WaitlistEntry) {
	g.Count = len(models)

	g.Entries = make([]WaitlistEntryResponse, len(models))
	for i, mod := range models {
		g.Entries[i].FromModel(mod)
	}
}

type WaitTimeResponse struct {
	EstimatedWaitMinutes int    `json:"estimated_wait_minutes"`
	Message              string `json:"message"`
	IsPeakHour           bool   `json:"is_peak_hour"`
	OccupancyPercentage  int    `json:"occupancy_percentage"`
}
