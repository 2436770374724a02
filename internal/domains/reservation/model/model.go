package model

import (
	"time"

	"github.com/lib/pq"

	"maitred/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID                = "id"
	FieldCode              = "code"
	FieldGuestName         = "guest_name"
	FieldGuestPhone        = "guest_phone"
	FieldGuestEmail        = "guest_email"
	FieldPartySize         = "party_size"
	FieldDate              = "reservation_date"
	FieldTime              = "reservation_time"
	FieldStatus            = "status"
	FieldSpecialRequests   = "special_requests"
	FieldPreferredLocation = "preferred_location"
	FieldCheckedInAt       = "checked_in_at"
	FieldAssignedTableIDs  = "assigned_table_ids"
)

// Reservation lifecycle. A confirmed booking either gets seated or decays
// to cancelled/no_show; seated bookings finish as completed.
const (
	StatusConfirmed = "confirmed"
	StatusSeated    = "seated"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

type Reservation struct {
	ID                string         `db:"id"`
	Code              string         `db:"code"`
	GuestName         string         `db:"guest_name"`
	GuestPhone        string         `db:"guest_phone"`
	GuestEmail        string         `db:"guest_email"`
	PartySize         int            `db:"party_size"`
	Date              string         `db:"reservation_date"`
	Time              string         `db:"reservation_time"`
	Status            string         `db:"status"`
	SpecialRequests   string         `db:"special_requests"`
	PreferredLocation string         `db:"preferred_location"`
	CheckedInAt       *time.Time     `db:"checked_in_at"`
	AssignedTableIDs  pq.StringArray `db:"assigned_table_ids"`
	model.Metadata
}

// Active reports whether the reservation still claims seats for its slot.
func (r Reservation) Active() bool {
	return r.Status == StatusConfirmed || r.Status == StatusSeated
}
