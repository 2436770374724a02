package model

import (
	"time"

	"github.com/lib/pq"

	"maitred/shared/model"
)

const (
	TableName  = "service_records"
	EntityName = "service_record"

	FieldID               = "id"
	FieldType             = "record_type"
	FieldReservationID    = "reservation_id"
	FieldGuestName        = "guest_name"
	FieldGuestPhone       = "guest_phone"
	FieldPartySize        = "party_size"
	FieldTableIDs         = "table_ids"
	FieldSeatedAt         = "seated_at"
	FieldExpectedDuration = "expected_duration"
	FieldDepartedAt       = "departed_at"
	FieldStatus           = "status"
)

const (
	TypeReservation = "reservation"
	TypeWalkIn      = "walk_in"
	TypeWaitlist    = "waitlist"
)

// Service record lifecycle. Eating and paying are optional waypoints the
// floor staff may record; completion is valid from any of the three.
const (
	StatusSeated    = "seated"
	StatusEating    = "eating"
	StatusPaying    = "paying"
	StatusCompleted = "completed"
)

// ServiceRecord captures one party's visit from the moment they sit down:
// who they are, which tables they hold and for how long we expect to hold
// them.
type ServiceRecord struct {
	ID               string         `db:"id"`
	Type             string         `db:"record_type"`
	ReservationID    *string        `db:"reservation_id"`
	GuestName        string         `db:"guest_name"`
	GuestPhone       string         `db:"guest_phone"`
	PartySize        int            `db:"party_size"`
	TableIDs         pq.StringArray `db:"table_ids"`
	SeatedAt         time.Time      `db:"seated_at"`
	ExpectedDuration int            `db:"expected_duration"`
	DepartedAt       *time.Time     `db:"departed_at"`
	Status           string         `db:"status"`
	model.Metadata
}

// Open reports whether the party is still on the floor.
func (s ServiceRecord) Open() bool {
	return s.Status != StatusCompleted
}

// ExpectedDeparture projects when the tables come back.
func (s ServiceRecord) ExpectedDeparture() time.Time {
	return s.SeatedAt.Add(time.Duration(s.ExpectedDuration) * time.Minute)
}
