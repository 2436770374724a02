package model

import (
	"time"

	"maitred/shared/model"
)

const (
	TableName  = "waitlist_entries"
	EntityName = "waitlist_entry"

	FieldID              = "id"
	FieldCode            = "code"
	FieldGuestName       = "guest_name"
	FieldGuestPhone      = "guest_phone"
	FieldGuestEmail      = "guest_email"
	FieldPartySize       = "party_size"
	FieldEstimatedWait   = "estimated_wait"
	FieldStatus          = "status"
	FieldPriority        = "priority"
	FieldSpecialRequests = "special_requests"
	FieldNotifiedAt      = "notified_at"
)

// Waitlist lifecycle. A waiting party is notified when a table frees up,
// then either gets seated or decays to cancelled/no_show. Waiting and
// notified entries together form the live queue.
const (
	StatusWaiting   = "waiting"
	StatusNotified  = "notified"
	StatusSeated    = "seated"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

type WaitlistEntry struct {
	ID              string     `db:"id"`
	Code            string     `db:"code"`
	GuestName       string     `db:"guest_name"`
	GuestPhone      string     `db:"guest_phone"`
	GuestEmail      string     `db:"guest_email"`
	PartySize       int        `db:"party_size"`
	EstimatedWait   int        `db:"estimated_wait"`
	Status          string     `db:"status"`
	Priority        int        `db:"priority"`
	SpecialRequests string     `db:"special_requests"`
	NotifiedAt      *time.Time `db:"notified_at"`
	model.Metadata
}

// Queued reports whether the entry still holds a place in line.
func (w WaitlistEntry) Queued() bool {
	return w.Status == StatusWaiting || w.Status == StatusNotified
}

// ValidStatus reports whether a requested status transition target is one
// of the known lifecycle states.
func ValidStatus(status string) bool {
	switch status {
	case StatusWaiting, StatusNotified, StatusSeated, StatusCancelled, StatusNoShow:
		return true
	}

	return false
}
