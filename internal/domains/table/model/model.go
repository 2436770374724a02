package model

import "maitred/shared/model"

const (
	TableName  = "tables"
	EntityName = "table"

	FieldID       = "id"
	FieldNumber   = "table_number"
	FieldCapacity = "capacity"
	FieldLocation = "location"
	FieldStatus   = "status"
	FieldActive   = "active"
)

// Table lifecycle. Reserved is set by the reservation flow ahead of an
// arrival; the dining-room cycle is available -> occupied -> being_cleaned
// -> available.
const (
	StatusAvailable    = "available"
	StatusOccupied     = "occupied"
	StatusReserved     = "reserved"
	StatusBeingCleaned = "being_cleaned"
)

type Table struct {
	ID       string `db:"id"`
	Number   string `db:"table_number"`
	Capacity int    `db:"capacity"`
	Location string `db:"location"`
	Status   string `db:"status"`
	Active   bool   `db:"active"`
	model.Metadata
}
