package dto

import (
	"time"

	"maitred/internal/domains/seating/assign"
	"maitred/internal/domains/seating/model"
	tableModel "maitred/internal/domains/table/model"
)

// maxOptions caps how many ranked seating options a host sees.
const maxOptions = 5

type CheckInRequest struct {
	Code string `json:"code" validate:"required,max=30"`
}

type CheckWalkInRequest struct {
	PartySize         int    `json:"party_size"         validate:"required,min=1"`
	PreferredLocation string `json:"preferred_location" validate:"omitempty,max=100"`
}

type SeatPartyRequest struct {
	ReservationCode string   `json:"reservation_code" validate:"omitempty,max=30"`
	TableIDs        []string `json:"table_ids"        validate:"required,min=1,dive,uuid"`
	PartySize       int      `json:"party_size"       validate:"required,min=1"`
	GuestName       string   `json:"guest_name"       validate:"omitempty,max=100"`
	GuestPhone      string   `json:"guest_phone"      validate:"omitempty,max=30"`
	Type            string   `json:"type"             validate:"omitempty,oneof=reservation walk_in waitlist"`
}

type MarkTablesCleanRequest struct {
	TableIDs []string `json:"table_ids" validate:"required,min=1,dive,uuid"`
}

type TableSummary struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
	Location string `json:"location"`
	Status   string `json:"status,omitempty"`
}

func summarize(tables []tableModel.Table) []TableSummary {
	summaries := make([]TableSummary, len(tables))
	for i, t := range tables {
		summaries[i] = TableSummary{
			ID:       t.ID,
			Number:   t.Number,
			Capacity: t.Capacity,
			Location: t.Location,
			Status:   t.Status,
		}
	}

	return summaries
}

type RecommendationResponse struct {
	MatchQuality  string         `json:"match_quality"`
	Reason        string         `json:"reason"`
	Tables        []TableSummary `json:"tables"`
	TotalCapacity int            `json:"total_capacity"`
	Location      string         `json:"location"`
}

func RecommendationFromResult(result assign.Result) *RecommendationResponse {
	if !result.Success {
		return nil
	}

	return &RecommendationResponse{
		MatchQuality:  result.Match,
		Reason:        result.Reason,
		Tables:        summarize(result.Tables),
		TotalCapacity: result.TotalCapacity,
		Location:      result.Location,
	}
}

type OptionResponse struct {
	Match         string         `json:"match"`
	Score         int            `json:"score"`
	Tables        []string       `json:"tables"`
	TotalCapacity int            `json:"total_capacity"`
	WasteSeats    int            `json:"waste_seats"`
	Location      string         `json:"location"`
	TableRecords  []TableSummary `json:"table_records"`
}

func OptionsFromAssign(options []assign.Option) []OptionResponse {
	if len(options) > maxOptions {
		options = options[:maxOptions]
	}

	res := make([]OptionResponse, len(options))
	for i, option := range options {
		res[i] = OptionResponse{
			Match:         option.Match,
			Score:         option.Score,
			Tables:        option.TableNumbers,
			TotalCapacity: option.TotalCapacity,
			WasteSeats:    option.WasteSeats,
			Location:      option.Location,
			TableRecords:  summarize(option.Tables),
		}
	}

	return res
}

type CheckedInReservation struct {
	Code              string     `json:"code"`
	GuestName         string     `json:"guest_name"`
	PartySize         int        `json:"party_size"`
	CheckedInAt       *time.Time `json:"checked_in_at"`
	SpecialRequests   string     `json:"special_requests,omitempty"`
	PreferredLocation string     `json:"preferred_location,omitempty"`
}

type CheckInResponse struct {
	Message        string                  `json:"message"`
	Reservation    CheckedInReservation    `json:"reservation"`
	Recommendation *RecommendationResponse `json:"recommendation"`
	AllOptions     []OptionResponse        `json:"all_options"`
}

type CheckWalkInResponse struct {
	CanSeat                  bool                    `json:"can_seat"`
	Message                  string                  `json:"message"`
	PartySize                int                     `json:"party_size,omitempty"`
	Recommendation           *RecommendationResponse `json:"recommendation"`
	AllOptions               []OptionResponse        `json:"all_options"`
	AvailableTablesCount     int                     `json:"available_tables_count,omitempty"`
	LargestAvailableCapacity int                     `json:"largest_available_capacity,omitempty"`
}

type ServiceRecordResponse struct {
	ID                 string     `json:"id"`
	Type               string     `json:"type"`
	ReservationID      *string    `json:"reservation_id,omitempty"`
	GuestName          string     `json:"guest_name"`
	GuestPhone         string     `json:"guest_phone,omitempty"`
	PartySize          int        `json:"party_size"`
	TableIDs           []string   `json:"table_ids"`
	SeatedAt           time.Time  `json:"seated_at"`
	ExpectedDuration   int        `json:"expected_duration"`
	ExpectedDeparture  time.Time  `json:"expected_departure"`
	DepartedAt         *time.Time `json:"departed_at,omitempty"`
	Status             string     `json:"status"`
}

func (r *ServiceRecordResponse) FromModel(record model.ServiceRecord) {
	r.ID = record.ID
	r.Type = record.Type
	r.ReservationID = record.ReservationID
	r.GuestName = record.GuestName
	r.GuestPhone = record.GuestPhone
	r.PartySize = record.PartySize
	r.TableIDs = record.TableIDs
	r.SeatedAt = record.SeatedAt
	r.ExpectedDuration = record.ExpectedDuration
	r.ExpectedDeparture = record.ExpectedDeparture()
	r.DepartedAt = record.DepartedAt
	r.Status = record.Status
}

type SeatPartyResponse struct {
	Message       string                `json:"message"`
	ServiceRecord ServiceRecordResponse `json:"service_record"`
	Tables        []TableSummary        `json:"tables"`
}

type CompleteServiceResponse struct {
	Message       string                `json:"message"`
	ServiceRecord ServiceRecordResponse `json:"service_record"`
	TablesToClean []TableSummary        `json:"tables_to_clean"`
}

type MarkTablesCleanResponse struct {
	Message string         `json:"message"`
	Tables  []TableSummary `json:"tables"`
}

type FloorSummary struct {
	TotalTables  int `json:"total_tables"`
	Available    int `json:"available"`
	Occupied     int `json:"occupied"`
	Reserved     int `json:"reserved"`
	BeingCleaned int `json:"being_cleaned"`
}

// Count folds one table's status into the summary.
func (f *FloorSummary) Count(status string) {
	f.TotalTables++

	switch status {
	case tableModel.StatusAvailable:
		f.Available++
	case tableModel.StatusOccupied:
		f.Occupied++
	case tableModel.StatusReserved:
		f.Reserved++
	case tableModel.StatusBeingCleaned:
		f.BeingCleaned++
	}
}

type DashboardResponse struct {
	Summary              FloorSummary            `json:"summary"`
	Locations            map[string]FloorSummary `json:"locations"`
	ActiveServices       []ServiceRecordResponse `json:"active_services"`
	UpcomingReservations int                     `json:"upcoming_reservations"`
	Tables               []TableSummary          `json:"tables"`
}
