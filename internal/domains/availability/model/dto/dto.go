package dto

import (
	"maitred/internal/domains/availability/calc"
)

type CheckAvailabilityRequest struct {
	Date      string `json:"date"       validate:"required,day"`
	Time      string `json:"time"       validate:"required,hhmm"`
	PartySize int    `json:"party_size" validate:"required,min=1"`
}

type CheckAvailabilityResponse struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	PartySize int    `json:"party_size"`
	calc.Verdict
	Suggestions []calc.Suggestion `json:"suggestions,omitempty"`
}
