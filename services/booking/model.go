package booking

import (
	"github.com/shopspring/decimal"

	"naksha/models"
)

// BookingRequest is the admission payload for one session booking.
type BookingRequest struct {
	ConsultantSlug string `json:"consultant_slug"`
	SessionType    string `json:"session_type"`
	Date           string `json:"date"`       // "YYYY-MM-DD"
	StartTime      string `json:"start_time"` // "HH:MM"

	DurationMinutes int `json:"duration_minutes,omitempty"`

	ClientEmail string `json:"client_email"`
	ClientName  string `json:"client_name,omitempty"`
	ClientPhone string `json:"client_phone,omitempty"`

	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes,omitempty"`

	// Source defaults to public_booking. manually_added bookings may admit
	// a time with no materialized slot.
	Source string `json:"source,omitempty"`
}

// BookingResult reports the committed session and the resolved client.
type BookingResult struct {
	Session models.Session `json:"session"`
	Client  models.Client  `json:"client"`
}
