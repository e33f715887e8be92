package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session status values.
const (
	SessionStatusPending   = "PENDING"
	SessionStatusConfirmed = "CONFIRMED"
	SessionStatusCompleted = "COMPLETED"
	SessionStatusCancelled = "CANCELLED"
	SessionStatusNoShow    = "NO_SHOW"
	SessionStatusAbandoned = "ABANDONED"
)

// Payment status values.
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"
	PaymentStatusFailed  = "FAILED"
)

// Booking sources.
const (
	BookingSourcePublic   = "public_booking"
	BookingSourceManual   = "manually_added"
	BookingSourcePlatform = "naksha_platform"
)

// Session is a committed booking linking a client to a consultant at a
// specific time, against a slot.
//
// Invariant: at most one non-CANCELLED session per (ConsultantID,
// ScheduledDate, ScheduledTime).
type Session struct {
	ID           string `gorm:"type:uuid;primarykey" json:"id"`
	ConsultantID string `gorm:"type:uuid;index;not null" json:"consultant_id"`
	ClientID     string `gorm:"type:uuid;index;not null" json:"client_id"`

	SessionType     string `gorm:"size:20;not null" json:"session_type"`
	ScheduledDate   string `gorm:"size:10;index;not null" json:"scheduled_date"` // "YYYY-MM-DD"
	ScheduledTime   string `gorm:"size:5;not null" json:"scheduled_time"`        // "HH:MM"
	DurationMinutes int    `gorm:"default:60" json:"duration_minutes"`

	Amount   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"amount"`
	Currency string          `gorm:"size:3;default:'INR'" json:"currency"`

	Status        string `gorm:"size:20;default:'PENDING';index" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'PENDING'" json:"payment_status"`
	BookingSource string `gorm:"size:30;default:'public_booking'" json:"booking_source"`

	SlotID *string `gorm:"type:uuid" json:"slot_id,omitempty"` // backlink to the claimed slot, if any
	Notes  string  `gorm:"type:text" json:"notes,omitempty"`

	MeetingLink     string `gorm:"size:500" json:"meeting_link,omitempty"`
	MeetingID       string `gorm:"size:100" json:"meeting_id,omitempty"`
	MeetingPassword string `gorm:"size:100" json:"meeting_password,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Session) TableName() string {
	return "session"
}
