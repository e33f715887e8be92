package models

import "time"

// AvailabilitySlot is a concrete, date-anchored hourly window derived from a
// pattern; the unit of booking. Slots are always exactly one hour.
//
// The composite unique index is the last line of defense against duplicate
// inventory and double-booking races: concurrent writers conflict here no
// matter what the cache-level lock saw.
type AvailabilitySlot struct {
	ID           string `gorm:"type:uuid;primarykey" json:"id"`
	ConsultantID string `gorm:"type:uuid;not null;uniqueIndex:idx_slot_identity,priority:1;index:idx_slot_lookup,priority:1" json:"consultant_id"`
	SessionType  string `gorm:"size:20;not null;uniqueIndex:idx_slot_identity,priority:2;index:idx_slot_lookup,priority:5" json:"session_type"`
	Date         string `gorm:"size:10;not null;uniqueIndex:idx_slot_identity,priority:3;index:idx_slot_lookup,priority:4" json:"date"` // "YYYY-MM-DD"
	StartTime    string `gorm:"size:5;not null;uniqueIndex:idx_slot_identity,priority:4;index:idx_slot_lookup,priority:6" json:"start_time"`
	EndTime      string `gorm:"size:5;not null" json:"end_time"` // always StartTime + 60 minutes

	IsBooked  bool    `gorm:"default:false;index:idx_slot_lookup,priority:2" json:"is_booked"`
	IsBlocked bool    `gorm:"default:false;index:idx_slot_lookup,priority:3" json:"is_blocked"`
	SessionID *string `gorm:"type:uuid" json:"session_id,omitempty"` // set iff IsBooked

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AvailabilitySlot) TableName() string {
	return "availability_slot"
}
