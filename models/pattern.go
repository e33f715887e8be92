package models

import "time"

// Session types offered by a consultant.
const (
	SessionTypePersonal = "PERSONAL"
	SessionTypeWebinar  = "WEBINAR"
)

// ValidSessionType reports whether t is a known session type.
func ValidSessionType(t string) bool {
	return t == SessionTypePersonal || t == SessionTypeWebinar
}

// WeeklyPattern is a recurring declaration of available hours: "every
// Monday, 09:00-12:00, PERSONAL". Patterns are templates; the slot generator
// materializes them into dated AvailabilitySlot rows.
//
// Invariant: no two active patterns for the same (consultant, sessionType,
// dayOfWeek) may overlap in [StartTime, EndTime).
type WeeklyPattern struct {
	ID           string    `gorm:"type:uuid;primarykey" json:"id"`
	ConsultantID string    `gorm:"type:uuid;index;not null" json:"consultant_id"`
	SessionType  string    `gorm:"size:20;not null" json:"session_type"`
	DayOfWeek    int       `gorm:"not null" json:"day_of_week"` // 0=Sunday .. 6=Saturday
	StartTime    string    `gorm:"size:5;not null" json:"start_time"` // "HH:MM"
	EndTime      string    `gorm:"size:5;not null" json:"end_time"`   // "HH:MM", same day, > StartTime
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	Timezone     string    `gorm:"size:64;default:'Asia/Kolkata'" json:"timezone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (WeeklyPattern) TableName() string {
	return "weekly_availability_pattern"
}
