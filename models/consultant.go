package models

import "time"

// Consultant is the service-providing user whose availability the system
// manages. Account lifecycle (signup, verification) lives outside this core;
// rows here are the anchor for patterns, slots, clients and sessions.
type Consultant struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	FullName  string    `gorm:"size:200" json:"full_name"`
	Email     string    `gorm:"size:255;index" json:"email"`
	Timezone  string    `gorm:"size:64;default:'Asia/Kolkata'" json:"timezone"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
