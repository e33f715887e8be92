package availability

import "naksha/models"

// PatternInput is the payload for creating one weekly pattern or one entry
// of a bulk replacement.
type PatternInput struct {
	SessionType string `json:"session_type"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsActive    *bool  `json:"is_active,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// PatternUpdate is a partial delta for one pattern. Nil fields are left
// untouched.
type PatternUpdate struct {
	SessionType *string `json:"session_type,omitempty"`
	DayOfWeek   *int    `json:"day_of_week,omitempty"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
}

// BulkReplaceResult reports what a bulk pattern replacement did.
type BulkReplaceResult struct {
	Patterns     []models.WeeklyPattern `json:"patterns"`
	SlotsBlocked int64                  `json:"slots_blocked"`
	SlotsCreated int64                  `json:"slots_created"`
}

// GenerateRequest asks for slot materialization over a date window.
type GenerateRequest struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	SessionType string `json:"session_type,omitempty"`
}

// PublicSlotsRequest filters the public slot listing for one consultant.
type PublicSlotsRequest struct {
	Slug        string
	SessionType string
	FromDate    string
	ToDate      string
	Limit       int
	Offset      int
}

// SlotView is the public projection of an availability slot.
type SlotView struct {
	ID          string `json:"id"`
	SessionType string `json:"session_type"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// Pagination describes one page of the public listing.
type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// PublicSlotsResponse carries the slot page plus a by-date grouping for
// calendar rendering.
type PublicSlotsResponse struct {
	ConsultantSlug string                `json:"consultant_slug"`
	Slots          []SlotView            `json:"slots"`
	SlotsByDate    map[string][]SlotView `json:"slots_by_date"`
	Pagination     Pagination            `json:"pagination"`
}
