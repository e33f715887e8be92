package models

// ReminderPayload is the task payload for a scheduled session reminder.
type ReminderPayload struct {
	SessionID      string `json:"session_id"`
	ConsultantSlug string `json:"consultant_slug"`
	ClientEmail    string `json:"client_email"`
	ClientName     string `json:"client_name"`
	ScheduledDate  string `json:"scheduled_date"`
	ScheduledTime  string `json:"scheduled_time"`
}
