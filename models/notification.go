package models

import "time"

// Change notification kinds.
const (
	ChangePatternsUpdated = "patterns-updated"
	ChangeSlotsUpdated    = "slots-updated"
)

// ChangeNotification announces that a consultant's availability surface
// changed. Emitted by the coherence controller strictly after the database
// commit and its cache invalidation; transport to external listeners
// (WebSocket, SSE, queue) is out of scope.
type ChangeNotification struct {
	ConsultantSlug string    `json:"consultant_slug"`
	Kind           string    `json:"kind"`
	SessionType    string    `json:"session_type,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
