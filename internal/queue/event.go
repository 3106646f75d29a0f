// Package queue defines message payloads exchanged over the message broker.
package queue

// CheckInQueue is the durable queue carrying check-in events.
const CheckInQueue = "checkin.recorded"

// Actions carried by CheckInEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// CheckInEvent is published after a check-in is created or updated.  It
// carries the settled record so consumers never need to query the database.
type CheckInEvent struct {
	EventID              string `json:"event_id"`
	Action               string `json:"action"`
	CheckInID            uint64 `json:"checkin_id"`
	UserID               uint64 `json:"user_id"`
	Location             string `json:"location"`
	Swag                 bool   `json:"swag"`
	CredentialsRequested bool   `json:"credentials_requested"`
	ActorID              uint64 `json:"actor_id"`
	OccurredAt           string `json:"occurred_at"`
}
