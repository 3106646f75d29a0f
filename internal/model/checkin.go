package model

// CheckIn represents a row in the `checkins` table.  A record is created the
// first time an attendee arrives and is updated in place afterwards; it is
// never deleted.
type CheckIn struct {
	ID                   uint64 `json:"id"`                   // assigned by the store
	UserID               uint64 `json:"userId"`               // unique across all check-ins
	Location             string `json:"location"`             // station where the check-in happened
	Swag                 bool   `json:"swag"`                 // once true it stays true
	CredentialsRequested bool   `json:"credentialsRequested"` // badge or credential requested
}
