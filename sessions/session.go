package sessions

import "time"

// Session is one active login: the server-side record of a refresh token.
// Multiple sessions per user are allowed (one per device/login event);
// RefreshToken is the lookup key and is replaced wholesale on every rotation.
type Session struct {
	UserID       string    // Owner of the session
	RefreshToken string    // Current refresh token value (lookup key)
	Agent        string    // Client metadata captured at login
	OS           string
	Device       string
	Location     string
	CreatedAt    time.Time
}

// Metadata is the optional client enrichment recorded when a session is
// created. Empty fields are stored as-is; enrichment never blocks a login.
type Metadata struct {
	Agent    string
	OS       string
	Device   string
	Location string
}
