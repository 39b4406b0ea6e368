package domain

import "time"

// Session points at the currently active account on the device.
type Session struct {
	AccountID string    `json:"account_id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	Portal    Role      `json:"portal"`
	StartedAt time.Time `json:"started_at"`
}

// SyncKind names the remote table a sync job targets.
type SyncKind string

const (
	SyncIncident SyncKind = "incident"
	SyncAccount  SyncKind = "account"
)

// RemoteSettings is the operator-supplied remote store configuration.
type RemoteSettings struct {
	URL       string `json:"url"`
	AccessKey string `json:"-"`
}

// Configured reports whether both the address and the credential are set.
func (s RemoteSettings) Configured() bool {
	return s.URL != "" && s.AccessKey != ""
}
