// Package deploys records deploy webhook notifications so the admin
// dashboard can show build history without querying the hosting provider.
package deploys

import "time"

// Known deploy states. Providers can send others; unknown states are
// stored verbatim rather than dropped.
const (
	StateBuilding = "building"
	StateReady    = "ready"
	StateError    = "error"
)

// Deploy is one recorded deploy notification.
type Deploy struct {
	ID         string    `json:"id"`
	State      string    `json:"state"`
	Branch     string    `json:"branch,omitempty"`
	CommitSHA  string    `json:"commit_sha,omitempty"`
	CommitMsg  string    `json:"commit_msg,omitempty"`
	DeployURL  string    `json:"deploy_url,omitempty"`
	ErrorMsg   string    `json:"error_msg,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ReceivedAt time.Time `json:"received_at"`
}
