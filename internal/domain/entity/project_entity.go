package entity

import "time"

// Project records a deployment performed through the external agent.
// TeamID may reference a team that no longer exists.
type Project struct {
	ID        string
	Name      string
	Image     string
	Port      int
	URL       string
	OwnerID   string
	TeamID    *string
	CreatedAt time.Time
}
