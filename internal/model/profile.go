// Package model defines the core domain types shared across the application.
package model

import "time"

// Profile is the identity anchor for a user's data. Created exactly once at
// signup by the provisioning step.
type Profile struct {
	CreatedAt   time.Time
	ID          string
	UserID      string
	DisplayName string
	Currency    string
}

// Goal represents a savings goal. The schema is persisted for forward
// compatibility; no goal behavior is implemented.
type Goal struct {
	TargetDate time.Time
	CreatedAt  time.Time
	ID         string
	UserID     string
	Name       string
	Target     float64
	Saved      float64
}
