package model

import "time"

// Activity is one entry of the local journal of mutations issued through this
// interface. Loan and equipment data stay in the loan API.
type Activity struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Kind       string    `gorm:"size:64;index;not null" json:"kind"`
	EntityCode string    `gorm:"size:128;index" json:"entityCode"`
	Summary    string    `gorm:"size:512;not null" json:"summary"`
	RequestID  string    `gorm:"size:64" json:"requestId,omitempty"`
	CreatedAt  time.Time `gorm:"not null;index" json:"createdAt"`
}
