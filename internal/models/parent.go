package models

import "time"

// Parent represents a parent account, identified by a normalized login key
type Parent struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Consent is the single consent record a parent holds; resubmitting overwrites it
type Consent struct {
	ParentID   string    `json:"parentId"`
	Accepted   bool      `json:"accepted"`
	Market     string    `json:"market"`
	AcceptedAt time.Time `json:"acceptedAt"`
}
