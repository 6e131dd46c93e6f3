package models

import (
	"time"

	"github.com/google/uuid"
)

type RecordStatus string

const (
	StatusActive  RecordStatus = "active"
	StatusDeleted RecordStatus = "deleted"
)

// Scheme is a government support programme for farmers in a state.
type Scheme struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Eligibility string       `json:"eligibility"`
	Benefits    string       `json:"benefits"`
	State       string       `json:"state"`
	Status      RecordStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
