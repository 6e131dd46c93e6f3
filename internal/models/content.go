package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultReadTime is used when an article is created without one (minutes).
const DefaultReadTime = 5

type ExpertArticle struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Author      string       `json:"author"`
	Category    string       `json:"category"`
	ReadTime    int          `json:"read_time"`
	ImageURL    *string      `json:"image_url,omitempty"`
	Status      RecordStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type DailyNews struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	ImageURL    *string      `json:"image_url,omitempty"`
	Status      RecordStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
