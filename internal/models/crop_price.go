package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format of date_effective.
const DateLayout = "2006-01-02"

type PriceTrend string

const (
	TrendUp     PriceTrend = "up"
	TrendDown   PriceTrend = "down"
	TrendStable PriceTrend = "stable"
)

// CropPrice is a mandi price for a crop on a given day.
type CropPrice struct {
	ID            uuid.UUID `json:"id"`
	CropName      string    `json:"crop_name"`
	Price         float64   `json:"price"`
	State         string    `json:"state"`
	Region        string    `json:"region"`
	Market        string    `json:"market"`
	DateEffective time.Time `json:"-"`
	ImageURL      *string   `json:"image_url,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *CropPrice) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}
