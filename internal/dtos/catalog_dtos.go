package dtos

import (
	"time"

	"github.com/iamavinashmourya/FarmCare/internal/models"
)

// ----------------------
// Schemes
// ----------------------

type SchemeRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Eligibility string `json:"eligibility" validate:"required"`
	Benefits    string `json:"benefits" validate:"required"`
	State       string `json:"state" validate:"required,max=100"`
}

type SchemesResponse struct {
	Schemes []*models.Scheme `json:"schemes"`
}

// ----------------------
// Crop prices
// ----------------------

type CreatePriceRequest struct {
	CropName      string   `json:"crop_name" validate:"required,max=100"`
	Price         float64  `json:"price" validate:"gt=0"`
	State         string   `json:"state" validate:"required,max=100"`
	Region        string   `json:"region" validate:"required,max=100"`
	DateEffective string   `json:"date_effective,omitempty" validate:"omitempty,isodate"`
	Market        *string  `json:"market,omitempty" validate:"omitempty,max=100"`
	ImageURL      *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Latitude      *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// UpdatePriceRequest changes only the fields present.
type UpdatePriceRequest struct {
	CropName      *string  `json:"crop_name,omitempty" validate:"omitempty,min=1,max=100"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	State         *string  `json:"state,omitempty" validate:"omitempty,min=1,max=100"`
	Region        *string  `json:"region,omitempty" validate:"omitempty,min=1,max=100"`
	DateEffective *string  `json:"date_effective,omitempty" validate:"omitempty,isodate"`
	Market        *string  `json:"market,omitempty" validate:"omitempty,max=100"`
	ImageURL      *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Latitude      *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

type PriceResponse struct {
	*models.CropPrice
	DateEffective string            `json:"date_effective"`
	Trend         models.PriceTrend `json:"trend"`
	Change        float64           `json:"change"`
	Distance      *float64          `json:"distance,omitempty"`
}

func NewPriceResponse(p *models.CropPrice) PriceResponse {
	return PriceResponse{
		CropPrice:     p,
		DateEffective: p.DateEffective.Format(models.DateLayout),
		Trend:         models.TrendStable,
	}
}

type PricesResponse struct {
	Prices []PriceResponse `json:"prices"`
}

type CreatedResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ----------------------
// Expert articles and daily news
// ----------------------

type CreateArticleRequest struct {
	Title       string  `json:"title" validate:"required,max=300"`
	Description string  `json:"description" validate:"required"`
	Author      string  `json:"author" validate:"required,max=100"`
	Category    string  `json:"category" validate:"required,max=100"`
	ReadTime    *int    `json:"read_time,omitempty" validate:"omitempty,min=1,max=600"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateArticleRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1"`
	Author      *string `json:"author,omitempty" validate:"omitempty,min=1,max=100"`
	Category    *string `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	ReadTime    *int    `json:"read_time,omitempty" validate:"omitempty,min=1,max=600"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type ArticleResponse struct {
	*models.ExpertArticle
	ReadTimeText string `json:"read_time_text"`
}

func NewArticleResponse(a *models.ExpertArticle) ArticleResponse {
	return ArticleResponse{ExpertArticle: a, ReadTimeText: ReadTimeText(a.ReadTime)}
}

type ArticlesResponse struct {
	Articles []ArticleResponse `json:"articles"`
}

type CreateNewsRequest struct {
	Title       string  `json:"title" validate:"required,max=300"`
	Description string  `json:"description" validate:"required"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateNewsRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type NewsListResponse struct {
	News []*models.DailyNews `json:"news"`
}

// ----------------------
// Plant diagnosis
// ----------------------

type AnalysisResponse struct {
	Analysis string `json:"analysis"`
	UserID   string `json:"user_id"`
	UploadID string `json:"upload_id"`
}

type AnalysisHistoryResponse struct {
	History []*models.Upload `json:"history"`
}

type AnalysisCountResponse struct {
	Count  int64  `json:"count"`
	UserID string `json:"user_id"`
}

// ----------------------
// Notifications
// ----------------------

type SubscribeRequest struct {
	Subscription *models.PushSubscription `json:"subscription" validate:"required"`
}

type PreferencesResponse struct {
	Preferences models.NotificationPreferences `json:"preferences"`
}

type UpdatePreferencesRequest struct {
	Preferences *models.NotificationPreferences `json:"preferences" validate:"required"`
}

// ----------------------
// Reference data and service info
// ----------------------

type StatesResponse struct {
	States []string `json:"states"`
	Count  int      `json:"count"`
}

type RegionsResponse struct {
	State   string   `json:"state"`
	Regions []string `json:"regions"`
	Count   int      `json:"count"`
}

type HealthResponse struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	Time     time.Time `json:"time"`
}

type RootResponse struct {
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
