package services

import (
	"context"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/umahmood/haversine"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/dtos"
	"github.com/iamavinashmourya/FarmCare/internal/models"
	"github.com/iamavinashmourya/FarmCare/internal/repositories"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// trendWindow is how far back the reference price for a trend must be.
const trendWindow = 7 * 24 * time.Hour

// Coordinates is a point supplied by the caller of Nearby.
type Coordinates struct {
	Lat float64
	Lng float64
}

type PriceService interface {
	List(ctx context.Context, state, region string) ([]dtos.PriceResponse, error)
	Nearby(ctx context.Context, origin *Coordinates) ([]dtos.PriceResponse, error)
	Create(ctx context.Context, req dtos.CreatePriceRequest) (*models.CropPrice, error)
	Update(ctx context.Context, id string, req dtos.UpdatePriceRequest) (*models.CropPrice, error)
	Delete(ctx context.Context, id string) error
}

type priceService struct {
	repo  repositories.PriceRepository
	clock auth.Clock
}

func NewPriceService(repo repositories.PriceRepository, clock auth.Clock) PriceService {
	return &priceService{repo: repo, clock: clock}
}

// ----------------------------------------------------------------------
// Reads
// ----------------------------------------------------------------------

func (s *priceService) List(ctx context.Context, state, region string) ([]dtos.PriceResponse, error) {
	prices, err := s.repo.List(ctx, repositories.PriceFilter{
		State:  strings.TrimSpace(state),
		Region: strings.TrimSpace(region),
	})
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to fetch prices", err)
	}
	out, err := s.withTrends(ctx, prices)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to fetch prices", err)
	}
	return out, nil
}

// Nearby lists every price. With an origin, entries that have coordinates get
// a distance in km and come first, nearest first.
func (s *priceService) Nearby(ctx context.Context, origin *Coordinates) ([]dtos.PriceResponse, error) {
	out, err := s.List(ctx, "", "")
	if err != nil || origin == nil {
		return out, err
	}

	from := haversine.Coord{Lat: origin.Lat, Lon: origin.Lng}
	for i := range out {
		p := out[i].CropPrice
		if !p.HasCoordinates() {
			continue
		}
		_, km := haversine.Distance(from, haversine.Coord{Lat: *p.Latitude, Lon: *p.Longitude})
		out[i].Distance = utils.Ptr(roundTo(km, 2))
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Distance, out[j].Distance
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return out, nil
}

// withTrends compares each price with the newest one for the same crop and
// place that was effective at least a week ago. Lookups are cached per call.
func (s *priceService) withTrends(ctx context.Context, prices []*models.CropPrice) ([]dtos.PriceResponse, error) {
	cutoff := s.clock.Now().UTC().Add(-trendWindow)
	reference := map[string]*models.CropPrice{}

	out := make([]dtos.PriceResponse, 0, len(prices))
	for _, p := range prices {
		key := p.State + "\x00" + p.Region + "\x00" + p.CropName
		old, seen := reference[key]
		if !seen {
			history, err := s.repo.List(ctx, repositories.PriceFilter{
				State:      p.State,
				Region:     p.Region,
				CropName:   p.CropName,
				OnOrBefore: &cutoff,
			})
			if err != nil {
				return nil, err
			}
			if len(history) > 0 {
				old = history[0]
			}
			reference[key] = old
		}

		resp := dtos.NewPriceResponse(p)
		if old != nil && old.Price > 0 {
			resp.Trend, resp.Change = priceTrend(p.Price, old.Price)
		}
		out = append(out, resp)
	}
	return out, nil
}

// priceTrend returns the direction and the absolute percent change rounded
// to one decimal.
func priceTrend(current, previous float64) (models.PriceTrend, float64) {
	change := (current - previous) / previous * 100
	trend := models.TrendStable
	switch {
	case change > 0:
		trend = models.TrendUp
	case change < 0:
		trend = models.TrendDown
	}
	return trend, roundTo(math.Abs(change), 1)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ----------------------------------------------------------------------
// Admin writes
// ----------------------------------------------------------------------

func (s *priceService) Create(ctx context.Context, req dtos.CreatePriceRequest) (*models.CropPrice, error) {
	if err := checkCoordinatePair(req.Latitude, req.Longitude); err != nil {
		return nil, err
	}

	effective := s.today()
	if req.DateEffective != "" {
		d, err := parseDate(req.DateEffective)
		if err != nil {
			return nil, err
		}
		effective = d
	}

	now := s.clock.Now().UTC()
	p := &models.CropPrice{
		ID:            uuid.New(),
		CropName:      strings.TrimSpace(req.CropName),
		Price:         req.Price,
		State:         strings.TrimSpace(req.State),
		Region:        strings.TrimSpace(req.Region),
		DateEffective: effective,
		ImageURL:      req.ImageURL,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.Market = marketOrRegion(req.Market, p.Region)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to create price", err)
	}
	return p, nil
}

func (s *priceService) Update(ctx context.Context, id string, req dtos.UpdatePriceRequest) (*models.CropPrice, error) {
	pid, err := parseID(id, "Price not found")
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, pid)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to update price", err)
	}
	if p == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Price not found", utils.ErrNotFound)
	}

	if req.CropName != nil {
		p.CropName = strings.TrimSpace(*req.CropName)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.State != nil {
		p.State = strings.TrimSpace(*req.State)
	}
	if req.Region != nil {
		p.Region = strings.TrimSpace(*req.Region)
	}
	if req.DateEffective != nil {
		d, err := parseDate(*req.DateEffective)
		if err != nil {
			return nil, err
		}
		p.DateEffective = d
	}
	if req.Market != nil {
		p.Market = marketOrRegion(req.Market, p.Region)
	}
	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}
	if req.Latitude != nil || req.Longitude != nil {
		if err := checkCoordinatePair(req.Latitude, req.Longitude); err != nil {
			return nil, err
		}
		p.Latitude, p.Longitude = req.Latitude, req.Longitude
	}
	p.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, notFoundOrInternal(err, "Price not found", "Failed to update price")
	}
	return p, nil
}

func (s *priceService) Delete(ctx context.Context, id string) error {
	pid, err := parseID(id, "Price not found")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, pid); err != nil {
		return notFoundOrInternal(err, "Price not found", "Failed to delete price")
	}
	return nil
}

func (s *priceService) today() time.Time {
	now := s.clock.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDate(v string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return time.Time{}, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "date_effective must be YYYY-MM-DD", err)
	}
	return d, nil
}

func marketOrRegion(market *string, region string) string {
	if market != nil && strings.TrimSpace(*market) != "" {
		return strings.TrimSpace(*market)
	}
	return region
}

func checkCoordinatePair(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "latitude and longitude must be given together", nil)
	}
	return nil
}
