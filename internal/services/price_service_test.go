package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iamavinashmourya/FarmCare/internal/dtos"
	"github.com/iamavinashmourya/FarmCare/internal/models"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func price(crop string, amount float64, effective time.Time) *models.CropPrice {
	return &models.CropPrice{
		CropName:      crop,
		Price:         amount,
		State:         "Maharashtra",
		Region:        "Pune",
		Market:        "Pune",
		DateEffective: effective,
	}
}

func findPrice(t *testing.T, list []dtos.PriceResponse, crop string, effective time.Time) dtos.PriceResponse {
	t.Helper()
	for _, p := range list {
		if p.CropName == crop && p.CropPrice.DateEffective.Equal(effective) {
			return p
		}
	}
	t.Fatalf("no %s price effective %s", crop, effective)
	return dtos.PriceResponse{}
}

func TestPriceServiceListTrends(t *testing.T) {
	repo := newFakePriceRepo(
		price("Wheat", 110, day(14)),
		price("Wheat", 100, day(1)),
		price("Onion", 90, day(14)),
		price("Onion", 100, day(5)),
		price("Rice", 50, day(14)),
	)
	svc := NewPriceService(repo, fixedClock(testNow))

	list, err := svc.List(context.Background(), "Maharashtra", "Pune")
	require.NoError(t, err)
	require.Len(t, list, 5)
	require.Equal(t, "2025-06-14", list[0].DateEffective, "newest first")

	wheat := findPrice(t, list, "Wheat", day(14))
	require.Equal(t, models.TrendUp, wheat.Trend)
	require.InDelta(t, 10.0, wheat.Change, 1e-9)

	onion := findPrice(t, list, "Onion", day(14))
	require.Equal(t, models.TrendDown, onion.Trend)
	require.InDelta(t, 10.0, onion.Change, 1e-9)

	rice := findPrice(t, list, "Rice", day(14))
	require.Equal(t, models.TrendStable, rice.Trend)
	require.Zero(t, rice.Change)

	old := findPrice(t, list, "Wheat", day(1))
	require.Equal(t, models.TrendStable, old.Trend, "compared with itself")
}

func TestPriceTrendRounding(t *testing.T) {
	trend, change := priceTrend(103.33, 100)
	require.Equal(t, models.TrendUp, trend)
	require.Equal(t, 3.3, change)

	trend, change = priceTrend(100, 100)
	require.Equal(t, models.TrendStable, trend)
	require.Zero(t, change)
}

func TestPriceServiceNearby(t *testing.T) {
	mumbai := price("Tomato", 30, day(14))
	mumbai.Latitude, mumbai.Longitude = utils.Ptr(19.0760), utils.Ptr(72.8777)
	pune := price("Potato", 25, day(14))
	pune.Latitude, pune.Longitude = utils.Ptr(18.5204), utils.Ptr(73.8567)
	unknown := price("Garlic", 80, day(14))

	svc := NewPriceService(newFakePriceRepo(mumbai, pune, unknown), fixedClock(testNow))
	ctx := context.Background()

	list, err := svc.Nearby(ctx, &Coordinates{Lat: 18.5204, Lng: 73.8567})
	require.NoError(t, err)
	require.Len(t, list, 3)

	require.Equal(t, "Potato", list[0].CropName)
	require.NotNil(t, list[0].Distance)
	require.Zero(t, *list[0].Distance)

	require.Equal(t, "Tomato", list[1].CropName)
	require.NotNil(t, list[1].Distance)
	require.InDelta(t, 120, *list[1].Distance, 10)

	require.Equal(t, "Garlic", list[2].CropName)
	require.Nil(t, list[2].Distance)

	list, err = svc.Nearby(ctx, nil)
	require.NoError(t, err)
	for _, p := range list {
		require.Nil(t, p.Distance)
	}
}

func TestPriceServiceWrites(t *testing.T) {
	ctx := context.Background()
	repo := newFakePriceRepo()
	svc := NewPriceService(repo, fixedClock(testNow))

	t.Run("CreateDefaults", func(t *testing.T) {
		p, err := svc.Create(ctx, dtos.CreatePriceRequest{
			CropName: "Wheat", Price: 2100, State: "Maharashtra", Region: "Pune",
		})
		require.NoError(t, err)
		require.True(t, p.DateEffective.Equal(day(15)))
		require.Equal(t, "Pune", p.Market)

		stored, _ := repo.GetByID(ctx, p.ID)
		require.NotNil(t, stored)
	})

	t.Run("CreateExplicitDate", func(t *testing.T) {
		p, err := svc.Create(ctx, dtos.CreatePriceRequest{
			CropName: "Wheat", Price: 2100, State: "Maharashtra", Region: "Pune",
			DateEffective: "2025-06-01", Market: utils.Ptr("Hadapsar"),
		})
		require.NoError(t, err)
		require.True(t, p.DateEffective.Equal(day(1)))
		require.Equal(t, "Hadapsar", p.Market)
	})

	t.Run("CoordinatesTogether", func(t *testing.T) {
		_, err := svc.Create(ctx, dtos.CreatePriceRequest{
			CropName: "Wheat", Price: 2100, State: "Maharashtra", Region: "Pune",
			Latitude: utils.Ptr(18.5),
		})
		requireAppError(t, err, http.StatusBadRequest, utils.ErrCodeValidation)
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		p, err := svc.Create(ctx, dtos.CreatePriceRequest{
			CropName: "Onion", Price: 900, State: "Maharashtra", Region: "Nashik",
		})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, p.ID.String(), dtos.UpdatePriceRequest{Price: utils.Ptr(950.0)})
		require.NoError(t, err)
		require.Equal(t, 950.0, updated.Price)
		require.Equal(t, "Onion", updated.CropName)

		require.NoError(t, svc.Delete(ctx, p.ID.String()))
		requireAppError(t, svc.Delete(ctx, p.ID.String()), http.StatusNotFound, utils.ErrCodeNotFound)
	})

	t.Run("UnknownOrBadID", func(t *testing.T) {
		_, err := svc.Update(ctx, "not-a-uuid", dtos.UpdatePriceRequest{Price: utils.Ptr(1.0)})
		requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)

		_, err = svc.Update(ctx, "4a1d8f5e-0000-4000-8000-000000000000", dtos.UpdatePriceRequest{Price: utils.Ptr(1.0)})
		requireAppError(t, err, http.StatusNotFound, utils.ErrCodeNotFound)
	})
}
