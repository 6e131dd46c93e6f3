package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/dtos"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

const healthPingTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db    Pinger
	clock auth.Clock
}

func NewHealthController(db Pinger, clock auth.Clock) *HealthController {
	return &HealthController{db: db, clock: clock}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	// Check database connectivity
	if err := c.db.Ping(ctx); err != nil {
		utils.Logger.WithError(err).Error("Database unreachable")
		utils.RespondErrorWithCode(
			w,
			http.StatusServiceUnavailable,
			utils.ErrCodeInternal,
			"Database unreachable",
			nil,
			err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthResponse{
		Status:   "healthy",
		Database: "connected",
		Time:     c.clock.Now().UTC(),
	})
}

func (c *HealthController) RootHandler(w http.ResponseWriter, _ *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, dtos.RootResponse{
		Message: utils.OrganizationName + " API is running",
		Status:  "active",
		Version: utils.APIVersion,
		Endpoints: map[string]string{
			"health":        "/health",
			"schemes":       "/schemes",
			"prices":        "/api/prices",
			"market_prices": "/api/market-prices",
			"articles":      "/expert-articles",
			"news":          "/daily-news",
			"states":        "/api/states",
			"regions":       "/api/regions",
		},
	})
}
