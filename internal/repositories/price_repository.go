package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/iamavinashmourya/FarmCare/internal/models"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// PriceFilter narrows a price listing. Zero fields do not filter.
type PriceFilter struct {
	State    string
	Region   string
	CropName string
	// OnOrBefore keeps prices effective on or before this day.
	OnOrBefore *time.Time
}

type PriceRepository interface {
	Create(ctx context.Context, p *models.CropPrice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CropPrice, error)
	List(ctx context.Context, f PriceFilter) ([]*models.CropPrice, error)
	Update(ctx context.Context, p *models.CropPrice) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type priceRepo struct {
	db DB
}

func NewPriceRepository(db DB) PriceRepository {
	return &priceRepo{db: db}
}

func (r *priceRepo) Create(ctx context.Context, p *models.CropPrice) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO crop_prices (
			id, crop_name, price, state, region, market, date_effective,
			image_url, latitude, longitude, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)
	`,
		p.ID, p.CropName, p.Price, p.State, p.Region, p.Market, p.DateEffective,
		p.ImageURL, p.Latitude, p.Longitude, p.CreatedAt,
	)
	return err
}

func (r *priceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CropPrice, error) {
	return scanPrice(r.db.QueryRow(ctx, baseSelectPrice()+" WHERE id=$1", id))
}

// List returns prices newest effective date first.
func (r *priceRepo) List(ctx context.Context, f PriceFilter) ([]*models.CropPrice, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.State != "" {
		add("state=$%d", f.State)
	}
	if f.Region != "" {
		add("region=$%d", f.Region)
	}
	if f.CropName != "" {
		add("crop_name=$%d", f.CropName)
	}
	if f.OnOrBefore != nil {
		add("date_effective<=$%d", *f.OnOrBefore)
	}

	query := baseSelectPrice()
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date_effective DESC, created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.CropPrice{}
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *priceRepo) Update(ctx context.Context, p *models.CropPrice) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE crop_prices SET
			crop_name=$1, price=$2, state=$3, region=$4, market=$5, date_effective=$6,
			image_url=$7, latitude=$8, longitude=$9, updated_at=NOW()
		WHERE id=$10`,
		p.CropName, p.Price, p.State, p.Region, p.Market, p.DateEffective,
		p.ImageURL, p.Latitude, p.Longitude, p.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *priceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM crop_prices WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func baseSelectPrice() string {
	return `
		SELECT id, crop_name, price, state, region, market, date_effective,
		       image_url, latitude, longitude, created_at, updated_at
		FROM crop_prices`
}

func scanPrice(row pgx.Row) (*models.CropPrice, error) {
	var p models.CropPrice
	err := row.Scan(
		&p.ID, &p.CropName, &p.Price, &p.State, &p.Region, &p.Market, &p.DateEffective,
		&p.ImageURL, &p.Latitude, &p.Longitude, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
