package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/iamavinashmourya/FarmCare/internal/models"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

type SchemeRepository interface {
	Create(ctx context.Context, s *models.Scheme) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Scheme, error)
	List(ctx context.Context, state string) ([]*models.Scheme, error)
	// UpdateActive only touches active schemes; utils.ErrNotFound otherwise.
	UpdateActive(ctx context.Context, s *models.Scheme) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type schemeRepo struct {
	db DB
}

func NewSchemeRepository(db DB) SchemeRepository {
	return &schemeRepo{db: db}
}

func (r *schemeRepo) Create(ctx context.Context, s *models.Scheme) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO schemes (id, name, description, eligibility, benefits, state, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)
	`, s.ID, s.Name, s.Description, s.Eligibility, s.Benefits, s.State, string(s.Status), s.CreatedAt)
	return err
}

func (r *schemeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Scheme, error) {
	return scanScheme(r.db.QueryRow(ctx, baseSelectScheme()+" WHERE id=$1", id))
}

// List returns schemes newest first, filtered by state when non-empty.
func (r *schemeRepo) List(ctx context.Context, state string) ([]*models.Scheme, error) {
	query := baseSelectScheme()
	var args []any
	if state != "" {
		query += " WHERE state=$1"
		args = append(args, state)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Scheme{}
	for rows.Next() {
		s, err := scanScheme(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *schemeRepo) UpdateActive(ctx context.Context, s *models.Scheme) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE schemes SET
			name=$1, description=$2, eligibility=$3, benefits=$4, state=$5, updated_at=NOW()
		WHERE id=$6 AND status='active'`,
		s.Name, s.Description, s.Eligibility, s.Benefits, s.State, s.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *schemeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM schemes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func baseSelectScheme() string {
	return `
		SELECT id, name, description, eligibility, benefits, state, status, created_at, updated_at
		FROM schemes`
}

func scanScheme(row pgx.Row) (*models.Scheme, error) {
	var s models.Scheme
	var status string
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Eligibility, &s.Benefits, &s.State, &status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.Status = models.RecordStatus(status)
	return &s, nil
}
