package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/iamavinashmourya/FarmCare/internal/models"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// ------------------------------------------------------------------
// Expert articles
// ------------------------------------------------------------------

type ArticleRepository interface {
	Create(ctx context.Context, a *models.ExpertArticle) error
	GetActive(ctx context.Context, id uuid.UUID) (*models.ExpertArticle, error)
	ListActive(ctx context.Context, category string) ([]*models.ExpertArticle, error)
	UpdateActive(ctx context.Context, a *models.ExpertArticle) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type articleRepo struct {
	db DB
}

func NewArticleRepository(db DB) ArticleRepository {
	return &articleRepo{db: db}
}

func (r *articleRepo) Create(ctx context.Context, a *models.ExpertArticle) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO expert_articles (id, title, description, author, category, read_time, image_url, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$9)
	`, a.ID, a.Title, a.Description, a.Author, a.Category, a.ReadTime, a.ImageURL, string(a.Status), a.CreatedAt)
	return err
}

func (r *articleRepo) GetActive(ctx context.Context, id uuid.UUID) (*models.ExpertArticle, error) {
	return scanArticle(r.db.QueryRow(ctx, baseSelectArticle()+" WHERE id=$1 AND status='active'", id))
}

// ListActive filters by category when non-empty; callers normalise "all categories".
func (r *articleRepo) ListActive(ctx context.Context, category string) ([]*models.ExpertArticle, error) {
	query := baseSelectArticle() + " WHERE status='active'"
	var args []any
	if category != "" {
		query += " AND category=$1"
		args = append(args, category)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.ExpertArticle{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *articleRepo) UpdateActive(ctx context.Context, a *models.ExpertArticle) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE expert_articles SET
			title=$1, description=$2, author=$3, category=$4, read_time=$5, image_url=$6, updated_at=NOW()
		WHERE id=$7 AND status='active'`,
		a.Title, a.Description, a.Author, a.Category, a.ReadTime, a.ImageURL, a.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *articleRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE expert_articles SET status='deleted', updated_at=NOW() WHERE id=$1 AND status='active'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func baseSelectArticle() string {
	return `
		SELECT id, title, description, author, category, read_time, image_url, status, created_at, updated_at
		FROM expert_articles`
}

func scanArticle(row pgx.Row) (*models.ExpertArticle, error) {
	var a models.ExpertArticle
	var status string
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Author, &a.Category, &a.ReadTime, &a.ImageURL, &status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.Status = models.RecordStatus(status)
	return &a, nil
}

// ------------------------------------------------------------------
// Daily news
// ------------------------------------------------------------------

type NewsRepository interface {
	Create(ctx context.Context, n *models.DailyNews) error
	GetActive(ctx context.Context, id uuid.UUID) (*models.DailyNews, error)
	ListActive(ctx context.Context) ([]*models.DailyNews, error)
	UpdateActive(ctx context.Context, n *models.DailyNews) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type newsRepo struct {
	db DB
}

func NewNewsRepository(db DB) NewsRepository {
	return &newsRepo{db: db}
}

func (r *newsRepo) Create(ctx context.Context, n *models.DailyNews) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO daily_news (id, title, description, image_url, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$6)
	`, n.ID, n.Title, n.Description, n.ImageURL, string(n.Status), n.CreatedAt)
	return err
}

func (r *newsRepo) GetActive(ctx context.Context, id uuid.UUID) (*models.DailyNews, error) {
	return scanNews(r.db.QueryRow(ctx, baseSelectNews()+" WHERE id=$1 AND status='active'", id))
}

func (r *newsRepo) ListActive(ctx context.Context) ([]*models.DailyNews, error) {
	rows, err := r.db.Query(ctx, baseSelectNews()+" WHERE status='active' ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.DailyNews{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *newsRepo) UpdateActive(ctx context.Context, n *models.DailyNews) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE daily_news SET title=$1, description=$2, image_url=$3, updated_at=NOW()
		WHERE id=$4 AND status='active'`,
		n.Title, n.Description, n.ImageURL, n.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *newsRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE daily_news SET status='deleted', updated_at=NOW() WHERE id=$1 AND status='active'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func baseSelectNews() string {
	return `
		SELECT id, title, description, image_url, status, created_at, updated_at
		FROM daily_news`
}

func scanNews(row pgx.Row) (*models.DailyNews, error) {
	var n models.DailyNews
	var status string
	err := row.Scan(&n.ID, &n.Title, &n.Description, &n.ImageURL, &status, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	n.Status = models.RecordStatus(status)
	return &n, nil
}
