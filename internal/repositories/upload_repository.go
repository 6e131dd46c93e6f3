package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/iamavinashmourya/FarmCare/internal/models"
)

type UploadRepository interface {
	Create(ctx context.Context, u *models.Upload) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Upload, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type uploadRepo struct {
	db DB
}

func NewUploadRepository(db DB) UploadRepository {
	return &uploadRepo{db: db}
}

func (r *uploadRepo) Create(ctx context.Context, u *models.Upload) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO uploads (id, user_id, file_name, content_type, size_bytes, analysis_result, uploaded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, u.ID, u.UserID, u.FileName, u.ContentType, u.SizeBytes, u.AnalysisResult, u.UploadedAt)
	return err
}

// ListByUser returns the user's diagnoses, newest first.
func (r *uploadRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Upload, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, file_name, content_type, size_bytes, analysis_result, uploaded_at
		FROM uploads WHERE user_id=$1 ORDER BY uploaded_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*models.Upload{}
	for rows.Next() {
		var u models.Upload
		if err := rows.Scan(&u.ID, &u.UserID, &u.FileName, &u.ContentType, &u.SizeBytes, &u.AnalysisResult, &u.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

func (r *uploadRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM uploads WHERE user_id=$1`, userID).Scan(&n)
	return n, err
}
