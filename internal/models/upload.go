package models

import (
	"time"

	"github.com/google/uuid"
)

// Upload is one plant image diagnosis in a user's history.
type Upload struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	FileName       string    `json:"file_name"`
	ContentType    string    `json:"content_type"`
	SizeBytes      int64     `json:"size_bytes"`
	AnalysisResult string    `json:"analysis_result"`
	UploadedAt     time.Time `json:"uploaded_at"`
}
