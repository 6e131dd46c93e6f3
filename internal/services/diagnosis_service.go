package services

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/metrics"
	"github.com/iamavinashmourya/FarmCare/internal/models"
	"github.com/iamavinashmourya/FarmCare/internal/repositories"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

var allowedImageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
}

// ImageUpload is one uploaded plant photo.
type ImageUpload struct {
	FileName string
	Data     []byte
}

// DiagnosisService sends plant photos to the vision model and keeps a per-user history.
type DiagnosisService interface {
	Analyze(ctx context.Context, userID string, img ImageUpload) (*models.Upload, error)
	History(ctx context.Context, userID string) ([]*models.Upload, error)
	Count(ctx context.Context, userID string) (int64, error)
}

type diagnosisService struct {
	analyzer VisionAnalyzer
	uploads  repositories.UploadRepository
	clock    auth.Clock
	maxBytes int64
}

func NewDiagnosisService(
	analyzer VisionAnalyzer,
	uploads repositories.UploadRepository,
	clock auth.Clock,
	maxBytes int64,
) DiagnosisService {
	return &diagnosisService{analyzer: analyzer, uploads: uploads, clock: clock, maxBytes: maxBytes}
}

func (s *diagnosisService) Analyze(ctx context.Context, userID string, img ImageUpload) (*models.Upload, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid user", err)
	}
	if err := s.checkImage(img); err != nil {
		metrics.DiagnosisRequestsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	contentType := http.DetectContentType(img.Data)
	analysis, err := s.analyzer.AnalyzePlantImage(ctx, img.Data, contentType)
	if err != nil {
		metrics.DiagnosisRequestsTotal.WithLabelValues("model_error").Inc()
		return nil, utils.NewAppError(http.StatusBadGateway, utils.ErrCodeExternalServiceFailure,
			"Analysis failed, please try again later", err)
	}

	up := &models.Upload{
		ID:             uuid.New(),
		UserID:         uid,
		FileName:       filepath.Base(img.FileName),
		ContentType:    contentType,
		SizeBytes:      int64(len(img.Data)),
		AnalysisResult: analysis,
		UploadedAt:     s.clock.Now().UTC(),
	}
	if err := s.uploads.Create(ctx, up); err != nil {
		metrics.DiagnosisRequestsTotal.WithLabelValues("store_error").Inc()
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to save analysis", err)
	}

	metrics.DiagnosisRequestsTotal.WithLabelValues("ok").Inc()
	utils.Logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"upload_id": up.ID,
		"bytes":     up.SizeBytes,
	}).Info("Plant image analysed")
	return up, nil
}

func (s *diagnosisService) checkImage(img ImageUpload) error {
	if strings.TrimSpace(img.FileName) == "" {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "No selected file", nil)
	}
	if _, ok := allowedImageExtensions[strings.ToLower(filepath.Ext(img.FileName))]; !ok {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation,
			"Invalid file type. Allowed types: JPG, JPEG, PNG, GIF, WEBP", nil)
	}
	if len(img.Data) == 0 {
		return utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Uploaded file is empty", nil)
	}
	if s.maxBytes > 0 && int64(len(img.Data)) > s.maxBytes {
		return utils.NewAppError(http.StatusRequestEntityTooLarge, utils.ErrCodeValidation, "File is too large", nil)
	}
	return nil
}

func (s *diagnosisService) History(ctx context.Context, userID string) ([]*models.Upload, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid user", err)
	}
	list, err := s.uploads.ListByUser(ctx, uid)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to fetch analysis history", err)
	}
	return list, nil
}

func (s *diagnosisService) Count(ctx context.Context, userID string) (int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return 0, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid user", err)
	}
	n, err := s.uploads.CountByUser(ctx, uid)
	if err != nil {
		return 0, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to count analyses", err)
	}
	return n, nil
}
