package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/iamavinashmourya/FarmCare/internal/dtos"
	"github.com/iamavinashmourya/FarmCare/internal/middleware"
	"github.com/iamavinashmourya/FarmCare/internal/services"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// multipartOverhead covers boundaries and part headers around the file.
const multipartOverhead = 1 << 20

type DiagnosisController struct {
	diagnosis services.DiagnosisService
	maxBytes  int64
}

func NewDiagnosisController(diagnosis services.DiagnosisService, maxUploadBytes int64) *DiagnosisController {
	return &DiagnosisController{diagnosis: diagnosis, maxBytes: maxUploadBytes}
}

// UploadHandler accepts a multipart "file" field and returns the diagnosis.
func (c *DiagnosisController) UploadHandler(w http.ResponseWriter, r *http.Request) {
	limit := c.maxBytes + multipartOverhead
	if r.ContentLength > limit {
		utils.RespondErrorWithCode(w, http.StatusRequestEntityTooLarge, utils.ErrCodeValidation, "File is too large", nil)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(c.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondErrorWithCode(w, http.StatusRequestEntityTooLarge, utils.ErrCodeValidation, "File is too large", nil, err)
			return
		}
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "No file uploaded", nil, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "No file uploaded", nil, err)
		return
	}
	defer file.Close()

	// one byte past the limit is enough for the service to reject it
	data, err := io.ReadAll(io.LimitReader(file, c.maxBytes+1))
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Could not read uploaded file", nil, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	up, err := c.diagnosis.Analyze(r.Context(), userID, services.ImageUpload{FileName: header.Filename, Data: data})
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.AnalysisResponse{
		Analysis: up.AnalysisResult,
		UserID:   userID,
		UploadID: up.ID.String(),
	})
}

func (c *DiagnosisController) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	list, err := c.diagnosis.History(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.AnalysisHistoryResponse{History: list})
}

func (c *DiagnosisController) CountHandler(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	n, err := c.diagnosis.Count(r.Context(), userID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.AnalysisCountResponse{Count: n, UserID: userID})
}
