package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/dtos"
	"github.com/iamavinashmourya/FarmCare/internal/models"
	"github.com/iamavinashmourya/FarmCare/internal/repositories"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

type SchemeService interface {
	List(ctx context.Context, state string) ([]*models.Scheme, error)
	Create(ctx context.Context, req dtos.SchemeRequest) (*models.Scheme, error)
	Update(ctx context.Context, id string, req dtos.SchemeRequest) (*models.Scheme, error)
	Delete(ctx context.Context, id string) error
}

type schemeService struct {
	repo  repositories.SchemeRepository
	clock auth.Clock
}

func NewSchemeService(repo repositories.SchemeRepository, clock auth.Clock) SchemeService {
	return &schemeService{repo: repo, clock: clock}
}

func (s *schemeService) List(ctx context.Context, state string) ([]*models.Scheme, error) {
	list, err := s.repo.List(ctx, strings.TrimSpace(state))
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to fetch schemes", err)
	}
	return list, nil
}

func (s *schemeService) Create(ctx context.Context, req dtos.SchemeRequest) (*models.Scheme, error) {
	now := s.clock.Now().UTC()
	sc := &models.Scheme{
		ID:        uuid.New(),
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applySchemeRequest(sc, req)
	if err := s.repo.Create(ctx, sc); err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to create scheme", err)
	}
	return sc, nil
}

func (s *schemeService) Update(ctx context.Context, id string, req dtos.SchemeRequest) (*models.Scheme, error) {
	sid, err := parseID(id, "Scheme not found")
	if err != nil {
		return nil, err
	}
	sc, err := s.repo.GetByID(ctx, sid)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to update scheme", err)
	}
	if sc == nil || sc.Status != models.StatusActive {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "Scheme not found", utils.ErrNotFound)
	}

	applySchemeRequest(sc, req)
	sc.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.UpdateActive(ctx, sc); err != nil {
		return nil, notFoundOrInternal(err, "Scheme not found", "Failed to update scheme")
	}
	return sc, nil
}

func (s *schemeService) Delete(ctx context.Context, id string) error {
	sid, err := parseID(id, "Scheme not found")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, sid); err != nil {
		return notFoundOrInternal(err, "Scheme not found", "Failed to delete scheme")
	}
	return nil
}

func applySchemeRequest(sc *models.Scheme, req dtos.SchemeRequest) {
	sc.Name = strings.TrimSpace(req.Name)
	sc.Description = req.Description
	sc.Eligibility = req.Eligibility
	sc.Benefits = req.Benefits
	sc.State = strings.TrimSpace(req.State)
}

// parseID maps an unparsable path id to 404, the same answer an unknown id gets.
func parseID(id, notFoundMsg string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, notFoundMsg, err)
	}
	return parsed, nil
}

func notFoundOrInternal(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, notFoundMsg, err)
	}
	return utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, internalMsg, err)
}
