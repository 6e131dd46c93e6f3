package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/dtos"
	"github.com/iamavinashmourya/FarmCare/internal/metrics"
	"github.com/iamavinashmourya/FarmCare/internal/models"
	"github.com/iamavinashmourya/FarmCare/internal/repositories"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// AccountService handles registration, login, logout and profile edits for
// farmers and admins.
type AccountService interface {
	RegisterUser(ctx context.Context, req dtos.RegisterUserRequest) (*models.User, error)
	RegisterAdmin(ctx context.Context, req dtos.RegisterAdminRequest) (*models.User, error)
	Login(ctx context.Context, req dtos.LoginRequest, asAdmin bool) (*dtos.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req dtos.UpdateProfileRequest) (*models.User, error)
}

type accountService struct {
	users    repositories.UserRepository
	guard    *auth.Guard
	clock    auth.Clock
	adminKey []byte
}

func NewAccountService(
	users repositories.UserRepository,
	guard *auth.Guard,
	clock auth.Clock,
	adminRegistrationKey string,
) AccountService {
	return &accountService{
		users:    users,
		guard:    guard,
		clock:    clock,
		adminKey: []byte(adminRegistrationKey),
	}
}

// ----------------------------------------------------------------------
// Registration
// ----------------------------------------------------------------------

func (s *accountService) RegisterUser(ctx context.Context, req dtos.RegisterUserRequest) (*models.User, error) {
	u, err := s.newAccount(ctx, req.FullName, req.Email, req.Mobile, req.Password)
	if err != nil {
		return nil, err
	}
	u.State = utils.Ptr(strings.TrimSpace(req.State))
	u.Region = utils.Ptr(strings.TrimSpace(req.Region))

	if err := s.create(ctx, u); err != nil {
		return nil, err
	}
	utils.Logger.WithField("user_id", u.ID).Info("Registered new user")
	return u, nil
}

func (s *accountService) RegisterAdmin(ctx context.Context, req dtos.RegisterAdminRequest) (*models.User, error) {
	if len(s.adminKey) == 0 || subtle.ConstantTimeCompare([]byte(req.AdminKey), s.adminKey) != 1 {
		return nil, utils.NewAppError(http.StatusForbidden, utils.ErrCodeForbidden, "Invalid admin registration key", nil)
	}

	u, err := s.newAccount(ctx, req.FullName, req.Email, req.Mobile, req.Password)
	if err != nil {
		return nil, err
	}
	u.IsAdmin = true

	if err := s.create(ctx, u); err != nil {
		return nil, err
	}
	utils.Logger.WithField("admin_id", u.ID).Info("Registered new admin")
	return u, nil
}

func (s *accountService) newAccount(ctx context.Context, fullName, email, mobile, password string) (*models.User, error) {
	if err := utils.ValidatePasswordStrength(password); err != nil {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), err)
	}

	email = strings.TrimSpace(email)
	mobile = strings.TrimSpace(mobile)

	existing, err := s.users.FindByEmailOrMobile(ctx, email, mobile)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Registration failed", err)
	}
	if existing != nil {
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict, "Email or mobile number already registered", nil)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Registration failed", err)
	}

	now := s.clock.Now().UTC()
	return &models.User{
		ID:                      uuid.New(),
		FullName:                strings.TrimSpace(fullName),
		Email:                   email,
		Mobile:                  mobile,
		PasswordHash:            hash,
		ProfileImage:            randomProfileImage(),
		Status:                  models.AccountStatusActive,
		CreatedAt:               now,
		UpdatedAt:               now,
		NotificationPreferences: models.DefaultNotificationPreferences(),
	}, nil
}

func (s *accountService) create(ctx context.Context, u *models.User) error {
	err := s.users.Create(ctx, u)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, utils.ErrEmailExists), errors.Is(err, utils.ErrMobileExists):
		return utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict, "Email or mobile number already registered", err)
	default:
		return utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Registration failed", err)
	}
}

func randomProfileImage() models.ProfileImage {
	collection := utils.RandomChoice(utils.ProfileImageCollections)
	seed := utils.RandomChoice(utils.ProfileImageSeeds)
	return models.ProfileImage{
		Collection: collection,
		Seed:       seed,
		URL:        fmt.Sprintf("%s/%s/svg?seed=%s", utils.DiceBearBaseURL, collection, url.QueryEscape(seed)),
	}
}

// ----------------------------------------------------------------------
// Sessions
// ----------------------------------------------------------------------

func (s *accountService) Login(ctx context.Context, req dtos.LoginRequest, asAdmin bool) (*dtos.LoginResponse, error) {
	u, err := s.users.FindByIdentifier(ctx, req.LoginID)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Login failed", err)
	}
	if u == nil || u.Status != models.AccountStatusActive || !utils.CheckPasswordHash(req.Password, u.PasswordHash) {
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Invalid credentials", utils.ErrInvalidCredentials)
	}

	switch {
	case asAdmin && !u.IsAdmin:
		return nil, utils.NewAppError(http.StatusForbidden, utils.ErrCodeForbidden, "Not an admin user", nil)
	case !asAdmin && u.IsAdmin:
		return nil, utils.NewAppError(http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Please use admin login", nil)
	}

	now := s.clock.Now()
	token, expiresAt, err := s.guard.IssueToken(u.ID.String(), u.IsAdmin, now)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Token generation failed", err)
	}

	if err := s.users.TouchLastLogin(ctx, u.ID, now.UTC()); err != nil {
		utils.Logger.WithError(err).WithField("user_id", u.ID).Warn("Failed to update last_login")
	} else {
		u.LastLogin = utils.Ptr(now.UTC())
	}

	utils.Logger.WithFields(logrus.Fields{
		"user_id":   u.ID,
		"is_admin":  u.IsAdmin,
		"valid_for": tokenLifetime(expiresAt, now),
	}).Info("Issued session token")

	return &dtos.LoginResponse{
		Message:   "Login successful",
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dtos.NewUserResponse(u),
	}, nil
}

// Logout revokes the presented token. The route has already verified it.
func (s *accountService) Logout(ctx context.Context, token string) error {
	if err := s.guard.Revoke(ctx, token, s.clock.Now()); err != nil {
		return utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Logout failed", err)
	}
	metrics.TokensRevokedTotal.Inc()
	return nil
}

// ----------------------------------------------------------------------
// Profile
// ----------------------------------------------------------------------

func (s *accountService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found", err)
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to load profile", err)
	}
	if u == nil {
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found", utils.ErrNotFound)
	}
	return u, nil
}

// UpdateProfile applies the present fields. Checks that need the stored row
// (current password, email ownership) run once up front; the write itself is
// retried on row_version conflicts.
func (s *accountService) UpdateProfile(ctx context.Context, userID string, req dtos.UpdateProfileRequest) (*models.User, error) {
	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Mobile != nil {
		utils.Logger.WithField("user_id", userID).Debug("Ignoring mobile number change")
	}

	var email *string
	if req.Email != nil {
		e := strings.TrimSpace(*req.Email)
		if !utils.IsValidEmail(e) {
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Invalid email format", nil)
		}
		taken, err := s.users.EmailTakenByOther(ctx, e, current.ID)
		if err != nil {
			return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to update profile", err)
		}
		if taken {
			return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict, "Email is already in use", utils.ErrEmailExists)
		}
		email = &e
	}

	var newHash *string
	if req.NewPassword != nil {
		if req.CurrentPassword == nil || *req.CurrentPassword == "" {
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Current password is required", nil)
		}
		if !utils.CheckPasswordHash(*req.CurrentPassword, current.PasswordHash) {
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeInvalidCredentials, "Current password is incorrect", nil)
		}
		if err := utils.ValidatePasswordStrength(*req.NewPassword); err != nil {
			return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, err.Error(), err)
		}
		h, err := utils.HashPassword(*req.NewPassword)
		if err != nil {
			return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to update profile", err)
		}
		newHash = &h
	}

	if req.FullName == nil && email == nil && newHash == nil && req.State == nil && req.Region == nil {
		return nil, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "No updates provided", nil)
	}

	var updated *models.User
	err = s.users.UpdateWithRetry(ctx, current.ID, func(u *models.User) error {
		if req.FullName != nil {
			u.FullName = strings.TrimSpace(*req.FullName)
		}
		if email != nil {
			u.Email = *email
		}
		if newHash != nil {
			u.PasswordHash = *newHash
		}
		if req.State != nil {
			u.State = utils.Ptr(strings.TrimSpace(*req.State))
		}
		if req.Region != nil {
			u.Region = utils.Ptr(strings.TrimSpace(*req.Region))
		}
		u.UpdatedAt = s.clock.Now().UTC()
		updated = u
		return nil
	})
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, utils.ErrEmailExists):
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeConflict, "Email is already in use", err)
	case errors.Is(err, utils.ErrNotFound):
		return nil, utils.NewAppError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found", err)
	case errors.Is(err, utils.ErrRowVersionConflict):
		return nil, utils.NewAppError(http.StatusConflict, utils.ErrCodeRowVersionConflict, "Profile was modified concurrently, please retry", err)
	default:
		return nil, utils.NewAppError(http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to update profile", err)
	}
}

// tokenLifetime is the remaining validity reported in logs.
func tokenLifetime(expiresAt, now time.Time) time.Duration {
	return expiresAt.Sub(now).Round(time.Second)
}
