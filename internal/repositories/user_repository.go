package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/iamavinashmourya/FarmCare/internal/models"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// UserRepository stores farmers and admins.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByIdentifier(ctx context.Context, emailOrMobile string) (*models.User, error)
	FindByEmailOrMobile(ctx context.Context, email, mobile string) (*models.User, error)
	EmailTakenByOther(ctx context.Context, email string, exceptID uuid.UUID) (bool, error)

	UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	SetNotificationPreferences(ctx context.Context, id uuid.UUID, prefs models.NotificationPreferences) error
	SetPushSubscription(ctx context.Context, id uuid.UUID, sub *models.PushSubscription) error
}

type userRepo struct {
	*BaseVersionedRepo[*models.User]
	db DB
}

func NewUserRepository(db DB) UserRepository {
	r := &userRepo{db: db}
	selectStmt := baseSelectUser() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanUser)
	return r
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	prefs, err := json.Marshal(u.NotificationPreferences)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO users (
			id, full_name, email, mobile, password_hash, is_admin,
			profile_image_collection, profile_image_seed, profile_image_url,
			state, region, status, notification_preferences,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13, NOW(), NOW(), 1)
	`,
		u.ID,
		u.FullName,
		u.Email,
		u.Mobile,
		u.PasswordHash,
		u.IsAdmin,
		u.ProfileImage.Collection,
		u.ProfileImage.Seed,
		u.ProfileImage.URL,
		u.State,
		u.Region,
		string(u.Status),
		prefs,
	)
	return mapUniqueViolation(err)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

// FindByIdentifier looks a user up by email (case-insensitive) or mobile.
// Returns nil, nil when nobody matches.
func (r *userRepo) FindByIdentifier(ctx context.Context, emailOrMobile string) (*models.User, error) {
	id := strings.TrimSpace(emailOrMobile)
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE lower(email)=lower($1) OR mobile=$1 LIMIT 1", id)
	return scanUser(row)
}

func (r *userRepo) FindByEmailOrMobile(ctx context.Context, email, mobile string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE lower(email)=lower($1) OR mobile=$2 LIMIT 1", email, mobile)
	return scanUser(row)
}

func (r *userRepo) EmailTakenByOther(ctx context.Context, email string, exceptID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email)=lower($1) AND id<>$2)`,
		email, exceptID,
	).Scan(&exists)
	return exists, err
}

// UpdateIfVersion writes the editable profile columns. Mobile and role never change here.
func (r *userRepo) UpdateIfVersion(ctx context.Context, u *models.User, expected int64) (pgconn.CommandTag, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET
			full_name=$1, email=$2, password_hash=$3,
			state=$4, region=$5,
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$6 AND row_version=$7`,
		u.FullName, u.Email, u.PasswordHash,
		u.State, u.Region,
		u.ID, expected,
	)
	return tag, mapUniqueViolation(err)
}

func (r *userRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.User) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *userRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login=$1 WHERE id=$2`, at, id)
	return err
}

func (r *userRepo) SetNotificationPreferences(ctx context.Context, id uuid.UUID, prefs models.NotificationPreferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET notification_preferences=$1, updated_at=NOW() WHERE id=$2`, raw, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// SetPushSubscription stores sub, or clears the column when sub is nil.
func (r *userRepo) SetPushSubscription(ctx context.Context, id uuid.UUID, sub *models.PushSubscription) error {
	var raw []byte
	if sub != nil {
		b, err := json.Marshal(sub)
		if err != nil {
			return err
		}
		raw = b
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET push_subscription=$1, updated_at=NOW() WHERE id=$2`, raw, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func baseSelectUser() string {
	return `
		SELECT id, full_name, email, mobile, password_hash, is_admin,
		       profile_image_collection, profile_image_seed, profile_image_url,
		       state, region, status, last_login,
		       notification_preferences, push_subscription,
		       row_version, created_at, updated_at
		FROM users`
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var status string
	var prefs, push []byte

	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.Mobile, &u.PasswordHash, &u.IsAdmin,
		&u.ProfileImage.Collection, &u.ProfileImage.Seed, &u.ProfileImage.URL,
		&u.State, &u.Region, &status, &u.LastLogin,
		&prefs, &push,
		&u.RowVersion, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Status = models.AccountStatusType(status)

	u.NotificationPreferences = models.DefaultNotificationPreferences()
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &u.NotificationPreferences); err != nil {
			return nil, err
		}
	}
	if len(push) > 0 {
		var sub models.PushSubscription
		if err := json.Unmarshal(push, &sub); err != nil {
			return nil, err
		}
		u.PushSubscription = &sub
	}
	return &u, nil
}

// mapUniqueViolation turns the users email/mobile unique violations into
// domain errors.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return utils.ErrEmailExists
	case strings.Contains(pgErr.ConstraintName, "mobile"):
		return utils.ErrMobileExists
	}
	return err
}
