package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/spec-kit/quote-service/internal/domain"
)

//go:generate mockgen -destination=../mock/user_repository_mock.go -package=mock github.com/spec-kit/quote-service/internal/repository UserRepository

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ProfilesByIDs(ctx context.Context, ids []string) (map[string]domain.UserProfile, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, profile_image_url, is_admin, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, email, password_hash, first_name, last_name, profile_image_url, is_admin)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.ProfileImageURL,
		user.IsAdmin,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user         domain.User
		profileImage sql.NullString
	)
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&profileImage,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	user.ProfileImageURL = nullStringPtr(profileImage)
	return &user, nil
}

func (r *userRepository) ProfilesByIDs(ctx context.Context, ids []string) (map[string]domain.UserProfile, error) {
	profiles := make(map[string]domain.UserProfile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	query, args, err := psql.
		Select("id", "email", "first_name", "last_name", "profile_image_url").
		From("users").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build profiles query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p            domain.UserProfile
			profileImage sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Email, &p.FirstName, &p.LastName, &profileImage); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p.ProfileImageURL = nullStringPtr(profileImage)
		profiles[p.ID] = p
	}
	return profiles, rows.Err()
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
