package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"miniportfolio/api/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserStore is the credential store: persistence of user records plus the
// simple aggregate queries the admin surface needs. Portfolio items live
// inside the user row and are always read and replaced as a whole.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	SetActive(ctx context.Context, id string, active bool) error
	ListActive(ctx context.Context) ([]models.UserSummary, error)
	Stats(ctx context.Context) (models.Stats, error)
	GetPortfolio(ctx context.Context, userID string) ([]models.PortfolioItem, error)
	ReplacePortfolio(ctx context.Context, userID string, items []models.PortfolioItem) error
}

type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

const uniqueViolation = "23505"

func (s *PostgresUserStore) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, name, email, password_hash, role, is_active, last_login, portfolio_items, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`

	items, err := marshalItems(user.PortfolioItems)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		strings.ToLower(user.Email),
		user.PasswordHash,
		user.Role,
		user.IsActive,
		user.LastLogin,
		items,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

const userColumns = `
	id, name, email, password_hash, role, is_active, last_login, portfolio_items, created_at, updated_at
`

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE LOWER(email) = LOWER($1)`
	return s.scanUser(s.pool.QueryRow(ctx, query, email))
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE id = $1`
	return s.scanUser(s.pool.QueryRow(ctx, query, id))
}

func (s *PostgresUserStore) scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var items []byte
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.LastLogin,
		&items,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	if err := json.Unmarshal(items, &user.PortfolioItems); err != nil {
		return models.User{}, fmt.Errorf("decode portfolio items: %w", err)
	}
	return user, nil
}

func (s *PostgresUserStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `
		UPDATE users SET last_login = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := s.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresUserStore) SetActive(ctx context.Context, id string, active bool) error {
	const query = `
		UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := s.pool.Exec(ctx, query, id, active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresUserStore) ListActive(ctx context.Context) ([]models.UserSummary, error) {
	const query = `
		SELECT id, name, email, role, created_at, last_login, jsonb_array_length(portfolio_items)
		FROM users
		WHERE is_active
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.UserSummary, 0)
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Email,
			&u.Role,
			&u.CreatedAt,
			&u.LastLogin,
			&u.PortfolioItemsCount,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, u)
	}
	return summaries, rows.Err()
}

func (s *PostgresUserStore) Stats(ctx context.Context) (models.Stats, error) {
	const query = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE role = 'admin'),
			COUNT(*) FILTER (WHERE role = 'user'),
			COALESCE(SUM(jsonb_array_length(portfolio_items)), 0),
			COUNT(*) FILTER (WHERE is_active)
		FROM users
	`

	var stats models.Stats
	if err := s.pool.QueryRow(ctx, query).Scan(
		&stats.TotalUsers,
		&stats.AdminUsers,
		&stats.RegularUsers,
		&stats.TotalPortfolioItems,
		&stats.ActiveUsers,
	); err != nil {
		return models.Stats{}, err
	}
	return stats, nil
}

func (s *PostgresUserStore) GetPortfolio(ctx context.Context, userID string) ([]models.PortfolioItem, error) {
	const query = `
		SELECT portfolio_items FROM users WHERE id = $1
	`

	var raw []byte
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	items := make([]models.PortfolioItem, 0)
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode portfolio items: %w", err)
	}
	return items, nil
}

// ReplacePortfolio overwrites the embedded item list in a single UPDATE.
// Per-row write atomicity is the only isolation: concurrent replacements
// for the same user are last-writer-wins.
func (s *PostgresUserStore) ReplacePortfolio(ctx context.Context, userID string, items []models.PortfolioItem) error {
	const query = `
		UPDATE users SET portfolio_items = $2, updated_at = NOW() WHERE id = $1
	`

	encoded, err := marshalItems(items)
	if err != nil {
		return err
	}

	cmd, err := s.pool.Exec(ctx, query, userID, encoded)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func marshalItems(items []models.PortfolioItem) ([]byte, error) {
	if items == nil {
		items = []models.PortfolioItem{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode portfolio items: %w", err)
	}
	return encoded, nil
}
