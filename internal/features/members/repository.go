// Package members — repository.go отвечает за все операции с таблицей members в БД.
// Каждая функция выполняет один SQL-запрос и возвращает результат или ошибку.
package members

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"checkin-bot/internal/common"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create регистрирует участника и возвращает его account ID.
// На конфликте по user_id обновляет только имя/username.
func (r *Repository) Create(ctx context.Context, m *Member) (int64, error) {
	query := `
		INSERT INTO members (user_id, username, first_name, last_name, joined_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    updated_at = NOW()
		RETURNING id
	`
	var accountID int64
	err := r.db.QueryRow(ctx, query,
		m.UserID, m.Username, m.FirstName, m.LastName, time.Now().UTC(),
	).Scan(&accountID)
	if err != nil {
		return 0, fmt.Errorf("ошибка регистрации участника: %w", err)
	}
	return accountID, nil
}

// GetByUserID возвращает участника по Telegram user ID.
// Если привязки нет — common.ErrUserNotRegistered.
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*Member, error) {
	query := `
		SELECT id, user_id, username, first_name, last_name, joined_at, created_at, updated_at
		FROM members
		WHERE user_id = $1
	`
	var m Member
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&m.ID, &m.UserID, &m.Username, &m.FirstName, &m.LastName,
		&m.JoinedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotRegistered
		}
		return nil, fmt.Errorf("ошибка чтения участника (user_id=%d): %w", userID, err)
	}
	return &m, nil
}

// AccountID возвращает внутренний account ID для Telegram-пользователя.
// Отсутствие привязки — штатный исход: common.ErrUserNotRegistered.
func (r *Repository) AccountID(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT id FROM members WHERE user_id = $1`
	var accountID int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, common.ErrUserNotRegistered
		}
		return 0, fmt.Errorf("ошибка поиска аккаунта (user_id=%d): %w", userID, err)
	}
	return accountID, nil
}

// UserIDByAccount возвращает Telegram user ID по account ID.
// Нужно планировщику напоминаний для отправки личных сообщений.
func (r *Repository) UserIDByAccount(ctx context.Context, accountID int64) (int64, error) {
	query := `SELECT user_id FROM members WHERE id = $1`
	var userID int64
	err := r.db.QueryRow(ctx, query, accountID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, common.ErrUserNotRegistered
		}
		return 0, fmt.Errorf("ошибка поиска пользователя (account_id=%d): %w", accountID, err)
	}
	return userID, nil
}

// Exists проверяет, зарегистрирован ли Telegram-пользователь.
func (r *Repository) Exists(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM members WHERE user_id = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID).Scan(&exists)
	return exists, err
}
