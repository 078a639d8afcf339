// Package checkin — repository.go выполняет операции с таблицей signins.
//
// Apply — единственное место, где чекин пишет в БД: обновление серии и
// начисление награды идут в одной транзакции с блокировкой строки,
// поэтому два одновременных чекина одного аккаунта не могут получить
// награду дважды, а серия и баланс не могут разъехаться.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"checkin-bot/internal/common"
)

// Repository предоставляет методы для работы с таблицей signins.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий чекинов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Ensure создаёт начальную запись чекина для аккаунта, если её ещё нет:
// серия 0, дата последнего чекина пуста. Первый чекин пройдёт тем же
// путём, что и обычный следующий день.
func (r *Repository) Ensure(ctx context.Context, accountID int64) error {
	query := `
		INSERT INTO signins (account_id, last_checkin_date, consecutive_days, total_checkins)
		VALUES ($1, NULL, 0, 0)
		ON CONFLICT (account_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("ошибка создания записи чекина: %w", err)
	}
	return nil
}

// Get возвращает запись чекина аккаунта.
func (r *Repository) Get(ctx context.Context, accountID int64) (*SignIn, error) {
	query := `
		SELECT id, account_id, last_checkin_date, consecutive_days, total_checkins,
		       created_at, updated_at
		FROM signins
		WHERE account_id = $1
	`
	var s SignIn
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&s.ID, &s.AccountID, &s.LastCheckInDate, &s.ConsecutiveDays,
		&s.TotalCheckins, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("запись чекина не найдена (account_id=%d): %w", accountID, err)
		}
		return nil, fmt.Errorf("ошибка чтения чекина (account_id=%d): %w", accountID, err)
	}
	return &s, nil
}

// Apply фиксирует чекин: записывает новую дату и серию и вызывает credit
// на той же транзакции (начисление награды в журнал экономики).
//
// Строка блокируется через SELECT ... FOR UPDATE и дата перепроверяется:
// если параллельный чекин успел зафиксировать сегодняшнюю дату раньше,
// возвращается common.ErrAlreadyCheckedIn и ничего не начисляется.
// Так гарантируется не больше одной награды на аккаунт в день.
func (r *Repository) Apply(ctx context.Context, accountID int64, day time.Time, days int, credit func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var lastDate *time.Time
	err = tx.QueryRow(ctx, `
		SELECT last_checkin_date FROM signins WHERE account_id = $1 FOR UPDATE
	`, accountID).Scan(&lastDate)
	if err != nil {
		return fmt.Errorf("ошибка блокировки записи чекина: %w", err)
	}

	// Перепроверка под блокировкой: решение принималось по снимку без
	// блокировки и могло устареть
	if Classify(lastDate, day) == RelSame {
		return common.ErrAlreadyCheckedIn
	}

	_, err = tx.Exec(ctx, `
		UPDATE signins
		SET last_checkin_date = $2,
		    consecutive_days = $3,
		    total_checkins = total_checkins + 1,
		    updated_at = NOW()
		WHERE account_id = $1
	`, accountID, day, days)
	if err != nil {
		return fmt.Errorf("ошибка записи чекина: %w", err)
	}

	if err := credit(ctx, tx); err != nil {
		return fmt.Errorf("ошибка начисления награды: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка фиксации чекина: %w", err)
	}
	return nil
}

// GetAtRisk возвращает account ID с серией >= minStreak, не отметившихся
// в день day. Используется вечерним напоминанием.
func (r *Repository) GetAtRisk(ctx context.Context, minStreak int, day time.Time) ([]int64, error) {
	query := `
		SELECT account_id
		FROM signins
		WHERE consecutive_days >= $1
		  AND last_checkin_date IS NOT NULL
		  AND last_checkin_date < $2
	`
	rows, err := r.db.Query(ctx, query, minStreak, day)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска серий под угрозой: %w", err)
	}
	defer rows.Close()

	var accounts []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка сканирования: %w", err)
		}
		accounts = append(accounts, id)
	}
	return accounts, rows.Err()
}
