// Package economy — repository.go выполняет все операции с таблицами balances
// и transactions. Начисление и запись в журнал всегда выполняются в одной
// транзакции БД для целостности данных.
package economy

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository предоставляет методы для работы с балансами и транзакциями.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий экономики.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureBalance гарантирует, что у аккаунта есть запись баланса.
// Если нет — создаёт с нулевым балансом. Вызывается при регистрации.
func (r *Repository) EnsureBalance(ctx context.Context, accountID int64) error {
	query := `
		INSERT INTO balances (account_id, balance, total_earned)
		VALUES ($1, 0, 0)
		ON CONFLICT (account_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("ошибка создания баланса: %w", err)
	}
	return nil
}

// GetBalance возвращает текущий баланс аккаунта.
// Отсутствие записи трактуется как нулевой баланс.
func (r *Repository) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	query := `SELECT COALESCE(
		(SELECT balance FROM balances WHERE account_id = $1), 0
	)`
	var balance int64
	err := r.db.QueryRow(ctx, query, accountID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения баланса: %w", err)
	}
	return balance, nil
}

// CreditInTx начисляет очки аккаунту внутри уже открытой транзакции tx.
// Вызывающая сторона отвечает за Commit/Rollback: так начисление можно
// связать в один атомарный блок с другими записями (например, с чекином).
func (r *Repository) CreditInTx(ctx context.Context, tx pgx.Tx, accountID, amount int64, txType, description string) error {
	// Запись баланса могла ещё не существовать (старые аккаунты)
	_, err := tx.Exec(ctx, `
		INSERT INTO balances (account_id, balance, total_earned)
		VALUES ($1, 0, 0)
		ON CONFLICT (account_id) DO NOTHING
	`, accountID)
	if err != nil {
		return fmt.Errorf("ошибка подготовки баланса: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE balances
		SET balance = balance + $2, total_earned = total_earned + $2, updated_at = NOW()
		WHERE account_id = $1
	`, accountID, amount)
	if err != nil {
		return fmt.Errorf("ошибка начисления: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO transactions (account_id, amount, transaction_type, description)
		VALUES ($1, $2, $3, $4)
	`, accountID, amount, txType, description)
	if err != nil {
		return fmt.Errorf("ошибка записи транзакции: %w", err)
	}

	return nil
}

// Credit начисляет очки в собственной транзакции.
// Для начислений, не связанных с другими записями.
func (r *Repository) Credit(ctx context.Context, accountID, amount int64, txType, description string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.CreditInTx(ctx, tx, accountID, amount, txType, description); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetTransactions возвращает последние N начислений аккаунта.
func (r *Repository) GetTransactions(ctx context.Context, accountID int64, limit int) ([]*Transaction, error) {
	query := `
		SELECT id, account_id, amount, transaction_type, description, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения транзакций: %w", err)
	}
	defer rows.Close()

	var transactions []*Transaction
	for rows.Next() {
		var t Transaction
		err := rows.Scan(&t.ID, &t.AccountID, &t.Amount, &t.TransactionType, &t.Description, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования транзакции: %w", err)
		}
		transactions = append(transactions, &t)
	}
	return transactions, rows.Err()
}

// GetTotalStats возвращает общую статистику баланса аккаунта.
func (r *Repository) GetTotalStats(ctx context.Context, accountID int64) (*Balance, error) {
	query := `
		SELECT id, account_id, balance, total_earned, created_at, updated_at
		FROM balances
		WHERE account_id = $1
	`
	var b Balance
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&b.ID, &b.AccountID, &b.Balance, &b.TotalEarned, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики: %w", err)
	}
	return &b, nil
}
