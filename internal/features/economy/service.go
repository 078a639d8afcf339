// Package economy — service.go содержит бизнес-логику экономики.
// Валидация начислений, получение баланса и истории транзакций.
package economy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"checkin-bot/internal/common"
)

// Service управляет экономикой бота (очки).
type Service struct {
	repo *Repository
	loc  *time.Location // Пояс для отображения дат в истории
}

// NewService создаёт новый сервис экономики.
func NewService(repo *Repository, loc *time.Location) *Service {
	return &Service{repo: repo, loc: loc}
}

// GetBalance возвращает текущий баланс аккаунта.
func (s *Service) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	return s.repo.GetBalance(ctx, accountID)
}

// Credit начисляет очки аккаунту в отдельной транзакции.
func (s *Service) Credit(ctx context.Context, accountID, amount int64, txType, description string) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	return s.repo.Credit(ctx, accountID, amount, txType, description)
}

// CreditInTx начисляет очки внутри чужой транзакции tx.
// Используется чекином: обновление серии и начисление награды
// фиксируются одним Commit — частичное применение невозможно.
func (s *Service) CreditInTx(ctx context.Context, tx pgx.Tx, accountID, amount int64, txType, description string) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	return s.repo.CreditInTx(ctx, tx, accountID, amount, txType, description)
}

// EnsureBalance создаёт начальный баланс для нового аккаунта (0 очков).
func (s *Service) EnsureBalance(ctx context.Context, accountID int64) error {
	return s.repo.EnsureBalance(ctx, accountID)
}

// GetTransactionHistory возвращает форматированную историю начислений.
// Последние 10 транзакций.
func (s *Service) GetTransactionHistory(ctx context.Context, accountID int64) (string, error) {
	transactions, err := s.repo.GetTransactions(ctx, accountID, 10)
	if err != nil {
		return "", err
	}

	if len(transactions) == 0 {
		return "📋 У тебя пока нет начислений", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Последние %d начислений:\n\n", len(transactions)))
	for i, tx := range transactions {
		sb.WriteString(fmt.Sprintf("%d. %s | +%s | %s\n",
			i+1,
			common.FormatDateTime(tx.CreatedAt, s.loc),
			common.FormatPoints(tx.Amount),
			tx.Description,
		))
	}
	return sb.String(), nil
}
