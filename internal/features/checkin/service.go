// Package checkin — service.go оркестрирует один чекин от команды до награды.
//
// Схема: разрешить запись → чистый расчёт исхода → атомарное применение
// (запись серии + начисление) в репозитории. Никаких глобальных флагов:
// всё состояние попытки живёт в Outcome.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"

	"checkin-bot/internal/common"
	"checkin-bot/internal/config"
	"checkin-bot/internal/features/economy"
)

// signinStore — нужная сервису часть репозитория чекинов.
type signinStore interface {
	Ensure(ctx context.Context, accountID int64) error
	Get(ctx context.Context, accountID int64) (*SignIn, error)
	Apply(ctx context.Context, accountID int64, day time.Time, days int, credit func(ctx context.Context, tx pgx.Tx) error) error
	GetAtRisk(ctx context.Context, minStreak int, day time.Time) ([]int64, error)
}

// ledger — нужная сервису часть экономики: начисление в чужой транзакции.
type ledger interface {
	CreditInTx(ctx context.Context, tx pgx.Tx, accountID, amount int64, txType, description string) error
}

// Service управляет чекинами.
type Service struct {
	store  signinStore
	ledger ledger
	table  *RewardTable
	sched  config.BonusSchedule
	loc    *time.Location
}

// NewService создаёт сервис чекинов.
// Таблица наград уже провалидирована при загрузке конфигурации.
func NewService(store signinStore, ledger ledger, table *RewardTable, sched config.BonusSchedule, loc *time.Location) *Service {
	return &Service{
		store:  store,
		ledger: ledger,
		table:  table,
		sched:  sched,
		loc:    loc,
	}
}

// CheckIn выполняет один чекин аккаунта.
//
// Исходы:
//   - OutcomeAlready: сегодня уже отмечался — без записи и без награды,
//     повторные вызовы в тот же день идемпотентны;
//   - OutcomeContinued / OutcomeReset: серия обновлена и награда начислена
//     одной транзакцией БД; при любом сбое транзакции ошибка всплывает,
//     частичного применения не бывает.
func (s *Service) CheckIn(ctx context.Context, accountID int64) (*Outcome, error) {
	if err := s.store.Ensure(ctx, accountID); err != nil {
		return nil, err
	}

	rec, err := s.store.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	day := Today(s.loc)
	outcome := ComputeOutcome(rec, day, s.table, s.sched)

	if outcome.Kind == OutcomeAlready {
		log.WithFields(log.Fields{
			"account_id": accountID,
			"streak":     outcome.StreakDays,
		}).Debug("Повторный чекин за день — отклонён")
		return outcome, nil
	}

	description := fmt.Sprintf("Чекин — день %d", outcome.StreakDays)
	if outcome.Kind == OutcomeReset {
		description = "Чекин после пропуска (серия сброшена)"
	}

	credit := func(ctx context.Context, tx pgx.Tx) error {
		return s.ledger.CreditInTx(ctx, tx, accountID, outcome.TotalPoints, economy.TxTypeCheckinReward, description)
	}
	// Нижняя граница интервала может быть нулём: серию фиксируем,
	// но нулевое начисление в журнал не пишем
	if outcome.TotalPoints == 0 {
		credit = func(context.Context, pgx.Tx) error { return nil }
	}

	err = s.store.Apply(ctx, accountID, day.Date, outcome.StreakDays, credit)
	if err != nil {
		// Проигранная гонка двух одновременных команд: награду получила
		// первая, эта попытка превращается в «уже отмечался»
		if errors.Is(err, common.ErrAlreadyCheckedIn) {
			log.WithField("account_id", accountID).Debug("Параллельный чекин опередил — отклонён")
			return &Outcome{Kind: OutcomeAlready, StreakDays: outcome.StreakDays, Day: day}, nil
		}
		return nil, fmt.Errorf("чекин не применён: %w", err)
	}

	log.WithFields(log.Fields{
		"account_id": accountID,
		"outcome":    outcome.Kind.String(),
		"streak":     outcome.StreakDays,
		"base":       outcome.BasePoints,
		"bonus_pct":  outcome.BonusPercent,
		"total":      outcome.TotalPoints,
	}).Info("Чекин засчитан")

	return outcome, nil
}

// Status возвращает запись чекина аккаунта (для команды !стрик).
func (s *Service) Status(ctx context.Context, accountID int64) (*SignIn, error) {
	if err := s.store.Ensure(ctx, accountID); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, accountID)
}

// NextBonusPercent возвращает процент бонуса, который получит аккаунт,
// если продолжит серию завтра. Для превью в команде !стрик.
func (s *Service) NextBonusPercent(rec *SignIn) int {
	days := 0
	if rec != nil {
		days = rec.ConsecutiveDays
	}
	return BonusPercent(days+1, s.sched)
}

// AtRisk возвращает аккаунты с серией >= minStreak без чекина сегодня.
func (s *Service) AtRisk(ctx context.Context, minStreak int) ([]int64, error) {
	return s.store.GetAtRisk(ctx, minStreak, Today(s.loc).Date)
}
