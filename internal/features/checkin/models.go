// Package checkin реализует ежедневный чекин: розыгрыш базовой награды
// по таблице интервалов, серию подряд идущих дней и бонус за серию.
// models.go описывает структуры данных чекина.
package checkin

import "time"

// SignIn представляет запись чекина аккаунта (одна на аккаунт).
// LastCheckInDate == nil — аккаунт ещё ни разу не отмечался.
type SignIn struct {
	ID              int64      `db:"id"`
	AccountID       int64      `db:"account_id"`        // Внутренний account ID (members.id)
	LastCheckInDate *time.Time `db:"last_checkin_date"` // Календарная дата последнего чекина
	ConsecutiveDays int        `db:"consecutive_days"`  // Серия (дней подряд); 0 после сброса
	TotalCheckins   int        `db:"total_checkins"`    // Всего чекинов за всё время
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// OutcomeKind — исход одной попытки чекина.
type OutcomeKind int

const (
	// OutcomeAlready — сегодня уже отмечался: без награды и без записи
	OutcomeAlready OutcomeKind = iota
	// OutcomeContinued — серия продолжена (или начата с первого дня)
	OutcomeContinued
	// OutcomeReset — пропуск сломал серию; награда выдана, серия обнулена
	OutcomeReset
)

// String — имя исхода для логов.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAlready:
		return "already"
	case OutcomeContinued:
		return "continued"
	case OutcomeReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Outcome — результат одной попытки чекина.
// Не хранится в БД: живёт один запрос и отдаётся обработчику
// для выбора приветствия (по часу) и текста ответа.
type Outcome struct {
	Kind         OutcomeKind
	StreakDays   int        // Новая длина серии (для OutcomeReset — 0)
	BasePoints   int64      // Базовая награда из розыгрыша
	BonusPercent int        // Бонус за серию, %
	ExtraPoints  int64      // floor(BasePoints * BonusPercent / 100)
	TotalPoints  int64      // BasePoints + ExtraPoints
	Day          LogicalDay // Логический день попытки (дата + час)
}
