// Package checkin — engine.go содержит чистый расчёт исхода чекина.
//
// ComputeOutcome не трогает ни БД, ни Telegram: вся математика награды
// проверяется юнит-тестами без живого хранилища, а побочные эффекты
// выполняет сервис отдельным шагом.
package checkin

import (
	"math"
	"time"

	"checkin-bot/internal/config"
)

// BonusPercent возвращает процент бонуса за серию длиной days.
// Линейная шкала с насыщением: min(start + (days-1)*step, cap),
// округление вниз до целого процента. Для days <= 0 бонус равен 0 —
// день после сброса серии оплачивается без надбавки.
func BonusPercent(days int, sched config.BonusSchedule) int {
	if days <= 0 {
		return 0
	}
	percent := sched.Start + float64(days-1)*sched.Step
	if percent > sched.Cap {
		percent = sched.Cap
	}
	return int(math.Floor(percent))
}

// ComputeOutcome вычисляет исход чекина для записи rec в день day.
//
// Переходы серии:
//   - записи нет / дата пуста: первый чекин идёт тем же путём, что и
//     обычный следующий день — 0+1 = 1, без отдельной ветки «первый раз»;
//   - тот же день: OutcomeAlready, ничего не меняется и не начисляется;
//   - следующий день: серия +1;
//   - разрыв: серия обнуляется, но базовая награда всё равно выдаётся
//     (день после разрыва — «нулевой» день новой серии, бонус 0%).
func ComputeOutcome(rec *SignIn, day LogicalDay, table *RewardTable, sched config.BonusSchedule) *Outcome {
	var last *time.Time
	days := 0
	if rec != nil {
		last = rec.LastCheckInDate
		days = rec.ConsecutiveDays
	}

	outcome := &Outcome{Day: day}

	switch Classify(last, day.Date) {
	case RelSame:
		outcome.Kind = OutcomeAlready
		outcome.StreakDays = days
		return outcome
	case RelNone, RelNext:
		outcome.Kind = OutcomeContinued
		outcome.StreakDays = days + 1
	case RelGap:
		outcome.Kind = OutcomeReset
		outcome.StreakDays = 0
	}

	outcome.BasePoints = table.Draw()
	outcome.BonusPercent = BonusPercent(outcome.StreakDays, sched)
	outcome.ExtraPoints = outcome.BasePoints * int64(outcome.BonusPercent) / 100
	outcome.TotalPoints = outcome.BasePoints + outcome.ExtraPoints
	return outcome
}
