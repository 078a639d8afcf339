package checkin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"checkin-bot/internal/config"
)

// fixedTable — таблица из одного значения: base всегда 10, розыгрыш
// детерминирован и расчёт бонуса проверяется точно.
func fixedTable(t *testing.T) *RewardTable {
	t.Helper()
	table, err := NewRewardTable([]config.RewardTier{{Low: 10, High: 10, Weight: 1}})
	require.NoError(t, err)
	return table
}

var testSchedule = config.BonusSchedule{Start: 10, Step: 5, Cap: 35}

func logicalDay(d time.Time) LogicalDay {
	return LogicalDay{Date: d, Hour: 12}
}

func TestBonusPercent(t *testing.T) {
	sched := config.BonusSchedule{Start: 5, Step: 5, Cap: 35}

	tests := []struct {
		days int
		want int
	}{
		{0, 0},   // день после сброса серии — без бонуса
		{-1, 0},  // отрицательные значения не ломают расчёт
		{1, 5},   // первый день — стартовый бонус
		{2, 10},
		{7, 35},  // 5 + 6*5 = 35 — ровно на границе
		{8, 35},  // насыщение
		{100, 35},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, BonusPercent(tt.days, sched), "days=%d", tt.days)
	}
}

func TestBonusPercent_FloorsFraction(t *testing.T) {
	sched := config.BonusSchedule{Start: 2.5, Step: 1.5, Cap: 100}
	require.Equal(t, 2, BonusPercent(1, sched)) // floor(2.5)
	require.Equal(t, 4, BonusPercent(2, sched)) // floor(4.0)
	require.Equal(t, 5, BonusPercent(3, sched)) // floor(5.5)
}

func TestComputeOutcome_FirstCheckIn(t *testing.T) {
	// Первый чекин идёт тем же путём, что и обычный следующий день: 0 → 1
	rec := &SignIn{AccountID: 1, LastCheckInDate: nil, ConsecutiveDays: 0}

	o := ComputeOutcome(rec, logicalDay(date(2024, 3, 24)), fixedTable(t), testSchedule)

	require.Equal(t, OutcomeContinued, o.Kind)
	require.Equal(t, 1, o.StreakDays)
	require.Equal(t, int64(10), o.BasePoints)
	require.Equal(t, 10, o.BonusPercent) // start = 10% уже с первого дня
	require.Equal(t, int64(1), o.ExtraPoints)
	require.Equal(t, int64(11), o.TotalPoints)
}

func TestComputeOutcome_SameDay(t *testing.T) {
	last := date(2024, 3, 24)
	rec := &SignIn{AccountID: 1, LastCheckInDate: &last, ConsecutiveDays: 3}

	o := ComputeOutcome(rec, logicalDay(last), fixedTable(t), testSchedule)

	require.Equal(t, OutcomeAlready, o.Kind)
	require.Equal(t, 3, o.StreakDays)
	// Никакой награды за повтор
	require.Zero(t, o.BasePoints)
	require.Zero(t, o.TotalPoints)
}

func TestComputeOutcome_NextDay(t *testing.T) {
	last := date(2024, 3, 24)
	rec := &SignIn{AccountID: 1, LastCheckInDate: &last, ConsecutiveDays: 4}

	o := ComputeOutcome(rec, logicalDay(date(2024, 3, 25)), fixedTable(t), testSchedule)

	require.Equal(t, OutcomeContinued, o.Kind)
	require.Equal(t, 5, o.StreakDays)
	require.Equal(t, 30, o.BonusPercent) // 10 + 4*5
	require.Equal(t, int64(3), o.ExtraPoints)
	require.Equal(t, int64(13), o.TotalPoints)
}

func TestComputeOutcome_NextDayAcrossMonthEnd(t *testing.T) {
	// 31 января → 1 февраля: серия продолжается, несмотря на то что
	// номер дня месяца уменьшился
	last := date(2024, 1, 31)
	rec := &SignIn{AccountID: 1, LastCheckInDate: &last, ConsecutiveDays: 1}

	o := ComputeOutcome(rec, logicalDay(date(2024, 2, 1)), fixedTable(t), testSchedule)

	require.Equal(t, OutcomeContinued, o.Kind)
	require.Equal(t, 2, o.StreakDays)
}

func TestComputeOutcome_Gap(t *testing.T) {
	last := date(2024, 3, 24)
	rec := &SignIn{AccountID: 1, LastCheckInDate: &last, ConsecutiveDays: 7}

	o := ComputeOutcome(rec, logicalDay(date(2024, 3, 27)), fixedTable(t), testSchedule)

	// Серия сброшена в 0 (не в 1), но базовая награда всё равно выдана
	require.Equal(t, OutcomeReset, o.Kind)
	require.Equal(t, 0, o.StreakDays)
	require.Equal(t, int64(10), o.BasePoints)
	require.Equal(t, 0, o.BonusPercent)
	require.Zero(t, o.ExtraPoints)
	require.Equal(t, int64(10), o.TotalPoints)
	require.Greater(t, o.TotalPoints, int64(0))
}

func TestComputeOutcome_BonusSaturatesOnLongStreak(t *testing.T) {
	last := date(2024, 3, 24)
	rec := &SignIn{AccountID: 1, LastCheckInDate: &last, ConsecutiveDays: 364}

	o := ComputeOutcome(rec, logicalDay(date(2024, 3, 25)), fixedTable(t), testSchedule)

	require.Equal(t, 365, o.StreakDays)
	require.Equal(t, 35, o.BonusPercent) // cap
}

func TestComputeOutcome_ExtraPointsFloored(t *testing.T) {
	// base 13, бонус 10% → extra floor(1.3) = 1
	table, err := NewRewardTable([]config.RewardTier{{Low: 13, High: 13, Weight: 1}})
	require.NoError(t, err)

	rec := &SignIn{AccountID: 1, LastCheckInDate: nil, ConsecutiveDays: 0}
	o := ComputeOutcome(rec, logicalDay(date(2024, 3, 24)), table, testSchedule)

	require.Equal(t, int64(1), o.ExtraPoints)
	require.Equal(t, int64(14), o.TotalPoints)
}
