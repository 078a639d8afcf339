package checkin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"checkin-bot/internal/common"
	"checkin-bot/internal/config"
)

// fakeStore — хранилище чекинов в памяти. Apply повторяет контракт
// репозитория: перепроверка даты и отказ ErrAlreadyCheckedIn, если
// сегодняшняя дата уже зафиксирована.
type fakeStore struct {
	records    map[int64]*SignIn
	applyErr   error
	applyCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[int64]*SignIn{}}
}

func (f *fakeStore) Ensure(_ context.Context, accountID int64) error {
	if _, ok := f.records[accountID]; !ok {
		f.records[accountID] = &SignIn{AccountID: accountID}
	}
	return nil
}

func (f *fakeStore) Get(_ context.Context, accountID int64) (*SignIn, error) {
	rec, ok := f.records[accountID]
	if !ok {
		return nil, errors.New("запись не найдена")
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) Apply(ctx context.Context, accountID int64, day time.Time, days int, credit func(ctx context.Context, tx pgx.Tx) error) error {
	f.applyCalls++
	if f.applyErr != nil {
		return f.applyErr
	}
	rec := f.records[accountID]
	if Classify(rec.LastCheckInDate, day) == RelSame {
		return common.ErrAlreadyCheckedIn
	}
	if err := credit(ctx, nil); err != nil {
		return err
	}
	d := day
	rec.LastCheckInDate = &d
	rec.ConsecutiveDays = days
	rec.TotalCheckins++
	return nil
}

func (f *fakeStore) GetAtRisk(_ context.Context, minStreak int, day time.Time) ([]int64, error) {
	var out []int64
	for id, rec := range f.records {
		if rec.ConsecutiveDays >= minStreak && rec.LastCheckInDate != nil && rec.LastCheckInDate.Before(day) {
			out = append(out, id)
		}
	}
	return out, nil
}

// fakeLedger записывает начисления; может вернуть заданную ошибку,
// имитируя сбой транзакции.
type fakeLedger struct {
	credits []int64
	err     error
}

func (f *fakeLedger) CreditInTx(_ context.Context, _ pgx.Tx, _ int64, amount int64, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.credits = append(f.credits, amount)
	return nil
}

func newTestService(t *testing.T, store *fakeStore, ledger *fakeLedger) *Service {
	t.Helper()
	return NewService(store, ledger, fixedTable(t), testSchedule, time.UTC)
}

// daysAgo — дата n дней назад в UTC, усечённая до суток.
func daysAgo(n int) *time.Time {
	d := Today(time.UTC).Date.AddDate(0, 0, -n)
	return &d
}

func TestService_CheckIn_First(t *testing.T) {
	store := newFakeStore()
	ledger := &fakeLedger{}
	svc := newTestService(t, store, ledger)

	o, err := svc.CheckIn(context.Background(), 42)
	require.NoError(t, err)

	require.Equal(t, OutcomeContinued, o.Kind)
	require.Equal(t, 1, o.StreakDays)
	require.Equal(t, int64(11), o.TotalPoints) // 10 + 10%

	// Запись обновлена, начисление прошло
	rec := store.records[42]
	require.Equal(t, 1, rec.ConsecutiveDays)
	require.Equal(t, 1, rec.TotalCheckins)
	require.NotNil(t, rec.LastCheckInDate)
	require.Equal(t, []int64{11}, ledger.credits)
}

func TestService_CheckIn_SecondSameDayIdempotent(t *testing.T) {
	store := newFakeStore()
	ledger := &fakeLedger{}
	svc := newTestService(t, store, ledger)

	_, err := svc.CheckIn(context.Background(), 42)
	require.NoError(t, err)

	o, err := svc.CheckIn(context.Background(), 42)
	require.NoError(t, err)

	require.Equal(t, OutcomeAlready, o.Kind)
	require.Zero(t, o.TotalPoints)

	// Ровно одно начисление, запись не изменилась
	require.Len(t, ledger.credits, 1)
	require.Equal(t, 1, store.records[42].ConsecutiveDays)
	require.Equal(t, 1, store.records[42].TotalCheckins)
}

func TestService_CheckIn_ContinuesStreak(t *testing.T) {
	store := newFakeStore()
	store.records[42] = &SignIn{
		AccountID:       42,
		LastCheckInDate: daysAgo(1),
		ConsecutiveDays: 4,
		TotalCheckins:   9,
	}
	ledger := &fakeLedger{}
	svc := newTestService(t, store, ledger)

	o, err := svc.CheckIn(context.Background(), 42)
	require.NoError(t, err)

	require.Equal(t, OutcomeContinued, o.Kind)
	require.Equal(t, 5, o.StreakDays)
	require.Equal(t, 5, store.records[42].ConsecutiveDays)
	require.Equal(t, 10, store.records[42].TotalCheckins)
}

func TestService_CheckIn_GapResetsStreakButPays(t *testing.T) {
	store := newFakeStore()
	store.records[42] = &SignIn{
		AccountID:       42,
		LastCheckInDate: daysAgo(3),
		ConsecutiveDays: 7,
	}
	ledger := &fakeLedger{}
	svc := newTestService(t, store, ledger)

	o, err := svc.CheckIn(context.Background(), 42)
	require.NoError(t, err)

	require.Equal(t, OutcomeReset, o.Kind)
	require.Equal(t, 0, o.StreakDays)
	require.Equal(t, int64(10), o.TotalPoints) // база без бонуса
	require.Equal(t, 0, store.records[42].ConsecutiveDays)
	require.Equal(t, []int64{10}, ledger.credits)
}

func TestService_CheckIn_ZeroDrawStillRecorded(t *testing.T) {
	// Нижняя граница интервала может быть нулём: чекин и серия
	// фиксируются, но нулевой записи в журнале не появляется
	store := newFakeStore()
	ledger := &fakeLedger{}
	table, err := NewRewardTable([]config.RewardTier{{Low: 0, High: 0, Weight: 1}})
	require.NoError(t, err)
	svc := NewService(store, ledger, table, testSchedule, time.UTC)

	o, err := svc.CheckIn(context.Background(), 42)
	require.NoError(t, err)

	require.Equal(t, OutcomeContinued, o.Kind)
	require.Zero(t, o.TotalPoints)
	require.Equal(t, 1, store.records[42].ConsecutiveDays)
	require.Empty(t, ledger.credits)
}

func TestService_CheckIn_LedgerFailureSurfaces(t *testing.T) {
	store := newFakeStore()
	ledger := &fakeLedger{err: errors.New("журнал недоступен")}
	svc := newTestService(t, store, ledger)

	_, err := svc.CheckIn(context.Background(), 42)
	require.Error(t, err)
	require.ErrorContains(t, err, "чекин не применён")

	// Запись не должна выглядеть применённой
	require.Nil(t, store.records[42].LastCheckInDate)
	require.Zero(t, store.records[42].TotalCheckins)
	require.Empty(t, ledger.credits)
}

func TestService_CheckIn_ApplyFailureSurfaces(t *testing.T) {
	store := newFakeStore()
	store.applyErr = errors.New("соединение с БД потеряно")
	svc := newTestService(t, store, &fakeLedger{})

	_, err := svc.CheckIn(context.Background(), 42)
	require.Error(t, err)
	require.ErrorContains(t, err, "чекин не применён")
}

func TestService_CheckIn_LostRaceBecomesAlready(t *testing.T) {
	// Между снимком и применением параллельный чекин успел записать
	// сегодняшнюю дату: Apply возвращает ErrAlreadyCheckedIn, сервис
	// превращает это в спокойный исход «уже отмечался»
	store := newFakeStore()
	store.applyErr = common.ErrAlreadyCheckedIn
	ledger := &fakeLedger{}
	svc := newTestService(t, store, ledger)

	o, err := svc.CheckIn(context.Background(), 42)
	require.NoError(t, err)

	require.Equal(t, OutcomeAlready, o.Kind)
	require.Empty(t, ledger.credits)
	require.Equal(t, 1, store.applyCalls)
}

func TestService_Status(t *testing.T) {
	store := newFakeStore()
	store.records[42] = &SignIn{AccountID: 42, ConsecutiveDays: 6, TotalCheckins: 20}
	svc := newTestService(t, store, &fakeLedger{})

	rec, err := svc.Status(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, 6, rec.ConsecutiveDays)
	require.Equal(t, 20, rec.TotalCheckins)
}

func TestService_NextBonusPercent(t *testing.T) {
	svc := newTestService(t, newFakeStore(), &fakeLedger{})

	// Пустая запись → завтра будет день 1 → стартовый бонус
	require.Equal(t, 10, svc.NextBonusPercent(&SignIn{ConsecutiveDays: 0}))
	require.Equal(t, 10, svc.NextBonusPercent(nil))
	// День 5 → завтра 6 → 10 + 5*5 = 35 (как раз cap)
	require.Equal(t, 35, svc.NextBonusPercent(&SignIn{ConsecutiveDays: 5}))
	require.Equal(t, 35, svc.NextBonusPercent(&SignIn{ConsecutiveDays: 100}))
}

func TestService_AtRisk(t *testing.T) {
	store := newFakeStore()
	store.records[1] = &SignIn{AccountID: 1, LastCheckInDate: daysAgo(1), ConsecutiveDays: 5}
	store.records[2] = &SignIn{AccountID: 2, LastCheckInDate: daysAgo(0), ConsecutiveDays: 8} // уже отметился
	store.records[3] = &SignIn{AccountID: 3, LastCheckInDate: daysAgo(1), ConsecutiveDays: 1} // серия мала
	svc := newTestService(t, store, &fakeLedger{})

	ids, err := svc.AtRisk(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, []int64{1}, ids)
}
