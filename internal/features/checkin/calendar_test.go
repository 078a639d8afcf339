package checkin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		last    time.Time
		current time.Time
		want    DayRelation
	}{
		{"тот же день", date(2024, 3, 24), date(2024, 3, 24), RelSame},
		{"следующий день", date(2024, 3, 24), date(2024, 3, 25), RelNext},
		{"переход через месяц", date(2024, 1, 31), date(2024, 2, 1), RelNext},
		{"конец февраля, невисокосный год", date(2023, 2, 28), date(2023, 3, 1), RelNext},
		{"конец февраля, високосный год", date(2024, 2, 29), date(2024, 3, 1), RelNext},
		{"28 февраля в високосный год — ещё не конец месяца", date(2024, 2, 28), date(2024, 3, 1), RelGap},
		{"переход через год", date(2023, 12, 31), date(2024, 1, 1), RelNext},
		{"разрыв в два дня", date(2024, 3, 24), date(2024, 3, 26), RelGap},
		{"разрыв в месяц", date(2024, 2, 24), date(2024, 3, 24), RelGap},
		{"дата в прошлом (часы убежали назад)", date(2024, 3, 24), date(2024, 3, 23), RelGap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(&tt.last, tt.current))
		})
	}
}

func TestClassify_NoRecord(t *testing.T) {
	require.Equal(t, RelNone, Classify(nil, date(2024, 3, 24)))
}

func TestClassify_SameDateAnyYear(t *testing.T) {
	// classify(d, d) == SAME для любых дат, включая границы месяцев
	days := []time.Time{
		date(2024, 1, 1), date(2024, 2, 29), date(2024, 12, 31), date(2000, 7, 15),
	}
	for _, d := range days {
		d := d
		require.Equal(t, RelSame, Classify(&d, d), "дата %s", d.Format("2006-01-02"))
	}
}

func TestClassify_IgnoresTimeOfDay(t *testing.T) {
	// Дата из БД может прийти с временной частью — сравниваются только даты
	last := time.Date(2024, 3, 24, 23, 59, 0, 0, time.UTC)
	current := time.Date(2024, 3, 25, 0, 1, 0, 0, time.UTC)
	require.Equal(t, RelNext, Classify(&last, current))
}

func TestToday(t *testing.T) {
	day := Today(time.UTC)

	require.Equal(t, 0, day.Date.Hour())
	require.Equal(t, 0, day.Date.Minute())
	require.GreaterOrEqual(t, day.Hour, 0)
	require.LessOrEqual(t, day.Hour, 23)
	require.Len(t, day.DateString(), 10)
}
