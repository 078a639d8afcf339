package checkin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"checkin-bot/internal/config"
)

func TestNewRewardTable_Validation(t *testing.T) {
	tests := []struct {
		name  string
		tiers []config.RewardTier
	}{
		{"пустая таблица", nil},
		{"перевёрнутый интервал", []config.RewardTier{{Low: 10, High: 5, Weight: 1}}},
		{"нулевой вес", []config.RewardTier{{Low: 0, High: 5, Weight: 0}}},
		{"отрицательный вес", []config.RewardTier{{Low: 0, High: 5, Weight: -0.5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRewardTable(tt.tiers)
			require.Error(t, err)
		})
	}
}

func TestNewRewardTable_NormalizesWeights(t *testing.T) {
	// Веса 1:1:2 — пропорции, а не вероятности; сумма не равна 1
	table, err := NewRewardTable([]config.RewardTier{
		{Low: 0, High: 9, Weight: 1},
		{Low: 10, High: 19, Weight: 1},
		{Low: 20, High: 29, Weight: 2},
	})
	require.NoError(t, err)

	require.Equal(t, 0, table.pick(0.10))
	require.Equal(t, 0, table.pick(0.24))
	require.Equal(t, 1, table.pick(0.25))
	require.Equal(t, 1, table.pick(0.49))
	require.Equal(t, 2, table.pick(0.50))
	require.Equal(t, 2, table.pick(0.999))

	// Последний накопленный вес выравнивается ровно в 1
	require.Equal(t, 1.0, table.cumulative[len(table.cumulative)-1])
}

func TestRewardTable_DrawBoundsInclusive(t *testing.T) {
	table, err := NewRewardTable([]config.RewardTier{{Low: 3, High: 7, Weight: 1}})
	require.NoError(t, err)

	seen := map[int64]bool{}
	for i := 0; i < 2000; i++ {
		v := table.Draw()
		require.GreaterOrEqual(t, v, int64(3))
		require.LessOrEqual(t, v, int64(7))
		seen[v] = true
	}

	// Обе границы достижимы
	require.True(t, seen[3], "нижняя граница ни разу не выпала")
	require.True(t, seen[7], "верхняя граница ни разу не выпала")
}

func TestRewardTable_DrawSingleValueTier(t *testing.T) {
	table, err := NewRewardTable([]config.RewardTier{{Low: 5, High: 5, Weight: 1}})
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.Equal(t, int64(5), table.Draw())
	}
}

func TestRewardTable_DrawFrequencies(t *testing.T) {
	// Таблица по умолчанию: непересекающиеся интервалы, чтобы по значению
	// однозначно определить интервал
	tiers := []config.RewardTier{
		{Low: 0, High: 15, Weight: 0.10},
		{Low: 16, High: 25, Weight: 0.35},
		{Low: 26, High: 40, Weight: 0.50},
		{Low: 41, High: 55, Weight: 0.05},
	}
	table, err := NewRewardTable(tiers)
	require.NoError(t, err)

	const n = 100000
	counts := make([]int, len(tiers))
	for i := 0; i < n; i++ {
		v := table.Draw()
		for j, tier := range tiers {
			if v >= int64(tier.Low) && v <= int64(tier.High) {
				counts[j]++
				break
			}
		}
	}

	// Частоты сходятся к нормализованным весам; допуск ±2% — на 100k
	// розыгрышей это с огромным запасом больше статистического шума
	for j, tier := range tiers {
		got := float64(counts[j]) / n
		require.InDelta(t, tier.Weight, got, 0.02,
			"интервал %d: ожидалось ~%.2f, получено %.4f", j+1, tier.Weight, got)
	}
}
