// Package checkin — draw.go реализует розыгрыш базовой награды.
//
// Таблица наград — список интервалов (low, high, вес). Вес задаёт
// относительную вероятность интервала; внутри выбранного интервала
// все целые значения равновероятны.
package checkin

import (
	"fmt"
	"math/rand"

	"checkin-bot/internal/config"
)

// RewardTable — нормализованная таблица наград.
// После конструктора неизменяема, поэтому Draw можно звать из любых горутин:
// потокобезопасность сводится к потокобезопасности общего math/rand.
type RewardTable struct {
	tiers      []config.RewardTier
	cumulative []float64 // Накопленные нормализованные веса; последний элемент == 1
}

// NewRewardTable валидирует и нормализует таблицу наград.
// Ошибки конфигурации всплывают здесь, при активации, а не посреди чекина.
func NewRewardTable(tiers []config.RewardTier) (*RewardTable, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("таблица наград пуста")
	}

	var totalWeight float64
	for i, t := range tiers {
		if t.Low > t.High {
			return nil, fmt.Errorf("интервал %d перевёрнут: %d > %d", i+1, t.Low, t.High)
		}
		if t.Weight <= 0 {
			return nil, fmt.Errorf("интервал %d имеет неположительный вес %g", i+1, t.Weight)
		}
		totalWeight += t.Weight
	}

	// Нормализуем: веса работают как пропорции, оператору не нужно
	// вручную подгонять сумму к единице.
	table := &RewardTable{
		tiers:      make([]config.RewardTier, len(tiers)),
		cumulative: make([]float64, len(tiers)),
	}
	copy(table.tiers, tiers)

	var acc float64
	for i, t := range tiers {
		acc += t.Weight / totalWeight
		table.cumulative[i] = acc
	}
	// Страхуемся от накопленной погрешности float
	table.cumulative[len(tiers)-1] = 1.0

	return table, nil
}

// Draw разыгрывает базовую награду: выбирает интервал по накопленным весам
// и равновероятное целое внутри него (границы включительно).
func (t *RewardTable) Draw() int64 {
	tier := t.tiers[t.pick(rand.Float64())]
	return int64(tier.Low + rand.Intn(tier.High-tier.Low+1))
}

// pick возвращает индекс первого интервала, чей накопленный вес превышает f.
// f ожидается в [0, 1).
func (t *RewardTable) pick(f float64) int {
	for i, c := range t.cumulative {
		if f < c {
			return i
		}
	}
	return len(t.cumulative) - 1
}

// Tiers возвращает копию интервалов (для вывода таблицы в справке).
func (t *RewardTable) Tiers() []config.RewardTier {
	out := make([]config.RewardTier, len(t.tiers))
	copy(out, t.tiers)
	return out
}
