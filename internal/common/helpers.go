// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация и форматирование чисел и дат.
package common

import (
	"fmt"
	"time"
)

// PluralizePoints возвращает правильную форму слова «очко» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "очко" (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → "очка" (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → "очков" (0, 5-20, 25-30, 100, ...)
func PluralizePoints(n int64) string {
	absN := n
	if absN < 0 {
		absN = -absN
	}
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "очко"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "очка"
	}
	return "очков"
}

// FormatPoints форматирует сумму очков в читабельную строку.
// Пример: FormatPoints(150) → "150 очков"
func FormatPoints(n int64) string {
	return fmt.Sprintf("%d %s", n, PluralizePoints(n))
}

// PluralizeDays возвращает правильную форму слова «день» для числа n.
//
//	1, 21, 31 → "день"; 2-4, 22-24 → "дня"; 5-20, 25-30 → "дней"
func PluralizeDays(n int) string {
	absN := n
	if absN < 0 {
		absN = -absN
	}
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "день"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "дня"
	}
	return "дней"
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04".
// Используется для отображения дат транзакций.
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("02.01.2006 15:04")
}
