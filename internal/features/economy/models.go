// Package economy управляет виртуальной валютой «очки».
// models.go описывает структуры для балансов и журнала начислений.
package economy

import "time"

// Balance представляет баланс аккаунта.
// Каждый аккаунт имеет ровно одну запись в таблице balances.
type Balance struct {
	ID          int64     `db:"id"`
	AccountID   int64     `db:"account_id"`   // Внутренний account ID (members.id)
	Balance     int64     `db:"balance"`      // Текущий баланс (начинается с 0)
	TotalEarned int64     `db:"total_earned"` // Сколько всего заработано
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Transaction представляет одно начисление очков.
// Журнал позволяет показать историю и разобраться в спорных ситуациях.
type Transaction struct {
	ID              int64     `db:"id"`
	AccountID       int64     `db:"account_id"`
	Amount          int64     `db:"amount"` // Всегда положительная
	TransactionType string    `db:"transaction_type"`
	Description     string    `db:"description"`
	CreatedAt       time.Time `db:"created_at"`
}

// Допустимые типы транзакций
const (
	TxTypeCheckinReward = "checkin_reward" // Награда за ежедневный чекин
	TxTypeAdjustment    = "adjustment"     // Ручная корректировка
)
