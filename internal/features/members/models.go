// Package members управляет привязкой Telegram-пользователей к аккаунтам.
// models.go описывает структуру данных участника.
package members

import "time"

// Member представляет зарегистрированного участника.
// ID — внутренний номер аккаунта; все остальные таблицы (балансы, чекины)
// ссылаются именно на него, а не на Telegram user ID. Одна запись
// на Telegram-пользователя.
type Member struct {
	ID        int64     `db:"id"`         // Внутренний account ID
	UserID    int64     `db:"user_id"`    // Telegram user ID
	Username  string    `db:"username"`   // @username (может быть пустым)
	FirstName string    `db:"first_name"` // Имя
	LastName  string    `db:"last_name"`  // Фамилия (может быть пустой)
	JoinedAt  time.Time `db:"joined_at"`  // Когда вступил/зарегистрировался
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
