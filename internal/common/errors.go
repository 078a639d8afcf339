// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки привязки аккаунта
var (
	// ErrUserNotRegistered — для Telegram-пользователя нет записи аккаунта.
	// Обработчик должен предложить зарегистрироваться, а не подставлять
	// какой-либо аккаунт по умолчанию.
	ErrUserNotRegistered = errors.New("пользователь не зарегистрирован")
)

// Ошибки чекина
var (
	// ErrAlreadyCheckedIn — сегодня чекин уже выполнен.
	// Это не сбой, а штатный терминальный исход: повторная команда в тот же день
	// (в том числе проигранная гонка двух одновременных команд).
	ErrAlreadyCheckedIn = errors.New("сегодня уже отмечались")
)

// Ошибки экономики (очки)
var (
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
)
