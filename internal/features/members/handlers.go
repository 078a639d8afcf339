// Package members — handlers.go обрабатывает Telegram-события регистрации.
// Основные события: команда /start и вступление новых пользователей в чат.
package members

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Handler обрабатывает события участников.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт новый обработчик событий участников.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleStart обрабатывает команду /start — регистрирует пользователя.
func (h *Handler) HandleStart(ctx context.Context, message *tgbotapi.Message) {
	user := message.From
	if user == nil {
		return
	}

	_, err := h.service.Register(ctx, user.ID, user.UserName, user.FirstName, user.LastName)
	if err != nil {
		log.WithError(err).WithField("user_id", user.ID).Error("Ошибка регистрации по /start")
		h.sendMessage(message.Chat.ID, "❌ Не удалось зарегистрироваться, попробуй позже")
		return
	}

	h.sendMessage(message.Chat.ID, fmt.Sprintf(
		"Привет, %s! Аккаунт создан.\nОтмечайся раз в день командой /checkin и копи очки 🎯",
		user.FirstName,
	))
}

// HandleNewChatMembers обрабатывает вступление новых пользователей в чат.
// Каждый новый участник сразу получает аккаунт — чекин заработает
// без отдельного /start.
func (h *Handler) HandleNewChatMembers(ctx context.Context, newMembers []tgbotapi.User) {
	for _, user := range newMembers {
		if user.IsBot {
			continue
		}
		if _, err := h.service.Register(ctx, user.ID, user.UserName, user.FirstName, user.LastName); err != nil {
			log.WithError(err).WithField("user_id", user.ID).Error("Ошибка регистрации нового участника")
		}
	}
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
