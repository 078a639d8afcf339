// Package economy — handlers.go обрабатывает команды !баланс и !история.
package economy

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"checkin-bot/internal/common"
)

// Handler обрабатывает команды экономики.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт новый обработчик команд экономики.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleBalance обрабатывает команду !баланс / /balance.
func (h *Handler) HandleBalance(ctx context.Context, chatID, accountID int64) {
	balance, err := h.service.GetBalance(ctx, accountID)
	if err != nil {
		log.WithError(err).WithField("account_id", accountID).Error("Ошибка получения баланса")
		h.sendMessage(chatID, "❌ Не удалось получить баланс")
		return
	}

	h.sendMessage(chatID, "💰 На счету: "+common.FormatPoints(balance))
}

// HandleHistory обрабатывает команду !история / /history.
func (h *Handler) HandleHistory(ctx context.Context, chatID, accountID int64) {
	text, err := h.service.GetTransactionHistory(ctx, accountID)
	if err != nil {
		log.WithError(err).WithField("account_id", accountID).Error("Ошибка получения истории")
		h.sendMessage(chatID, "❌ Не удалось получить историю начислений")
		return
	}

	h.sendMessage(chatID, text)
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
