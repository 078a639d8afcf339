// Package checkin — handlers.go обрабатывает команды /checkin и !стрик.
// Здесь же живёт выбор приветствия по часу суток: сам движок чекина
// про тексты ничего не знает.
package checkin

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"checkin-bot/internal/common"
	"checkin-bot/internal/config"
)

// Handler обрабатывает команды чекина.
type Handler struct {
	service   *Service
	bot       *tgbotapi.BotAPI
	greetings config.Greetings
}

// NewHandler создаёт новый обработчик команд чекина.
func NewHandler(service *Service, bot *tgbotapi.BotAPI, greetings config.Greetings) *Handler {
	return &Handler{service: service, bot: bot, greetings: greetings}
}

// HandleCheckIn обрабатывает команду /checkin (!чекин).
//
// Формат ответа (серия продолжена):
//
//	Доброе утро! ☀️
//	✅ Чекин засчитан: 3 дня подряд
//	🎲 Базовая награда: 32 очка
//	🔥 Бонус за серию: +15% (+4 очка)
//	💰 Итого: 36 очков
func (h *Handler) HandleCheckIn(ctx context.Context, chatID, accountID int64) {
	outcome, err := h.service.CheckIn(ctx, accountID)
	if err != nil {
		log.WithError(err).WithField("account_id", accountID).Error("Ошибка чекина")
		h.sendMessage(chatID, "❌ Чекин не прошёл, попробуй ещё раз")
		return
	}

	h.sendMessage(chatID, h.renderOutcome(outcome))
}

// HandleStreak обрабатывает команду !стрик — показывает состояние серии.
func (h *Handler) HandleStreak(ctx context.Context, chatID, accountID int64) {
	rec, err := h.service.Status(ctx, accountID)
	if err != nil {
		log.WithError(err).WithField("account_id", accountID).Error("Ошибка получения серии")
		h.sendMessage(chatID, "❌ Не удалось получить данные серии")
		return
	}

	if rec.LastCheckInDate == nil {
		h.sendMessage(chatID, "Ты ещё ни разу не отмечался. Начни с /checkin 🎯")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf(
		"🔥 Твоя серия: %d %s\n"+
			"📅 Последний чекин: %s\n"+
			"📈 Бонус за завтрашний чекин: +%d%%\n"+
			"Всего чекинов: %d",
		rec.ConsecutiveDays, common.PluralizeDays(rec.ConsecutiveDays),
		rec.LastCheckInDate.Format("02.01.2006"),
		h.service.NextBonusPercent(rec),
		rec.TotalCheckins,
	))
}

// renderOutcome собирает текст ответа по исходу чекина.
func (h *Handler) renderOutcome(o *Outcome) string {
	if o.Kind == OutcomeAlready {
		return h.greetings.Already
	}

	header := greetingForHour(h.greetings, o.Day.Hour)

	var streakLine string
	switch o.Kind {
	case OutcomeContinued:
		streakLine = fmt.Sprintf("✅ Чекин засчитан: %d %s подряд",
			o.StreakDays, common.PluralizeDays(o.StreakDays))
	case OutcomeReset:
		streakLine = "✅ Чекин засчитан, но серия прервалась — начинаем заново"
	}

	text := fmt.Sprintf(
		"%s\n%s\n🎲 Базовая награда: %s",
		header, streakLine, common.FormatPoints(o.BasePoints),
	)
	if o.BonusPercent > 0 {
		text += fmt.Sprintf("\n🔥 Бонус за серию: +%d%% (+%s)",
			o.BonusPercent, common.FormatPoints(o.ExtraPoints))
	}
	text += "\n💰 Итого: " + common.FormatPoints(o.TotalPoints)
	return text
}

// greetingForHour выбирает приветствие по часу суток.
// Интервалы: 0-5 ночь, 6-10 утро, 11-13 полдень, 14-17 день, 18-23 вечер.
func greetingForHour(g config.Greetings, hour int) string {
	switch {
	case hour <= 5:
		return g.Dawn
	case hour <= 10:
		return g.Morning
	case hour <= 13:
		return g.Noon
	case hour <= 17:
		return g.Afternoon
	default:
		return g.Evening
	}
}

// sendMessage — вспомогательный метод для отправки текстовых сообщений.
func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
