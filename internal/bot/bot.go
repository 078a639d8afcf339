// Package bot содержит главный модуль бота — запуск polling, разбор команд
// и маршрутизацию к обработчикам фич.
package bot

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"checkin-bot/internal/bot/filters"
	"checkin-bot/internal/bot/middleware"
	"checkin-bot/internal/common"
	"checkin-bot/internal/config"
	"checkin-bot/internal/features/checkin"
	"checkin-bot/internal/features/economy"
	"checkin-bot/internal/features/members"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	memberService *members.Service

	memberHandler  *members.Handler
	checkinHandler *checkin.Handler
	economyHandler *economy.Handler

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	memberService *members.Service,
	memberHandler *members.Handler,
	checkinHandler *checkin.Handler,
	economyHandler *economy.Handler,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:            api,
		cfg:            cfg,
		chatFilter:     filters.NewChatFilter(cfg.ChatID),
		rateLimiter:    middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		memberService:  memberService,
		memberHandler:  memberHandler,
		checkinHandler: checkinHandler,
		economyHandler: economyHandler,
		inflight:       make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	// Событие вступления новых участников — регистрируем сразу
	if update.Message != nil && update.Message.NewChatMembers != nil {
		if b.chatFilter.CheckAccess(update.Message) {
			b.memberHandler.HandleNewChatMembers(ctx, update.Message.NewChatMembers)
		}
		return
	}

	if update.Message == nil || update.Message.Text == "" {
		return
	}

	message := update.Message
	middleware.LogMessage(message)

	if !b.chatFilter.CheckAccess(message) {
		return
	}

	if !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	cmd, isCommand := parseCommand(message.Text)
	if !isCommand {
		return
	}

	b.routeCommand(ctx, message, cmd)
}

// routeCommand маршрутизирует команду к нужному обработчику.
// Все команды, кроме /start, требуют привязанного аккаунта.
func (b *Bot) routeCommand(ctx context.Context, message *tgbotapi.Message, cmd string) {
	chatID := message.Chat.ID
	userID := message.From.ID

	if cmd == "start" {
		b.memberHandler.HandleStart(ctx, message)
		return
	}
	if cmd == "help" || cmd == "помощь" {
		b.sendMessage(chatID, "Команды:\n"+
			"/checkin (!чекин) — ежедневный чекин\n"+
			"!стрик — твоя серия\n"+
			"!баланс — очки на счету\n"+
			"!история — последние начисления")
		return
	}

	accountID, err := b.memberService.AccountID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrUserNotRegistered) {
			b.sendMessage(chatID, "Сначала зарегистрируйся командой /start 🙂")
			return
		}
		log.WithError(err).WithField("user_id", userID).Error("Ошибка поиска аккаунта")
		b.sendMessage(chatID, "❌ Внутренняя ошибка, попробуй позже")
		return
	}

	switch cmd {
	case "checkin", "чекин":
		b.checkinHandler.HandleCheckIn(ctx, chatID, accountID)

	case "streak", "стрик":
		b.checkinHandler.HandleStreak(ctx, chatID, accountID)

	case "balance", "баланс":
		b.economyHandler.HandleBalance(ctx, chatID, accountID)

	case "history", "история":
		b.economyHandler.HandleHistory(ctx, chatID, accountID)
	}
}

// parseCommand разбирает текст команды с префиксами /, ! или точкой.
// Суффикс "@имябота" после команды отбрасывается.
func parseCommand(text string) (string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range []string{"/", "!", "."} {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}
	if !hasPrefix {
		return "", false
	}

	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", false
	}

	cmd := strings.ToLower(parts[0])
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return cmd, cmd != ""
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// SendMessageToUser отправляет личное сообщение пользователю (напоминания).
func (b *Bot) SendMessageToUser(userID int64, text string) {
	msg := tgbotapi.NewMessage(userID, text)
	if _, err := b.api.Send(msg); err != nil {
		// Пользователь мог не открывать диалог с ботом — это не сбой
		log.WithError(err).WithField("user_id", userID).Debug("Не удалось отправить сообщение")
	}
}
