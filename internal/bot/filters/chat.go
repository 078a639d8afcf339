// Package filters — chat.go решает, в каких чатах бот принимает команды.
package filters

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// ChatFilter пропускает личные сообщения и один разрешённый групповой чат.
// chatID == 0 — ограничение по группам отключено.
type ChatFilter struct {
	chatID int64
}

func NewChatFilter(chatID int64) *ChatFilter {
	return &ChatFilter{chatID: chatID}
}

// CheckAccess проверяет, можно ли обрабатывать это сообщение.
func (f *ChatFilter) CheckAccess(message *tgbotapi.Message) bool {
	if message == nil || message.Chat == nil || message.From == nil {
		// Сервисные сообщения каналов и т.п.
		return false
	}

	if message.Chat.IsPrivate() {
		return true
	}

	if f.chatID == 0 || message.Chat.ID == f.chatID {
		return true
	}

	log.WithFields(log.Fields{
		"component": "ChatFilter",
		"chat_id":   message.Chat.ID,
		"user_id":   message.From.ID,
	}).Debug("Сообщение из неразрешённого чата — игнорируем")
	return false
}
