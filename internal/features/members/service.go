// Package members — service.go содержит бизнес-логику привязки аккаунтов.
// Сервис координирует регистрацию и разрешает Telegram user ID
// во внутренний account ID для остальных модулей.
package members

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Service управляет участниками.
type Service struct {
	repo *Repository
}

// NewService создаёт новый сервис участников.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Register регистрирует пользователя (команда /start или вступление в чат)
// и возвращает его account ID. Повторная регистрация безопасна:
// данные профиля просто обновляются.
func (s *Service) Register(ctx context.Context, userID int64, username, firstName, lastName string) (int64, error) {
	accountID, err := s.repo.Create(ctx, &Member{
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return 0, fmt.Errorf("ошибка регистрации: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"account_id": accountID,
		"username":   username,
	}).Info("Участник зарегистрирован")

	return accountID, nil
}

// AccountID разрешает Telegram user ID во внутренний account ID.
// Если привязки нет — common.ErrUserNotRegistered; обработчик предлагает
// пользователю команду /start.
func (s *Service) AccountID(ctx context.Context, userID int64) (int64, error) {
	return s.repo.AccountID(ctx, userID)
}

// UserIDByAccount возвращает Telegram user ID по account ID.
func (s *Service) UserIDByAccount(ctx context.Context, accountID int64) (int64, error) {
	return s.repo.UserIDByAccount(ctx, accountID)
}

// GetByUserID возвращает участника по его Telegram user ID.
func (s *Service) GetByUserID(ctx context.Context, userID int64) (*Member, error) {
	return s.repo.GetByUserID(ctx, userID)
}
