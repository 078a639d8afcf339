// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает вечернее напоминание тем, у кого длинная серия
// под угрозой: чекина сегодня ещё не было.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"checkin-bot/internal/common"
	"checkin-bot/internal/config"
	"checkin-bot/internal/features/checkin"
	"checkin-bot/internal/features/members"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron           *cron.Cron
	cfg            *config.Config
	checkinService *checkin.Service
	memberService  *members.Service
	sendFunc       func(userID int64, text string)
}

// NewScheduler создаёт планировщик задач в часовом поясе приложения.
// Расписание задаётся в этом же поясе: «21:00» — это 21:00 у пользователей.
func NewScheduler(cfg *config.Config, checkinService *checkin.Service, memberService *members.Service, sendFunc func(userID int64, text string)) *Scheduler {
	loc, err := cfg.Location()
	if err != nil {
		// Конфигурация уже провалидирована; сюда попадаем только при гонке
		// с изменением tz-базы на хосте
		log.WithError(err).Warn("Не удалось загрузить часовой пояс, используем UTC")
		loc = time.UTC
	}

	return &Scheduler{
		cron:           cron.New(cron.WithLocation(loc)),
		cfg:            cfg,
		checkinService: checkinService,
		memberService:  memberService,
		sendFunc:       sendFunc,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.ReminderCronSpec, func() {
		log.Debug("[CRON] Проверка серий под угрозой")
		if err := s.remindAtRisk(ctx); err != nil {
			log.WithError(err).Error("[CRON] Ошибка напоминаний")
		}
	})
	if err != nil {
		return fmt.Errorf("некорректное расписание напоминаний %q: %w", s.cfg.ReminderCronSpec, err)
	}

	s.cron.Start()
	log.WithField("spec", s.cfg.ReminderCronSpec).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и дожидается завершения задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// remindAtRisk рассылает напоминания аккаунтам с серией >= порога,
// которые сегодня ещё не отмечались.
func (s *Scheduler) remindAtRisk(ctx context.Context) error {
	accounts, err := s.checkinService.AtRisk(ctx, s.cfg.ReminderMinStreak)
	if err != nil {
		return err
	}

	sent := 0
	for _, accountID := range accounts {
		userID, err := s.memberService.UserIDByAccount(ctx, accountID)
		if err != nil {
			log.WithError(err).WithField("account_id", accountID).Warn("Напоминание: аккаунт без привязки")
			continue
		}

		rec, err := s.checkinService.Status(ctx, accountID)
		if err != nil {
			log.WithError(err).WithField("account_id", accountID).Warn("Напоминание: не удалось прочитать серию")
			continue
		}

		s.sendFunc(userID, fmt.Sprintf(
			"⚠️ Твоя серия %d %s под угрозой! Не забудь /checkin до полуночи.",
			rec.ConsecutiveDays, common.PluralizeDays(rec.ConsecutiveDays),
		))
		sent++
	}

	if sent > 0 {
		log.WithField("sent", sent).Info("Напоминания отправлены")
	}
	return nil
}
