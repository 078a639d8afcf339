// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики
// и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"checkin-bot/internal/bot"
	"checkin-bot/internal/config"
	"checkin-bot/internal/db/postgres"
	"checkin-bot/internal/features/checkin"
	"checkin-bot/internal/features/economy"
	"checkin-bot/internal/features/members"
	"checkin-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
// Ошибки конфигурации (таблица наград, шкала бонуса) всплывают здесь,
// до запуска polling.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Таблица наград и часовой пояс ===
	table, err := checkin.NewRewardTable(cfg.CheckinTiers)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка таблицы наград: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		pool.Close()
		return nil, err
	}

	// === 3. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 4. Репозитории ===
	memberRepo := members.NewRepository(pool)
	economyRepo := economy.NewRepository(pool)
	checkinRepo := checkin.NewRepository(pool)

	// === 5. Сервисы ===
	memberService := members.NewService(memberRepo)
	economyService := economy.NewService(economyRepo, loc)
	checkinService := checkin.NewService(checkinRepo, economyService, table, cfg.BonusSchedule(), loc)

	// === 6. Обработчики ===
	memberHandler := members.NewHandler(memberService, botAPI)
	economyHandler := economy.NewHandler(economyService, botAPI)
	checkinHandler := checkin.NewHandler(checkinService, botAPI, cfg.Greetings())

	// === 7. Собираем бота ===
	b := bot.New(botAPI, cfg, memberService, memberHandler, checkinHandler, economyHandler)

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(cfg, checkinService, memberService, b.SendMessageToUser)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// runMigrations выполняет все SQL-миграции по порядку.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationsTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Members},
		{2, migration002Economy},
		{3, migration003Signins},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Members = `
CREATE TABLE IF NOT EXISTS members (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL,
    username VARCHAR(255),
    first_name VARCHAR(255) NOT NULL,
    last_name VARCHAR(255),
    joined_at TIMESTAMP DEFAULT NOW(),
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_members_user_id ON members(user_id);
`

var migration002Economy = `
CREATE TABLE IF NOT EXISTS balances (
    id BIGSERIAL PRIMARY KEY,
    account_id BIGINT UNIQUE NOT NULL REFERENCES members(id),
    balance BIGINT DEFAULT 0,
    total_earned BIGINT DEFAULT 0,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    account_id BIGINT NOT NULL REFERENCES members(id),
    amount BIGINT NOT NULL,
    transaction_type VARCHAR(50) NOT NULL,
    description TEXT,
    created_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at DESC);
`

var migration003Signins = `
CREATE TABLE IF NOT EXISTS signins (
    id BIGSERIAL PRIMARY KEY,
    account_id BIGINT UNIQUE NOT NULL REFERENCES members(id),
    last_checkin_date DATE,
    consecutive_days INTEGER NOT NULL DEFAULT 0,
    total_checkins INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT NOW(),
    updated_at TIMESTAMP DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_signins_account_id ON signins(account_id);
`
