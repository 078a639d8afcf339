// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
//
// Вся валидация выполняется здесь, при старте: некорректная таблица наград
// или шкала бонусов должна уронить запуск, а не всплыть посреди чекина.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// RewardTier — один интервал таблицы наград: целые очки в [Low, High]
// выпадают с относительным весом Weight.
type RewardTier struct {
	Low    int
	High   int
	Weight float64
}

// BonusSchedule — линейная шкала бонуса за серию с насыщением.
// Бонус за день n (n>=1) = min(Start + (n-1)*Step, Cap) процентов.
type BonusSchedule struct {
	Start float64
	Step  float64
	Cap   float64
}

// Greetings — приветствия по времени суток плюс ответ на повторный чекин.
type Greetings struct {
	Dawn      string
	Morning   string
	Noon      string
	Afternoon string
	Evening   string
	Already   string
}

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// ID группового чата, в котором бот принимает команды.
	// 0 — разрешены любые чаты (личные сообщения проходят всегда).
	ChatID int64 `envconfig:"CHAT_ID" default:"0"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт "postgres" (имя сервиса в docker-compose), для локалки DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"checkin_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт"
	// = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Checkin ---
	// Таблица наград: интервалы "low-high:вес" через запятую.
	// Веса относительные и нормализуются, сумма не обязана равняться 1.
	CheckinTiersRaw string       `envconfig:"CHECKIN_TIERS" default:"0-15:0.10,16-25:0.35,26-40:0.50,41-55:0.05"`
	CheckinTiers    []RewardTier `envconfig:"-"` // заполняется из CheckinTiersRaw

	// Шкала бонуса за серию (проценты)
	CheckinBonusStart float64 `envconfig:"CHECKIN_BONUS_START" default:"10"`
	CheckinBonusStep  float64 `envconfig:"CHECKIN_BONUS_STEP" default:"5"`
	CheckinBonusCap   float64 `envconfig:"CHECKIN_BONUS_CAP" default:"35"`

	// Приветствия по часам (0-5 / 6-10 / 11-13 / 14-17 / 18-23)
	GreetingDawn      string `envconfig:"CHECKIN_GREETING_DAWN" default:"Не спится? Чекин засчитан 🌙"`
	GreetingMorning   string `envconfig:"CHECKIN_GREETING_MORNING" default:"Доброе утро! ☀️"`
	GreetingNoon      string `envconfig:"CHECKIN_GREETING_NOON" default:"Приятного обеда! 🍜"`
	GreetingAfternoon string `envconfig:"CHECKIN_GREETING_AFTERNOON" default:"Добрый день! 🌤"`
	GreetingEvening   string `envconfig:"CHECKIN_GREETING_EVENING" default:"Добрый вечер! 🌆"`
	GreetingAlready   string `envconfig:"CHECKIN_GREETING_ALREADY" default:"Сегодня ты уже отмечался, приходи завтра 😉"`

	// --- Reminder ---
	// Напоминаем вечером тем, у кого серия >= порога и чекина сегодня нет
	ReminderMinStreak int    `envconfig:"REMINDER_MIN_STREAK" default:"3"`
	ReminderCronSpec  string `envconfig:"REMINDER_CRON_SPEC" default:"0 21 * * *"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// BonusSchedule собирает шкалу бонуса из настроек.
func (c *Config) BonusSchedule() BonusSchedule {
	return BonusSchedule{
		Start: c.CheckinBonusStart,
		Step:  c.CheckinBonusStep,
		Cap:   c.CheckinBonusCap,
	}
}

// Greetings собирает приветствия из настроек.
func (c *Config) Greetings() Greetings {
	return Greetings{
		Dawn:      c.GreetingDawn,
		Morning:   c.GreetingMorning,
		Noon:      c.GreetingNoon,
		Afternoon: c.GreetingAfternoon,
		Evening:   c.GreetingEvening,
		Already:   c.GreetingAlready,
	}
}

// Location возвращает часовой пояс приложения.
// «Логический день» чекина определяется именно в этом поясе.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return nil, fmt.Errorf("некорректный APP_TIMEZONE %q: %w", c.AppTimezone, err)
	}
	return loc, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if len(c.CheckinTiers) == 0 {
		return fmt.Errorf("CHECKIN_TIERS: таблица наград пуста")
	}
	for i, t := range c.CheckinTiers {
		if t.Low > t.High {
			return fmt.Errorf("CHECKIN_TIERS: интервал %d перевёрнут (%d > %d)", i+1, t.Low, t.High)
		}
		if t.Weight <= 0 {
			return fmt.Errorf("CHECKIN_TIERS: интервал %d имеет неположительный вес %g", i+1, t.Weight)
		}
	}
	if c.CheckinBonusStart < 0 || c.CheckinBonusStep < 0 || c.CheckinBonusCap < 0 {
		return fmt.Errorf("шкала бонуса не может содержать отрицательные значения")
	}
	if c.ReminderMinStreak < 1 {
		return fmt.Errorf("REMINDER_MIN_STREAK должен быть >= 1")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	tiers, err := ParseTiers(cfg.CheckinTiersRaw)
	if err != nil {
		return nil, fmt.Errorf("CHECKIN_TIERS parse: %w", err)
	}
	cfg.CheckinTiers = tiers

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseTiers разбирает таблицу наград из строки вида
// "0-15:0.10,16-25:0.35,26-40:0.50,41-55:0.05".
func ParseTiers(s string) ([]RewardTier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("пустая таблица наград")
	}

	parts := strings.Split(s, ",")
	tiers := make([]RewardTier, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)

		rangeAndWeight := strings.Split(p, ":")
		if len(rangeAndWeight) != 2 {
			return nil, fmt.Errorf("ожидался формат low-high:вес, получено %q", p)
		}

		bounds := strings.Split(rangeAndWeight[0], "-")
		if len(bounds) != 2 {
			return nil, fmt.Errorf("ожидался интервал low-high, получено %q", rangeAndWeight[0])
		}

		low, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil {
			return nil, fmt.Errorf("некорректная нижняя граница %q: %w", bounds[0], err)
		}
		high, err := strconv.Atoi(strings.TrimSpace(bounds[1]))
		if err != nil {
			return nil, fmt.Errorf("некорректная верхняя граница %q: %w", bounds[1], err)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(rangeAndWeight[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("некорректный вес %q: %w", rangeAndWeight[1], err)
		}

		tiers = append(tiers, RewardTier{Low: low, High: high, Weight: weight})
	}
	return tiers, nil
}
