package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Telegram TelegramConfig
	Links    LinksConfig
	Session  SessionConfig
}

type AppConfig struct {
	Port               string `validate:"required"`
	Environment        string
	LogFilePath        string `validate:"required"`
	CorsAllowedOrigins string
}

type TelegramConfig struct {
	BotToken string `validate:"required"`
	// Chat ids allowed to use the bot. Everyone else gets their id echoed
	// back so an admin can add them.
	AllowedChatIDs []int64 `validate:"min=1"`
	PollTimeout    int     `validate:"min=1,max=50"` // long-poll seconds
	MessageLimit   int     `validate:"min=200"`      // bulk chunk ceiling, chars
}

type LinksConfig struct {
	BaseURL    string `validate:"required,url"`
	MainHandle string `validate:"required"` // fixed medium for the main channel
	IDLength   int    `validate:"min=3,max=16"`
}

type SessionConfig struct {
	Backend  string        `validate:"oneof=memory redis"`
	TTL      time.Duration `validate:"min=1m"`
	RedisURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "utm-bot.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Telegram: TelegramConfig{
			BotToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
			AllowedChatIDs: getEnvAsInt64List("TELEGRAM_ALLOWED_IDS", nil),
			PollTimeout:    getEnvAsInt("TELEGRAM_POLL_TIMEOUT", 30),
			MessageLimit:   getEnvAsInt("TELEGRAM_MESSAGE_LIMIT", 3500),
		},
		Links: LinksConfig{
			BaseURL:    getEnv("LINK_BASE_URL", "https://higgsfield.ai"),
			MainHandle: getEnv("MAIN_CHANNEL_HANDLE", "higgsfieldai"),
			IDLength:   getEnvAsInt("LINK_ID_LENGTH", 5),
		},
		Session: SessionConfig{
			Backend:  getEnv("SESSION_BACKEND", "memory"),
			TTL:      getEnvAsDuration("SESSION_TTL", time.Hour),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
	}
}

// Validate fails fast on a broken environment instead of limping into the
// first Telegram call.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c.App); err != nil {
		return err
	}
	if err := v.Struct(c.Telegram); err != nil {
		return err
	}
	if err := v.Struct(c.Links); err != nil {
		return err
	}
	return v.Struct(c.Session)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt64List(key string, fallback []int64) []int64 {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	var out []int64
	for _, part := range strings.Split(strValue, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if value, err := strconv.ParseInt(part, 10, 64); err == nil {
			out = append(out, value)
		} else {
			log.Printf("Warning: ignoring bad chat id %q in %s", part, key)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
