package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Generativ provayderlar
const (
	ProviderNone   = ""
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	Port           int           `mapstructure:"port"`
	DataDir        string        `mapstructure:"bot_data_dir"`
	MenuDBPath     string        `mapstructure:"menu_db_path"`
	TelegramToken  string        `mapstructure:"telegram_bot_token"`
	TelegramAdmins string        `mapstructure:"telegram_admin_ids"`
	MetaVerify     string        `mapstructure:"meta_verify_token"`
	LLMProvider    string        `mapstructure:"llm_provider"`
	OllamaURL      string        `mapstructure:"ollama_url"`
	OllamaModel    string        `mapstructure:"ollama_model"`
	GeminiAPIKey   string        `mapstructure:"gemini_api_key"`
	GeminiModel    string        `mapstructure:"gemini_model"`
	LLMTimeout     time.Duration `mapstructure:"llm_timeout"`
	MaxHistorySize int           `mapstructure:"max_history_size"`
	HistoryIdleTTL time.Duration `mapstructure:"history_idle_ttl"`
	LogLevel       string        `mapstructure:"log_level"`
}

var defaults = map[string]any{
	"port":               5000,
	"bot_data_dir":       "bot_data",
	"menu_db_path":       "",
	"telegram_bot_token": "",
	"telegram_admin_ids": "",
	"meta_verify_token":  "",
	"llm_provider":       ProviderNone,
	"ollama_url":         "http://localhost:11434",
	"ollama_model":       "llama2",
	"gemini_api_key":     "",
	"gemini_model":       "gemini-2.0-flash",
	"llm_timeout":        "30s",
	"max_history_size":   50,
	"history_idle_ttl":   "24h",
	"log_level":          "info",
}

// Load konfiguratsiyani yuklash: .env, muhit o'zgaruvchilari va ixtiyoriy CONFIG_FILE (YAML)
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.BindEnv("config_file", "CONFIG_FILE"); err != nil {
		return nil, err
	}
	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate qiymatlarni tekshirish
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("BOT_DATA_DIR is empty"))
	}
	switch c.LLMProvider {
	case ProviderNone, ProviderOllama:
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required when LLM_PROVIDER=gemini"))
		}
	default:
		errs = append(errs, fmt.Errorf("LLM_PROVIDER must be empty, %q or %q, got %q", ProviderOllama, ProviderGemini, c.LLMProvider))
	}
	if _, err := c.AdminIDs(); err != nil {
		errs = append(errs, err)
	}
	if c.LLMTimeout <= 0 {
		errs = append(errs, fmt.Errorf("LLM_TIMEOUT must be positive, got %s", c.LLMTimeout))
	}
	if c.MaxHistorySize <= 0 {
		errs = append(errs, fmt.Errorf("MAX_HISTORY_SIZE must be positive, got %d", c.MaxHistorySize))
	}
	if c.HistoryIdleTTL < 0 {
		errs = append(errs, fmt.Errorf("HISTORY_IDLE_TTL must not be negative, got %s", c.HistoryIdleTTL))
	}
	return errors.Join(errs...)
}

// AdminIDs menyu yuklashi mumkin bo'lgan Telegram foydalanuvchilari (vergul bilan ajratilgan)
func (c *Config) AdminIDs() ([]int64, error) {
	var ids []int64
	for _, field := range strings.Split(c.TelegramAdmins, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_ADMIN_IDS: invalid id %q", field)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Addr HTTP server manzili
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
