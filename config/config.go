package config

import (
	"fmt"
	"strings"
	"time"

	"signal-brain/pkg/common"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger     `mapstructure:"logger"`
	DB         Database   `mapstructure:"database"`
	API        API        `mapstructure:"api"`
	Scheduler  Scheduler  `mapstructure:"scheduler"`
	MarketData MarketData `mapstructure:"market_data"`
	Gemini     Gemini     `mapstructure:"gemini"`
	Cache      Cache      `mapstructure:"cache"`
	Engine     Engine     `mapstructure:"engine"`
	Discord    Discord    `mapstructure:"discord"`
	Telegram   Telegram   `mapstructure:"telegram"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Scheduler struct {
	CycleSpec       string        `mapstructure:"cycle_spec"`
	TimeoutDuration time.Duration `mapstructure:"timeout_duration"`
}

type MarketData struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	BaseTimeout time.Duration `mapstructure:"base_timeout"`
}

type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Enabled             bool          `mapstructure:"enabled"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type Engine struct {
	PrimarySymbol   string `mapstructure:"primary_symbol"`
	SecondarySymbol string `mapstructure:"secondary_symbol"`
}

type Discord struct {
	WebhookURL          string        `mapstructure:"webhook_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("scheduler.cycle_spec", "*/5 9-16 * * 1-5")
	viper.SetDefault("scheduler.timeout_duration", 45*time.Second)
	viper.SetDefault("market_data.base_timeout", 15*time.Second)
	viper.SetDefault("cache.default_expiration", time.Minute)
	viper.SetDefault("cache.cleanup_interval", 5*time.Minute)
	viper.SetDefault("engine.primary_symbol", common.SYMBOL_SPY)
	viper.SetDefault("engine.secondary_symbol", common.SYMBOL_QQQ)
	viper.SetDefault("gemini.model", "gemini-2.0-flash")
	viper.SetDefault("gemini.max_request_per_minute", 10)
	viper.SetDefault("discord.timeout", 10*time.Second)
	viper.SetDefault("discord.max_request_per_minute", 30)
}
