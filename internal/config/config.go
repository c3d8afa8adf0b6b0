package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramBot TelegramBot
	SleeperAPI  SleeperAPI
	Store       Store
	Scheduler   Scheduler
	Awards      Awards
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":80"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

type SleeperAPI struct {
	BaseURL          string        `envconfig:"SLEEPER_BASE_URL" default:"https://api.sleeper.app/v1"`
	LeagueID         string        `envconfig:"LEAGUE_ID" required:"true"`
	Timeout          time.Duration `envconfig:"SLEEPER_TIMEOUT" default:"10s"`
	FetchConcurrency int           `envconfig:"FETCH_CONCURRENCY" default:"4"`
}

type Store struct {
	Backend       string `envconfig:"STORE_BACKEND" default:"sqlite"`
	SQLitePath    string `envconfig:"SQLITE_PATH" default:"sleeperstats.db"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

type Scheduler struct {
	Timezone    string `envconfig:"TIMEZONE" default:"America/Chicago"`
	RefreshCron string `envconfig:"REFRESH_CRON" default:"0 4 * * *"`
}

type Awards struct {
	TradeMargin  float64 `envconfig:"TRADE_MARGIN" default:"10"`
	WaiverPoints float64 `envconfig:"WAIVER_POINTS" default:"20"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
