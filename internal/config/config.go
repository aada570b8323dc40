package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env                  string        `mapstructure:"ENV"`
	Port                 string        `mapstructure:"PORT"`
	DatabaseURL          string        `mapstructure:"DATABASE_URL"`
	APIKey               string        `mapstructure:"API_KEY"`
	CORSAllowed          string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout       time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel             string        `mapstructure:"LOG_LEVEL"`
	Timezone             string        `mapstructure:"TIMEZONE"`
	BrokerAccountTypes   string        `mapstructure:"BROKER_ACCOUNT_TYPES"`
	ConfirmedResponse    string        `mapstructure:"CONFIRMED_RESPONSE"`
	ShiftDefaultTime     string        `mapstructure:"SHIFT_DEFAULT_TIME"`
	ShiftDuration        time.Duration `mapstructure:"SHIFT_DURATION"`
	EventDefaultDuration time.Duration `mapstructure:"EVENT_DEFAULT_DURATION"`
	InactiveAfter        time.Duration `mapstructure:"INACTIVE_AFTER"`
	ClockTick            time.Duration `mapstructure:"CLOCK_TICK"`
	RefetchCron          string        `mapstructure:"REFETCH_CRON"`
	BrokerFanout         int           `mapstructure:"BROKER_FANOUT"`
	FetchRetries         int           `mapstructure:"FETCH_RETRIES"`
	BoardTenants         string        `mapstructure:"BOARD_TENANTS"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("API_KEY", "")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("BROKER_ACCOUNT_TYPES", "broker,team_lead")
	v.SetDefault("CONFIRMED_RESPONSE", "confirmed")
	v.SetDefault("SHIFT_DEFAULT_TIME", "09:00")
	v.SetDefault("SHIFT_DURATION", "2h")
	v.SetDefault("EVENT_DEFAULT_DURATION", "1h")
	v.SetDefault("INACTIVE_AFTER", "24h")
	v.SetDefault("CLOCK_TICK", "30s")
	v.SetDefault("REFETCH_CRON", "*/5 * * * *")
	v.SetDefault("BROKER_FANOUT", 8)
	v.SetDefault("FETCH_RETRIES", 2)
	v.SetDefault("BOARD_TENANTS", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Location resolves TIMEZONE.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) AccountTypes() []string {
	return SplitList(c.BrokerAccountTypes)
}

func (c Config) Tenants() []string {
	return SplitList(c.BoardTenants)
}

// SplitList splits a comma separated value, dropping empty items.
func SplitList(value string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
