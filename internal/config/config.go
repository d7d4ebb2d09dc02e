// Package config loads the jokebot configuration from defaults, an optional
// YAML file and JOKEBOT_* environment variables, and validates the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/edgard/jokebot/internal/errs"
)

// Config is the root configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	AutoPost  AutoPostConfig  `mapstructure:"autopost"`
	Ranks     RanksConfig     `mapstructure:"ranks"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Reactions ReactionsConfig `mapstructure:"reactions"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds bot credentials and the bootstrap admin.
type TelegramConfig struct {
	Token               string `mapstructure:"token"                  validate:"required"`
	AdminUserID         int64  `mapstructure:"admin_user_id"          validate:"gt=0"`
	ReportErrorsToAdmin bool   `mapstructure:"report_errors_to_admin"`
	SendRatePerSec      int    `mapstructure:"send_rate_per_sec"      validate:"gte=0,lte=30"`
	BotUsername         string `mapstructure:"-"`
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// AutoPostConfig tunes the per-chat joke timers.
type AutoPostConfig struct {
	// IntervalUnit is the duration of one configured interval step (one minute in production).
	IntervalUnit time.Duration `mapstructure:"interval_unit" validate:"gt=0"`
	TickTimeout  time.Duration `mapstructure:"tick_timeout"  validate:"min=1s,max=10m"`
}

// RanksConfig selects which ladder the assigner uses. Empty means all categories.
type RanksConfig struct {
	Category string `mapstructure:"category"`
}

// SchedulerConfig lists the cron-style maintenance tasks.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MetricsConfig enables the /metrics endpoint when Addr is non-empty.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// ReactionsConfig controls canned replies to group messages. Trigger matches
// always answer; otherwise a random reaction is sent with RandomChance.
type ReactionsConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	RandomChance float64 `mapstructure:"random_chance" validate:"gte=0,lte=1"`
}

// MessagesConfig holds the user-facing texts.
type MessagesConfig struct {
	Welcome          string `mapstructure:"welcome"            validate:"required"`
	Help             string `mapstructure:"help"               validate:"required"`
	Unauthorized     string `mapstructure:"unauthorized"       validate:"required"`
	GeneralError     string `mapstructure:"general_error"      validate:"required"`
	NoJokes          string `mapstructure:"no_jokes"           validate:"required"`
	JokesEnabled     string `mapstructure:"jokes_enabled"      validate:"required"`
	JokesDisabled    string `mapstructure:"jokes_disabled"     validate:"required"`
	IntervalSet      string `mapstructure:"interval_set"       validate:"required"`
	InvalidInterval  string `mapstructure:"invalid_interval"   validate:"required"`
	JokeAdded        string `mapstructure:"joke_added"         validate:"required"`
	AdminAdded       string `mapstructure:"admin_added"        validate:"required"`
	AdminRemoved     string `mapstructure:"admin_removed"      validate:"required"`
	NoAdmins         string `mapstructure:"no_admins"          validate:"required"`
	MissingArgument  string `mapstructure:"missing_argument"   validate:"required"`
	NotificationHead string `mapstructure:"notification_head"  validate:"required"`
	RankEarned       string `mapstructure:"rank_earned"        validate:"required"`
	MemberWelcome    string `mapstructure:"member_welcome"     validate:"required"`
	MemberLeft       string `mapstructure:"member_left"        validate:"required"`
	NoUserStats      string `mapstructure:"no_user_stats"      validate:"required"`
	NoChatStats      string `mapstructure:"no_chat_stats"      validate:"required"`
	NoRanks          string `mapstructure:"no_ranks"           validate:"required"`
	NoNotifications  string `mapstructure:"no_notifications"   validate:"required"`
}

// LoadConfig reads configuration from path (optional) over the defaults,
// applies JOKEBOT_* environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("JOKEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{"telegram.token", "telegram.admin_user_id", "metrics.addr"} {
		_ = v.BindEnv(key)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, errs.NewConfigError(fmt.Sprintf("failed to read config file %q", path), err)
			}
			slog.Info("Config file not found, using defaults and environment", "path", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errs.NewConfigError("failed to parse config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags of the whole configuration.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return errs.NewConfigError("invalid configuration", err)
	}
	return nil
}
