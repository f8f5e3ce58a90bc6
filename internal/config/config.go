// Package config loads and validates application configuration from a YAML
// file and BOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// Config holds the configuration for all application components.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and, at runtime, the bot's own identity.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`

	// BotInfo is filled in at startup from GetMe; it is not configurable.
	BotInfo *models.User `mapstructure:"-"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig lists the scheduled tasks keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named task and assigns its cron schedule
// (six fields, with seconds).
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// MessagesConfig holds every user-facing reply text so deployments can
// localize or reword the bot without rebuilding it.
type MessagesConfig struct {
	SessionStarted    string `mapstructure:"session_started"`
	AlreadyRunning    string `mapstructure:"already_running"`
	NotRunning        string `mapstructure:"not_running"`
	AmountMissing     string `mapstructure:"amount_missing"`
	NoBuyIn           string `mapstructure:"no_buy_in"`
	NobodyBoughtIn    string `mapstructure:"nobody_bought_in"`
	ActivePlayers     string `mapstructure:"active_players"`
	BankMismatch      string `mapstructure:"bank_mismatch"`
	SessionSettled    string `mapstructure:"session_settled"`
	SessionNoResult   string `mapstructure:"session_no_result"`
	NothingToUndo     string `mapstructure:"nothing_to_undo"`
	ActionsPrompt     string `mapstructure:"actions_prompt"`
	ActionsBuyButton  string `mapstructure:"actions_buy_button"`
	ActionsQuitButton string `mapstructure:"actions_quit_button"`
	UndoDone          string `mapstructure:"undo_done"`
	NoFinishedGames   string `mapstructure:"no_finished_games"`
	GeneralError      string `mapstructure:"general_error"`
	Help              string `mapstructure:"help"`
	BankLine          string `mapstructure:"bank_line"`
	BuyInHeader       string `mapstructure:"buy_in_header"`
	CashOutHeader     string `mapstructure:"cash_out_header"`
	ProfitHeader      string `mapstructure:"profit_header"`
	TransfersHeader   string `mapstructure:"transfers_header"`
	BankOverpaid      string `mapstructure:"bank_overpaid"`
	BankUnderpaid     string `mapstructure:"bank_underpaid"`
}

// LoadConfig reads configuration from the given path, layering BOT_*
// environment variables over the file and defaults, and validates the result.
// A missing config file is not an error; defaults and environment apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		// Config file not found is okay, defaults and env vars apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	// Registering the key lets BOT_TELEGRAM_TOKEN reach Unmarshal; viper only
	// consults the environment for keys it knows about.
	v.SetDefault("telegram.token", "")

	v.SetDefault("database.path", "poker.db")

	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 0 5 * * *")

	v.SetDefault("messages.session_started", "Session started. Good luck!")
	v.SetDefault("messages.already_running", "A session is already running.")
	v.SetDefault("messages.not_running", "No session is running.")
	v.SetDefault("messages.amount_missing", "Specify the amount.")
	v.SetDefault("messages.no_buy_in", "%s has not bought in.")
	v.SetDefault("messages.nobody_bought_in", "Nobody has bought in.")
	v.SetDefault("messages.active_players", "Still holding chips:")
	v.SetDefault("messages.bank_mismatch", "The bank does not balance.")
	v.SetDefault("messages.session_settled", "Session over, the bank balances.")
	v.SetDefault("messages.session_no_result", "Session over, nobody bought in.")
	v.SetDefault("messages.nothing_to_undo", "Nothing to undo.")
	v.SetDefault("messages.actions_prompt", "Actions")
	v.SetDefault("messages.actions_buy_button", "Take chips")
	v.SetDefault("messages.actions_quit_button", "Return chips")
	v.SetDefault("messages.undo_done", "Removed last action: %s %s %d.")
	v.SetDefault("messages.no_finished_games", "No finished sessions yet.")
	v.SetDefault("messages.general_error", "Something went wrong. Please try again.")
	v.SetDefault("messages.bank_line", "Bank %d")
	v.SetDefault("messages.buy_in_header", "Buy-ins:")
	v.SetDefault("messages.cash_out_header", "Cash-outs:")
	v.SetDefault("messages.profit_header", "Profit:")
	v.SetDefault("messages.transfers_header", "Transfers:")
	v.SetDefault("messages.bank_overpaid", "Buy-ins exceed cash-outs by %d")
	v.SetDefault("messages.bank_underpaid", "Cash-outs exceed buy-ins by %d")
	v.SetDefault("messages.help", strings.Join([]string{
		"/start - open a session",
		"/buy <amount> [@user ...] - buy in (defaults to you, @me works too)",
		"/quit <amount> [@user] - cash out",
		"/status - current buy-ins, cash-outs and bank",
		"/undo - remove the most recent buy-in or cash-out",
		"/actions - buttons that pre-fill /buy and /quit",
		"/stop - settle up and close the session",
		"/stats - lifetime profit over finished sessions",
	}, "\n"))
}
