// Package main contains the entrypoint for the poker ledger Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/joho/godotenv"

	"github.com/potledger/pokerbot/internal/bot"
	"github.com/potledger/pokerbot/internal/bot/handlers"
	"github.com/potledger/pokerbot/internal/bot/tasks"
	"github.com/potledger/pokerbot/internal/config"
	"github.com/potledger/pokerbot/internal/database"
	"github.com/potledger/pokerbot/internal/game"
	"github.com/potledger/pokerbot/internal/logger"
	"github.com/potledger/pokerbot/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// game service, bot, scheduler), handles graceful shutdown, and returns an
// exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	// A .env file is a convenience for local runs; absence is not an error.
	_ = godotenv.Load()

	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db) // Ensure DB is closed on function exit
	store := database.NewStore(db, log)

	gameService := game.NewService(store, log)

	hDeps := handlers.HandlerDeps{
		Logger: log,
		Config: cfg,
		Game:   gameService,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Config: cfg,
		Store:  store,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewMentionHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	// Retrieve bot info and store it in the config for runtime use
	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	if _, err := tg.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: botCommands()}); err != nil {
		log.Warn("Failed to publish command list", "error", err)
	}

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, cfg, db, store, gameService, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx) // Run blocks until context is cancelled or an error occurs
	log.Info("Bot run loop finished. Initiating shutdown...")

	// Check if the error is significant (not just context cancellation)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}

// botCommands describes the commands shown in the Telegram client menu.
func botCommands() []tgmodels.BotCommand {
	return []tgmodels.BotCommand{
		{Command: "start", Description: "Start a new game session"},
		{Command: "buy", Description: "Record a buy-in: /buy <amount> [@user...]"},
		{Command: "quit", Description: "Record a cash-out: /quit <amount> [@user]"},
		{Command: "status", Description: "Show current buy-ins, cash-outs and bank"},
		{Command: "stop", Description: "Close the session and settle up"},
		{Command: "undo", Description: "Remove the most recent action"},
		{Command: "actions", Description: "Buttons that pre-fill /buy and /quit"},
		{Command: "stats", Description: "Lifetime profit over finished sessions"},
		{Command: "help", Description: "Show usage help"},
	}
}
