package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/prana-whatsapp-bot/internal/delivery/telegram"
	"github.com/yourusername/prana-whatsapp-bot/internal/delivery/webhook"
	"github.com/yourusername/prana-whatsapp-bot/internal/domain/repository"
)

// pruneInterval tarixni tozalash davriyligi
const pruneInterval = 10 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the WhatsApp webhook server (and Telegram bot when configured)",
	Long: `Starts the HTTP server with the Twilio (/webhook) and WhatsApp Cloud
(/webhook/meta) endpoints. When TELEGRAM_BOT_TOKEN is set, the Telegram
bot runs alongside it. Stops gracefully on SIGINT/SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var bot *telegram.BotHandler
	if cfg.TelegramToken != "" {
		admins, err := cfg.AdminIDs()
		if err != nil {
			return err
		}
		bot, err = telegram.NewBotHandler(cfg.TelegramToken, a.dispatcher, a.importer, admins, logger)
		if err != nil {
			return err
		}
	} else {
		logger.Info("TELEGRAM_BOT_TOKEN not set, Telegram bot disabled")
	}

	g, gctx := errgroup.WithContext(ctx)

	server := webhook.NewServer(cfg.Addr(), a.dispatcher, cfg.MetaVerify, logger)
	g.Go(func() error {
		return server.Run(gctx)
	})

	if bot != nil {
		g.Go(func() error {
			return bot.Start(gctx)
		})
	}

	if cfg.HistoryIdleTTL > 0 {
		g.Go(func() error {
			pruneHistory(gctx, a.history, cfg.HistoryIdleTTL, pruneInterval)
			return nil
		})
	}

	logger.Info("Prana bot ishga tushdi",
		zap.String("addr", cfg.Addr()),
		zap.Bool("generative", a.dispatcher.GenerativeAvailable()))

	return g.Wait()
}

// pruneHistory uzoq faol bo'lmagan foydalanuvchilar tarixini davriy tozalash
func pruneHistory(ctx context.Context, history repository.HistoryRepository, idle, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := history.Prune(ctx, idle)
			if err != nil {
				logger.Warn("history prune", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("history pruned", zap.Int("users", n))
			}
		}
	}
}
