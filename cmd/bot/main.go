package main

import (
	"context"
	"log"

	"utm-builder-be/internal/bootstrap"
	"utm-builder-be/internal/config"
	"utm-builder-be/internal/server"
	"utm-builder-be/internal/tracer"
	"utm-builder-be/internal/transport/telegram"

	"github.com/fatih/color"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		color.Red("❌ Bad configuration: %v", err)
		color.Red("   At minimum set TELEGRAM_BOT_TOKEN and TELEGRAM_ALLOWED_IDS.")
		log.Fatal("configuration invalid")
	}

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	// 3. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 4. Start Telegram Poller
	client := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.PollTimeout)
	poller := telegram.NewPoller(
		client,
		container.FlowService,
		container.Logger,
		cfg.Telegram.AllowedChatIDs,
		cfg.Telegram.PollTimeout,
	)
	go func() {
		if err := poller.Run(context.Background()); err != nil {
			log.Printf("Telegram poller stopped: %v", err)
		}
	}()

	color.Green("✅ Allow list: %v", cfg.Telegram.AllowedChatIDs)
	color.Cyan("🚀 UTM Bot running...")

	// 5. Run Ops Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
