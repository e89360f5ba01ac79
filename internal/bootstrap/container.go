package bootstrap

import (
	"log"

	"utm-builder-be/internal/config"
	"utm-builder-be/internal/controller"
	"utm-builder-be/internal/pkg/logger"
	"utm-builder-be/internal/repository/contract"
	"utm-builder-be/internal/repository/memory"
	redisrepo "utm-builder-be/internal/repository/redis"
	"utm-builder-be/internal/service"
	"utm-builder-be/pkg/utm"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	LinkController controller.ILinkController

	// Core services
	FlowService service.IFlowService

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared facades
	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	builder := utm.NewBuilder(cfg.Links.BaseURL).WithIDLength(cfg.Links.IDLength)

	// 2. Event bus (in-process)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// 3. Session repository
	var sessions contract.ISessionRepository
	if cfg.Session.Backend == "redis" {
		redisSessions, err := redisrepo.NewSessionRepository(cfg.Session.RedisURL, cfg.Session.TTL)
		if err != nil {
			log.Panicf("Unable to connect session store to redis: %v", err)
		}
		sessions = redisSessions
		log.Printf("[INFO] Using session backend: REDIS")
	} else {
		sessions = memory.NewSessionRepository(cfg.Session.TTL)
		log.Printf("[INFO] Using session backend: MEMORY")
	}

	// 4. Services
	flowService := service.NewFlowService(
		sessions,
		builder,
		pubSub,
		sysLogger,
		cfg.Links.MainHandle,
		cfg.Telegram.MessageLimit,
	)
	linkService := service.NewLinkService(builder, cfg.Links.MainHandle)
	consumerService := service.NewConsumerService(pubSub, sysLogger)

	// 5. Controllers
	linkController := controller.NewLinkController(linkService, consumerService)

	return &Container{
		LinkController:  linkController,
		FlowService:     flowService,
		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
