package bootstrap

import (
	"log"

	"taskchat-be/internal/config"
	"taskchat-be/internal/controller"
	"taskchat-be/internal/pkg/logger"
	"taskchat-be/internal/repository/memory"
	"taskchat-be/internal/repository/unitofwork"
	"taskchat-be/internal/service"
	"taskchat-be/pkg/agent/tools"
	"taskchat-be/pkg/llm/factory"

	pktNats "taskchat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const turnCompletedTopic = "chat.turn.completed"

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	TaskController controller.ITaskController
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// LLM provider selection; a missing key only surfaces on the first call
	provider, err := factory.NewCompletionProvider(&cfg.Ai)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s", cfg.Ai.Provider)

	registry := tools.NewRegistry()
	turnGuard := memory.NewTurnGuard()

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, turnCompletedTopic)
	consumerService := service.NewConsumerService(pubSub, turnCompletedTopic, uowFactory, sysLogger)

	authService := service.NewAuthService(uowFactory, cfg.App.JWTSecret)
	taskService := service.NewTaskService(uowFactory, natsPub, sysLogger)
	chatService := service.NewChatService(uowFactory, provider, registry, turnGuard, publisherService, sysLogger)

	// 5. Controllers
	return &Container{
		AuthController:  controller.NewAuthController(authService),
		TaskController:  controller.NewTaskController(taskService),
		ChatController:  controller.NewChatController(chatService),
		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}
