package bootstrap

import (
	"context"
	"log"

	"nexusai-be/internal/config"
	"nexusai-be/internal/controller"
	"nexusai-be/internal/pkg/logger"
	"nexusai-be/internal/pkg/mailer"
	"nexusai-be/internal/repository/memory"
	"nexusai-be/internal/repository/unitofwork"
	"nexusai-be/internal/service"
	adminChat "nexusai-be/pkg/admin/chat"
	"nexusai-be/pkg/admin/dashboard"
	adminEvents "nexusai-be/pkg/admin/events"
	adminUser "nexusai-be/pkg/admin/user"
	"nexusai-be/pkg/answercache"
	"nexusai-be/pkg/llm/factory"

	pktNats "nexusai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	OAuthController    controller.IOAuthController
	UserController     controller.IUserController
	FreeChatController controller.IFreeChatController
	ChatController     controller.IChatController
	AdminController    controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	AuditService    service.IAuditService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}
	answerCache := answercache.New(rdb)

	// LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OpenAIKey,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// OAuth state store
	stateStore := memory.NewOAuthStateRepository()

	// 3. Services
	adminEventPublisher := adminEvents.NewNatsPublisher(natsPub, sysLogger)

	authService := service.NewAuthService(uowFactory, emailService, adminEventPublisher)
	oauthService := service.NewOAuthService(cfg, uowFactory, stateStore, sysLogger, adminEventPublisher)
	userService := service.NewUserService(uowFactory, sysLogger, adminEventPublisher)
	chatService := service.NewChatService(uowFactory, llmProvider, answerCache, sysLogger, pubSub)

	consumerService := service.NewConsumerService(
		pubSub,
		service.MessageSavedTopic,
		uowFactory,
	)

	auditService := service.NewAuditService(natsSub, sysLogger)

	// Admin Domain Components
	userManager := adminUser.NewManager(sysLogger, adminEventPublisher)
	chatManager := adminChat.NewManager(sysLogger, adminEventPublisher)
	dashboardAggregator := dashboard.NewAggregator(sysLogger)

	adminService := service.NewAdminService(
		uowFactory,
		userManager,
		chatManager,
		dashboardAggregator,
		sysLogger,
	)

	// 4. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		OAuthController:    controller.NewOAuthController(oauthService, cfg),
		UserController:     controller.NewUserController(userService),
		FreeChatController: controller.NewFreeChatController(chatService),
		ChatController:     controller.NewChatController(chatService),
		AdminController:    controller.NewAdminController(authService, adminService),

		ConsumerService: consumerService,
		AuditService:    auditService,
		Logger:          sysLogger,
	}
}
