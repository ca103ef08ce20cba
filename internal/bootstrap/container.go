package bootstrap

import (
	"context"
	"log"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/controller"
	"ai-chat-be/internal/handler"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/memory"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/service"
	"ai-chat-be/internal/websocket"
	"ai-chat-be/pkg/gateway/openaigw"
	"ai-chat-be/pkg/objectstore"

	pktNats "ai-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ThreadController  controller.IThreadController
	MessageController controller.IMessageController
	FileController    controller.IFileController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	ActivityService *service.ActivityService

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub
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

	// 3. Model Gateway
	gatewayProvider := openaigw.New(cfg.Ai.GatewayBaseURL, cfg.Ai.GatewayAPIKey)
	log.Printf("[INFO] Using model gateway at %s", cfg.Ai.GatewayBaseURL)

	// 4. Object Storage
	store, err := objectstore.NewMinioStore(objectstore.MinioConfig{
		Endpoint:        cfg.Storage.Endpoint,
		AccessKey:       cfg.Storage.AccessKey,
		SecretKey:       cfg.Storage.SecretKey,
		Bucket:          cfg.Storage.Bucket,
		UseSSL:          cfg.Storage.UseSSL,
		UploadExpiryMin: cfg.Storage.UploadExpiryMin,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize object storage: %v", err)
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		log.Printf("[WARN] Failed to ensure storage bucket: %v", err)
	}

	// 5. Infrastructure
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
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 6. Services
	replyPublisher := service.NewPublisherService(pubSub, cfg.Topics.ReplyTopic)
	titlePublisher := service.NewPublisherService(pubSub, cfg.Topics.TitleTopic)
	sharedCache := memory.NewSharedThreadCache()

	threadService := service.NewThreadService(
		uowFactory,
		gatewayProvider,
		cfg.Ai.TitleModel,
		sharedCache,
		wsHub,
		natsPub,
		sysLogger,
	)
	messageService := service.NewMessageService(
		uowFactory,
		replyPublisher,
		titlePublisher,
		store,
		sharedCache,
		wsHub,
		sysLogger,
	)
	replyService := service.NewReplyService(uowFactory, gatewayProvider, wsHub, sysLogger)
	forkService := service.NewForkService(uowFactory, natsPub, sysLogger)
	fileService := service.NewFileService(store)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Topics.ReplyTopic,
		cfg.Topics.TitleTopic,
		replyService,
		threadService,
	)
	activityService := service.NewActivityService(natsSub, sysLogger)

	// 7. Controllers & Handlers
	return &Container{
		ThreadController:  controller.NewThreadController(threadService, forkService),
		MessageController: controller.NewMessageController(messageService),
		FileController:    controller.NewFileController(fileService),
		ConsumerService:   consumerService,
		ActivityService:   activityService,
		StreamHandler:     handler.NewStreamHandler(wsHub, wsLogger),
		WebSocketHub:      wsHub,
	}
}
