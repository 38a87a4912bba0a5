package wire

import (
	"Zuno/internal/api"
	"Zuno/internal/api/config"
	"Zuno/internal/api/handler"
	"Zuno/internal/api/middleware"
	"Zuno/internal/job"
	"Zuno/internal/pkg/cron"
	"Zuno/internal/pkg/es"
	"Zuno/internal/pkg/kafka"
	"Zuno/internal/pkg/minio"
	"Zuno/internal/pkg/mongo"
	"Zuno/internal/pkg/redis"
	"Zuno/internal/repository"
	"Zuno/internal/service"
	log "log/slog"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Infra 外部连接，由 main 初始化
type Infra struct {
	DB      *gorm.DB
	Mongo   *mongodrv.Database
	Elastic *elasticsearch.TypedClient
	Storage *minio.Store
}

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
	IMService    service.IMService
}

// newSearcher 索引只由 Kafka 消费者写入，未启用 Kafka 时检索回落到数据库
func newSearcher(client *elasticsearch.TypedClient, kafkaEnabled bool) es.ContentRepo {
	if client == nil {
		return nil
	}
	if !kafkaEnabled {
		log.Warn("elasticsearch is configured but kafka is disabled, search falls back to database")
		return nil
	}
	return es.NewContentRepo(client)
}

func BuildApplication(infra Infra, cfg *config.Config) (*ApplicationContainer, error) {
	db := infra.DB
	rdb := redis.Rdb

	// repository
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	contentRepo := repository.NewContentRepo(db)
	interactionRepo := repository.NewInteractionRepo(db)
	adminConfigRepo := repository.NewAdminConfigRepo(db)
	conversationRepo := repository.NewConversationRepo(db)
	messageRepo := mongo.NewMessageRepo(infra.Mongo)
	sysBoxRepo := mongo.NewSysBoxRepo(infra.Mongo)

	searcher := newSearcher(infra.Elastic, cfg.Kafka.Enable)

	// redis
	dirtySet := redis.NewDirtySet(rdb)
	blacklist := redis.NewTokenBlacklist(rdb)
	configCache := redis.NewConfigCache(rdb)
	mediaTracker := redis.NewMediaTracker(rdb)
	locker := redis.NewLocker(rdb)

	// service
	configService := service.NewAdminConfigService(adminConfigRepo, configCache, cfg.Media.PollIntervalMs)
	userService := service.NewUserService(userRepo, userFollowRepo, blacklist)
	userFollowService := service.NewUserFollowService(tx, userRepo, userFollowRepo)
	mediaService := service.NewMediaService(infra.Storage, mediaTracker)
	contentService := service.NewContentService(
		tx, contentRepo, userRepo, userFollowRepo, interactionRepo,
		configService, mediaService, cfg.Media.PollIntervalMs,
	)
	interactionService := service.NewInteractionService(tx, contentRepo, interactionRepo, configService, dirtySet)
	feedService := service.NewFeedService(contentRepo, userRepo, searcher, cfg.Feed.DefaultPageSize, cfg.Feed.MaxPageSize)
	moderationService := service.NewModerationService(tx, contentRepo, interactionRepo)
	reconcileService := service.NewReconcileService(tx, contentRepo, userRepo, interactionRepo, dirtySet)
	imService := service.NewIMService(conversationRepo, userRepo, messageRepo)
	sysBoxService := service.NewSysBoxService(sysBoxRepo, userRepo)

	handlers := &api.HandlersGroup{
		UserHandler:        handler.NewUserHandler(userService, userFollowService),
		UserFollowHandler:  handler.NewUserFollowHandler(userFollowService),
		ContentHandler:     handler.NewContentHandler(contentService),
		InteractionHandler: handler.NewInteractionHandler(interactionService),
		FeedHandler:        handler.NewFeedHandler(feedService),
		MediaHandler:       handler.NewMediaHandler(mediaService),
		IMHandler:          handler.NewIMHandler(imService),
		SysBoxHandler:      handler.NewSysBoxHandler(sysBoxService),
		AdminHandler:       handler.NewAdminHandler(configService, moderationService, userService),

		Blacklist:    blacklist,
		ShareLimiter: middleware.NewIPRateLimiter(cfg.RateLimit.ShareRPS, cfg.RateLimit.ShareBurst),
		AllowOrigins: cfg.Server.AllowOrigins,
	}

	router := api.SetupRouter(handlers)

	var kafkaMgr *kafka.ConsumerManager
	if cfg.Kafka.Enable {
		var err error
		kafkaMgr, err = kafka.NewConsumerManager(cfg, contentRepo, userRepo, searcher, sysBoxService)
		if err != nil {
			return nil, err
		}
	}

	cronMgr := cron.NewCronManager(cron.Entries(
		cfg.Cron,
		job.NewContentReconcileJob(reconcileService, locker),
		job.NewStoryExpiryJob(reconcileService, locker),
		job.NewMediaCleanupJob(mediaService, locker, time.Duration(cfg.Media.TempTTLHours)*time.Hour),
	)...)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
		IMService:    imService,
	}, nil
}
