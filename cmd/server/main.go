package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attractionhub/internal/config"
	"attractionhub/internal/handler"
	"attractionhub/internal/infrastructure/cache"
	"attractionhub/internal/infrastructure/database"
	"attractionhub/internal/infrastructure/exchange"
	"attractionhub/internal/infrastructure/mq"
	"attractionhub/internal/infrastructure/vendorapi"
	"attractionhub/internal/job"
	"attractionhub/internal/repository"
	"attractionhub/internal/service"
	"attractionhub/pkg/crypto"
	"attractionhub/pkg/idgen"
)

func main() {
	// 加载配置
	cfg := config.LoadConfig("config/config.yaml")

	// 初始化 ID 生成器
	idgen.Init(1)

	// 初始化 MySQL
	db := database.InitMySQL(&cfg.MySQL)

	// 初始化 Redis
	redisClient := cache.InitRedis(&cfg.Redis)
	redisCache := cache.NewRedisCache(redisClient)

	// 初始化 Kafka
	mq.InitKafka(&cfg.Kafka)
	defer mq.CloseKafka()

	// 审批令牌编解码器
	codec, err := crypto.NewCodec(cfg.Security.ApprovalSecretKey)
	if err != nil {
		log.Fatalf("初始化审批令牌密钥失败: %v", err)
	}

	// 仓储层
	userRepo := repository.NewUserRepository(db)
	agencyRepo := repository.NewAgencyRepository(db)
	accessRepo := repository.NewAccessLevelRepository(db)
	balanceRepo := repository.NewBalanceRepository(db)
	fundsRepo := repository.NewFundsOnHoldRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	// 外部依赖客户端
	vendorClient := vendorapi.NewClient(&cfg.Vendor)
	rateClient := exchange.NewClient(&cfg.Exchange)

	// 服务层
	sessionSvc := service.NewSessionService(redisCache, vendorClient)
	currencySvc := service.NewCurrencyService(rateClient, redisCache, cfg.Exchange.FeeRate, cfg.Exchange.CacheSeconds)
	accessSvc := service.NewAccessService(userRepo, agencyRepo, accessRepo)
	fundsSvc := service.NewFundsService(balanceRepo, fundsRepo, agencyRepo, accessRepo)
	approvalSvc := service.NewApprovalService(approvalRepo, outboxRepo, accessSvc, codec, redisCache,
		cfg.Kafka.Topic.ApprovalNotice, cfg.Security.ApprovalLinkBase,
		cfg.Business.SupportEmail, cfg.Business.SupportName, cfg.Business.ApprovalCacheMinutes)
	ledgerSvc := service.NewLedgerService(db, ledgerRepo, balanceRepo, outboxRepo, cfg.Kafka.Topic.BookingResult)
	locker := service.NewRedisWalletLocker(redisClient, cfg.Business.WalletLockSeconds)
	bookingSvc := service.NewBookingService(userRepo, approvalSvc, fundsSvc,
		sessionSvc, vendorClient, ledgerSvc, currencySvc, locker)
	catalogSvc := service.NewCatalogService(sessionSvc, vendorClient, currencySvc)
	authSvc := service.NewAuthService(userRepo, cfg.Security.JWTSecret, cfg.Security.TokenExpireHour)

	// 创建上下文（用于优雅关闭）
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 启动后台任务
	outboxSender := job.NewOutboxSender(db, cfg)
	go outboxSender.Start(ctx)

	// 设置路由
	router := handler.SetupRouter(authSvc,
		handler.NewAuthHandler(authSvc),
		handler.NewBookingHandler(bookingSvc, fundsSvc, ledgerSvc, userRepo),
		handler.NewCatalogHandler(catalogSvc),
		handler.NewApprovalHandler(approvalSvc))

	// 启动 HTTP 服务
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("服务启动，监听端口: %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 取消上下文，停止后台任务
	cancel()

	// 关闭 HTTP 服务（等待最多5秒）
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("服务关闭异常: %v", err)
	}

	log.Println("服务已关闭")
}
