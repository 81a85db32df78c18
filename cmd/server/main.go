package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/warekit/rfid-scan-service/config"
	"github.com/warekit/rfid-scan-service/pkg/broker"
	"github.com/warekit/rfid-scan-service/pkg/cache"
	"github.com/warekit/rfid-scan-service/pkg/database/postgres"
	"github.com/warekit/rfid-scan-service/pkg/logger"

	histH "github.com/warekit/rfid-scan-service/internal/history/handler"
	histRepoPkg "github.com/warekit/rfid-scan-service/internal/history/repository"
	histUCPkg "github.com/warekit/rfid-scan-service/internal/history/usecase"

	recvH "github.com/warekit/rfid-scan-service/internal/receiving/handler"
	recvRepoPkg "github.com/warekit/rfid-scan-service/internal/receiving/repository"
	recvUCPkg "github.com/warekit/rfid-scan-service/internal/receiving/usecase"

	saleH "github.com/warekit/rfid-scan-service/internal/sale/handler"
	saleRepoPkg "github.com/warekit/rfid-scan-service/internal/sale/repository"
	saleUCPkg "github.com/warekit/rfid-scan-service/internal/sale/usecase"

	tagH "github.com/warekit/rfid-scan-service/internal/tag/handler"
	tagRepoPkg "github.com/warekit/rfid-scan-service/internal/tag/repository"
	tagUCPkg "github.com/warekit/rfid-scan-service/internal/tag/usecase"

	"github.com/warekit/rfid-scan-service/internal/notify"
	scanListenerPkg "github.com/warekit/rfid-scan-service/internal/scan/listener"
	scanRepoPkg "github.com/warekit/rfid-scan-service/internal/scan/repository"
	scanUCPkg "github.com/warekit/rfid-scan-service/internal/scan/usecase"
	"github.com/warekit/rfid-scan-service/internal/session"
	sessH "github.com/warekit/rfid-scan-service/internal/session/handler"
	sessUCPkg "github.com/warekit/rfid-scan-service/internal/session/usecase"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Repositories
	tagRepo := tagRepoPkg.NewPGRepository(db)
	recvRepo := recvRepoPkg.NewPGRepository(db)
	saleRepo := saleRepoPkg.NewPGRepository(db)
	scanRepo := scanRepoPkg.NewPGRepository(db)
	histRepo := histRepoPkg.NewPGRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 6. Initialize Kafka
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.ScanTopic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()

	kafkaPublisher := broker.NewPublisher(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer kafkaPublisher.Close()
	appLogger.Info("Connected to Kafka",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("scan_topic", cfg.Kafka.ScanTopic),
		zap.String("result_topic", cfg.Kafka.ResultTopic),
	)

	// 7. Initialize UseCases
	store := session.NewStore()
	dispatcher := notify.NewBrokerDispatcher(kafkaPublisher, cfg.Kafka.ResultTopic, appLogger)

	tagUC := tagUCPkg.NewTagUseCase(tagRepo, appLogger)
	recvUC := recvUCPkg.NewReceivingUseCase(recvRepo, appLogger)
	saleUC := saleUCPkg.NewSaleUseCase(saleRepo, appLogger)
	histUC := histUCPkg.NewHistoryUseCase(histRepo, appLogger)
	sessUC := sessUCPkg.NewSessionUseCase(store, redisClient, recvRepo, saleRepo, cfg.Session, appLogger)
	scanUC := scanUCPkg.NewScanUseCase(store, redisClient, tagRepo, recvRepo, saleRepo, scanRepo, dispatcher, cfg.Session, appLogger)

	// 8. Start Listener + Sweeper
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scanListener := scanListenerPkg.NewListener(kafkaConsumer, scanUC, appLogger)
	go scanListener.Start(ctx)
	go sessUC.RunSweeper(ctx)

	// 9. Initialize Handlers + Router
	tagHandler := tagH.NewTagHandler(tagUC, appLogger)
	recvHandler := recvH.NewReceivingHandler(recvUC, appLogger)
	saleHandler := saleH.NewSaleHandler(saleUC, appLogger)
	histHandler := histH.NewHistoryHandler(histUC, appLogger)
	sessHandler := sessH.NewSessionHandler(sessUC, appLogger)

	if cfg.Server.AppEnv != "development" && cfg.Server.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	scanGroup := router.Group("/scanrfid")
	{
		scanGroup.GET("", recvHandler.ListPending)
		scanGroup.GET("/:poId", recvHandler.GetOrder)
		scanGroup.GET("/:poId/status/:itemId", recvHandler.LineStatus)
		scanGroup.POST("/:poId/start/:itemId", sessHandler.StartReceive)
		scanGroup.POST("/:poId/stop", sessHandler.StopReceive)
	}

	salesGroup := router.Group("/sales")
	{
		salesGroup.GET("", saleHandler.List)
		salesGroup.POST("/create", saleHandler.Create)
		salesGroup.POST("/stop-sell", sessHandler.StopSell)
		salesGroup.GET("/:id", saleHandler.Get)
		salesGroup.POST("/:id/start-sell", sessHandler.StartSell)
		salesGroup.POST("/:id/checkout", saleHandler.Checkout)
	}

	router.GET("/sessions/active", sessHandler.Active)

	eventsGroup := router.Group("/rfid-events")
	{
		eventsGroup.GET("/history", histHandler.List)
		eventsGroup.GET("/replay/orders/:poId", histHandler.ReplayOrder)
		eventsGroup.GET("/replay/bills/:id", histHandler.ReplayBill)
	}

	tagsGroup := router.Group("/tags")
	{
		tagsGroup.GET("", tagHandler.List)
		tagsGroup.POST("", tagHandler.Register)
		tagsGroup.GET("/:uid", tagHandler.Get)
		tagsGroup.POST("/:uid/lost", tagHandler.MarkLost)
		tagsGroup.POST("/:uid/deactivate", tagHandler.Deactivate)
	}

	// 10. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
