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

	"marketplace-service/config"
	"marketplace-service/internal/api"
	"marketplace-service/internal/broker"
	"marketplace-service/internal/mailer"
	"marketplace-service/internal/redisclient"
	"marketplace-service/internal/service"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"
	"marketplace-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting marketplace service")

	tp, err := util.InitTracer("marketplace-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	if err := db.Migrate(context.Background()); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	emailProducer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEmails)
	defer emailProducer.Close()
	importProducer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicImports)
	defer importProducer.Close()
	log.Println("Kafka producers initialized")

	taskPublisher := broker.NewTaskPublisher(emailProducer, importProducer)

	smtpMailer := mailer.NewMailer(
		cfg.SMTP.Host, cfg.SMTP.Port,
		cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour

	productService := service.NewProductService(db)
	catalogService := service.NewCatalogService(db, cfg.Import.BaseDir)
	userService := service.NewUserService(db, redisClient, taskPublisher, tokenTTL)
	contactService := service.NewContactService(db)
	basketService := service.NewBasketService(db)
	orderService := service.NewOrderService(db, taskPublisher, cfg.SMTP.AdminEmail)
	partnerService := service.NewPartnerService(db)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	mailConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEmails, cfg.Kafka.ConsumerGroup)
	mailWorker := worker.NewMailWorker(mailConsumer, smtpMailer)
	go func() {
		if err := mailWorker.Start(workerCtx); err != nil {
			log.Printf("Mail worker error: %v", err)
		}
	}()

	importConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicImports, cfg.Kafka.ConsumerGroup)
	importWorker := worker.NewImportWorker(importConsumer, catalogService)
	go func() {
		if err := importWorker.Start(workerCtx); err != nil {
			log.Printf("Import worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(
		productService,
		catalogService,
		userService,
		contactService,
		basketService,
		orderService,
		partnerService,
		taskPublisher,
	)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	mailWorker.Stop()
	importWorker.Stop()

	log.Println("Server exited")
}
