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

	"dropflow-admin/config"
	"dropflow-admin/internal/api"
	"dropflow-admin/internal/broker"
	"dropflow-admin/internal/redisclient"
	"dropflow-admin/internal/service"
	"dropflow-admin/internal/store"
	"dropflow-admin/internal/util"
	"dropflow-admin/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting dropflow admin service")

	tp, err := util.InitTracer("dropflow-admin", cfg.Observ.JaegerEndpoint)
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

	var st store.Store
	switch cfg.Store.Backend {
	case "postgres":
		pg, err := store.NewPostgres(cfg.Store.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		st = pg
		log.Println("Database connected")
	default:
		mem := store.NewMemory(time.Duration(cfg.Store.MockDelayMs) * time.Millisecond)
		if err := store.SeedDemoData(context.Background(), mem); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
		st = mem
		log.Println("Memory store seeded with demo data")
	}
	defer st.Close()

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	catalogService := service.NewCatalogService(st, redisClient, eventPublisher, cfg.Business.LowStockThreshold)
	orderService := service.NewOrderService(st, eventPublisher, cfg.Business.RecentOrdersLimit)
	supplierService := service.NewSupplierService(st, nil)
	shippingService := service.NewShippingService(nil)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	alertsConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
	alertsWorker := worker.NewAlertsWorker(alertsConsumer, redisClient)
	go func() {
		if err := alertsWorker.Start(workerCtx); err != nil {
			log.Printf("Alerts worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(catalogService, orderService, supplierService, shippingService)
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
	alertsWorker.Stop()

	log.Println("Server exited")
}
