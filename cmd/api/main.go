package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lumina-commerce/internal/assistant"
	"lumina-commerce/internal/cache"
	"lumina-commerce/internal/config"
	"lumina-commerce/internal/db"
	"lumina-commerce/internal/events"
	"lumina-commerce/internal/httpserver"
	"lumina-commerce/internal/order"
	categoryrepo "lumina-commerce/internal/repository/category"
	orderrepo "lumina-commerce/internal/repository/order"
	productrepo "lumina-commerce/internal/repository/product"
	cartsvc "lumina-commerce/internal/service/cart"
	categorysvc "lumina-commerce/internal/service/category"
	checkoutsvc "lumina-commerce/internal/service/checkout"
	productsvc "lumina-commerce/internal/service/product"
	"lumina-commerce/internal/service/session"
	trackingsvc "lumina-commerce/internal/service/tracking"
	"lumina-commerce/internal/telemetry"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	shutdownTracing, err := telemetry.Setup(cfg.TracingEnabled, os.Stdout)
	if err != nil {
		logger.Fatalf("init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Printf("flush traces: %v", err)
		}
	}()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool)

	var (
		source      order.Source = orderRepo
		invalidator trackingsvc.Invalidator
	)
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Printf("redis unavailable, tracking cache disabled: %v", err)
		} else {
			defer client.Close()
			trackingCache := cache.NewTrackingCache(client, orderRepo, cfg.TrackingCacheTTL, logger)
			source = trackingCache
			invalidator = trackingCache
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers, map[string]string{
			events.EventOrderPlaced:        cfg.KafkaOrdersTopic,
			events.EventOrderStatusChanged: cfg.KafkaOrdersTopic,
		})
		if err != nil {
			logger.Fatalf("init kafka publisher: %v", err)
		}
		publisher = kp
	}
	defer publisher.Close()
	emitter := events.NewOrderEmitter(publisher, logger)

	tracker := order.NewTracker(source, logger)
	sessionService := session.New(cfg.SessionTTL, tracker, cfg.TrackingLookupWait, logger)
	go sessionService.RunSweeper(ctx, 10*time.Minute)

	productService := productsvc.New(productRepo)
	if cfg.GeminiAPIKey == "" {
		logger.Printf("GEMINI_API_KEY not set, assistant will answer with fallback copy")
	}
	gemini := assistant.NewClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc:      productService,
		CategorySvc:     categorysvc.New(categoryRepo),
		SessionSvc:      sessionService,
		CartSvc:         cartsvc.New(productRepo),
		CheckoutSvc:     checkoutsvc.New(orderRepo, emitter, logger),
		TrackingSvc:     trackingsvc.New(tracker, orderRepo, invalidator, emitter, logger),
		AssistantSvc:    assistant.New(gemini, productService, logger),
		CORSOrigins:     cfg.CORSOrigins,
		SellerTokenHash: cfg.SellerTokenHash,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
