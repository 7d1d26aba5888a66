package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"pos-backend/internal/catalog"
	"pos-backend/internal/catalog/catalog_api"
	"pos-backend/internal/config"
	"pos-backend/internal/kafka"
	"pos-backend/internal/logger"
	"pos-backend/internal/order"
	"pos-backend/internal/order/db"
	"pos-backend/internal/order/discount"
	"pos-backend/internal/order/order_api"
	"pos-backend/internal/order/qr"
	"pos-backend/internal/promo"
	"pos-backend/internal/promo/promo_api"
	"pos-backend/internal/sse"
)

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting POS backend initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()

	bunDB := db.Open(cfg.Database.Path, log)
	defer bunDB.Close()

	menu := catalog.New(cfg.Catalog.MenuPath, log)

	promoService := promo.NewService(&promo.DB{Bun: bunDB}, cfg.Promo, log)

	emitter := sse.NewOrderEventEmitter()

	producer := kafka.NewProducer(cfg.Kafka, log)
	defer producer.Close()
	if cfg.Kafka.Enabled && !cfg.Kafka.MockMode {
		topics := []string{cfg.Kafka.Topics.OrderCreated, cfg.Kafka.Topics.OrderUpdated}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
	}

	orderService := order.NewOrderService(
		&db.DB{Bun: bunDB},
		emitter,
		promoService,
		menu,
		discount.NewCalculator(),
		producer,
		cfg.Kafka.Topics,
		log,
	)

	orderHandler := &order_api.Handler{
		OrderService: orderService,
		Receipts:     qr.NewReceiptGenerator(),
		Logger:       log,
	}
	sseHandler := order_api.NewSSEHandler(emitter, log)
	promoHandler := &promo_api.Handler{PromoService: promoService, Logger: log}
	menuHandler := &catalog_api.Handler{Catalog: menu, Logger: log}

	log.Info("HTTP", "Setting up router")
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", menuHandler.GetMenu)
		r.Get("/promo", promoHandler.GetPromo)
		r.Post("/promo", promoHandler.SetPromo)
		r.Get("/events", sseHandler.HandleOrderEvents)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.ListOrders)
			r.Post("/", orderHandler.SubmitOrder)
			r.Get("/{orderId}", orderHandler.GetOrder)
			r.Patch("/{orderId}", orderHandler.UpdateOrderStatus)
			r.Get("/{orderId}/qr", orderHandler.GetOrderReceipt)
		})
	})

	server := &http.Server{
		Addr:        cfg.Server.Port,
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
		// No WriteTimeout: SSE connections stay open indefinitely.
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("POS backend running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "POS backend shutdown complete")
	}
}
