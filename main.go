package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"tixmojo-server/internal/catalog"
	catalog_api "tixmojo-server/internal/catalog/api"
	catalog_db "tixmojo-server/internal/catalog/db"
	"tixmojo-server/internal/config"
	"tixmojo-server/internal/kafka"
	"tixmojo-server/internal/logger"
	"tixmojo-server/internal/payment"
	payment_api "tixmojo-server/internal/payment/api"
	"tixmojo-server/internal/payment/phone"
	"tixmojo-server/internal/payment/processor"
	"tixmojo-server/internal/payment/promo"
	"tixmojo-server/internal/payment/qr"
	"tixmojo-server/internal/payment/store"
)

func connectCatalogDB(cfg *config.Config, log *logger.Logger) *bun.DB {
	if cfg.Database.DSN == "" {
		log.Warn("DATABASE", "POSTGRES_DSN not set, catalog endpoints disabled")
		return nil
	}

	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err == nil {
			err = sqldb.Ping()
		}
		if err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func buildSessionStore(cfg *config.Config, log *logger.Logger) store.SessionStore {
	if cfg.Store.Backend == "redis" {
		redisStore, err := store.NewRedisStore(cfg.Redis.Addr)
		if err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
		}
		log.Info("DATABASE", fmt.Sprintf("Redis session store connected to %s", cfg.Redis.Addr))
		return redisStore
	}
	log.Info("SESSION", "Using in-memory session store")
	return store.NewMemoryStore()
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting TixMojo server initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()

	serviceFee, err := decimal.NewFromString(cfg.Session.ServiceFee)
	if err != nil {
		log.Fatal("CONFIG", fmt.Sprintf("Invalid SERVICE_FEE %q: %v", cfg.Session.ServiceFee, err))
	}

	sessionStore := buildSessionStore(cfg, log)
	defer sessionStore.Close()

	// Processor selection happens once at startup. Missing or placeholder
	// Stripe keys mean every intent is simulated.
	var processorClient processor.Client
	var webhookVerifier payment.WebhookVerifier
	if cfg.Stripe.Configured() {
		stripeClient := processor.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.Stripe.CallTimeout)
		processorClient = stripeClient
		webhookVerifier = stripeClient
		log.Info("PAYMENT", "Stripe processor configured, live payments enabled")
	} else {
		processorClient = processor.NewSimulatedClient()
		log.Warn("PAYMENT", "Stripe not configured, running in simulation mode")
	}

	var publisher payment.Publisher
	if cfg.Kafka.Enabled {
		topics := []string{cfg.Kafka.Topics.PaymentCompleted, cfg.Kafka.Topics.PaymentFailed}
		if !cfg.Kafka.MockMode {
			if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics, log); err != nil {
				log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
			}
		}
		producer := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:        cfg.Kafka.Brokers,
			CompletedTopic: cfg.Kafka.Topics.PaymentCompleted,
			FailedTopic:    cfg.Kafka.Topics.PaymentFailed,
			MockMode:       cfg.Kafka.MockMode,
		}, log)
		defer producer.Close()
		publisher = producer
		log.Info("KAFKA", "Payment event producer initialized")
	}

	paymentService := payment.NewService(payment.Options{
		Store:      sessionStore,
		Processor:  processorClient,
		Promos:     promo.NewStaticResolver(),
		Phones:     phone.NewValidator(),
		Publisher:  publisher,
		QR:         qr.NewGenerator(getQRSecret(cfg)),
		Logger:     log,
		TTL:        cfg.Session.TTL,
		ServiceFee: serviceFee,
		Currency:   cfg.Session.Currency,
	})
	if webhookVerifier != nil {
		paymentService.SetWebhookVerifier(webhookVerifier)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	paymentService.StartSweeper(ctx, cfg.Session.SweepInterval)
	log.Info("SESSION", fmt.Sprintf("Expiry sweeper started, interval %s", cfg.Session.SweepInterval))

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	paymentHandler := payment_api.NewHandler(paymentService, log)
	r.Route("/api/payments", func(r chi.Router) {
		paymentHandler.RegisterRoutes(r)
	})
	log.Info("ROUTER", "Payment routes registered under /api/payments")

	if bunDB := connectCatalogDB(cfg, log); bunDB != nil {
		defer bunDB.Close()
		if cfg.Database.Migrate {
			catalog_db.Migrate(bunDB)
		}
		catalogHandler := catalog_api.NewHandler(catalog.NewService(&catalog_db.DB{Bun: bunDB}), log)
		r.Route("/api/events", func(r chi.Router) {
			catalogHandler.RegisterEventRoutes(r)
		})
		r.Route("/api/organizers", func(r chi.Router) {
			catalogHandler.RegisterOrganizerRoutes(r)
		})
		log.Info("ROUTER", "Catalog routes registered under /api/events and /api/organizers")
	}

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", "TixMojo server running on "+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "TixMojo server shutdown complete")
	}
}

func getQRSecret(cfg *config.Config) string {
	if cfg.JWT.Secret != "" {
		return cfg.JWT.Secret
	}
	return "tixmojo-order-qr"
}
