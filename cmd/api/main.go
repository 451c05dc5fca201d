package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sefazor/fitcoach-backend/internal/config"
	"github.com/sefazor/fitcoach-backend/internal/controller"
	"github.com/sefazor/fitcoach-backend/internal/handler"
	"github.com/sefazor/fitcoach-backend/internal/metrics"
	"github.com/sefazor/fitcoach-backend/internal/service"
	"github.com/sefazor/fitcoach-backend/pkg/email"
	"github.com/sefazor/fitcoach-backend/pkg/logger"
	"github.com/sefazor/fitcoach-backend/pkg/payment"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading config from environment")
	}

	// Config'i yükle
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	zapLog, err := logger.New()
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer zapLog.Sync()

	// Metrics
	registry := prometheus.NewRegistry()
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	// Stripe service
	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	// Email service (optional)
	var emailService *email.EmailService
	if cfg.Email.ResendAPIKey != "" {
		emailService = email.NewEmailService(cfg.Email.ResendAPIKey, cfg.Email.FromAddress, cfg.Email.FromName, zapLog)
	}

	// Services
	paymentService := service.NewPaymentService(stripeService, emailService, paymentMetrics, zapLog)

	// Handlers
	paymentController := controller.NewPaymentController(paymentService)
	paymentHandler := handler.NewPaymentHandler(paymentController, stripeService, zapLog)

	// Router
	app := handler.NewFiberApp(cfg, paymentHandler, registry)

	// Start server
	zapLog.Info("starting server", zap.String("port", cfg.Port))
	log.Fatal(app.Listen(":" + cfg.Port))
}
