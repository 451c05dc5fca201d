package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sefazor/fitcoach-backend/internal/config"
)

// NewFiberApp assembles the HTTP surface: payment endpoints, metrics and the
// static site.
func NewFiberApp(cfg *config.Config, paymentHandler *PaymentHandler, registry *prometheus.Registry) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	// Global Middleware'ler önce tanımlanmalı
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Stripe-Signature",
		AllowMethods: "GET, POST",
	}))
	app.Use(logger.New())
	app.Use(recover.New())

	app.Post("/create-payment-intent", paymentHandler.CreatePaymentIntent)
	app.Post("/webhook", paymentHandler.HandleStripeWebhook)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Static site last so the POST routes above take precedence
	app.Static("/", cfg.StaticDir)

	return app
}

// errorHandler keeps Fiber's own status codes (404 for missing static files)
// and answers anything unhandled with a fixed message plus the raw detail.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).SendString(fiberErr.Message)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal Server Error",
		"detail":  err.Error(),
	})
}
