package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"

	"github.com/sefazor/fitcoach-backend/internal/controller"
	"github.com/sefazor/fitcoach-backend/internal/models"
)

// WebhookVerifier checks a raw webhook payload against its signature header.
type WebhookVerifier interface {
	VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error)
}

type PaymentHandler struct {
	paymentController *controller.PaymentController
	verifier          WebhookVerifier
	log               *zap.Logger
}

func NewPaymentHandler(paymentController *controller.PaymentController, verifier WebhookVerifier, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentController: paymentController,
		verifier:          verifier,
		log:               log,
	}
}

func (h *PaymentHandler) CreatePaymentIntent(c *fiber.Ctx) error {
	var req models.PaymentIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body", "invalid_request_error"))
	}

	resp, err := h.paymentController.CreateSubscription(req)
	if err != nil {
		h.log.Error("subscription creation failed",
			zap.String("program", req.ProgramName),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(paymentErrorResponse(err))
	}

	return c.JSON(resp)
}

func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := h.verifier.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		h.log.Error("webhook signature verification failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).SendString("Webhook signature verification failed")
	}

	if err := h.paymentController.HandleStripeWebhook(&event); err != nil {
		h.log.Error("webhook handling failed", zap.String("event_id", event.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("Webhook handling failed")
	}

	return c.JSON(models.WebhookAck{Received: true})
}

// paymentErrorResponse keeps Stripe's message/type envelope intact and wraps
// everything else as a generic api_error.
func paymentErrorResponse(err error) models.PaymentErrorResponse {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return models.ErrorResponse(stripeErr.Msg, string(stripeErr.Type))
	}

	var paymentErr models.PaymentError
	if errors.As(err, &paymentErr) {
		return models.PaymentErrorResponse{Error: paymentErr}
	}

	return models.ErrorResponse(err.Error(), "api_error")
}
