package controller

import (
	"github.com/stripe/stripe-go/v74"

	"github.com/sefazor/fitcoach-backend/internal/models"
	"github.com/sefazor/fitcoach-backend/internal/service"
)

type PaymentController struct {
	paymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

func (c *PaymentController) CreateSubscription(req models.PaymentIntentRequest) (*models.SubscriptionResponse, error) {
	return c.paymentService.CreateSubscription(req)
}

func (c *PaymentController) HandleStripeWebhook(event *stripe.Event) error {
	return c.paymentService.HandleStripeWebhook(event)
}
