package service

import (
	"math"
	"strconv"

	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"

	"github.com/sefazor/fitcoach-backend/internal/metrics"
	"github.com/sefazor/fitcoach-backend/internal/models"
	"github.com/sefazor/fitcoach-backend/pkg/email"
)

// PaymentGateway is the slice of the Stripe API the subscription flow uses.
type PaymentGateway interface {
	CreateCustomer(email, name, programName string) (*stripe.Customer, error)
	CreateMonthlyPrice(programName string, amountCents int64) (string, error)
	CreateSubscription(customerID, priceID string) (*stripe.Subscription, error)
}

type PaymentService struct {
	gateway      PaymentGateway
	emailService *email.EmailService // nil disables confirmation emails
	metrics      metrics.PaymentMetrics
	log          *zap.Logger
}

func NewPaymentService(gateway PaymentGateway, emailService *email.EmailService, m metrics.PaymentMetrics, log *zap.Logger) *PaymentService {
	return &PaymentService{
		gateway:      gateway,
		emailService: emailService,
		metrics:      m,
		log:          log,
	}
}

// CreateSubscription runs the three Stripe calls in order: customer, price,
// subscription. Each step depends on the previous one and there is no cleanup
// on partial failure; orphaned Stripe records are accepted.
func (s *PaymentService) CreateSubscription(req models.PaymentIntentRequest) (*models.SubscriptionResponse, error) {
	amount, err := strconv.ParseFloat(req.ProgramPrice, 64)
	if err != nil {
		s.metrics.IncSubscriptionFailed(req.ProgramName)
		return nil, models.PaymentError{
			Message: "programPrice must be a numeric string",
			Type:    "invalid_request_error",
		}
	}
	amountCents := int64(math.Round(amount * 100)) // USD to cents

	cust, err := s.gateway.CreateCustomer(req.Email, req.Name, req.ProgramName)
	if err != nil {
		s.metrics.IncSubscriptionFailed(req.ProgramName)
		return nil, err
	}

	// Programs with a pre-provisioned price reuse it; everything else gets
	// an ad hoc product and monthly price.
	priceID, ok := models.ProgramPriceID(req.ProgramName)
	if !ok {
		priceID, err = s.gateway.CreateMonthlyPrice(req.ProgramName, amountCents)
		if err != nil {
			s.metrics.IncSubscriptionFailed(req.ProgramName)
			return nil, err
		}
	}

	sub, err := s.gateway.CreateSubscription(cust.ID, priceID)
	if err != nil {
		s.metrics.IncSubscriptionFailed(req.ProgramName)
		return nil, err
	}

	var clientSecret string
	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		clientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
	}

	s.metrics.IncSubscriptionCreated(req.ProgramName)
	s.log.Info("subscription created",
		zap.String("subscription_id", sub.ID),
		zap.String("program", req.ProgramName),
		zap.Int64("amount_cents", amountCents))

	if s.emailService != nil {
		// Fire-and-forget: email failures never affect the response.
		go func() {
			if err := s.emailService.SendSubscriptionConfirmation(req.Email, req.Name, req.ProgramName); err != nil {
				s.log.Warn("confirmation email failed", zap.String("email", req.Email), zap.Error(err))
			}
		}()
	}

	return &models.SubscriptionResponse{
		SubscriptionID: sub.ID,
		ClientSecret:   clientSecret,
	}, nil
}

// HandleStripeWebhook logs verified billing events. Stripe stays the source
// of truth; no local state is kept.
func (s *PaymentService) HandleStripeWebhook(event *stripe.Event) error {
	s.metrics.IncWebhookEvent(string(event.Type))

	switch event.Type {
	case "customer.subscription.created":
		s.log.Info("stripe subscription created", zap.String("event_id", event.ID))
	case "invoice.payment_succeeded":
		s.log.Info("invoice payment succeeded", zap.String("event_id", event.ID))
	case "payment_intent.succeeded":
		s.log.Info("payment intent succeeded", zap.String("event_id", event.ID))
	default:
		s.log.Info("unhandled stripe event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)))
	}

	return nil
}
