package handler

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"

	"github.com/sefazor/fitcoach-backend/internal/config"
	"github.com/sefazor/fitcoach-backend/internal/controller"
	"github.com/sefazor/fitcoach-backend/internal/metrics"
	"github.com/sefazor/fitcoach-backend/internal/models"
	"github.com/sefazor/fitcoach-backend/internal/service"
	"github.com/sefazor/fitcoach-backend/pkg/payment"
)

const testWebhookSecret = "whsec_test_secret"

// mockGateway implements service.PaymentGateway for testing
type mockGateway struct {
	CreateCustomerFunc     func(email, name, programName string) (*stripe.Customer, error)
	CreateMonthlyPriceFunc func(programName string, amountCents int64) (string, error)
	CreateSubscriptionFunc func(customerID, priceID string) (*stripe.Subscription, error)
}

func (m *mockGateway) CreateCustomer(email, name, programName string) (*stripe.Customer, error) {
	if m.CreateCustomerFunc != nil {
		return m.CreateCustomerFunc(email, name, programName)
	}
	return &stripe.Customer{ID: "cus_test"}, nil
}

func (m *mockGateway) CreateMonthlyPrice(programName string, amountCents int64) (string, error) {
	if m.CreateMonthlyPriceFunc != nil {
		return m.CreateMonthlyPriceFunc(programName, amountCents)
	}
	return "price_test", nil
}

func (m *mockGateway) CreateSubscription(customerID, priceID string) (*stripe.Subscription, error) {
	if m.CreateSubscriptionFunc != nil {
		return m.CreateSubscriptionFunc(customerID, priceID)
	}
	return &stripe.Subscription{
		ID: "sub_test",
		LatestInvoice: &stripe.Invoice{
			PaymentIntent: &stripe.PaymentIntent{ClientSecret: "pi_test_secret"},
		},
	}, nil
}

func newTestApp(t *testing.T, gw *mockGateway) *fiber.App {
	t.Helper()

	staticDir := t.TempDir()
	err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>FitCoach</h1>"), 0644)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:           "4242",
		StaticDir:      staticDir,
		AllowedOrigins: "http://localhost:3000",
	}
	cfg.Stripe.SecretKey = "sk_test_dummy"
	cfg.Stripe.WebhookSecret = testWebhookSecret

	registry := prometheus.NewRegistry()
	paymentMetrics := metrics.NewPaymentMetrics(registry)
	paymentService := service.NewPaymentService(gw, nil, paymentMetrics, zap.NewNop())
	paymentController := controller.NewPaymentController(paymentService)

	verifier := payment.NewStripeService(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	paymentHandler := NewPaymentHandler(paymentController, verifier, zap.NewNop())

	return NewFiberApp(cfg, paymentHandler, registry)
}

// signWebhookPayload builds a Stripe-Signature header the verifier accepts.
func signWebhookPayload(payload []byte, secret string, at time.Time) string {
	signedPayload := fmt.Sprintf("%d.%s", at.Unix(), payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signedPayload))
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestCreatePaymentIntent_Success(t *testing.T) {
	app := newTestApp(t, &mockGateway{})

	body := `{"programName":"Hybrid Athlete","programPrice":"59.99","email":"jamie@example.com","name":"Jamie Doe"}`
	req, _ := http.NewRequest(http.MethodPost, "/create-payment-intent", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.SubscriptionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "sub_test", got.SubscriptionID)
	assert.NotEmpty(t, got.ClientSecret)
}

func TestCreatePaymentIntent_StripeErrorShape(t *testing.T) {
	gw := &mockGateway{
		CreateCustomerFunc: func(email, name, programName string) (*stripe.Customer, error) {
			return nil, &stripe.Error{
				Msg:  "Invalid email address.",
				Type: stripe.ErrorTypeInvalidRequest,
			}
		},
	}
	app := newTestApp(t, gw)

	body := `{"programName":"Hybrid Athlete","programPrice":"59.99","email":"not-an-email","name":"Jamie Doe"}`
	req, _ := http.NewRequest(http.MethodPost, "/create-payment-intent", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var got models.PaymentErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Invalid email address.", got.Error.Message)
	assert.Equal(t, "invalid_request_error", got.Error.Type)
}

func TestWebhook_InvalidSignature(t *testing.T) {
	app := newTestApp(t, &mockGateway{})

	payload := []byte(`{"id":"evt_test","object":"event","type":"payment_intent.succeeded","data":{"object":{}}}`)
	req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBuffer(payload))
	req.Header.Set("Stripe-Signature", "t=123,v1=deadbeef")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "verification failed")
}

func TestWebhook_ValidSignature(t *testing.T) {
	app := newTestApp(t, &mockGateway{})

	payload := []byte(`{"id":"evt_test","object":"event","type":"payment_intent.succeeded","data":{"object":{}}}`)
	req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBuffer(payload))
	req.Header.Set("Stripe-Signature", signWebhookPayload(payload, testWebhookSecret, time.Now()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.WebhookAck
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, got.Received)
}

func TestWebhook_UnrecognizedTypeStillAcknowledged(t *testing.T) {
	app := newTestApp(t, &mockGateway{})

	payload := []byte(`{"id":"evt_test","object":"event","type":"charge.dispute.created","data":{"object":{}}}`)
	req, _ := http.NewRequest(http.MethodPost, "/webhook", bytes.NewBuffer(payload))
	req.Header.Set("Stripe-Signature", signWebhookPayload(payload, testWebhookSecret, time.Now()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatic_IndexServed(t *testing.T) {
	app := newTestApp(t, &mockGateway{})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "FitCoach")
}

func TestStatic_MissingFile(t *testing.T) {
	app := newTestApp(t, &mockGateway{})

	req, _ := http.NewRequest(http.MethodGet, "/missing.html", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
