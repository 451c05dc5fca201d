package models

// PaymentError mirrors Stripe's error envelope so the front end sees one
// shape for processor and local failures alike.
type PaymentError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e PaymentError) Error() string {
	return e.Message
}

type PaymentErrorResponse struct {
	Error PaymentError `json:"error"`
}

func ErrorResponse(message, errType string) PaymentErrorResponse {
	return PaymentErrorResponse{
		Error: PaymentError{
			Message: message,
			Type:    errType,
		},
	}
}

type WebhookAck struct {
	Received bool `json:"received"`
}
