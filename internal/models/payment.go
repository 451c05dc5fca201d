package models

type PaymentIntentRequest struct {
	ProgramName  string `json:"programName"`
	ProgramPrice string `json:"programPrice"`
	Email        string `json:"email"`
	Name         string `json:"name"`
}

type SubscriptionResponse struct {
	SubscriptionID string `json:"subscriptionId"`
	ClientSecret   string `json:"clientSecret"`
}
