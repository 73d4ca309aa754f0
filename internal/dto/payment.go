package dto

type InitializeTopUpRequest struct {
	Email       string  `json:"email"`
	Amount      float64 `json:"amount"`
	CallbackURL string  `json:"callbackUrl"`
}

type InitializeTopUpResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}

// PaystackVerification is the slice of the gateway's verify/webhook payload
// the reconciler acts on. Amount is in the gateway's minor unit (kobo).
type PaystackVerification struct {
	Status    string            `json:"status"`
	Reference string            `json:"reference"`
	Amount    int64             `json:"amount"`
	Metadata  map[string]string `json:"metadata"`
}

type PaystackWebhookEvent struct {
	Event string               `json:"event"`
	Data  PaystackVerification `json:"data"`
}
