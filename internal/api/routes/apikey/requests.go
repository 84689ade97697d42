package apikey

type StoreAPIKeyRequest struct {
	APIKey string `json:"apiKey" validate:"required"`
}
