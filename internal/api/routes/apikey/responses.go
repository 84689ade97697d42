package apikey

type CheckAPIKeyResponse struct {
	HasKey bool `json:"hasKey"`
}

type StoreAPIKeyResponse struct {
	Success bool `json:"success"`
}
