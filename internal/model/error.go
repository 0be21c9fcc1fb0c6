package model

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse represents response for GET /healthz
type HealthResponse struct {
	Status    string `json:"status"`
	Network   string `json:"network"`
	Connected bool   `json:"connected"`
}
