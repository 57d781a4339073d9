package dto

import "github.com/BarkinBalci/purchase-event-pipeline/internal/domain"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"Key: 'BuyRequest.UserID' Error:Field validation for 'UserID' failed on the 'required' tag"`
	Detail  string `json:"detail,omitempty" example:"Error retrieving purchases: connection refused"`
}

// PurchaseData echoes the accepted purchase
type PurchaseData struct {
	Username string  `json:"username" example:"testuser"`
	UserID   string  `json:"userId" example:"user123"`
	Price    float64 `json:"price" example:"99.99"`
}

// BuyResponse represents the result of POST /buy
type BuyResponse struct {
	Status         string       `json:"status" example:"success"`
	KafkaPublished bool         `json:"kafka_published" example:"true"`
	Data           PurchaseData `json:"data"`
}

// UserPurchasesResponse represents the purchases of a single user
type UserPurchasesResponse struct {
	UserID    string                   `json:"userId" example:"user123"`
	Purchases []*domain.PurchaseRecord `json:"purchases"`
	Error     string                   `json:"error,omitempty" example:"management service unavailable: connection refused"`
}

// AllPurchasesResponse represents the result of GET /api/purchases
type AllPurchasesResponse struct {
	Purchases []*domain.PurchaseRecord `json:"purchases"`
	Count     int                      `json:"count" example:"1"`
}

// ManagementHealthResponse represents the aggregated health of the management service
type ManagementHealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"customer-management-api"`
	MongoDB string `json:"mongodb" example:"connected"`
	Kafka   string `json:"kafka" example:"consuming"`
}

// WebHealthResponse represents the health of the web service
type WebHealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"customer-web-server"`
}
