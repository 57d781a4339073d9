package dto

// BuyRequest represents a purchase submitted to the web service
type BuyRequest struct {
	Username string   `json:"username" binding:"required" example:"testuser"`
	UserID   string   `json:"userId" binding:"required" example:"user123"`
	Price    *float64 `json:"price" binding:"required,gte=0" example:"99.99"`
}

// GetAllPurchasesRequest represents the query of GET /api/purchases
type GetAllPurchasesRequest struct {
	Limit *int `form:"limit" binding:"omitempty,gte=1" example:"10"`
}

// GetUserBuysRequest represents the query of GET /getAllUserBuys
type GetUserBuysRequest struct {
	UserID string `form:"userId" binding:"required" example:"user123"`
}
