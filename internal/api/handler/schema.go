package handler

import "github.com/ecuador-legendario/premium-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error" example:"BAD_CREDENTIALS"`
}

// --- Request / Response types ---

type credentialsRequest struct {
	Email    string `json:"email"    example:"ana@example.com"`
	Password string `json:"password" example:"s3cret"`
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,max=254" example:"ana@example.com"`
	Password string `json:"password" validate:"required,max=72"  example:"s3cret"`
}

type authResponse struct {
	OK   bool                    `json:"ok" example:"true"`
	User *domain.SessionSnapshot `json:"user"`
}

type meResponse struct {
	User *domain.SessionSnapshot `json:"user"`
}

type okResponse struct {
	OK bool `json:"ok" example:"true"`
}

type configResponse struct {
	PayPalEnv       string  `json:"paypalEnv"       example:"sandbox"`
	PayPalClientID  string  `json:"paypalClientId"  example:"AbC123"`
	PremiumCurrency string  `json:"premiumCurrency" example:"USD"`
	PremiumPrice    float64 `json:"premiumPrice"    example:"4.99"`
}

type createOrderResponse struct {
	ID string `json:"id" example:"5O190127TN364715T"`
}

type captureOrderRequest struct {
	OrderID string `json:"orderID" validate:"required" example:"5O190127TN364715T"`
}

type gateRequest struct {
	Link string `query:"link" validate:"required"`
}

type gateResponse struct {
	Action string `json:"action" example:"pay" enums:"login,pay,redirect"`
	Link   string `json:"link"   example:"/premium/guide"`
}
