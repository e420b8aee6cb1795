package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecuador-legendario/premium-api/internal/api/middleware"
	"github.com/ecuador-legendario/premium-api/internal/core/domain"
	"github.com/ecuador-legendario/premium-api/internal/core/ports"
)

// PremiumHandler serves the PayPal order endpoints and the link gate.
type PremiumHandler struct {
	service ports.PremiumService
}

func NewPremiumHandler(service ports.PremiumService) *PremiumHandler {
	return &PremiumHandler{service: service}
}

// CreateOrder creates a PayPal order for the premium upgrade.
//
// @Summary      Create premium order
// @Tags         paypal
// @Produce      json
// @Success      200  {object}  createOrderResponse
// @Failure      401  {object}  errorResponse  "NO_LOGIN"
// @Failure      500  {object}  errorResponse  "PAYPAL_CREATE_FAILED or DB_ERROR"
// @Router       /paypal/create-order [post]
func (h *PremiumHandler) CreateOrder(c echo.Context) error {
	user, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	id, err := h.service.CreateOrder(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, createOrderResponse{ID: id})
}

// CaptureOrder captures an approved order and promotes the user on success.
//
// @Summary      Capture premium order
// @Tags         paypal
// @Accept       json
// @Produce      json
// @Param        body  body      captureOrderRequest  true  "Approved order id"
// @Success      200   {object}  okResponse
// @Failure      400   {object}  errorResponse  "NO_ORDER_ID or NOT_COMPLETED"
// @Failure      401   {object}  errorResponse  "NO_LOGIN"
// @Failure      403   {object}  errorResponse  "ORDER_NOT_OWNED"
// @Failure      404   {object}  errorResponse  "ORDER_NOT_FOUND"
// @Failure      409   {object}  errorResponse  "CAPTURE_IN_PROGRESS"
// @Failure      500   {object}  errorResponse  "PAYPAL_CAPTURE_FAILED or DB_ERROR"
// @Router       /paypal/capture-order [post]
func (h *PremiumHandler) CaptureOrder(c echo.Context) error {
	user, token, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req captureOrderRequest
	if err := bindAndValidate(c, &req, domain.ErrMissingOrderID); err != nil {
		return err
	}

	_, err = h.service.CaptureOrder(c.Request().Context(), ports.CaptureInput{
		SessionToken: token,
		User:         user,
		OrderID:      req.OrderID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// Gate tells the client what to do with a premium link.
//
// @Summary      Premium link gate
// @Tags         premium
// @Produce      json
// @Param        link  query     string  true  "Premium destination"
// @Success      200   {object}  gateResponse
// @Failure      400   {object}  errorResponse  "INVALID_LINK"
// @Router       /premium/gate [get]
func (h *PremiumHandler) Gate(c echo.Context) error {
	var req gateRequest
	if err := bindAndValidate(c, &req, domain.ErrInvalidLink); err != nil {
		return err
	}

	decision, err := h.service.Gate(c.Request().Context(), middleware.CurrentUser(c), req.Link)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, gateResponse{Action: string(decision.Action), Link: decision.Link})
}
