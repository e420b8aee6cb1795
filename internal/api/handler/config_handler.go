package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PublicConfig is the subset of server configuration the browser needs to
// load the PayPal SDK and render the price.
type PublicConfig struct {
	PayPalEnv       string
	PayPalClientID  string
	PremiumCurrency string
	PremiumPrice    float64
}

type ConfigHandler struct {
	cfg PublicConfig
}

func NewConfigHandler(cfg PublicConfig) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// Get returns the public client configuration.
//
// @Summary      Frontend configuration
// @Tags         config
// @Produce      json
// @Success      200  {object}  configResponse
// @Router       /config [get]
func (h *ConfigHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, configResponse{
		PayPalEnv:       h.cfg.PayPalEnv,
		PayPalClientID:  h.cfg.PayPalClientID,
		PremiumCurrency: h.cfg.PremiumCurrency,
		PremiumPrice:    h.cfg.PremiumPrice,
	})
}
