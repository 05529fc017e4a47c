package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"feria-storefront/checkout"
	"feria-storefront/models"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	manager *checkout.Manager
	log     *slog.Logger
}

func NewCheckoutHandler(manager *checkout.Manager, log *slog.Logger) *CheckoutHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CheckoutHandler{manager: manager, log: log}
}

type navigateRequest struct {
	Step int `json:"step" binding:"required"`
}

type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// GetState handles GET /carts/:cartId/checkout.
func (h *CheckoutHandler) GetState(c *gin.Context) {
	state, err := h.manager.State(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SubmitAddress handles POST /carts/:cartId/checkout/address.
func (h *CheckoutHandler) SubmitAddress(c *gin.Context) {
	cartID := c.Param("cartId")

	var buyer models.Buyer
	if err := c.ShouldBindJSON(&buyer); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	state, err := h.manager.SubmitAddress(c.Request.Context(), cartID, buyer)
	if err != nil {
		var verr *checkout.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusUnprocessableEntity, validationResponse{
				Error:  "VALIDATION_FAILED",
				Fields: verr.Fields,
			})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ConfirmPayment handles POST /carts/:cartId/checkout/payment.
func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	cartID := c.Param("cartId")

	var payment models.PaymentRequest
	if err := c.ShouldBindJSON(&payment); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	state, err := h.manager.ConfirmPayment(c.Request.Context(), cartID, payment)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Navigate handles POST /carts/:cartId/checkout/step (stepper clicks).
func (h *CheckoutHandler) Navigate(c *gin.Context) {
	cartID := c.Param("cartId")

	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	state, err := h.manager.Navigate(c.Request.Context(), cartID, req.Step)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *CheckoutHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrCartNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Cart not found",
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "EMPTY_CART",
			Message: "Cannot checkout an empty cart",
		})
	case errors.Is(err, checkout.ErrStepLocked):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "STEP_LOCKED",
			Message: "Cannot skip ahead in the checkout flow",
		})
	case errors.Is(err, checkout.ErrWrongStep):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "WRONG_STEP",
			Message: "Action not valid for the current step",
		})
	case errors.Is(err, checkout.ErrUnavailable):
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "ARTWORK_UNAVAILABLE",
			Message: "An artwork in the cart is no longer available",
			Details: err.Error(),
		})
	default:
		h.log.Warn("checkout request failed", "error", err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "CHECKOUT_ERROR",
			Message: "Checkout step could not be completed",
			Details: err.Error(),
		})
	}
}
