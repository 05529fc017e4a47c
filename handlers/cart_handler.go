package handlers

import (
	"log/slog"
	"net/http"

	"feria-storefront/cart"
	"feria-storefront/models"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	store *cart.Store
	log   *slog.Logger
}

func NewCartHandler(store *cart.Store, log *slog.Logger) *CartHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CartHandler{store: store, log: log}
}

// CreateCart handles POST /carts
func (h *CartHandler) CreateCart(c *gin.Context) {
	cartID := h.store.Create()
	h.log.Info("created cart", "cart_id", cartID)
	c.JSON(http.StatusCreated, models.CreateCartResponse{CartID: cartID})
}

// GetCart handles GET /carts/:cartId
func (h *CartHandler) GetCart(c *gin.Context) {
	cartID := c.Param("cartId")
	items, ok := h.store.Items(c.Request.Context(), cartID)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Cart not found",
		})
		return
	}
	c.JSON(http.StatusOK, h.view(c, cartID, items))
}

// AddItem handles POST /carts/:cartId/items
func (h *CartHandler) AddItem(c *gin.Context) {
	cartID := c.Param("cartId")

	var req models.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	item := models.CartItem{
		ArtworkID: req.ArtworkID,
		Title:     req.Title,
		Price:     req.Price,
		Image:     req.Image,
	}
	if !h.store.Add(c.Request.Context(), cartID, item, req.Quantity) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Cart not found",
		})
		return
	}

	h.log.Info("added item to cart", "cart_id", cartID, "artwork_id", req.ArtworkID, "qty", req.Quantity)

	items, _ := h.store.Items(c.Request.Context(), cartID)
	c.JSON(http.StatusOK, h.view(c, cartID, items))
}

// UpdateQuantity handles PUT /carts/:cartId/items/:artworkId
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	cartID := c.Param("cartId")
	artworkID := c.Param("artworkId")

	var req models.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if !h.store.UpdateQty(c.Request.Context(), cartID, artworkID, req.Quantity) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Cart not found",
		})
		return
	}

	items, _ := h.store.Items(c.Request.Context(), cartID)
	c.JSON(http.StatusOK, h.view(c, cartID, items))
}

// RemoveItem handles DELETE /carts/:cartId/items/:artworkId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cartID := c.Param("cartId")
	artworkID := c.Param("artworkId")

	if !h.store.Remove(c.Request.Context(), cartID, artworkID) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Cart not found",
		})
		return
	}

	items, _ := h.store.Items(c.Request.Context(), cartID)
	c.JSON(http.StatusOK, h.view(c, cartID, items))
}

// ClearCart handles DELETE /carts/:cartId
func (h *CartHandler) ClearCart(c *gin.Context) {
	cartID := c.Param("cartId")
	if !h.store.Clear(c.Request.Context(), cartID) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Cart not found",
		})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) view(c *gin.Context, cartID string, items []models.CartItem) models.CartView {
	view := models.CartView{
		CartID: cartID,
		Items:  items,
	}
	for _, it := range items {
		view.TotalItems += it.Quantity
		view.Subtotal += it.Price * int64(it.Quantity)
	}
	view.SubtotalLabel = models.FormatCOP(view.Subtotal)
	return view
}
