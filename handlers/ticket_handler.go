package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"feria-storefront/clients"
	"feria-storefront/models"

	"github.com/gin-gonic/gin"
)

// TicketService is the slice of the ticket client the handler needs.
type TicketService interface {
	CreateTicketOrder(ctx context.Context, req clients.TicketOrderRequest) (clients.TicketOrder, error)
}

type TicketHandler struct {
	tickets TicketService
	event   string
	log     *slog.Logger
}

func NewTicketHandler(tickets TicketService, event string, log *slog.Logger) *TicketHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TicketHandler{tickets: tickets, event: event, log: log}
}

type createTicketOrderRequest struct {
	TicketID string       `json:"ticket_id" binding:"required"`
	Qty      int          `json:"qty" binding:"required,min=1"`
	Buyer    models.Buyer `json:"buyer" binding:"required"`
}

// CreateOrder handles POST /tickets/orders.
func (h *TicketHandler) CreateOrder(c *gin.Context) {
	var req createTicketOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	order, err := h.tickets.CreateTicketOrder(c.Request.Context(), clients.TicketOrderRequest{
		Event:    h.event,
		TicketID: req.TicketID,
		Qty:      req.Qty,
		Buyer:    req.Buyer,
	})
	if err != nil {
		h.log.Warn("ticket order failed", "ticket_id", req.TicketID, "error", err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "TICKET_ORDER_ERROR",
			Message: "Failed to create ticket order",
			Details: err.Error(),
		})
		return
	}

	h.log.Info("ticket order created", "order_id", order.ID, "ticket_id", req.TicketID)
	c.JSON(http.StatusCreated, order)
}
