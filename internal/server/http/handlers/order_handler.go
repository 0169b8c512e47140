package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
	"github.com/vansh-choudhary01/CashPay/internal/server/http/dto"
)

// OrderHandler manages order lifecycle endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// CreateSell handles POST /api/orders/sell.
func (h *OrderHandler) CreateSell(c *gin.Context) {
	var req dto.SellOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	device := model.SellDetails{
		Category:  req.Category,
		Brand:     req.Brand,
		Model:     req.Model,
		Storage:   req.Storage,
		Condition: req.Condition,
	}
	order, err := h.facade.CreateSellOrder(c.Request.Context(), CurrentSubject(c), device, req.BasePrice)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// CreatePurchase handles POST /api/orders/purchase.
func (h *OrderHandler) CreatePurchase(c *gin.Context) {
	var req dto.PurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.CreatePurchaseOrder(c.Request.Context(), CurrentSubject(c), req.ProductID, req.Quantity)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	subject := CurrentSubject(c)
	if subject == nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	orders, err := h.facade.Orders(c.Request.Context(), *subject)
	if err != nil {
		c.Status(statusForError(err))
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Schedule handles POST /api/orders/:id/schedule.
func (h *OrderHandler) Schedule(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req dto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.SchedulePickup(c.Request.Context(), id, req.PickupAt, req.Address)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Pickup handles POST /api/orders/:id/pickup.
func (h *OrderHandler) Pickup(c *gin.Context) {
	h.simpleTransition(c, h.facade.MarkPickedUp)
}

// Inspection handles POST /api/orders/:id/inspection.
func (h *OrderHandler) Inspection(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	req := dto.InspectionRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
	}

	order, err := h.facade.RecordInspection(c.Request.Context(), id, req.FinalPrice)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Deliver handles POST /api/orders/:id/deliver.
func (h *OrderHandler) Deliver(c *gin.Context) {
	h.simpleTransition(c, h.facade.MarkDelivered)
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	req := dto.CancelRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
	}

	order, err := h.facade.CancelOrder(c.Request.Context(), id, req.Reason)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) simpleTransition(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*model.Order, error)) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := op(c.Request.Context(), id)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}
