package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vansh-choudhary01/CashPay/internal/server/http/dto"
)

// QuoteHandler serves instant device quotes.
type QuoteHandler struct {
	facade QuoteFacade
}

// NewQuoteHandler constructs QuoteHandler.
func NewQuoteHandler(facade QuoteFacade) *QuoteHandler {
	return &QuoteHandler{facade: facade}
}

// Quote handles POST /api/quote.
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	quote, err := h.facade.Quote(req.BasePrice, req.Condition, req.Storage)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusOK, dto.QuoteResponse{
		BasePrice:           quote.BasePrice,
		ConditionMultiplier: quote.ConditionMultiplier.String(),
		StorageMultiplier:   quote.StorageMultiplier.String(),
		Price:               quote.ComputedPrice,
	})
}

// Attributes handles GET /api/quote/attributes.
func (h *QuoteHandler) Attributes(c *gin.Context) {
	conditions, storages := h.facade.QuoteAttributes()
	c.JSON(http.StatusOK, dto.QuoteAttributesResponse{
		Conditions: conditions,
		Storages:   storages,
	})
}
