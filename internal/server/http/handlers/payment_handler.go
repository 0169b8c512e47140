package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/vansh-choudhary01/CashPay/internal/domain/errors"
	"github.com/vansh-choudhary01/CashPay/internal/server/http/dto"
)

// PaymentHandler serves payment intent creation and callback verification.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// CreateIntent handles POST /api/payments/intent.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req dto.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	intent, err := h.facade.CreatePaymentIntent(c.Request.Context(), req.OrderID, req.Amount, req.Currency)
	if err != nil {
		c.Status(statusForError(err))
		return
	}

	c.JSON(http.StatusCreated, dto.PaymentIntentResponse{
		IntentRef: intent.IntentRef,
		Amount:    intent.ProviderAmount,
		Currency:  intent.ProviderCurrency,
	})
}

// Verify handles POST /api/payments/verify.
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req dto.PaymentVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.VerifyPayment(c.Request.Context(), req.IntentRef, req.PaymentRef, req.Signature)
	if err != nil {
		// A valid payment that cannot settle is acknowledged so the
		// provider stops retrying; the conflict is handled out of band.
		if errors.Is(err, domainErrors.ErrOrderStateConflict) && result != nil {
			resp := dto.PaymentVerifyResponse{Valid: true}
			if result.Order != nil {
				order := toOrderResponse(result.Order)
				resp.Order = &order
			}
			c.JSON(http.StatusConflict, resp)
			return
		}
		c.Status(statusForError(err))
		return
	}

	if !result.Valid {
		c.JSON(http.StatusBadRequest, dto.PaymentVerifyResponse{Valid: false})
		return
	}

	resp := dto.PaymentVerifyResponse{Valid: true}
	if result.Order != nil {
		order := toOrderResponse(result.Order)
		resp.Order = &order
	}
	c.JSON(http.StatusOK, resp)
}
