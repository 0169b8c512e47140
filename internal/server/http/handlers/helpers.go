package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/vansh-choudhary01/CashPay/internal/domain/errors"
	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
	"github.com/vansh-choudhary01/CashPay/internal/server/http/dto"
	"github.com/vansh-choudhary01/CashPay/internal/server/http/middleware"
)

// CurrentSubject extracts the authenticated subject reference from context.
// Returns nil for anonymous requests.
func CurrentSubject(c *gin.Context) *string {
	val, ok := c.Get(middleware.SubjectContextKey)
	if !ok {
		return nil
	}
	ref, ok := val.(string)
	if !ok || ref == "" {
		return nil
	}
	return &ref
}

func orderIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrUnknownAttribute),
		errors.Is(err, domainErrors.ErrAmountMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrConflict),
		errors.Is(err, domainErrors.ErrPaymentMismatch),
		errors.Is(err, domainErrors.ErrOrderStateConflict):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrProviderUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, domainErrors.ErrVerificationTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:               order.ID.String(),
		Type:             string(order.Type),
		Status:           string(order.Status),
		Price:            order.Price,
		QuotedPrice:      order.QuotedPrice,
		PickupAt:         order.PickupAt,
		Address:          order.Address,
		PaymentIntentRef: order.PaymentIntentRef,
		PaymentRef:       order.PaymentRef,
		CancelReason:     order.CancelReason,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
	if order.Sell != nil {
		resp.Sell = &dto.SellDetailsResponse{
			Category:  order.Sell.Category,
			Brand:     order.Sell.Brand,
			Model:     order.Sell.Model,
			Storage:   order.Sell.Storage,
			Condition: order.Sell.Condition,
		}
	}
	if order.Purchase != nil {
		resp.Purchase = &dto.PurchaseDetailsResponse{
			ProductID: order.Purchase.ProductID,
			Quantity:  order.Purchase.Quantity,
		}
	}
	return resp
}
