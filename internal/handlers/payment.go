// internal/handlers/payment.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/authentiq/authentiq-backend/internal/services"
	"github.com/authentiq/authentiq-backend/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type confirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

// POST /orders/:id/payment-intent
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	intent, err := h.paymentService.CreateOrderPaymentIntent(c.Request.Context(), actor.ID, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, intent)
}

// POST /orders/:id/payment-confirm
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID", nil)
		return
	}

	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	order, err := h.paymentService.ConfirmOrderPayment(c.Request.Context(), actor.ID, orderID, req.PaymentIntentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, order)
}
