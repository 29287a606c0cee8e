// internal/services/payment_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/authentiq/authentiq-backend/internal/config"
	"github.com/authentiq/authentiq-backend/internal/models"
)

// PaymentService charges pending orders. The amount always comes from the
// server-computed order total, never from the request.
type PaymentService struct {
	db     *gorm.DB
	config *config.Config
	orders *OrderService
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Amount       int64  `json:"amount"`
	Status       string `json:"status"`
}

func NewPaymentService(db *gorm.DB, cfg *config.Config, orders *OrderService) *PaymentService {
	stripe.Key = cfg.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: cfg,
		orders: orders,
	}
}

// CreateOrderPaymentIntent opens a payment intent for a pending order. The
// order total is already in minor currency units, which is exactly what the
// payment processor expects.
func (s *PaymentService) CreateOrderPaymentIntent(ctx context.Context, buyerID, orderID uuid.UUID) (*PaymentIntentResponse, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order %s is %s, only pending orders can be paid", ErrValidation, orderID, order.Status)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(order.TotalAmount),
		Currency: stripe.String(s.config.Payment.Currency),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("buyer_id", buyerID.String())
	params.AddMetadata("blockchain_hash", order.BlockchainHash)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: intent.ClientSecret,
		PaymentID:    intent.ID,
		Amount:       order.TotalAmount,
		Status:       string(intent.Status),
	}, nil
}

// ConfirmOrderPayment checks the processor's view of an intent and, when it
// succeeded, moves the order along to shipped.
func (s *PaymentService) ConfirmOrderPayment(ctx context.Context, buyerID, orderID uuid.UUID, paymentIntentID string) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}

	intent, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}

	if intent.Metadata["order_id"] != order.ID.String() {
		return nil, fmt.Errorf("%w: payment intent does not belong to order %s", ErrValidation, orderID)
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("%w: payment intent status is %s", ErrValidation, intent.Status)
	}

	return s.orders.UpdateStatus(ctx, orderID, models.OrderStatusShipped)
}
