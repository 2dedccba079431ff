package order

import (
	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusShipped   = "SHIPPED"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	Username        string          `json:"username"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          string          `json:"status"`
	ShippingAddress string          `json:"shippingAddress"`
	Phone           string          `json:"phone"`
	PaymentMethod   string          `json:"paymentMethod"`
	RecipientName   string          `json:"recipientName"`
	Remark          string          `json:"remark,omitempty"`
	CreatedAt       string          `json:"createdAt,omitempty"`
	UpdatedAt       string          `json:"updatedAt,omitempty"`
	OrderItems      []OrderItem     `json:"orderItems"`
}

type OrderItem struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"orderId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// CreateOrderRequest is what the caller provides: delivery details and
// payment method. The line items and total come from the server-side cart.
// An empty PaymentMethod leaves the order pending payment.
type CreateOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	Phone           string `json:"phone"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
	RecipientName   string `json:"recipientName,omitempty"`
	Remark          string `json:"remark,omitempty"`
}

type statusParams struct {
	Status string `form:"status"`
}
