package order

import (
	"fmt"
	"time"

	"github.com/MikeMC777/kasir-pos/internal/apperr"
	"github.com/MikeMC777/kasir-pos/internal/payment"
	"github.com/MikeMC777/kasir-pos/internal/product"
	"github.com/MikeMC777/kasir-pos/internal/user"
)

var ErrNotFound = fmt.Errorf("order %w", apperr.ErrNotFound)

type Order struct {
	ID          int64
	UserID      int64
	PaymentID   int64
	TotalPrice  int64
	TotalPaid   int64
	TotalReturn int64 // TotalPrice - TotalPaid, may be negative
	ReceiptCode string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Item is one persisted basket line. TotalPrice is Qty times the unit price
// at order time.
type Item struct {
	ID         int64
	OrderID    int64
	ProductID  int64
	Qty        int64
	TotalPrice int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Detail is an order with its related records loaded one level deep.
type Detail struct {
	Order
	User    *user.User
	Payment *payment.Payment
	Items   []ItemDetail
}

type ItemDetail struct {
	Item
	Product *product.Product
}
