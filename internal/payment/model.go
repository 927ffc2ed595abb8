package payment

import (
	"fmt"
	"time"

	"github.com/MikeMC777/kasir-pos/internal/apperr"
)

var ErrNotFound = fmt.Errorf("payment %w", apperr.ErrNotFound)

// AssetDir is the asset store directory holding payment logos.
const AssetDir = "payments"

// Payment is a payment method offered at the till (cash, QRIS, card...).
type Payment struct {
	ID        int64
	Name      string
	Type      string
	Logo      string // store-relative asset path
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentRequest payload of creation and full update, sent as multipart form
// together with the "logo" file.
// swagger:model PaymentRequest
type PaymentRequest struct {
	Name string `form:"name" json:"name" validate:"required,max=50" example:"QRIS"`
	Type string `form:"type" json:"type" validate:"required,max=50" example:"e-wallet"`
}
