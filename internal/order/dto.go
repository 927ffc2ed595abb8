package order

// BasketEntry payload of one basket line.
// swagger:model BasketEntry
type BasketEntry struct {
	ProductID *int64 `json:"product_id" validate:"required" example:"1"`
	Qty       *int64 `json:"qty"        validate:"required,min=1" example:"2"`
}

// PlaceOrderRequest payload of order creation.
// swagger:model PlaceOrderRequest
type PlaceOrderRequest struct {
	PaymentID *int64        `json:"payment_id" validate:"required" example:"1"`
	TotalPaid *int64        `json:"total_paid" validate:"required" example:"50000"`
	Products  []BasketEntry `json:"products"   validate:"required,min=1,dive"`
}
