package product

import (
	"fmt"
	"time"

	"github.com/MikeMC777/kasir-pos/internal/apperr"
	"github.com/MikeMC777/kasir-pos/internal/category"
)

var ErrNotFound = fmt.Errorf("product %w", apperr.ErrNotFound)

// AssetDir is the asset store directory holding product images.
const AssetDir = "products"

type Product struct {
	ID         int64
	Name       string
	SKU        string
	Stock      int64
	Price      int64
	Image      string // store-relative asset path
	CategoryID int64
	Category   *category.Category
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProductRequest payload of creation and full update, sent as multipart form
// together with the "image" file.
// swagger:model ProductRequest
type ProductRequest struct {
	Name       string `form:"name"        json:"name"        validate:"required,max=100" example:"Iced Latte"`
	SKU        string `form:"sku"         json:"sku"         validate:"required,max=20"  example:"BEV-001"`
	Stock      *int64 `form:"stock"       json:"stock"       validate:"required,gte=0"   example:"25"`
	Price      *int64 `form:"price"       json:"price"       validate:"required,gte=0"   example:"18000"`
	CategoryID *int64 `form:"category_id" json:"category_id" validate:"required"         example:"1"`
}

// Query filters a product listing. Nil filters are not applied.
type Query struct {
	CategoryID *int64
	Name       *string
	Limit      int
	Offset     int
}
