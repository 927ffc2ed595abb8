package category

import (
	"fmt"
	"time"

	"github.com/MikeMC777/kasir-pos/internal/apperr"
)

var ErrNotFound = fmt.Errorf("category %w", apperr.ErrNotFound)

type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryRequest payload for create and full update.
// swagger:model CategoryRequest
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=50" example:"Beverages"`
}
