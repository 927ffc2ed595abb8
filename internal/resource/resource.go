// Package resource maps domain records to their JSON representations.
// Related records are nested one level deep and omitted when not loaded.
package resource

import (
	"time"

	"github.com/MikeMC777/kasir-pos/internal/category"
	"github.com/MikeMC777/kasir-pos/internal/order"
	"github.com/MikeMC777/kasir-pos/internal/payment"
	"github.com/MikeMC777/kasir-pos/internal/product"
	"github.com/MikeMC777/kasir-pos/internal/user"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserWithOrders is the user list entry; orders is always present, empty
// when the user has none.
type UserWithOrders struct {
	User
	Orders []Order `json:"orders"`
}

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	Stock      int64     `json:"stock"`
	Price      int64     `json:"price"`
	Image      string    `json:"image"`
	CategoryID int64     `json:"category_id"`
	Category   *Category `json:"category,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Payment struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Logo      string    `json:"logo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Order struct {
	ID          int64       `json:"id"`
	TotalPrice  int64       `json:"total_price"`
	TotalPaid   int64       `json:"total_paid"`
	TotalReturn int64       `json:"total_return"`
	ReceiptCode string      `json:"receipt_code"`
	User        *User       `json:"user,omitempty"`
	Payment     *Payment    `json:"payment,omitempty"`
	Products    []OrderLine `json:"products,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderLine is one line item; Price is the line total, not the unit price.
type OrderLine struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Product   *Product  `json:"product"`
	Qty       int64     `json:"qty"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromUser(u *user.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// FromUsers nests each user's orders (without their relations).
func FromUsers(us []user.User, orders map[int64][]order.Order) []UserWithOrders {
	out := make([]UserWithOrders, 0, len(us))
	for i := range us {
		r := UserWithOrders{User: *FromUser(&us[i]), Orders: make([]Order, 0, len(orders[us[i].ID]))}
		for _, o := range orders[us[i].ID] {
			r.Orders = append(r.Orders, fromOrder(o))
		}
		out = append(out, r)
	}
	return out
}

func FromCategory(c *category.Category) *Category {
	if c == nil {
		return nil
	}
	return &Category{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func FromCategories(cs []category.Category) []Category {
	out := make([]Category, 0, len(cs))
	for i := range cs {
		out = append(out, *FromCategory(&cs[i]))
	}
	return out
}

func FromProduct(p *product.Product) *Product {
	if p == nil {
		return nil
	}
	return &Product{
		ID:         p.ID,
		Name:       p.Name,
		SKU:        p.SKU,
		Stock:      p.Stock,
		Price:      p.Price,
		Image:      p.Image,
		CategoryID: p.CategoryID,
		Category:   FromCategory(p.Category),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func FromProducts(ps []product.Product) []Product {
	out := make([]Product, 0, len(ps))
	for i := range ps {
		out = append(out, *FromProduct(&ps[i]))
	}
	return out
}

func FromPayment(p *payment.Payment) *Payment {
	if p == nil {
		return nil
	}
	return &Payment{ID: p.ID, Name: p.Name, Type: p.Type, Logo: p.Logo, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

func FromPayments(ps []payment.Payment) []Payment {
	out := make([]Payment, 0, len(ps))
	for i := range ps {
		out = append(out, *FromPayment(&ps[i]))
	}
	return out
}

func fromOrder(o order.Order) Order {
	return Order{
		ID:          o.ID,
		TotalPrice:  o.TotalPrice,
		TotalPaid:   o.TotalPaid,
		TotalReturn: o.TotalReturn,
		ReceiptCode: o.ReceiptCode,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func FromOrder(d *order.Detail) *Order {
	if d == nil {
		return nil
	}
	o := fromOrder(d.Order)
	o.User = FromUser(d.User)
	o.Payment = FromPayment(d.Payment)
	o.Products = make([]OrderLine, 0, len(d.Items))
	for _, it := range d.Items {
		o.Products = append(o.Products, OrderLine{
			ID:        it.ID,
			OrderID:   it.OrderID,
			Product:   FromProduct(it.Product),
			Qty:       it.Qty,
			Price:     it.TotalPrice,
			CreatedAt: it.CreatedAt,
			UpdatedAt: it.UpdatedAt,
		})
	}
	return &o
}

func FromOrders(ds []order.Detail) []Order {
	out := make([]Order, 0, len(ds))
	for i := range ds {
		out = append(out, *FromOrder(&ds[i]))
	}
	return out
}
