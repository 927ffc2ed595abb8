package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/kasir-pos/internal/db"
	"github.com/MikeMC777/kasir-pos/internal/payment"
	"github.com/MikeMC777/kasir-pos/internal/product"
	"github.com/MikeMC777/kasir-pos/internal/receipt"
	"github.com/MikeMC777/kasir-pos/internal/user"
	"github.com/MikeMC777/kasir-pos/internal/validate"
)

// StockDecrementPerLine is how much stock one basket line consumes. It is 1
// whatever the requested quantity; existing tills and reports rely on it.
const StockDecrementPerLine = 1

const maxReceiptAttempts = 5

var (
	ErrReceiptExhausted = errors.New("could not issue an unused receipt code")
	ErrAmountOverflow   = errors.New("order amount out of range")
)

var (
	minAmount = decimal.NewFromInt(math.MinInt64)
	maxAmount = decimal.NewFromInt(math.MaxInt64)
)

// Repos bundles the repositories the order workflow touches. Inside a
// transaction every member is bound to the same pgx.Tx.
type Repos struct {
	Orders   Repository
	Products product.Repository
	Payments payment.Repository
	Users    user.Repository
}

// BindRepos builds Repos on q; used for both the pool and transactions.
func BindRepos(q db.DBTX) Repos {
	return Repos{
		Orders:   NewPGRepo(q),
		Products: product.NewPGRepo(q),
		Payments: payment.NewPGRepo(q),
		Users:    user.NewPGRepo(q),
	}
}

type Service struct {
	repos   Repos
	tx      db.Runner[Repos]
	newCode func() string
}

func NewService(repos Repos, tx db.Runner[Repos]) *Service {
	return &Service{repos: repos, tx: tx, newCode: receipt.New}
}

func toAmount(d decimal.Decimal) (int64, error) {
	if d.LessThan(minAmount) || d.GreaterThan(maxAmount) {
		return 0, ErrAmountOverflow
	}
	return d.IntPart(), nil
}

// Place turns a basket into an order for userID. In one transaction it
// decrements each product's stock, prices every line at qty x unit price,
// stores the order with a fresh receipt code and its lines. Nothing is kept
// when any step fails.
func (s *Service) Place(ctx context.Context, userID int64, in PlaceOrderRequest) (*Detail, error) {
	if err := validate.Struct(in).Err(); err != nil {
		return nil, err
	}

	var out *Detail
	err := s.tx.InTx(ctx, func(r Repos) error {
		pay, err := r.Payments.GetByID(ctx, *in.PaymentID)
		if err != nil {
			return err
		}

		lines := make([]ItemDetail, 0, len(in.Products))
		total := decimal.Zero
		for i, entry := range in.Products {
			p, err := r.Products.GetByID(ctx, *entry.ProductID)
			if err != nil {
				return fmt.Errorf("products.%d: %w", i, err)
			}
			stock, err := r.Products.AdjustStock(ctx, p.ID, -StockDecrementPerLine)
			if err != nil {
				return fmt.Errorf("products.%d: %w", i, err)
			}
			p.Stock = stock

			lineTotal := decimal.NewFromInt(*entry.Qty).Mul(decimal.NewFromInt(p.Price))
			amount, err := toAmount(lineTotal)
			if err != nil {
				return fmt.Errorf("products.%d: %w", i, err)
			}
			total = total.Add(lineTotal)
			lines = append(lines, ItemDetail{
				Item:    Item{ProductID: p.ID, Qty: *entry.Qty, TotalPrice: amount},
				Product: p,
			})
		}

		totalPrice, err := toAmount(total)
		if err != nil {
			return err
		}
		totalReturn, err := toAmount(total.Sub(decimal.NewFromInt(*in.TotalPaid)))
		if err != nil {
			return err
		}
		code, err := s.receiptCode(ctx, r.Orders)
		if err != nil {
			return err
		}

		o := Order{
			UserID:      userID,
			PaymentID:   pay.ID,
			TotalPrice:  totalPrice,
			TotalPaid:   *in.TotalPaid,
			TotalReturn: totalReturn,
			ReceiptCode: code,
		}
		if err := r.Orders.Create(ctx, &o); err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = o.ID
			if err := r.Orders.CreateItem(ctx, &lines[i].Item); err != nil {
				return err
			}
		}

		u, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		out = &Detail{Order: o, User: u, Payment: pay, Items: lines}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[order] placed id=%d receipt=%s lines=%d total=%d paid=%d",
		out.ID, out.ReceiptCode, len(out.Items), out.TotalPrice, out.TotalPaid)
	return out, nil
}

// receiptCode draws codes until one is not used by an existing order.
func (s *Service) receiptCode(ctx context.Context, orders Repository) (string, error) {
	for i := 0; i < maxReceiptAttempts; i++ {
		code := s.newCode()
		exists, err := orders.ReceiptCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		log.Printf("[order] receipt code %s already used, retrying", code)
	}
	return "", ErrReceiptExhausted
}

func (s *Service) List(ctx context.Context, page int) ([]Detail, int, error) {
	orders, total, err := s.repos.Orders.List(ctx, db.PageSize, db.Offset(page))
	if err != nil {
		return nil, 0, err
	}
	out, err := s.load(ctx, orders)
	return out, total, err
}

func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	o, err := s.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := s.load(ctx, []Order{*o})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// ForUsers returns the orders of each user id, without nested relations.
func (s *Service) ForUsers(ctx context.Context, userIDs []int64) (map[int64][]Order, error) {
	orders, err := s.repos.Orders.ListByUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[int64][]Order, len(userIDs))
	for _, o := range orders {
		out[o.UserID] = append(out[o.UserID], o)
	}
	return out, nil
}

// load attaches users, payments and lines (with products) to orders using one
// query per relation.
func (s *Service) load(ctx context.Context, orders []Order) ([]Detail, error) {
	if len(orders) == 0 {
		return []Detail{}, nil
	}
	var userIDs, paymentIDs, orderIDs []int64
	for _, o := range orders {
		userIDs = append(userIDs, o.UserID)
		paymentIDs = append(paymentIDs, o.PaymentID)
		orderIDs = append(orderIDs, o.ID)
	}

	users, err := s.repos.Users.GetMany(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	payments, err := s.repos.Payments.GetMany(ctx, paymentIDs)
	if err != nil {
		return nil, err
	}
	items, err := s.repos.Orders.Items(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	var productIDs []int64
	for _, it := range items {
		productIDs = append(productIDs, it.ProductID)
	}
	products, err := s.repos.Products.GetMany(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	userByID := make(map[int64]*user.User, len(users))
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}
	paymentByID := make(map[int64]*payment.Payment, len(payments))
	for i := range payments {
		paymentByID[payments[i].ID] = &payments[i]
	}
	productByID := make(map[int64]*product.Product, len(products))
	for i := range products {
		productByID[products[i].ID] = &products[i]
	}
	itemsByOrder := make(map[int64][]ItemDetail, len(orders))
	for _, it := range items {
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], ItemDetail{Item: it, Product: productByID[it.ProductID]})
	}

	out := make([]Detail, 0, len(orders))
	for _, o := range orders {
		out = append(out, Detail{
			Order:   o,
			User:    userByID[o.UserID],
			Payment: paymentByID[o.PaymentID],
			Items:   itemsByOrder[o.ID],
		})
	}
	return out, nil
}
