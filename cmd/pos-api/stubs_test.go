package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/kasir-pos/internal/asset"
	"github.com/MikeMC777/kasir-pos/internal/auth"
	"github.com/MikeMC777/kasir-pos/internal/category"
	"github.com/MikeMC777/kasir-pos/internal/httpx"
	"github.com/MikeMC777/kasir-pos/internal/order"
	"github.com/MikeMC777/kasir-pos/internal/payment"
	"github.com/MikeMC777/kasir-pos/internal/product"
	"github.com/MikeMC777/kasir-pos/internal/user"
	"github.com/MikeMC777/kasir-pos/internal/validate"
)

//
// ===== IN-MEMORY STORE shared by every stub repository =====
//
// Deletes refuse rows that are still referenced, like the RESTRICT keys in
// the schema.

type store struct {
	users      map[int64]user.User
	categories map[int64]category.Category
	products   map[int64]product.Product
	payments   map[int64]payment.Payment
	orders     map[int64]order.Order
	items      map[int64]order.Item
	tokens     map[string]auth.Token
	nextID     int64
}

func newStore() *store {
	return &store{
		users:      map[int64]user.User{},
		categories: map[int64]category.Category{},
		products:   map[int64]product.Product{},
		payments:   map[int64]payment.Payment{},
		orders:     map[int64]order.Order{},
		items:      map[int64]order.Item{},
		tokens:     map[string]auth.Token{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

// paginate returns ids[offset:offset+limit] in ascending order.
func paginate(ids []int64, limit, offset int) []int64 {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if offset >= len(ids) {
		return nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end]
}

// passTx runs fn directly on the repository; these tests do not exercise
// rollback (the service packages do).
type passTx[R any] struct{ r R }

func (p passTx[R]) InTx(ctx context.Context, fn func(R) error) error { return fn(p.r) }

// users

type userStub struct{ s *store }

func (r userStub) Create(ctx context.Context, u *user.User) error {
	u.ID = r.s.id()
	u.CreatedAt = time.Now()
	r.s.users[u.ID] = *u
	return nil
}

func (r userStub) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

func (r userStub) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r userStub) GetMany(ctx context.Context, ids []int64) ([]user.User, error) {
	var out []user.User
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r userStub) List(ctx context.Context, limit, offset int) ([]user.User, int, error) {
	var ids []int64
	for id := range r.s.users {
		ids = append(ids, id)
	}
	var out []user.User
	for _, id := range paginate(ids, limit, offset) {
		out = append(out, r.s.users[id])
	}
	return out, len(ids), nil
}

func (r userStub) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	for _, u := range r.s.users {
		if u.Email == email && u.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r userStub) Update(ctx context.Context, u *user.User) error {
	r.s.users[u.ID] = *u
	return nil
}

func (r userStub) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := r.s.users[id]; !ok {
		return false, nil
	}
	for _, o := range r.s.orders {
		if o.UserID == id {
			return false, validate.InUseError("user")
		}
	}
	delete(r.s.users, id)
	return true, nil
}

// categories

type categoryStub struct{ s *store }

func (r categoryStub) Create(ctx context.Context, c *category.Category) error {
	c.ID = r.s.id()
	r.s.categories[c.ID] = *c
	return nil
}

func (r categoryStub) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	c, ok := r.s.categories[id]
	if !ok {
		return nil, category.ErrNotFound
	}
	return &c, nil
}

func (r categoryStub) GetMany(ctx context.Context, ids []int64) ([]category.Category, error) {
	var out []category.Category
	for _, id := range ids {
		if c, ok := r.s.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r categoryStub) List(ctx context.Context, limit, offset int) ([]category.Category, int, error) {
	var ids []int64
	for id := range r.s.categories {
		ids = append(ids, id)
	}
	var out []category.Category
	for _, id := range paginate(ids, limit, offset) {
		out = append(out, r.s.categories[id])
	}
	return out, len(ids), nil
}

func (r categoryStub) NameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	for _, c := range r.s.categories {
		if c.Name == name && c.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (r categoryStub) Update(ctx context.Context, c *category.Category) error {
	r.s.categories[c.ID] = *c
	return nil
}

func (r categoryStub) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := r.s.categories[id]; !ok {
		return false, nil
	}
	for _, p := range r.s.products {
		if p.CategoryID == id {
			return false, validate.InUseError("category")
		}
	}
	delete(r.s.categories, id)
	return true, nil
}

// products

type productStub struct{ s *store }

func (r productStub) withCategory(p product.Product) product.Product {
	if c, ok := r.s.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return p
}

func (r productStub) Create(ctx context.Context, p *product.Product) error {
	p.ID = r.s.id()
	r.s.products[p.ID] = *p
	return nil
}

func (r productStub) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	p = r.withCategory(p)
	return &p, nil
}

func (r productStub) GetMany(ctx context.Context, ids []int64) ([]product.Product, error) {
	var out []product.Product
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, r.withCategory(p))
		}
	}
	return out, nil
}

func (r productStub) List(ctx context.Context, q product.Query) ([]product.Product, int, error) {
	var ids []int64
	for id, p := range r.s.products {
		if q.CategoryID != nil && p.CategoryID != *q.CategoryID {
			continue
		}
		if q.Name != nil && p.Name != *q.Name {
			continue
		}
		ids = append(ids, id)
	}
	var out []product.Product
	for _, id := range paginate(ids, q.Limit, q.Offset) {
		out = append(out, r.withCategory(r.s.products[id]))
	}
	return out, len(ids), nil
}

func (r productStub) Taken(ctx context.Context, column, value string, exceptID int64) (bool, error) {
	for _, p := range r.s.products {
		if p.ID == exceptID {
			continue
		}
		if (column == "name" && p.Name == value) || (column == "sku" && p.SKU == value) {
			return true, nil
		}
	}
	return false, nil
}

func (r productStub) CategoryExists(ctx context.Context, id int64) (bool, error) {
	_, ok := r.s.categories[id]
	return ok, nil
}

func (r productStub) Update(ctx context.Context, p *product.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r productStub) AdjustStock(ctx context.Context, id, delta int64) (int64, error) {
	p, ok := r.s.products[id]
	if !ok {
		return 0, product.ErrNotFound
	}
	p.Stock += delta
	r.s.products[id] = p
	return p.Stock, nil
}

func (r productStub) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := r.s.products[id]; !ok {
		return false, nil
	}
	for _, it := range r.s.items {
		if it.ProductID == id {
			return false, validate.InUseError("product")
		}
	}
	delete(r.s.products, id)
	return true, nil
}

// payments

type paymentStub struct{ s *store }

func (r paymentStub) Create(ctx context.Context, p *payment.Payment) error {
	p.ID = r.s.id()
	r.s.payments[p.ID] = *p
	return nil
}

func (r paymentStub) GetByID(ctx context.Context, id int64) (*payment.Payment, error) {
	p, ok := r.s.payments[id]
	if !ok {
		return nil, payment.ErrNotFound
	}
	return &p, nil
}

func (r paymentStub) GetMany(ctx context.Context, ids []int64) ([]payment.Payment, error) {
	var out []payment.Payment
	for _, id := range ids {
		if p, ok := r.s.payments[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r paymentStub) List(ctx context.Context, limit, offset int) ([]payment.Payment, int, error) {
	var ids []int64
	for id := range r.s.payments {
		ids = append(ids, id)
	}
	var out []payment.Payment
	for _, id := range paginate(ids, limit, offset) {
		out = append(out, r.s.payments[id])
	}
	return out, len(ids), nil
}

func (r paymentStub) Update(ctx context.Context, p *payment.Payment) error {
	r.s.payments[p.ID] = *p
	return nil
}

func (r paymentStub) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := r.s.payments[id]; !ok {
		return false, nil
	}
	for _, o := range r.s.orders {
		if o.PaymentID == id {
			return false, validate.InUseError("payment")
		}
	}
	delete(r.s.payments, id)
	return true, nil
}

// orders

type orderStub struct{ s *store }

func (r orderStub) Create(ctx context.Context, o *order.Order) error {
	o.ID = r.s.id()
	r.s.orders[o.ID] = *o
	return nil
}

func (r orderStub) CreateItem(ctx context.Context, it *order.Item) error {
	it.ID = r.s.id()
	r.s.items[it.ID] = *it
	return nil
}

func (r orderStub) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return &o, nil
}

func (r orderStub) List(ctx context.Context, limit, offset int) ([]order.Order, int, error) {
	var ids []int64
	for id := range r.s.orders {
		ids = append(ids, id)
	}
	var out []order.Order
	for _, id := range paginate(ids, limit, offset) {
		out = append(out, r.s.orders[id])
	}
	return out, len(ids), nil
}

func (r orderStub) ListByUsers(ctx context.Context, userIDs []int64) ([]order.Order, error) {
	var out []order.Order
	for _, o := range r.s.orders {
		for _, id := range userIDs {
			if o.UserID == id {
				out = append(out, o)
			}
		}
	}
	return out, nil
}

func (r orderStub) Items(ctx context.Context, orderIDs []int64) ([]order.Item, error) {
	var out []order.Item
	for _, it := range r.s.items {
		for _, id := range orderIDs {
			if it.OrderID == id {
				out = append(out, it)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r orderStub) ReceiptCodeExists(ctx context.Context, code string) (bool, error) {
	for _, o := range r.s.orders {
		if o.ReceiptCode == code {
			return true, nil
		}
	}
	return false, nil
}

// access tokens

type tokenStub struct{ s *store }

func (r tokenStub) Create(ctx context.Context, t *auth.Token) error {
	r.s.tokens[t.ID] = *t
	return nil
}

func (r tokenStub) Get(ctx context.Context, id string) (*auth.Token, error) {
	t, ok := r.s.tokens[id]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &t, nil
}

func (r tokenStub) Touch(ctx context.Context, id string, at time.Time) error {
	if t, ok := r.s.tokens[id]; ok {
		t.LastUsedAt = &at
		r.s.tokens[id] = t
	}
	return nil
}

func (r tokenStub) Delete(ctx context.Context, id string) error {
	delete(r.s.tokens, id)
	return nil
}

//
// ===== APP + ROUTER wired like main, on the stubs =====
//

type testEnv struct {
	s      *store
	app    *app
	assets *asset.Local
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	assets, err := asset.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("local assets: %v", err)
	}
	s := newStore()
	users := user.NewService(userStub{s}, passTx[user.Repository]{userStub{s}})
	repos := order.Repos{Orders: orderStub{s}, Products: productStub{s}, Payments: paymentStub{s}, Users: userStub{s}}

	a := &app{
		users:      users,
		categories: category.NewService(categoryStub{s}, passTx[category.Repository]{categoryStub{s}}),
		products:   product.NewService(productStub{s}, passTx[product.Repository]{productStub{s}}, assets),
		payments:   payment.NewService(paymentStub{s}, passTx[payment.Repository]{paymentStub{s}}, assets),
		orders:     order.NewService(repos, passTx[order.Repos]{repos}),
		gate:       auth.NewService(tokenStub{s}, users, userStub{s}, "test-secret", time.Hour),
		assets:     assets,
	}
	r := gin.New()
	r.Use(httpx.RequestID())
	a.routes(r, httpx.RateLimiter(nil, "login", 0))
	return &testEnv{s: s, app: a, assets: assets, router: r}
}

func (e *testEnv) addUser(t *testing.T, email, password, role string) *user.User {
	t.Helper()
	u, err := e.app.users.Create(context.Background(), user.CreateUserRequest{
		Email: email, Name: "Test", Password: password, Role: role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// token logs in through the HTTP surface and returns the bearer token.
func (e *testEnv) token(t *testing.T, email, password string) string {
	t.Helper()
	w := e.do(http.MethodPost, "/login", "", jsonBody(map[string]string{"email": email, "password": password}))
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
	var got struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil || got.Data.Token == "" {
		t.Fatalf("login body: %s", w.Body.String())
	}
	return got.Data.Token
}

// adminToken seeds an admin and logs in.
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	e.addUser(t, "admin@kasir.test", "secret123", user.RoleAdmin)
	return e.token(t, "admin@kasir.test", "secret123")
}

type body struct {
	r           io.Reader
	contentType string
}

func jsonBody(v any) body {
	b, _ := json.Marshal(v)
	return body{r: bytes.NewReader(b), contentType: "application/json"}
}

// multipartBody builds a form with fields and, when fileField is set, one file.
func multipartBody(fields map[string]string, fileField, filename string, content []byte) body {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if fileField != "" {
		fw, _ := mw.CreateFormFile(fileField, filename)
		_, _ = fw.Write(content)
	}
	_ = mw.Close()
	return body{r: &buf, contentType: mw.FormDataContentType()}
}

func (e *testEnv) do(method, target, token string, b body) *httptest.ResponseRecorder {
	var r io.Reader
	if b.r != nil {
		r = b.r
	}
	req := httptest.NewRequest(method, target, r)
	if b.contentType != "" {
		req.Header.Set("Content-Type", b.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code   int                 `json:"code"`
	Status string              `json:"status"`
	Data   json.RawMessage     `json:"data"`
	Meta   *httpx.Meta         `json:"meta"`
	Errors map[string][]string `json:"errors"`
	Error  string              `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json: %v body=%s", err, w.Body.String())
	}
	if env.Code != w.Code {
		t.Fatalf("envelope code %d does not mirror status %d", env.Code, w.Code)
	}
	return env
}
