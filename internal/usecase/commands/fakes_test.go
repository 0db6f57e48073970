//go:build unit

package commands_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"stockflow/internal/domain/loan"
	"stockflow/internal/domain/product"
	"stockflow/internal/domain/stock"
	"stockflow/internal/domain/user"
	"stockflow/internal/infra"
	"stockflow/internal/infra/db"
	"stockflow/internal/pkg/errs"
	"stockflow/internal/usecase/shared"

	"github.com/google/uuid"
)

// memStore is the in-memory backing for the fake repositories. A Within
// call snapshots it up front and restores it when the callback errors, so
// transactional rollback behaves the same as against postgres.
type memStore struct {
	seq      map[string]int64
	products map[int64]*product.Product
	nextID   int64

	orders      map[int64]*loan.Order
	orderItems  map[int64][]loan.Item
	nextOrderID int64

	stocks     map[[2]int64]int64
	moves      []moveRec
	warehouses map[string]int64
	nextWHID   int64

	settings map[string]string
	users    map[string]shared.UserSnapshot

	// failure injection
	failCreateItems    error
	failUpdateLoanSt   error
	failLoanRefsCheck  error
	failMoveRefsCheck  error
	failCreateProduct  error

	// hideSettingReads makes the read side miss the listed keys, as if a
	// concurrent writer committed after this caller's pre-check.
	hideSettingReads map[string]bool
}

type moveRec struct {
	productID   int64
	warehouseID int64
	direction   stock.Direction
	qty         int64
}

func newMemStore() *memStore {
	return &memStore{
		seq:        map[string]int64{},
		products:   map[int64]*product.Product{},
		orders:     map[int64]*loan.Order{},
		orderItems: map[int64][]loan.Item{},
		stocks:     map[[2]int64]int64{},
		warehouses: map[string]int64{},
		settings:   map[string]string{},
		users:      map[string]shared.UserSnapshot{},
	}
}

func cloneProduct(p *product.Product) *product.Product {
	return product.ReconstructProduct(
		p.ID(), p.SKU(), p.Name(), p.Category(), p.Detail(),
		p.SpecWeight(), p.Unit(), p.CostPrice(), p.SalePrice(), p.TaxIncluded(),
		p.Remark(), p.Status(), p.Borrower(), p.QRPayload(),
		p.LoginDate(), p.CreatedAt(), p.UpdatedAt(),
	)
}

func cloneOrder(o *loan.Order) *loan.Order {
	c := loan.ReconstructOrder(
		o.ID(), o.LoanNo(), o.Counterpart(), o.Discount(),
		o.Status(), o.CreatedAt(), o.ClosedAt(),
	)
	items := make([]loan.Item, len(o.Items()))
	copy(items, o.Items())
	c.AttachItems(items)
	return c
}

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.seq {
		c.seq[k] = v
	}
	for k, v := range s.products {
		c.products[k] = cloneProduct(v)
	}
	c.nextID = s.nextID
	for k, v := range s.orders {
		c.orders[k] = cloneOrder(v)
	}
	for k, v := range s.orderItems {
		items := make([]loan.Item, len(v))
		copy(items, v)
		c.orderItems[k] = items
	}
	c.nextOrderID = s.nextOrderID
	for k, v := range s.stocks {
		c.stocks[k] = v
	}
	c.moves = append([]moveRec(nil), s.moves...)
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	c.nextWHID = s.nextWHID
	for k, v := range s.settings {
		c.settings[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

func (s *memStore) restore(snap *memStore) {
	s.seq = snap.seq
	s.products = snap.products
	s.nextID = snap.nextID
	s.orders = snap.orders
	s.orderItems = snap.orderItems
	s.nextOrderID = snap.nextOrderID
	s.stocks = snap.stocks
	s.moves = snap.moves
	s.warehouses = snap.warehouses
	s.nextWHID = snap.nextWHID
	s.settings = snap.settings
	s.users = snap.users
}

func (s *memStore) seedProduct(p *product.Product) *product.Product {
	s.nextID++
	stored := product.ReconstructProduct(
		s.nextID, p.SKU(), p.Name(), p.Category(), p.Detail(),
		p.SpecWeight(), p.Unit(), p.CostPrice(), p.SalePrice(), p.TaxIncluded(),
		p.Remark(), p.Status(), p.Borrower(), p.QRPayload(),
		p.LoginDate(), p.CreatedAt(), p.UpdatedAt(),
	)
	s.products[s.nextID] = stored
	return stored
}

func (s *memStore) productBySKU(sku string) *product.Product {
	for _, p := range s.products {
		if p.SKU() == sku {
			return p
		}
	}
	return nil
}

// nopDB satisfies db.DBTX for fakes that never touch SQL.
type nopDB struct{}

func (nopDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (nopDB) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (nopDB) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }

type fakeUoW struct {
	store *memStore
}

func newFakeUoW(store *memStore) *fakeUoW {
	return &fakeUoW{store: store}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	snap := u.store.snapshot()
	if err := fn(ctx, &fakeTx{store: u.store}); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nopDB{})
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nopDB{})
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

type fakeTx struct {
	store *memStore
}

func (t *fakeTx) Sequences() shared.SequenceRepository   { return &fakeSequenceRepo{store: t.store} }
func (t *fakeTx) Products() shared.ProductRepository     { return &fakeProductRepo{store: t.store} }
func (t *fakeTx) Loans() shared.LoanRepository           { return &fakeLoanRepo{store: t.store} }
func (t *fakeTx) Stocks() shared.StockRepository         { return &fakeStockRepo{store: t.store} }
func (t *fakeTx) Warehouses() shared.WarehouseRepository { return &fakeWarehouseRepo{store: t.store} }
func (t *fakeTx) Users() shared.UserRepository           { return &fakeUserRepo{store: t.store} }
func (t *fakeTx) Settings() shared.SettingsRepository    { return &fakeSettingsRepo{store: t.store} }
func (t *fakeTx) Reads() shared.CommandReads             { return &fakeReads{store: t.store} }
func (t *fakeTx) DB() db.DBTX                            { return nopDB{} }

type fakeSequenceRepo struct {
	store *memStore
}

func (r *fakeSequenceRepo) Next(_ context.Context, _ db.DBTX, scope string) (int64, error) {
	if scope == "" {
		return 0, shared.ErrEmptyScope
	}
	next, ok := r.store.seq[scope]
	if !ok {
		r.store.seq[scope] = 2
		return 1, nil
	}
	r.store.seq[scope] = next + 1
	return next, nil
}

type fakeProductRepo struct {
	store *memStore
}

func (r *fakeProductRepo) Create(_ context.Context, _ db.DBTX, p *product.Product) (int64, error) {
	if r.store.failCreateProduct != nil {
		return 0, r.store.failCreateProduct
	}
	if r.store.productBySKU(p.SKU()) != nil {
		return 0, infra.NewRepoErr(infra.KindDuplicateKey, "duplicate sku", nil)
	}
	return r.store.seedProduct(p).ID(), nil
}

func (r *fakeProductRepo) Update(_ context.Context, _ db.DBTX, p *product.Product) error {
	if _, ok := r.store.products[p.ID()]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "product not found", nil)
	}
	r.store.products[p.ID()] = cloneProduct(p)
	return nil
}

func (r *fakeProductRepo) SKUExists(_ context.Context, _ db.DBTX, sku string) (bool, error) {
	return r.store.productBySKU(sku) != nil, nil
}

func (r *fakeProductRepo) FindBySKUsForUpdate(_ context.Context, _ db.DBTX, skus []string) ([]*product.Product, error) {
	var result []*product.Product
	for _, sku := range skus {
		if p := r.store.productBySKU(sku); p != nil {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakeProductRepo) FindByIDForUpdate(_ context.Context, _ db.DBTX, id int64) (*product.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "product not found", nil)
	}
	return p, nil
}

func (r *fakeProductRepo) UpdateLoanState(_ context.Context, _ db.DBTX, id int64, status product.Status, borrower string) error {
	if r.store.failUpdateLoanSt != nil {
		return r.store.failUpdateLoanSt
	}
	p, ok := r.store.products[id]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "product not found", nil)
	}
	r.store.products[id] = product.ReconstructProduct(
		p.ID(), p.SKU(), p.Name(), p.Category(), p.Detail(),
		p.SpecWeight(), p.Unit(), p.CostPrice(), p.SalePrice(), p.TaxIncluded(),
		p.Remark(), status, borrower, p.QRPayload(),
		p.LoginDate(), p.CreatedAt(), p.UpdatedAt(),
	)
	return nil
}

func (r *fakeProductRepo) IncrementLabelPrinted(_ context.Context, _ db.DBTX, sku string) error {
	if r.store.productBySKU(sku) == nil {
		return infra.NewRepoErr(infra.KindNotFound, "product not found", nil)
	}
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, _ db.DBTX, id int64) error {
	if _, ok := r.store.products[id]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "product not found", nil)
	}
	delete(r.store.products, id)
	return nil
}

func (r *fakeProductRepo) HasLoanReferences(_ context.Context, _ db.DBTX, id int64) (bool, error) {
	if r.store.failLoanRefsCheck != nil {
		return false, r.store.failLoanRefsCheck
	}
	for _, items := range r.store.orderItems {
		for _, item := range items {
			if item.ProductID() == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakeProductRepo) HasStockMoveReferences(_ context.Context, _ db.DBTX, id int64) (bool, error) {
	if r.store.failMoveRefsCheck != nil {
		return false, r.store.failMoveRefsCheck
	}
	for _, m := range r.store.moves {
		if m.productID == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeLoanRepo struct {
	store *memStore
}

func (r *fakeLoanRepo) CreateOrder(_ context.Context, _ db.DBTX, o *loan.Order) (int64, error) {
	r.store.nextOrderID++
	id := r.store.nextOrderID
	stored := loan.ReconstructOrder(
		id, o.LoanNo(), o.Counterpart(), o.Discount(),
		o.Status(), o.CreatedAt(), o.ClosedAt(),
	)
	r.store.orders[id] = stored
	return id, nil
}

func (r *fakeLoanRepo) CreateItems(_ context.Context, _ db.DBTX, orderID int64, items []loan.Item) error {
	if r.store.failCreateItems != nil {
		return r.store.failCreateItems
	}
	stored := make([]loan.Item, 0, len(items))
	for i, item := range items {
		stored = append(stored, loan.ReconstructItem(
			int64(i+1), item.ProductID(), item.SKU(),
			item.Price(), item.FinalPrice(), item.Returned(), item.ReturnedAt(),
		))
	}
	r.store.orderItems[orderID] = stored
	return nil
}

func (r *fakeLoanRepo) FindOrderForUpdate(_ context.Context, _ db.DBTX, id int64) (*loan.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "loan order not found", nil)
	}
	items := make([]loan.Item, len(r.store.orderItems[id]))
	copy(items, r.store.orderItems[id])
	o.AttachItems(items)
	return o, nil
}

func (r *fakeLoanRepo) SaveItemReturn(_ context.Context, _ db.DBTX, orderID int64, sku string, returnedAt time.Time) error {
	items := r.store.orderItems[orderID]
	for i, item := range items {
		if item.SKU() == sku && !item.Returned() {
			at := returnedAt
			items[i] = loan.ReconstructItem(
				item.ID(), item.ProductID(), item.SKU(),
				item.Price(), item.FinalPrice(), true, &at,
			)
			return nil
		}
	}
	return infra.NewRepoErr(infra.KindConflict, "loan item already returned or missing", nil)
}

func (r *fakeLoanRepo) CloseOrder(_ context.Context, _ db.DBTX, id int64, closedAt time.Time) error {
	o, ok := r.store.orders[id]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "loan order not found", nil)
	}
	at := closedAt
	closed := loan.ReconstructOrder(
		o.ID(), o.LoanNo(), o.Counterpart(), o.Discount(),
		loan.StatusClosed, o.CreatedAt(), &at,
	)
	closed.AttachItems(o.Items())
	r.store.orders[id] = closed
	return nil
}

type fakeStockRepo struct {
	store *memStore
}

func (r *fakeStockRepo) AddOnHand(_ context.Context, _ db.DBTX, productID, warehouseID, qty int64) error {
	r.store.stocks[[2]int64{productID, warehouseID}] += qty
	return nil
}

func (r *fakeStockRepo) DeductOnHand(_ context.Context, _ db.DBTX, productID, warehouseID, qty int64) (bool, error) {
	key := [2]int64{productID, warehouseID}
	if r.store.stocks[key] < qty {
		return false, nil
	}
	r.store.stocks[key] -= qty
	return true, nil
}

func (r *fakeStockRepo) RecordMove(_ context.Context, _ db.DBTX, productID, warehouseID int64, direction stock.Direction, qty int64, _ time.Time) error {
	r.store.moves = append(r.store.moves, moveRec{
		productID:   productID,
		warehouseID: warehouseID,
		direction:   direction,
		qty:         qty,
	})
	return nil
}

type fakeWarehouseRepo struct {
	store *memStore
}

func (r *fakeWarehouseRepo) Create(_ context.Context, _ db.DBTX, code, _ string) (int64, error) {
	if _, ok := r.store.warehouses[code]; ok {
		return 0, infra.NewRepoErr(infra.KindDuplicateKey, "duplicate warehouse code", nil)
	}
	r.store.nextWHID++
	r.store.warehouses[code] = r.store.nextWHID
	return r.store.nextWHID, nil
}

type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) Create(_ context.Context, _ db.DBTX, u *user.User) (uuid.UUID, error) {
	if _, exists := r.store.users[u.Email().Value()]; exists {
		return uuid.Nil, infra.NewRepoErr(infra.KindDuplicateKey, "email already exists", nil)
	}
	r.store.users[u.Email().Value()] = shared.UserSnapshot{
		ID:           u.ID(),
		Email:        u.Email().Value(),
		PasswordHash: u.PasswordHash(),
		Role:         string(u.Role()),
		IsActive:     u.IsActive(),
	}
	return u.ID(), nil
}

func (r *fakeUserRepo) UpdateLastLogin(context.Context, db.DBTX, uuid.UUID, time.Time) error {
	return nil
}

type fakeSettingsRepo struct {
	store *memStore
}

func (r *fakeSettingsRepo) Set(_ context.Context, _ db.DBTX, key, value string) error {
	r.store.settings[key] = value
	return nil
}

func (r *fakeSettingsRepo) SetIfAbsent(_ context.Context, _ db.DBTX, key, value string) (bool, error) {
	if _, exists := r.store.settings[key]; exists {
		return false, nil
	}
	r.store.settings[key] = value
	return true, nil
}

type fakeReads struct {
	store *memStore
}

func (r *fakeReads) ProductsBySKUs(_ context.Context, skus []string) ([]shared.ProductSnapshot, error) {
	var result []shared.ProductSnapshot
	for _, sku := range skus {
		if p := r.store.productBySKU(sku); p != nil {
			result = append(result, toSnapshot(p))
		}
	}
	return result, nil
}

func (r *fakeReads) ProductByID(_ context.Context, id int64) (*shared.ProductSnapshot, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "product not found", nil)
	}
	snap := toSnapshot(p)
	return &snap, nil
}

func (r *fakeReads) ProductBySKU(_ context.Context, sku string) (*shared.ProductSnapshot, error) {
	p := r.store.productBySKU(sku)
	if p == nil {
		return nil, infra.NewRepoErr(infra.KindNotFound, "product not found", nil)
	}
	snap := toSnapshot(p)
	return &snap, nil
}

func (r *fakeReads) Setting(_ context.Context, key string) (string, error) {
	value, ok := r.store.settings[key]
	if !ok || r.store.hideSettingReads[key] {
		return "", infra.NewRepoErr(infra.KindNotFound, "setting not found", nil)
	}
	return value, nil
}

func (r *fakeReads) UserByEmail(_ context.Context, email string) (*shared.UserSnapshot, error) {
	u, ok := r.store.users[email]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "user not found", nil)
	}
	return &u, nil
}

func toSnapshot(p *product.Product) shared.ProductSnapshot {
	return shared.ProductSnapshot{
		ID:        p.ID(),
		SKU:       p.SKU(),
		Name:      p.Name(),
		SalePrice: p.SalePrice(),
		Status:    p.Status().String(),
		Borrower:  p.Borrower(),
		QRPayload: p.QRPayload(),
	}
}

var errInjected = errs.New("injected failure")
