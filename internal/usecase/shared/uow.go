package shared

import (
	"context"
	"time"

	"github.com/google/uuid"

	"stockflow/internal/domain/loan"
	"stockflow/internal/domain/product"
	"stockflow/internal/domain/stock"
	"stockflow/internal/domain/user"
	"stockflow/internal/infra/db"
	"stockflow/internal/pkg/errs"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Sequences() SequenceRepository
	Products() ProductRepository
	Loans() LoanRepository
	Stocks() StockRepository
	Warehouses() WarehouseRepository
	Users() UserRepository
	Settings() SettingsRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	ProductsBySKUs(ctx context.Context, skus []string) ([]ProductSnapshot, error)
	ProductByID(ctx context.Context, id int64) (*ProductSnapshot, error)
	ProductBySKU(ctx context.Context, sku string) (*ProductSnapshot, error)
	Setting(ctx context.Context, key string) (string, error)
	UserByEmail(ctx context.Context, email string) (*UserSnapshot, error)
}

// Minimal snapshots for command read operations
type ProductSnapshot struct {
	ID        int64
	SKU       string
	Name      string
	SalePrice int64
	Status    string
	Borrower  string
	QRPayload string
}

type UserSnapshot struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}

// ErrEmptyScope guards the sequence allocator contract: scopes name the
// counter partition and must never be blank.
var ErrEmptyScope = errs.New("sequence scope is empty")

// SequenceRepository hands out the next number for a named scope.
// Next must run inside the caller's transaction: the first allocation for a
// scope durably writes next=2 and returns 1, later calls increment by one.
type SequenceRepository interface {
	Next(ctx context.Context, dbtx db.DBTX, scope string) (int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, p *product.Product) (int64, error)
	Update(ctx context.Context, dbtx db.DBTX, p *product.Product) error
	SKUExists(ctx context.Context, dbtx db.DBTX, sku string) (bool, error)
	// FindBySKUsForUpdate row-locks the matched products for the duration
	// of the transaction.
	FindBySKUsForUpdate(ctx context.Context, dbtx db.DBTX, skus []string) ([]*product.Product, error)
	FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id int64) (*product.Product, error)
	UpdateLoanState(ctx context.Context, dbtx db.DBTX, id int64, status product.Status, borrower string) error
	IncrementLabelPrinted(ctx context.Context, dbtx db.DBTX, sku string) error
	Delete(ctx context.Context, dbtx db.DBTX, id int64) error
	HasLoanReferences(ctx context.Context, dbtx db.DBTX, id int64) (bool, error)
	HasStockMoveReferences(ctx context.Context, dbtx db.DBTX, id int64) (bool, error)
}

type LoanRepository interface {
	CreateOrder(ctx context.Context, dbtx db.DBTX, o *loan.Order) (int64, error)
	CreateItems(ctx context.Context, dbtx db.DBTX, orderID int64, items []loan.Item) error
	FindOrderForUpdate(ctx context.Context, dbtx db.DBTX, id int64) (*loan.Order, error)
	SaveItemReturn(ctx context.Context, dbtx db.DBTX, orderID int64, sku string, returnedAt time.Time) error
	CloseOrder(ctx context.Context, dbtx db.DBTX, id int64, closedAt time.Time) error
}

type StockRepository interface {
	AddOnHand(ctx context.Context, dbtx db.DBTX, productID, warehouseID, qty int64) error
	// DeductOnHand decrements only when enough stock is on hand and reports
	// whether the deduction happened.
	DeductOnHand(ctx context.Context, dbtx db.DBTX, productID, warehouseID, qty int64) (bool, error)
	RecordMove(ctx context.Context, dbtx db.DBTX, productID, warehouseID int64, direction stock.Direction, qty int64, movedAt time.Time) error
}

type WarehouseRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, code, name string) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, u *user.User) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, dbtx db.DBTX, id uuid.UUID, at time.Time) error
}

type SettingsRepository interface {
	Set(ctx context.Context, dbtx db.DBTX, key, value string) error
	// SetIfAbsent writes only when the key does not exist yet and reports
	// whether the write happened.
	SetIfAbsent(ctx context.Context, dbtx db.DBTX, key, value string) (bool, error)
}
