package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockflow/internal/infra/db"
	"stockflow/internal/infra/readstore"
	"stockflow/internal/infra/repository"
	"stockflow/internal/pkg/errs"
	"stockflow/internal/usecase/shared"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return u.runReadOnlyTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func (u *PostgresUoW) runReadOnlyTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	defer func() {
		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback read-only transaction", "error", rollbackErr.Error())
			}
		}
	}()

	if err := fn(ctx, pgxTx); err != nil {
		return err
	}

	return pgxTx.Commit(ctx)
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	sequenceRepo  shared.SequenceRepository
	productRepo   shared.ProductRepository
	loanRepo      shared.LoanRepository
	stockRepo     shared.StockRepository
	warehouseRepo shared.WarehouseRepository
	userRepo      shared.UserRepository
	settingsRepo  shared.SettingsRepository
	commandReads  shared.CommandReads
}

func (t *pgTx) DB() db.DBTX {
	return t.dbtx
}

func (t *pgTx) Sequences() shared.SequenceRepository {
	if t.sequenceRepo == nil {
		t.sequenceRepo = repository.NewSequenceRepository()
	}
	return t.sequenceRepo
}

func (t *pgTx) Products() shared.ProductRepository {
	if t.productRepo == nil {
		t.productRepo = repository.NewProductRepository()
	}
	return t.productRepo
}

func (t *pgTx) Loans() shared.LoanRepository {
	if t.loanRepo == nil {
		t.loanRepo = repository.NewLoanRepository()
	}
	return t.loanRepo
}

func (t *pgTx) Stocks() shared.StockRepository {
	if t.stockRepo == nil {
		t.stockRepo = repository.NewStockRepository()
	}
	return t.stockRepo
}

func (t *pgTx) Warehouses() shared.WarehouseRepository {
	if t.warehouseRepo == nil {
		t.warehouseRepo = repository.NewWarehouseRepository()
	}
	return t.warehouseRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository()
	}
	return t.userRepo
}

func (t *pgTx) Settings() shared.SettingsRepository {
	if t.settingsRepo == nil {
		t.settingsRepo = repository.NewSettingsRepository()
	}
	return t.settingsRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX

	// Lazy-initialized readstores
	productStore  *readstore.ProductReadStore
	settingsStore *readstore.SettingsReadStore
	userStore     *readstore.UserReadStore
}

func (r *commandReads) products() *readstore.ProductReadStore {
	if r.productStore == nil {
		r.productStore = readstore.NewProductReadStore()
	}
	return r.productStore
}

func (r *commandReads) ProductsBySKUs(ctx context.Context, skus []string) ([]shared.ProductSnapshot, error) {
	rows, err := r.products().FindBySKUs(ctx, r.dbtx, skus)
	if err != nil {
		return nil, err
	}

	snapshots := make([]shared.ProductSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshots = append(snapshots, productSnapshot(row))
	}
	return snapshots, nil
}

func (r *commandReads) ProductByID(ctx context.Context, id int64) (*shared.ProductSnapshot, error) {
	row, err := r.products().FindByID(ctx, r.dbtx, id)
	if err != nil {
		return nil, err
	}
	snap := productSnapshot(*row)
	return &snap, nil
}

func (r *commandReads) ProductBySKU(ctx context.Context, sku string) (*shared.ProductSnapshot, error) {
	row, err := r.products().FindBySKU(ctx, r.dbtx, sku)
	if err != nil {
		return nil, err
	}
	snap := productSnapshot(*row)
	return &snap, nil
}

func (r *commandReads) Setting(ctx context.Context, key string) (string, error) {
	if r.settingsStore == nil {
		r.settingsStore = readstore.NewSettingsReadStore()
	}
	return r.settingsStore.Get(ctx, r.dbtx, key)
}

func (r *commandReads) UserByEmail(ctx context.Context, email string) (*shared.UserSnapshot, error) {
	if r.userStore == nil {
		r.userStore = readstore.NewUserReadStore()
	}
	row, err := r.userStore.FindByEmail(ctx, r.dbtx, email)
	if err != nil {
		return nil, err
	}
	return &shared.UserSnapshot{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         row.Role,
		IsActive:     row.IsActive,
	}, nil
}

func productSnapshot(row readstore.ProductRow) shared.ProductSnapshot {
	return shared.ProductSnapshot{
		ID:        row.ID,
		SKU:       row.SKU,
		Name:      row.Name,
		SalePrice: row.SalePrice,
		Status:    row.Status,
		Borrower:  row.Borrower,
		QRPayload: row.QRPayload,
	}
}
