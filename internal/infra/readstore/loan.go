package readstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"stockflow/internal/infra"
	"stockflow/internal/infra/db"
	"stockflow/internal/pkg/pgconv"
)

type LoanOrderRow struct {
	ID          int64
	LoanNo      string
	Company     string
	Receiver    string
	Handler     string
	Discount    float64
	TotalQty    int64
	TotalAmount int64
	Status      string
	CreatedAt   time.Time
	ClosedAt    *time.Time
}

type LoanItemRow struct {
	ID         int64
	ProductID  int64
	SKU        string
	Price      int64
	FinalPrice int64
	Returned   bool
	ReturnedAt *time.Time
}

type LoanReadStore struct{}

func NewLoanReadStore() *LoanReadStore {
	return &LoanReadStore{}
}

const loanOrderColumns = `
id, loan_no, company, receiver, handler, discount,
total_qty, total_amount, status, created_at, closed_at
`

// List returns orders newest first with active orders ahead of closed ones.
const listLoanOrdersQuery = `
SELECT ` + loanOrderColumns + `
FROM loan_orders
ORDER BY (status = 'active') DESC, created_at DESC, id DESC
LIMIT $1 OFFSET $2
`

func (s *LoanReadStore) List(ctx context.Context, dbtx db.DBTX, limit, offset int32) ([]LoanOrderRow, error) {
	rows, err := dbtx.Query(ctx, listLoanOrdersQuery, limit, offset)
	if err != nil {
		return nil, infra.WrapDBErr("failed to list loan orders", err)
	}
	defer rows.Close()

	var result []LoanOrderRow
	for rows.Next() {
		o, err := scanLoanOrderRow(rows)
		if err != nil {
			return nil, infra.WrapDBErr("failed to scan loan order row", err)
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapDBErr("failed to read loan order rows", err)
	}
	return result, nil
}

func (s *LoanReadStore) FindByID(ctx context.Context, dbtx db.DBTX, id int64) (*LoanOrderRow, []LoanItemRow, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+loanOrderColumns+` FROM loan_orders WHERE id = $1`, id)
	order, err := scanLoanOrderRow(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil, infra.NewRepoErr(infra.KindNotFound, "loan order not found", err)
		}
		return nil, nil, infra.WrapDBErr("failed to find loan order", err)
	}

	itemRows, err := dbtx.Query(ctx,
		`SELECT id, product_id, sku, price, final_price, returned, returned_at
		 FROM loan_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, nil, infra.WrapDBErr("failed to fetch loan items", err)
	}
	defer itemRows.Close()

	var items []LoanItemRow
	for itemRows.Next() {
		var (
			it         LoanItemRow
			returnedAt pgtype.Timestamptz
		)
		if err := itemRows.Scan(&it.ID, &it.ProductID, &it.SKU, &it.Price, &it.FinalPrice, &it.Returned, &returnedAt); err != nil {
			return nil, nil, infra.WrapDBErr("failed to scan loan item row", err)
		}
		it.ReturnedAt = pgconv.TimePtrFromPgtype(returnedAt)
		items = append(items, it)
	}
	if err := itemRows.Err(); err != nil {
		return nil, nil, infra.WrapDBErr("failed to read loan item rows", err)
	}

	return order, items, nil
}

func scanLoanOrderRow(row rowScanner) (*LoanOrderRow, error) {
	var (
		o         LoanOrderRow
		createdAt pgtype.Timestamptz
		closedAt  pgtype.Timestamptz
	)
	err := row.Scan(
		&o.ID, &o.LoanNo, &o.Company, &o.Receiver, &o.Handler, &o.Discount,
		&o.TotalQty, &o.TotalAmount, &o.Status, &createdAt, &closedAt,
	)
	if err != nil {
		return nil, err
	}
	o.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	o.ClosedAt = pgconv.TimePtrFromPgtype(closedAt)
	return &o, nil
}
