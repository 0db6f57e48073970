package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"stockflow/internal/domain/loan"
	"stockflow/internal/infra"
	"stockflow/internal/infra/db"
	"stockflow/internal/pkg/pgconv"
)

type LoanRepository struct{}

func NewLoanRepository() *LoanRepository {
	return &LoanRepository{}
}

const createLoanOrderQuery = `
INSERT INTO loan_orders (
    loan_no, company, receiver, handler, discount,
    total_qty, total_amount, status, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id
`

func (r *LoanRepository) CreateOrder(ctx context.Context, dbtx db.DBTX, o *loan.Order) (int64, error) {
	cp := o.Counterpart()

	var id int64
	err := dbtx.QueryRow(ctx, createLoanOrderQuery,
		o.LoanNo(), cp.Company, cp.Receiver, cp.Handler, o.Discount().Float64(),
		o.TotalQty(), o.TotalAmount(), o.Status().String(), o.CreatedAt(),
	).Scan(&id)
	if err != nil {
		return 0, infra.WrapDBErr("failed to create loan order", err)
	}
	return id, nil
}

const createLoanItemQuery = `
INSERT INTO loan_items (order_id, product_id, sku, price, final_price, returned)
VALUES ($1, $2, $3, $4, $5, false)
`

func (r *LoanRepository) CreateItems(ctx context.Context, dbtx db.DBTX, orderID int64, items []loan.Item) error {
	for i := range items {
		it := &items[i]
		_, err := dbtx.Exec(ctx, createLoanItemQuery,
			orderID, it.ProductID(), it.SKU(), it.Price(), it.FinalPrice())
		if err != nil {
			return infra.WrapDBErr("failed to create loan item", err)
		}
	}
	return nil
}

const findOrderForUpdateQuery = `
SELECT id, loan_no, company, receiver, handler, discount, status, created_at, closed_at
FROM loan_orders
WHERE id = $1
FOR UPDATE
`

const findOrderItemsQuery = `
SELECT id, product_id, sku, price, final_price, returned, returned_at
FROM loan_items
WHERE order_id = $1
ORDER BY id
`

func (r *LoanRepository) FindOrderForUpdate(ctx context.Context, dbtx db.DBTX, id int64) (*loan.Order, error) {
	var (
		orderID            int64
		loanNo             string
		company, receiver  string
		handler            string
		discountVal        float64
		statusStr          string
		createdAt          pgtype.Timestamptz
		closedAt           pgtype.Timestamptz
	)
	err := dbtx.QueryRow(ctx, findOrderForUpdateQuery, id).Scan(
		&orderID, &loanNo, &company, &receiver, &handler,
		&discountVal, &statusStr, &createdAt, &closedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "loan order not found", err)
		}
		return nil, infra.WrapDBErr("failed to lock loan order", err)
	}

	cp, err := loan.NewCounterpart(company, receiver, handler)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "stored loan order has no counterpart", err)
	}
	discount, err := loan.NewDiscount(discountVal)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "stored loan order has invalid discount", err)
	}
	status, err := loan.NewStatus(statusStr)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "stored loan order has invalid status", err)
	}

	order := loan.ReconstructOrder(
		orderID, loanNo, cp, discount, status,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimePtrFromPgtype(closedAt),
	)

	rows, err := dbtx.Query(ctx, findOrderItemsQuery, orderID)
	if err != nil {
		return nil, infra.WrapDBErr("failed to fetch loan items", err)
	}
	defer rows.Close()

	var items []loan.Item
	for rows.Next() {
		var (
			itemID, productID int64
			sku               string
			price, finalPrice int64
			returned          bool
			returnedAt        pgtype.Timestamptz
		)
		if err := rows.Scan(&itemID, &productID, &sku, &price, &finalPrice, &returned, &returnedAt); err != nil {
			return nil, infra.WrapDBErr("failed to scan loan item row", err)
		}
		items = append(items, loan.ReconstructItem(
			itemID, productID, sku, price, finalPrice, returned,
			pgconv.TimePtrFromPgtype(returnedAt),
		))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapDBErr("failed to read loan item rows", err)
	}

	order.AttachItems(items)
	return order, nil
}

const saveItemReturnQuery = `
UPDATE loan_items SET returned = true, returned_at = $3
WHERE order_id = $1 AND sku = $2 AND NOT returned
`

func (r *LoanRepository) SaveItemReturn(ctx context.Context, dbtx db.DBTX, orderID int64, sku string, returnedAt time.Time) error {
	tag, err := dbtx.Exec(ctx, saveItemReturnQuery, orderID, sku, returnedAt)
	if err != nil {
		return infra.WrapDBErr("failed to mark loan item returned", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindConflict, "loan item already returned or missing", nil)
	}
	return nil
}

const closeOrderQuery = `
UPDATE loan_orders SET status = $2, closed_at = $3
WHERE id = $1 AND status = $4
`

func (r *LoanRepository) CloseOrder(ctx context.Context, dbtx db.DBTX, id int64, closedAt time.Time) error {
	tag, err := dbtx.Exec(ctx, closeOrderQuery,
		id, loan.StatusClosed.String(), closedAt, loan.StatusActive.String())
	if err != nil {
		return infra.WrapDBErr("failed to close loan order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindConflict, "loan order is not active", nil)
	}
	return nil
}
