package repository

import (
	"context"
	"time"

	"stockflow/internal/domain/stock"
	"stockflow/internal/infra"
	"stockflow/internal/infra/db"
)

type StockRepository struct{}

func NewStockRepository() *StockRepository {
	return &StockRepository{}
}

const addOnHandQuery = `
INSERT INTO stocks (product_id, warehouse_id, qty_on_hand)
VALUES ($1, $2, $3)
ON CONFLICT (product_id, warehouse_id) DO UPDATE SET qty_on_hand = stocks.qty_on_hand + $3
`

func (r *StockRepository) AddOnHand(ctx context.Context, dbtx db.DBTX, productID, warehouseID, qty int64) error {
	if _, err := dbtx.Exec(ctx, addOnHandQuery, productID, warehouseID, qty); err != nil {
		return infra.WrapDBErr("failed to add stock on hand", err)
	}
	return nil
}

// The qty_on_hand guard in the WHERE clause makes the deduction conditional;
// zero rows affected means not enough stock under the row lock.
const deductOnHandQuery = `
UPDATE stocks SET qty_on_hand = qty_on_hand - $3
WHERE product_id = $1 AND warehouse_id = $2 AND qty_on_hand >= $3
`

func (r *StockRepository) DeductOnHand(ctx context.Context, dbtx db.DBTX, productID, warehouseID, qty int64) (bool, error) {
	tag, err := dbtx.Exec(ctx, deductOnHandQuery, productID, warehouseID, qty)
	if err != nil {
		return false, infra.WrapDBErr("failed to deduct stock on hand", err)
	}
	return tag.RowsAffected() > 0, nil
}

const recordMoveQuery = `
INSERT INTO stock_moves (product_id, warehouse_id, direction, qty, moved_at)
VALUES ($1, $2, $3, $4, $5)
`

func (r *StockRepository) RecordMove(ctx context.Context, dbtx db.DBTX, productID, warehouseID int64, direction stock.Direction, qty int64, movedAt time.Time) error {
	if _, err := dbtx.Exec(ctx, recordMoveQuery, productID, warehouseID, direction.String(), qty, movedAt); err != nil {
		return infra.WrapDBErr("failed to record stock move", err)
	}
	return nil
}
