package readstore

import (
	"context"

	"stockflow/internal/infra"
	"stockflow/internal/infra/db"
)

// StockRow joins stocks with product and warehouse identity for listings.
type StockRow struct {
	ProductID     int64
	SKU           string
	ProductName   string
	WarehouseID   int64
	WarehouseCode string
	WarehouseName string
	QtyOnHand     int64
}

type WarehouseRow struct {
	ID   int64
	Code string
	Name string
}

type StockReadStore struct{}

func NewStockReadStore() *StockReadStore {
	return &StockReadStore{}
}

const listStockQuery = `
SELECT s.product_id, p.sku, p.name, s.warehouse_id, w.code, w.name, s.qty_on_hand
FROM stocks s
JOIN products p ON p.id = s.product_id
JOIN warehouses w ON w.id = s.warehouse_id
WHERE ($1 = 0 OR s.warehouse_id = $1)
ORDER BY w.code, p.sku
`

// List returns stock rows, optionally narrowed to one warehouse (0 = all).
func (s *StockReadStore) List(ctx context.Context, dbtx db.DBTX, warehouseID int64) ([]StockRow, error) {
	rows, err := dbtx.Query(ctx, listStockQuery, warehouseID)
	if err != nil {
		return nil, infra.WrapDBErr("failed to list stock", err)
	}
	defer rows.Close()

	var result []StockRow
	for rows.Next() {
		var r StockRow
		if err := rows.Scan(&r.ProductID, &r.SKU, &r.ProductName, &r.WarehouseID, &r.WarehouseCode, &r.WarehouseName, &r.QtyOnHand); err != nil {
			return nil, infra.WrapDBErr("failed to scan stock row", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapDBErr("failed to read stock rows", err)
	}
	return result, nil
}

func (s *StockReadStore) ListWarehouses(ctx context.Context, dbtx db.DBTX) ([]WarehouseRow, error) {
	rows, err := dbtx.Query(ctx, `SELECT id, code, name FROM warehouses ORDER BY code`)
	if err != nil {
		return nil, infra.WrapDBErr("failed to list warehouses", err)
	}
	defer rows.Close()

	var result []WarehouseRow
	for rows.Next() {
		var r WarehouseRow
		if err := rows.Scan(&r.ID, &r.Code, &r.Name); err != nil {
			return nil, infra.WrapDBErr("failed to scan warehouse row", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapDBErr("failed to read warehouse rows", err)
	}
	return result, nil
}
