package queries

import (
	"context"

	"stockflow/internal/infra/db"
	"stockflow/internal/infra/readstore"
	"stockflow/internal/usecase/shared"
)

type StockQueries interface {
	List(ctx context.Context, warehouseID int64) ([]StockView, error)
	ListWarehouses(ctx context.Context) ([]WarehouseView, error)
}

type stockQueriesImpl struct {
	uow   shared.UnitOfWork
	store *readstore.StockReadStore
}

func NewStockQueries(uow shared.UnitOfWork) StockQueries {
	return &stockQueriesImpl{
		uow:   uow,
		store: readstore.NewStockReadStore(),
	}
}

func (q *stockQueriesImpl) List(ctx context.Context, warehouseID int64) ([]StockView, error) {
	var views []StockView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rows, err := q.store.List(ctx, dbtx, warehouseID)
		if err != nil {
			return err
		}
		views = make([]StockView, len(rows))
		for i, row := range rows {
			views[i] = StockView{
				ProductID:     row.ProductID,
				SKU:           row.SKU,
				ProductName:   row.ProductName,
				WarehouseID:   row.WarehouseID,
				WarehouseCode: row.WarehouseCode,
				WarehouseName: row.WarehouseName,
				QtyOnHand:     row.QtyOnHand,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (q *stockQueriesImpl) ListWarehouses(ctx context.Context) ([]WarehouseView, error) {
	var views []WarehouseView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rows, err := q.store.ListWarehouses(ctx, dbtx)
		if err != nil {
			return err
		}
		views = make([]WarehouseView, len(rows))
		for i, row := range rows {
			views[i] = WarehouseView{ID: row.ID, Code: row.Code, Name: row.Name}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
