package queries

import (
	"context"

	"stockflow/internal/infra/db"
	"stockflow/internal/infra/readstore"
	"stockflow/internal/pkg/errs"
	"stockflow/internal/usecase/shared"
)

var ErrProductNotFound = errs.New("product not found")

type ProductQueries interface {
	Search(ctx context.Context, keyword string, excludeSold bool, limit, offset int32) ([]ProductView, error)
	GetByID(ctx context.Context, id int64) (*ProductView, error)
	GetBySKU(ctx context.Context, sku string) (*ProductView, error)
}

type productQueriesImpl struct {
	uow   shared.UnitOfWork
	store *readstore.ProductReadStore
}

func NewProductQueries(uow shared.UnitOfWork) ProductQueries {
	return &productQueriesImpl{
		uow:   uow,
		store: readstore.NewProductReadStore(),
	}
}

func (q *productQueriesImpl) Search(ctx context.Context, keyword string, excludeSold bool, limit, offset int32) ([]ProductView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var views []ProductView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rows, err := q.store.Search(ctx, dbtx, keyword, excludeSold, limit, offset)
		if err != nil {
			return err
		}
		views = make([]ProductView, len(rows))
		for i, row := range rows {
			views[i] = toProductView(row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (q *productQueriesImpl) GetByID(ctx context.Context, id int64) (*ProductView, error) {
	var view *ProductView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		row, err := q.store.FindByID(ctx, dbtx, id)
		if err != nil {
			return err
		}
		v := toProductView(*row)
		view = &v
		return nil
	})
	if err != nil {
		return nil, mapProductReadErr(err)
	}
	return view, nil
}

func (q *productQueriesImpl) GetBySKU(ctx context.Context, sku string) (*ProductView, error) {
	var view *ProductView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		row, err := q.store.FindBySKU(ctx, dbtx, sku)
		if err != nil {
			return err
		}
		v := toProductView(*row)
		view = &v
		return nil
	})
	if err != nil {
		return nil, mapProductReadErr(err)
	}
	return view, nil
}

func mapProductReadErr(err error) error {
	if isNotFound(err) {
		return ErrProductNotFound
	}
	return err
}

func toProductView(row readstore.ProductRow) ProductView {
	return ProductView{
		ID:                row.ID,
		SKU:               row.SKU,
		Name:              row.Name,
		Category:          row.Category,
		Detail:            row.Detail,
		SpecWeight:        row.SpecWeight,
		Unit:              row.Unit,
		CostPrice:         row.CostPrice,
		SalePrice:         row.SalePrice,
		TaxIncluded:       row.TaxIncluded,
		Remark:            row.Remark,
		Status:            row.Status,
		Borrower:          row.Borrower,
		QRPayload:         row.QRPayload,
		LabelPrintedCount: row.LabelPrintedCount,
		LoginDate:         row.LoginDate,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}
