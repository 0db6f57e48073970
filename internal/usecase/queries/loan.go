package queries

import (
	"context"

	"stockflow/internal/infra/db"
	"stockflow/internal/infra/readstore"
	"stockflow/internal/pkg/errs"
	"stockflow/internal/usecase/shared"
)

var ErrLoanNotFound = errs.New("loan order not found")

type LoanQueries interface {
	List(ctx context.Context, limit, offset int32) ([]LoanOrderView, error)
	GetByID(ctx context.Context, id int64) (*LoanOrderDetailView, error)
}

type loanQueriesImpl struct {
	uow   shared.UnitOfWork
	store *readstore.LoanReadStore
}

func NewLoanQueries(uow shared.UnitOfWork) LoanQueries {
	return &loanQueriesImpl{
		uow:   uow,
		store: readstore.NewLoanReadStore(),
	}
}

func (q *loanQueriesImpl) List(ctx context.Context, limit, offset int32) ([]LoanOrderView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var views []LoanOrderView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rows, err := q.store.List(ctx, dbtx, limit, offset)
		if err != nil {
			return err
		}
		views = make([]LoanOrderView, len(rows))
		for i, row := range rows {
			views[i] = toLoanOrderView(row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// GetByID reads the order and its items in one read-only transaction so
// the detail view is a consistent snapshot.
func (q *loanQueriesImpl) GetByID(ctx context.Context, id int64) (*LoanOrderDetailView, error) {
	var detail *LoanOrderDetailView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		order, items, err := q.store.FindByID(ctx, dbtx, id)
		if err != nil {
			return err
		}

		itemViews := make([]LoanItemView, len(items))
		for i, it := range items {
			itemViews[i] = LoanItemView{
				ID:         it.ID,
				ProductID:  it.ProductID,
				SKU:        it.SKU,
				Price:      it.Price,
				FinalPrice: it.FinalPrice,
				Returned:   it.Returned,
				ReturnedAt: it.ReturnedAt,
			}
		}
		detail = &LoanOrderDetailView{
			LoanOrderView: toLoanOrderView(*order),
			Items:         itemViews,
		}
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return detail, nil
}

func toLoanOrderView(row readstore.LoanOrderRow) LoanOrderView {
	return LoanOrderView{
		ID:          row.ID,
		LoanNo:      row.LoanNo,
		Company:     row.Company,
		Receiver:    row.Receiver,
		Handler:     row.Handler,
		Discount:    row.Discount,
		TotalQty:    row.TotalQty,
		TotalAmount: row.TotalAmount,
		Status:      row.Status,
		CreatedAt:   row.CreatedAt,
		ClosedAt:    row.ClosedAt,
	}
}
