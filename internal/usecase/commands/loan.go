package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"stockflow/internal/domain/ident"
	"stockflow/internal/domain/loan"
	"stockflow/internal/domain/product"
	reqdto "stockflow/internal/handler/dto/request"
	"stockflow/internal/infra"
	"stockflow/internal/infra/audit"
	"stockflow/internal/pkg/clock"
	"stockflow/internal/pkg/errs"
	"stockflow/internal/usecase/shared"
)

var (
	ErrLoanValidation      = errs.New("loan validation failed")
	ErrLoanProductsMissing = errs.New("products not found")
	ErrLoanProductsBusy    = errs.New("products not available for loan")
	ErrLoanOrderNotFound   = errs.New("loan order not found")
	ErrLoanOrderClosed     = errs.New("loan order is already closed")
	ErrLoanItemConflict    = errs.New("loan item cannot be returned")
)

type CreateLoanResult struct {
	OrderID     int64
	LoanNo      string
	TotalQty    int64
	TotalAmount int64
	CreatedAt   time.Time
}

type ReturnItemsResult struct {
	ReturnedSKUs []string
	OrderClosed  bool
}

type LoanCommands interface {
	CreateLoan(ctx context.Context, req reqdto.CreateLoanRequest) (*CreateLoanResult, error)
	ReturnItems(ctx context.Context, orderID int64, req reqdto.ReturnItemsRequest) (*ReturnItemsResult, error)
}

type loanCommandsImpl struct {
	uow       shared.UnitOfWork
	clock     clock.Clock
	auditSink audit.Sink
}

func NewLoanCommands(uow shared.UnitOfWork, clk clock.Clock, auditSink audit.Sink) LoanCommands {
	return &loanCommandsImpl{
		uow:       uow,
		clock:     clk,
		auditSink: auditSink,
	}
}

// CreateLoan validates everything it can before opening a transaction, then
// performs allocation, header, items and product flips atomically. Missing
// and unavailable products are reported in full, not first-failure.
func (l *loanCommandsImpl) CreateLoan(ctx context.Context, req reqdto.CreateLoanRequest) (*CreateLoanResult, error) {
	cp, err := loan.NewCounterpart(req.Company, req.Receiver, req.Handler)
	if err != nil {
		return nil, errs.Mark(err, ErrLoanValidation)
	}
	discount, err := loan.NewDiscount(req.Discount)
	if err != nil {
		return nil, errs.Mark(err, ErrLoanValidation)
	}
	skus := loan.NormalizeSKUs(req.SKUs)
	if len(skus) == 0 {
		return nil, errs.Mark(loan.ErrNoItems, ErrLoanValidation)
	}

	borrower := cp.BorrowerText(discount)

	var result CreateLoanResult
	err = l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		products, err := tx.Products().FindBySKUsForUpdate(ctx, tx.DB(), skus)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		bySKU := make(map[string]*product.Product, len(products))
		for _, p := range products {
			bySKU[p.SKU()] = p
		}

		if err := checkAllPresent(skus, bySKU); err != nil {
			return err
		}
		if err := checkAllAvailable(skus, bySKU); err != nil {
			return err
		}

		loanNo, err := l.buildLoanNumber(ctx, tx)
		if err != nil {
			return err
		}

		lines := make([]loan.LineSpec, len(skus))
		for i, sku := range skus {
			p := bySKU[sku]
			lines[i] = loan.LineSpec{ProductID: p.ID(), SKU: sku, SalePrice: p.SalePrice()}
		}

		order, err := loan.NewOrder(loanNo, cp, discount, lines, l.clock.Now())
		if err != nil {
			return errs.Mark(err, ErrLoanValidation)
		}

		orderID, err := tx.Loans().CreateOrder(ctx, tx.DB(), order)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Loans().CreateItems(ctx, tx.DB(), orderID, order.Items()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		for _, sku := range skus {
			p := bySKU[sku]
			if err := p.Lend(borrower); err != nil {
				return errs.Mark(err, ErrLoanProductsBusy)
			}
			if err := tx.Products().UpdateLoanState(ctx, tx.DB(), p.ID(), p.Status(), p.Borrower()); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		result = CreateLoanResult{
			OrderID:     orderID,
			LoanNo:      loanNo,
			TotalQty:    order.TotalQty(),
			TotalAmount: order.TotalAmount(),
			CreatedAt:   order.CreatedAt(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.appendAudit("loan_created", map[string]any{
		"order_id": result.OrderID,
		"loan_no":  result.LoanNo,
		"skus":     skus,
		"qty":      result.TotalQty,
		"amount":   result.TotalAmount,
	})
	return &result, nil
}

func (l *loanCommandsImpl) buildLoanNumber(ctx context.Context, tx shared.Tx) (string, error) {
	scope := ident.LoanScope(l.clock.Now())
	n, err := tx.Sequences().Next(ctx, tx.DB(), scope)
	if err != nil {
		return "", errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return ident.FormatLoanNo(ident.LoanDay(scope), n), nil
}

// ReturnItems flips the given items back, restores the products to stock
// and closes the order when its last open item comes back.
func (l *loanCommandsImpl) ReturnItems(ctx context.Context, orderID int64, req reqdto.ReturnItemsRequest) (*ReturnItemsResult, error) {
	skus := loan.NormalizeSKUs(req.SKUs)
	if len(skus) == 0 {
		return nil, errs.Mark(loan.ErrNoItems, ErrLoanValidation)
	}

	var result ReturnItemsResult
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		order, err := tx.Loans().FindOrderForUpdate(ctx, tx.DB(), orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrLoanOrderNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		now := l.clock.Now()
		closed := false
		for _, sku := range skus {
			allReturned, err := order.ReturnItem(sku, now)
			if err != nil {
				return mapReturnErr(err)
			}
			if err := tx.Loans().SaveItemReturn(ctx, tx.DB(), orderID, sku, now); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			closed = closed || allReturned
		}

		products, err := tx.Products().FindBySKUsForUpdate(ctx, tx.DB(), skus)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		for _, p := range products {
			if err := p.TakeBack(); err != nil {
				// Sold while on loan: the catalog state wins, the item
				// return is still recorded.
				slog.Warn("returned item not in loaned state", "sku", p.SKU(), "status", p.Status().String())
				continue
			}
			if err := tx.Products().UpdateLoanState(ctx, tx.DB(), p.ID(), p.Status(), p.Borrower()); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		if closed {
			if err := tx.Loans().CloseOrder(ctx, tx.DB(), orderID, now); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		result = ReturnItemsResult{ReturnedSKUs: skus, OrderClosed: closed}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.appendAudit("loan_items_returned", map[string]any{
		"order_id": orderID,
		"skus":     result.ReturnedSKUs,
		"closed":   result.OrderClosed,
	})
	return &result, nil
}

func mapReturnErr(err error) error {
	switch {
	case errors.Is(err, loan.ErrAlreadyClosed):
		return errs.Mark(err, ErrLoanOrderClosed)
	case errors.Is(err, loan.ErrItemReturned), errors.Is(err, loan.ErrItemNotInOrder):
		return errs.Mark(err, ErrLoanItemConflict)
	default:
		return errs.Mark(err, ErrLoanValidation)
	}
}

// checkAllPresent reports every missing SKU at once.
func checkAllPresent(skus []string, bySKU map[string]*product.Product) error {
	var missing []string
	for _, sku := range skus {
		if _, ok := bySKU[sku]; !ok {
			missing = append(missing, sku)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errs.Mark(
			errs.Newf("skus not found: %s", strings.Join(missing, ", ")),
			ErrLoanProductsMissing,
		)
	}
	return nil
}

// checkAllAvailable reports every non-in-stock SKU with its state.
func checkAllAvailable(skus []string, bySKU map[string]*product.Product) error {
	var busy []string
	for _, sku := range skus {
		p := bySKU[sku]
		if p.IsAvailable() {
			continue
		}
		desc := fmt.Sprintf("%s (%s", sku, p.Status().String())
		if p.Borrower() != "" {
			desc += ", " + p.Borrower()
		}
		desc += ")"
		busy = append(busy, desc)
	}
	if len(busy) > 0 {
		sort.Strings(busy)
		return errs.Mark(
			errs.Newf("skus not available: %s", strings.Join(busy, "; ")),
			ErrLoanProductsBusy,
		)
	}
	return nil
}

func (l *loanCommandsImpl) appendAudit(kind string, detail map[string]any) {
	if l.auditSink == nil {
		return
	}
	event := audit.Event{Kind: kind, OccurredAt: l.clock.Now(), Detail: detail}
	if err := l.auditSink.Append(event); err != nil {
		slog.Warn("failed to append audit event", "kind", kind, "error", err.Error())
	}
}
