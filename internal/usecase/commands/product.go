package commands

import (
	"context"
	"log/slog"

	"stockflow/internal/domain/ident"
	"stockflow/internal/domain/label"
	"stockflow/internal/domain/product"
	reqdto "stockflow/internal/handler/dto/request"
	"stockflow/internal/infra"
	"stockflow/internal/infra/audit"
	"stockflow/internal/pkg/clock"
	"stockflow/internal/pkg/errs"
	"stockflow/internal/pkg/normalize"
	"stockflow/internal/usecase/shared"
)

var (
	ErrCompanyNotConfigured    = errs.New("company code is not configured")
	ErrInvalidProductInput     = errs.New("invalid product input")
	ErrSKUConflict             = errs.New("sku conflict")
	ErrProductNotFound         = errs.New("product not found")
	ErrProductReferenced       = errs.New("product is referenced by other records")
	ErrDeletionCheckFailed     = errs.New("deletion dependency check failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

const companyCodeKey = "company_code"

type CreateProductResult struct {
	ID  int64
	SKU string
}

type ProductCommands interface {
	CreateProduct(ctx context.Context, req reqdto.CreateProductRequest) (*CreateProductResult, error)
	UpdateProduct(ctx context.Context, id int64, req reqdto.UpdateProductRequest) error
	DeleteProduct(ctx context.Context, id int64) error
	MarkLabelPrinted(ctx context.Context, sku string) error
	MarkSold(ctx context.Context, id int64) error
}

type productCommandsImpl struct {
	uow         shared.UnitOfWork
	clock       clock.Clock
	labelSecret string
	auditSink   audit.Sink
}

func NewProductCommands(uow shared.UnitOfWork, clk clock.Clock, labelSecret string, auditSink audit.Sink) ProductCommands {
	return &productCommandsImpl{
		uow:         uow,
		clock:       clk,
		labelSecret: labelSecret,
		auditSink:   auditSink,
	}
}

func (p *productCommandsImpl) CreateProduct(ctx context.Context, req reqdto.CreateProductRequest) (*CreateProductResult, error) {
	salePrice, err := reqdto.ParseAmount(req.SalePrice)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidProductInput)
	}
	costPrice, err := reqdto.ParseAmount(req.CostPrice)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidProductInput)
	}
	specWeight := normalize.Weight(req.SpecWeight)

	companyCode, err := p.uow.CommandReads().Setting(ctx, companyCodeKey)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCompanyNotConfigured
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	var result CreateProductResult
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sku, err := p.buildSKU(ctx, tx, companyCode)
		if err != nil {
			return err
		}

		entity, err := product.NewProduct(sku, req.Name, salePrice, costPrice)
		if err != nil {
			return errs.Mark(err, ErrInvalidProductInput)
		}
		entity.SetDetails(req.Category, req.Detail, specWeight, req.Remark, req.LoginDate, req.TaxIncluded)
		entity.SetQRPayload(label.BuildPayload(p.labelSecret, companyCode, sku))

		id, err := tx.Products().Create(ctx, tx.DB(), entity)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrSKUConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = CreateProductResult{ID: id, SKU: sku}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.appendAudit("product_created", map[string]any{"id": result.ID, "sku": result.SKU})
	return &result, nil
}

// buildSKU allocates the next number for the current year-month scope and
// formats the SKU. One defensive existence probe guards against manually
// inserted rows; on a hit it re-allocates exactly once and goes with that
// value, leaving the unique index as the final arbiter.
func (p *productCommandsImpl) buildSKU(ctx context.Context, tx shared.Tx, companyCode string) (string, error) {
	scope := ident.SKUScope(p.clock.Now())

	sku, err := p.allocateSKU(ctx, tx, companyCode, scope)
	if err != nil {
		return "", err
	}

	exists, err := tx.Products().SKUExists(ctx, tx.DB(), sku)
	if err != nil {
		return "", errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !exists {
		return sku, nil
	}

	slog.Warn("allocated sku already exists, re-allocating once", "sku", sku)
	return p.allocateSKU(ctx, tx, companyCode, scope)
}

func (p *productCommandsImpl) allocateSKU(ctx context.Context, tx shared.Tx, companyCode, scope string) (string, error) {
	n, err := tx.Sequences().Next(ctx, tx.DB(), scope)
	if err != nil {
		return "", errs.Mark(err, ErrDatabaseOperationFailed)
	}
	sku, err := ident.FormatSKU(companyCode, scope, n)
	if err != nil {
		return "", errs.Mark(err, ErrCompanyNotConfigured)
	}
	return sku, nil
}

func (p *productCommandsImpl) UpdateProduct(ctx context.Context, id int64, req reqdto.UpdateProductRequest) error {
	salePrice, err := reqdto.ParseAmount(req.SalePrice)
	if err != nil {
		return errs.Mark(err, ErrInvalidProductInput)
	}
	costPrice, err := reqdto.ParseAmount(req.CostPrice)
	if err != nil {
		return errs.Mark(err, ErrInvalidProductInput)
	}
	if salePrice < 0 || costPrice < 0 {
		return errs.Mark(product.ErrNegativePrice, ErrInvalidProductInput)
	}
	specWeight := normalize.Weight(req.SpecWeight)

	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Products().FindByIDForUpdate(ctx, tx.DB(), id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrProductNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		updated := product.ReconstructProduct(
			entity.ID(), entity.SKU(), req.Name, req.Category, req.Detail,
			specWeight, entity.Unit(), costPrice, salePrice, req.TaxIncluded,
			req.Remark, entity.Status(), entity.Borrower(), entity.QRPayload(),
			req.LoginDate, entity.CreatedAt(), entity.UpdatedAt(),
		)

		if err := tx.Products().Update(ctx, tx.DB(), updated); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.appendAudit("product_updated", map[string]any{"id": id})
	return nil
}

// DeleteProduct refuses to remove a product that any dependent record still
// points at. A failed dependency check also refuses: better to keep a
// deletable row than to orphan loan or movement history.
func (p *productCommandsImpl) DeleteProduct(ctx context.Context, id int64) error {
	var sku string
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Products().FindByIDForUpdate(ctx, tx.DB(), id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrProductNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		sku = entity.SKU()

		referenced, err := p.hasDependents(ctx, tx, id)
		if err != nil {
			return errs.Mark(err, ErrDeletionCheckFailed)
		}
		if referenced {
			return ErrProductReferenced
		}

		if err := tx.Products().Delete(ctx, tx.DB(), id); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.appendAudit("product_deleted", map[string]any{"id": id, "sku": sku})
	return nil
}

func (p *productCommandsImpl) hasDependents(ctx context.Context, tx shared.Tx, id int64) (bool, error) {
	loanRefs, err := tx.Products().HasLoanReferences(ctx, tx.DB(), id)
	if err != nil {
		return false, err
	}
	if loanRefs {
		return true, nil
	}

	moveRefs, err := tx.Products().HasStockMoveReferences(ctx, tx.DB(), id)
	if err != nil {
		return false, err
	}
	return moveRefs, nil
}

func (p *productCommandsImpl) MarkLabelPrinted(ctx context.Context, sku string) error {
	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		err := tx.Products().IncrementLabelPrinted(ctx, tx.DB(), sku)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrProductNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (p *productCommandsImpl) MarkSold(ctx context.Context, id int64) error {
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Products().FindByIDForUpdate(ctx, tx.DB(), id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrProductNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := entity.MarkSold(); err != nil {
			return errs.Mark(err, ErrInvalidProductInput)
		}

		if err := tx.Products().UpdateLoanState(ctx, tx.DB(), id, entity.Status(), entity.Borrower()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.appendAudit("product_sold", map[string]any{"id": id})
	return nil
}

func (p *productCommandsImpl) appendAudit(kind string, detail map[string]any) {
	if p.auditSink == nil {
		return
	}
	event := audit.Event{Kind: kind, OccurredAt: p.clock.Now(), Detail: detail}
	if err := p.auditSink.Append(event); err != nil {
		slog.Warn("failed to append audit event", "kind", kind, "error", err.Error())
	}
}
