package commands

import (
	"context"
	"log/slog"

	"stockflow/internal/domain/stock"
	reqdto "stockflow/internal/handler/dto/request"
	"stockflow/internal/infra"
	"stockflow/internal/infra/audit"
	"stockflow/internal/pkg/clock"
	"stockflow/internal/pkg/errs"
	"stockflow/internal/usecase/shared"
)

var (
	ErrWarehouseExists    = errs.New("warehouse code already exists")
	ErrInsufficientStock  = errs.New("insufficient stock on hand")
	ErrInvalidMoveRequest = errs.New("invalid stock move request")
)

type StockCommands interface {
	CreateWarehouse(ctx context.Context, req reqdto.CreateWarehouseRequest) (int64, error)
	Inbound(ctx context.Context, req reqdto.StockMoveRequest) error
	Outbound(ctx context.Context, req reqdto.StockMoveRequest) error
}

type stockCommandsImpl struct {
	uow       shared.UnitOfWork
	clock     clock.Clock
	auditSink audit.Sink
}

func NewStockCommands(uow shared.UnitOfWork, clk clock.Clock, auditSink audit.Sink) StockCommands {
	return &stockCommandsImpl{
		uow:       uow,
		clock:     clk,
		auditSink: auditSink,
	}
}

func (s *stockCommandsImpl) CreateWarehouse(ctx context.Context, req reqdto.CreateWarehouseRequest) (int64, error) {
	var id int64
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created, err := tx.Warehouses().Create(ctx, tx.DB(), req.Code, req.Name)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrWarehouseExists
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		id = created
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *stockCommandsImpl) Inbound(ctx context.Context, req reqdto.StockMoveRequest) error {
	if req.Qty <= 0 {
		return ErrInvalidMoveRequest
	}

	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Stocks().AddOnHand(ctx, tx.DB(), req.ProductID, req.WarehouseID, req.Qty); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		err := tx.Stocks().RecordMove(ctx, tx.DB(), req.ProductID, req.WarehouseID, stock.DirectionIn, req.Qty, s.clock.Now())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.appendAudit("stock_inbound", req)
	return nil
}

func (s *stockCommandsImpl) Outbound(ctx context.Context, req reqdto.StockMoveRequest) error {
	if req.Qty <= 0 {
		return ErrInvalidMoveRequest
	}

	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, err := tx.Stocks().DeductOnHand(ctx, tx.DB(), req.ProductID, req.WarehouseID, req.Qty)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !ok {
			return ErrInsufficientStock
		}
		err = tx.Stocks().RecordMove(ctx, tx.DB(), req.ProductID, req.WarehouseID, stock.DirectionOut, req.Qty, s.clock.Now())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.appendAudit("stock_outbound", req)
	return nil
}

func (s *stockCommandsImpl) appendAudit(kind string, req reqdto.StockMoveRequest) {
	if s.auditSink == nil {
		return
	}
	event := audit.Event{
		Kind:       kind,
		OccurredAt: s.clock.Now(),
		Detail: map[string]any{
			"product_id":   req.ProductID,
			"warehouse_id": req.WarehouseID,
			"qty":          req.Qty,
		},
	}
	if err := s.auditSink.Append(event); err != nil {
		slog.Warn("failed to append audit event", "kind", kind, "error", err.Error())
	}
}
