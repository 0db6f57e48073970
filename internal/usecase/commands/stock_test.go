//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"stockflow/internal/domain/stock"
	reqdto "stockflow/internal/handler/dto/request"
	"stockflow/internal/pkg/clock"
	"stockflow/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStockCommands(store *memStore) commands.StockCommands {
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	return commands.NewStockCommands(newFakeUoW(store), clk, nil)
}

func TestCreateWarehouse(t *testing.T) {
	store := newMemStore()
	cmds := newStockCommands(store)

	id, err := cmds.CreateWarehouse(context.Background(), reqdto.CreateWarehouseRequest{
		Code: "WH1", Name: "main vault",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = cmds.CreateWarehouse(context.Background(), reqdto.CreateWarehouseRequest{
		Code: "WH1", Name: "duplicate",
	})
	assert.ErrorIs(t, err, commands.ErrWarehouseExists)
}

func TestInboundThenOutbound(t *testing.T) {
	store := newMemStore()
	cmds := newStockCommands(store)

	require.NoError(t, cmds.Inbound(context.Background(), reqdto.StockMoveRequest{
		ProductID: 1, WarehouseID: 1, Qty: 10,
	}))
	require.NoError(t, cmds.Outbound(context.Background(), reqdto.StockMoveRequest{
		ProductID: 1, WarehouseID: 1, Qty: 4,
	}))

	assert.Equal(t, int64(6), store.stocks[[2]int64{1, 1}])
	require.Len(t, store.moves, 2)
	assert.Equal(t, stock.DirectionIn, store.moves[0].direction)
	assert.Equal(t, stock.DirectionOut, store.moves[1].direction)
}

func TestOutbound_InsufficientStock(t *testing.T) {
	store := newMemStore()
	cmds := newStockCommands(store)

	require.NoError(t, cmds.Inbound(context.Background(), reqdto.StockMoveRequest{
		ProductID: 1, WarehouseID: 1, Qty: 3,
	}))

	err := cmds.Outbound(context.Background(), reqdto.StockMoveRequest{
		ProductID: 1, WarehouseID: 1, Qty: 5,
	})
	assert.ErrorIs(t, err, commands.ErrInsufficientStock)
	// no deduction and no movement row
	assert.Equal(t, int64(3), store.stocks[[2]int64{1, 1}])
	assert.Len(t, store.moves, 1)
}

func TestStockMove_InvalidQty(t *testing.T) {
	store := newMemStore()
	cmds := newStockCommands(store)

	assert.ErrorIs(t, cmds.Inbound(context.Background(), reqdto.StockMoveRequest{
		ProductID: 1, WarehouseID: 1, Qty: 0,
	}), commands.ErrInvalidMoveRequest)
	assert.ErrorIs(t, cmds.Outbound(context.Background(), reqdto.StockMoveRequest{
		ProductID: 1, WarehouseID: 1, Qty: -2,
	}), commands.ErrInvalidMoveRequest)
}
