//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"stockflow/internal/domain/loan"
	"stockflow/internal/domain/product"
	reqdto "stockflow/internal/handler/dto/request"
	"stockflow/internal/pkg/clock"
	"stockflow/internal/usecase/commands"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoanCommands(store *memStore, clk clock.Clock) commands.LoanCommands {
	return commands.NewLoanCommands(newFakeUoW(store), clk, nil)
}

// seedLoanOrder persists an active order over the given products directly
// into the store, as CreateLoan would.
func seedLoanOrder(t *testing.T, store *memStore, products []*product.Product, discount float64) int64 {
	t.Helper()

	cp, err := loan.NewCounterpart("ACME", "tanaka", "suzuki")
	require.NoError(t, err)
	d, err := loan.NewDiscount(discount)
	require.NoError(t, err)

	lines := make([]loan.LineSpec, len(products))
	for i, p := range products {
		lines[i] = loan.LineSpec{ProductID: p.ID(), SKU: p.SKU(), SalePrice: p.SalePrice()}
		require.NoError(t, p.Lend(cp.BorrowerText(d)))
	}

	order, err := loan.NewOrder("L260115001", cp, d, lines, time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	store.nextOrderID++
	id := store.nextOrderID
	store.orders[id] = loan.ReconstructOrder(id, order.LoanNo(), cp, d, loan.StatusActive, order.CreatedAt(), nil)
	items := make([]loan.Item, 0, len(order.Items()))
	for i, item := range order.Items() {
		items = append(items, loan.ReconstructItem(
			int64(i+1), item.ProductID(), item.SKU(),
			item.Price(), item.FinalPrice(), false, nil,
		))
	}
	store.orderItems[id] = items
	return id
}

func TestCreateLoan(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 10000)
	b := mustSeedProduct(t, store, "AB1234-2601-0002", 5000)

	result, err := cmds.CreateLoan(context.Background(), reqdto.CreateLoanRequest{
		SKUs:     []string{a.SKU(), b.SKU()},
		Company:  "ACME",
		Receiver: "tanaka",
		Handler:  "suzuki",
		Discount: 0.9,
	})
	require.NoError(t, err)

	assert.Equal(t, "L260115001", result.LoanNo)
	assert.Equal(t, int64(2), result.TotalQty)
	// 10000*0.9 + 5000*0.9
	assert.Equal(t, int64(13500), result.TotalAmount)

	for _, p := range store.products {
		assert.Equal(t, product.StatusLoaned, p.Status())
		assert.Contains(t, p.Borrower(), "ACME")
		assert.Contains(t, p.Borrower(), "0.90")
	}
	assert.Len(t, store.orderItems[result.OrderID], 2)
}

func TestCreateLoan_LoanNumbersIncrementWithinDay(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 1000)
	b := mustSeedProduct(t, store, "AB1234-2601-0002", 1000)

	first, err := cmds.CreateLoan(context.Background(), reqdto.CreateLoanRequest{
		SKUs: []string{a.SKU()}, Company: "ACME", Discount: 1.0,
	})
	require.NoError(t, err)
	second, err := cmds.CreateLoan(context.Background(), reqdto.CreateLoanRequest{
		SKUs: []string{b.SKU()}, Company: "ACME", Discount: 1.0,
	})
	require.NoError(t, err)

	assert.Equal(t, "L260115001", first.LoanNo)
	assert.Equal(t, "L260115002", second.LoanNo)

	// next day restarts at 001
	clk.Set(time.Date(2026, 1, 16, 10, 0, 0, 0, time.UTC))
	c := mustSeedProduct(t, store, "AB1234-2601-0003", 1000)
	third, err := cmds.CreateLoan(context.Background(), reqdto.CreateLoanRequest{
		SKUs: []string{c.SKU()}, Company: "ACME", Discount: 1.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "L260116001", third.LoanNo)
}

func TestCreateLoan_ReportsAllMissingSKUs(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 1000)

	_, err := cmds.CreateLoan(context.Background(), reqdto.CreateLoanRequest{
		SKUs:     []string{a.SKU(), "AB1234-2601-0008", "AB1234-2601-0009"},
		Company:  "ACME",
		Discount: 1.0,
	})
	require.ErrorIs(t, err, commands.ErrLoanProductsMissing)
	assert.Contains(t, err.Error(), "AB1234-2601-0008")
	assert.Contains(t, err.Error(), "AB1234-2601-0009")
	assert.Empty(t, store.orders)
}

func TestCreateLoan_ReportsAllUnavailableSKUs(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 1000)
	b := mustSeedProduct(t, store, "AB1234-2601-0002", 1000)
	require.NoError(t, a.Lend("someone else"))
	require.NoError(t, b.MarkSold())

	_, err := cmds.CreateLoan(context.Background(), reqdto.CreateLoanRequest{
		SKUs:     []string{a.SKU(), b.SKU()},
		Company:  "ACME",
		Discount: 1.0,
	})
	require.ErrorIs(t, err, commands.ErrLoanProductsBusy)
	assert.Contains(t, err.Error(), "AB1234-2601-0001 (loaned, someone else)")
	assert.Contains(t, err.Error(), "AB1234-2601-0002 (sold)")
	assert.Empty(t, store.orders)
}

func TestCreateLoan_InvalidDiscount(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 1000)

	for _, d := range []float64{0, -0.5, 1.5} {
		_, err := cmds.CreateLoan(context.Background(), reqdto.CreateLoanRequest{
			SKUs: []string{a.SKU()}, Company: "ACME", Discount: d,
		})
		assert.ErrorIs(t, err, commands.ErrLoanValidation, "discount %v", d)
	}
}

func TestCreateLoan_NoCounterpart(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 1000)

	_, err := cmds.CreateLoan(context.Background(), reqdto.CreateLoanRequest{
		SKUs: []string{a.SKU()}, Discount: 1.0,
	})
	assert.ErrorIs(t, err, commands.ErrLoanValidation)
}

func TestCreateLoan_DeduplicatesSKUs(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 1000)

	result, err := cmds.CreateLoan(context.Background(), reqdto.CreateLoanRequest{
		SKUs:     []string{a.SKU(), "  " + a.SKU() + " ", a.SKU()},
		Company:  "ACME",
		Discount: 1.0,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalQty)
}

func TestCreateLoan_NothingPersistsWhenItemsFail(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 1000)
	store.failCreateItems = errInjected

	_, err := cmds.CreateLoan(context.Background(), reqdto.CreateLoanRequest{
		SKUs: []string{a.SKU()}, Company: "ACME", Discount: 1.0,
	})
	require.Error(t, err)

	assert.Empty(t, store.orders)
	assert.Empty(t, store.seq)
	assert.Equal(t, product.StatusInStock, store.products[a.ID()].Status())
}

func TestCreateLoan_NothingPersistsWhenStateFlipFails(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 1000)
	store.failUpdateLoanSt = errInjected

	_, err := cmds.CreateLoan(context.Background(), reqdto.CreateLoanRequest{
		SKUs: []string{a.SKU()}, Company: "ACME", Discount: 1.0,
	})
	require.Error(t, err)

	assert.Empty(t, store.orders)
	assert.Equal(t, product.StatusInStock, store.products[a.ID()].Status())
}

func TestReturnItems_PartialKeepsOrderOpen(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 1000)
	b := mustSeedProduct(t, store, "AB1234-2601-0002", 1000)
	orderID := seedLoanOrder(t, store, []*product.Product{a, b}, 1.0)

	result, err := cmds.ReturnItems(context.Background(), orderID, reqdto.ReturnItemsRequest{
		SKUs: []string{a.SKU()},
	})
	require.NoError(t, err)

	assert.False(t, result.OrderClosed)
	assert.Equal(t, loan.StatusActive, store.orders[orderID].Status())
	assert.Equal(t, product.StatusInStock, store.products[a.ID()].Status())
	assert.Equal(t, product.StatusLoaned, store.products[b.ID()].Status())
}

func TestReturnItems_LastItemClosesOrder(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 1000)
	b := mustSeedProduct(t, store, "AB1234-2601-0002", 1000)
	orderID := seedLoanOrder(t, store, []*product.Product{a, b}, 1.0)

	result, err := cmds.ReturnItems(context.Background(), orderID, reqdto.ReturnItemsRequest{
		SKUs: []string{a.SKU(), b.SKU()},
	})
	require.NoError(t, err)

	assert.True(t, result.OrderClosed)
	if diff := cmp.Diff([]string{a.SKU(), b.SKU()}, result.ReturnedSKUs); diff != "" {
		t.Errorf("returned skus mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, loan.StatusClosed, store.orders[orderID].Status())
	assert.Equal(t, product.StatusInStock, store.products[a.ID()].Status())
	assert.Equal(t, product.StatusInStock, store.products[b.ID()].Status())
	assert.Empty(t, store.products[a.ID()].Borrower())
}

func TestReturnItems_UnknownSKU(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 1000)
	orderID := seedLoanOrder(t, store, []*product.Product{a}, 1.0)

	_, err := cmds.ReturnItems(context.Background(), orderID, reqdto.ReturnItemsRequest{
		SKUs: []string{"AB1234-2601-0099"},
	})
	assert.ErrorIs(t, err, commands.ErrLoanItemConflict)
}

func TestReturnItems_DoubleReturn(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 1000)
	b := mustSeedProduct(t, store, "AB1234-2601-0002", 1000)
	orderID := seedLoanOrder(t, store, []*product.Product{a, b}, 1.0)

	_, err := cmds.ReturnItems(context.Background(), orderID, reqdto.ReturnItemsRequest{
		SKUs: []string{a.SKU()},
	})
	require.NoError(t, err)

	_, err = cmds.ReturnItems(context.Background(), orderID, reqdto.ReturnItemsRequest{
		SKUs: []string{a.SKU()},
	})
	assert.ErrorIs(t, err, commands.ErrLoanItemConflict)
}

func TestReturnItems_ClosedOrder(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 1000)
	orderID := seedLoanOrder(t, store, []*product.Product{a}, 1.0)

	_, err := cmds.ReturnItems(context.Background(), orderID, reqdto.ReturnItemsRequest{
		SKUs: []string{a.SKU()},
	})
	require.NoError(t, err)

	_, err = cmds.ReturnItems(context.Background(), orderID, reqdto.ReturnItemsRequest{
		SKUs: []string{a.SKU()},
	})
	assert.ErrorIs(t, err, commands.ErrLoanOrderClosed)
}

func TestReturnItems_OrderNotFound(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)

	_, err := cmds.ReturnItems(context.Background(), 42, reqdto.ReturnItemsRequest{
		SKUs: []string{"AB1234-2601-0001"},
	})
	assert.ErrorIs(t, err, commands.ErrLoanOrderNotFound)
}

func TestReturnItems_SoldWhileOnLoanStillRecordsReturn(t *testing.T) {
	store := newMemStore()
	clk := clock.NewMockClock(time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC))
	cmds := newLoanCommands(store, clk)
	a := mustSeedProduct(t, store, "AB1234-2601-0001", 1000)
	orderID := seedLoanOrder(t, store, []*product.Product{a}, 1.0)
	require.NoError(t, store.products[a.ID()].MarkSold())

	result, err := cmds.ReturnItems(context.Background(), orderID, reqdto.ReturnItemsRequest{
		SKUs: []string{a.SKU()},
	})
	require.NoError(t, err)

	assert.True(t, result.OrderClosed)
	// the catalog state wins, the product stays sold
	assert.Equal(t, product.StatusSold, store.products[a.ID()].Status())
}
