package response

import "stockflow/internal/usecase/queries"

type CreateWarehouseResponse struct {
	ID int64 `json:"id"`
}

type StockListResponse struct {
	Stocks []queries.StockView `json:"stocks"`
}

type WarehouseListResponse struct {
	Warehouses []queries.WarehouseView `json:"warehouses"`
}
