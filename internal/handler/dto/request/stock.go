package request

type CreateWarehouseRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type StockMoveRequest struct {
	ProductID   int64 `json:"product_id" binding:"required"`
	WarehouseID int64 `json:"warehouse_id" binding:"required"`
	Qty         int64 `json:"qty" binding:"required,gt=0"`
}
