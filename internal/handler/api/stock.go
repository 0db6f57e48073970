package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "stockflow/internal/handler/dto/request"
	resdto "stockflow/internal/handler/dto/response"
	"stockflow/internal/handler/httperr"
	"stockflow/internal/usecase/commands"
	"stockflow/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	stockCommands commands.StockCommands
	stockQueries  queries.StockQueries
}

func NewStockHandler(stockCommands commands.StockCommands, stockQueries queries.StockQueries) *StockHandler {
	return &StockHandler{
		stockCommands: stockCommands,
		stockQueries:  stockQueries,
	}
}

func (h *StockHandler) CreateWarehouse(c *gin.Context) {
	var req reqdto.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	id, err := h.stockCommands.CreateWarehouse(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, commands.ErrWarehouseExists) {
			httperr.AbortWithError(c, http.StatusConflict, err, "Warehouse code already exists", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusCreated, resdto.CreateWarehouseResponse{ID: id})
}

func (h *StockHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.stockQueries.ListWarehouses(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.WarehouseListResponse{Warehouses: warehouses})
}

func (h *StockHandler) List(c *gin.Context) {
	var warehouseID int64
	if raw := c.Query("warehouse_id"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			httperr.AbortWithError(c, http.StatusBadRequest, errors.New("invalid warehouse_id"), "Invalid warehouse ID", nil)
			return
		}
		warehouseID = n
	}

	stocks, err := h.stockQueries.List(c.Request.Context(), warehouseID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.StockListResponse{Stocks: stocks})
}

func (h *StockHandler) Inbound(c *gin.Context) {
	req, ok := bindMoveRequest(c)
	if !ok {
		return
	}

	if err := h.stockCommands.Inbound(c.Request.Context(), req); err != nil {
		abortMoveError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *StockHandler) Outbound(c *gin.Context) {
	req, ok := bindMoveRequest(c)
	if !ok {
		return
	}

	if err := h.stockCommands.Outbound(c.Request.Context(), req); err != nil {
		abortMoveError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func bindMoveRequest(c *gin.Context) (reqdto.StockMoveRequest, bool) {
	var req reqdto.StockMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return req, false
	}
	return req, true
}

func abortMoveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidMoveRequest):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid stock move request", nil)
	case errors.Is(err, commands.ErrInsufficientStock):
		httperr.AbortWithError(c, http.StatusConflict, err, "Insufficient stock on hand", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
