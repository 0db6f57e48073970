package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "stockflow/internal/handler/dto/request"
	resdto "stockflow/internal/handler/dto/response"
	"stockflow/internal/usecase/commands"
	"stockflow/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type LoanHandler struct {
	loanCommands commands.LoanCommands
	loanQueries  queries.LoanQueries
}

func NewLoanHandler(loanCommands commands.LoanCommands, loanQueries queries.LoanQueries) *LoanHandler {
	return &LoanHandler{
		loanCommands: loanCommands,
		loanQueries:  loanQueries,
	}
}

func (h *LoanHandler) Create(c *gin.Context) {
	var req reqdto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.loanCommands.CreateLoan(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrLoanProductsMissing):
			c.JSON(http.StatusNotFound, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, commands.ErrLoanProductsBusy):
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, commands.ErrLoanValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromCreateLoanResult(result))
}

func (h *LoanHandler) List(c *gin.Context) {
	limit := parseInt32Query(c, "limit", 50)
	offset := parseInt32Query(c, "offset", 0)

	loans, err := h.loanQueries.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.LoanListResponse{Loans: loans})
}

func (h *LoanHandler) Get(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	view, err := h.loanQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrLoanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Loan order not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *LoanHandler) ReturnItems(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req reqdto.ReturnItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.loanCommands.ReturnItems(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrLoanOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Loan order not found",
			})
		case errors.Is(err, commands.ErrLoanOrderClosed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Loan order is already closed",
			})
		case errors.Is(err, commands.ErrLoanItemConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, commands.ErrLoanValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.ReturnItemsResponse{
		ReturnedSKUs: result.ReturnedSKUs,
		OrderClosed:  result.OrderClosed,
	})
}

func parseOrderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid loan order ID",
		})
		return 0, false
	}
	return id, true
}
