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

type ProductHandler struct {
	productCommands commands.ProductCommands
	productQueries  queries.ProductQueries
}

func NewProductHandler(productCommands commands.ProductCommands, productQueries queries.ProductQueries) *ProductHandler {
	return &ProductHandler{
		productCommands: productCommands,
		productQueries:  productQueries,
	}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req reqdto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.productCommands.CreateProduct(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidProductInput):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid product input",
			})
		case errors.Is(err, commands.ErrCompanyNotConfigured):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Company is not configured yet",
			})
		case errors.Is(err, commands.ErrSKUConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "SKU conflict, please retry",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.CreateProductResponse{
		ID:  result.ID,
		SKU: result.SKU,
	})
}

func (h *ProductHandler) List(c *gin.Context) {
	keyword := c.Query("keyword")
	excludeSold := c.Query("exclude_sold") == "true"
	limit := parseInt32Query(c, "limit", 50)
	offset := parseInt32Query(c, "offset", 0)

	products, err := h.productQueries.Search(c.Request.Context(), keyword, excludeSold, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.ProductListResponse{Products: products})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, err := h.productQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
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

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req reqdto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.productCommands.UpdateProduct(c.Request.Context(), id, req); err != nil {
		switch {
		case errors.Is(err, commands.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, commands.ErrInvalidProductInput):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid product input",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.productCommands.DeleteProduct(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, commands.ErrProductReferenced):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Product has loan or stock history and cannot be deleted",
			})
		case errors.Is(err, commands.ErrDeletionCheckFailed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Could not verify product references, deletion refused",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) MarkSold(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.productCommands.MarkSold(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, commands.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return 0, false
	}
	return id, true
}

func parseInt32Query(c *gin.Context, key string, def int32) int32 {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 0 {
		return def
	}
	return int32(n)
}
