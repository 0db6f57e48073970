package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "stockflow/internal/handler/dto/request"
	"stockflow/internal/usecase/commands"
	"stockflow/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

type LabelHandler struct {
	productCommands commands.ProductCommands
	productQueries  queries.ProductQueries
}

func NewLabelHandler(productCommands commands.ProductCommands, productQueries queries.ProductQueries) *LabelHandler {
	return &LabelHandler{
		productCommands: productCommands,
		productQueries:  productQueries,
	}
}

// QRCode renders the signed label payload of a product as a PNG.
func (h *LabelHandler) QRCode(c *gin.Context) {
	sku := c.Param("sku")

	view, err := h.productQueries.GetBySKU(c.Request.Context(), sku)
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
	if view.QRPayload == "" {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product has no label payload",
		})
		return
	}

	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxQRSize {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid size",
			})
			return
		}
		size = n
	}

	png, err := qrcode.Encode(view.QRPayload, qrcode.Medium, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *LabelHandler) MarkPrinted(c *gin.Context) {
	var req reqdto.MarkLabelPrintedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.productCommands.MarkLabelPrinted(c.Request.Context(), req.SKU); err != nil {
		if errors.Is(err, commands.ErrProductNotFound) {
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

	c.Status(http.StatusNoContent)
}
