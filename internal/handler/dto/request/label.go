package request

type MarkLabelPrintedRequest struct {
	SKU string `json:"sku" binding:"required"`
}
