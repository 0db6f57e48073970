package response

import "stockflow/internal/usecase/queries"

type CreateProductResponse struct {
	ID  int64  `json:"id"`
	SKU string `json:"sku"`
}

type ProductListResponse struct {
	Products []queries.ProductView `json:"products"`
}
