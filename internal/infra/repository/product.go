package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"stockflow/internal/domain/product"
	"stockflow/internal/infra"
	"stockflow/internal/infra/db"
	"stockflow/internal/pkg/pgconv"
)

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

const createProductQuery = `
INSERT INTO products (
    sku, name, category, detail, spec_weight, unit,
    cost_price, sale_price, tax_included, remark,
    status, borrower, qr_payload, login_date
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id
`

func (r *ProductRepository) Create(ctx context.Context, dbtx db.DBTX, p *product.Product) (int64, error) {
	var id int64
	err := dbtx.QueryRow(ctx, createProductQuery,
		p.SKU(), p.Name(), p.Category(), p.Detail(), p.SpecWeight(), p.Unit(),
		p.CostPrice(), p.SalePrice(), p.TaxIncluded(), p.Remark(),
		p.Status().String(), p.Borrower(), p.QRPayload(), p.LoginDate(),
	).Scan(&id)
	if err != nil {
		return 0, infra.WrapDBErr("failed to create product", err)
	}
	return id, nil
}

const updateProductQuery = `
UPDATE products SET
    name = $2, category = $3, detail = $4, spec_weight = $5,
    cost_price = $6, sale_price = $7, tax_included = $8, remark = $9,
    login_date = $10, updated_at = now()
WHERE id = $1
`

// Update rewrites the editable catalog fields. The SKU is immutable and the
// loan state fields are owned by UpdateLoanState.
func (r *ProductRepository) Update(ctx context.Context, dbtx db.DBTX, p *product.Product) error {
	tag, err := dbtx.Exec(ctx, updateProductQuery,
		p.ID(), p.Name(), p.Category(), p.Detail(), p.SpecWeight(),
		p.CostPrice(), p.SalePrice(), p.TaxIncluded(), p.Remark(), p.LoginDate(),
	)
	if err != nil {
		return infra.WrapDBErr("failed to update product", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "product not found", nil)
	}
	return nil
}

func (r *ProductRepository) SKUExists(ctx context.Context, dbtx db.DBTX, sku string) (bool, error) {
	var exists bool
	err := dbtx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE sku = $1)`, sku).Scan(&exists)
	if err != nil {
		return false, infra.WrapDBErr("failed to check sku existence", err)
	}
	return exists, nil
}

const findBySKUsForUpdateQuery = `
SELECT id, sku, name, category, detail, spec_weight, unit,
       cost_price, sale_price, tax_included, remark,
       status, borrower, qr_payload, login_date, created_at, updated_at
FROM products
WHERE sku = ANY($1)
FOR UPDATE
`

func (r *ProductRepository) FindBySKUsForUpdate(ctx context.Context, dbtx db.DBTX, skus []string) ([]*product.Product, error) {
	rows, err := dbtx.Query(ctx, findBySKUsForUpdateQuery, skus)
	if err != nil {
		return nil, infra.WrapDBErr("failed to lock products by sku", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, infra.WrapDBErr("failed to scan product row", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapDBErr("failed to read product rows", err)
	}
	return products, nil
}

const findByIDForUpdateQuery = `
SELECT id, sku, name, category, detail, spec_weight, unit,
       cost_price, sale_price, tax_included, remark,
       status, borrower, qr_payload, login_date, created_at, updated_at
FROM products
WHERE id = $1
FOR UPDATE
`

func (r *ProductRepository) FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id int64) (*product.Product, error) {
	p, err := scanProduct(dbtx.QueryRow(ctx, findByIDForUpdateQuery, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "product not found", err)
		}
		return nil, infra.WrapDBErr("failed to lock product by id", err)
	}
	return p, nil
}

const updateLoanStateQuery = `
UPDATE products SET status = $2, borrower = $3, updated_at = now()
WHERE id = $1
`

func (r *ProductRepository) UpdateLoanState(ctx context.Context, dbtx db.DBTX, id int64, status product.Status, borrower string) error {
	tag, err := dbtx.Exec(ctx, updateLoanStateQuery, id, status.String(), borrower)
	if err != nil {
		return infra.WrapDBErr("failed to update product loan state", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "product not found", nil)
	}
	return nil
}

func (r *ProductRepository) IncrementLabelPrinted(ctx context.Context, dbtx db.DBTX, sku string) error {
	tag, err := dbtx.Exec(ctx,
		`UPDATE products SET label_printed_count = label_printed_count + 1, updated_at = now() WHERE sku = $1`, sku)
	if err != nil {
		return infra.WrapDBErr("failed to increment label printed count", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "product not found", nil)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, dbtx db.DBTX, id int64) error {
	tag, err := dbtx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return infra.WrapDBErr("failed to delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "product not found", nil)
	}
	return nil
}

func (r *ProductRepository) HasLoanReferences(ctx context.Context, dbtx db.DBTX, id int64) (bool, error) {
	var exists bool
	err := dbtx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM loan_items WHERE product_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, infra.WrapDBErr("failed to check loan references", err)
	}
	return exists, nil
}

func (r *ProductRepository) HasStockMoveReferences(ctx context.Context, dbtx db.DBTX, id int64) (bool, error) {
	var exists bool
	err := dbtx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock_moves WHERE product_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, infra.WrapDBErr("failed to check stock move references", err)
	}
	return exists, nil
}

type productScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row productScanner) (*product.Product, error) {
	var (
		id                   int64
		sku, name            string
		category, detail     string
		specWeight, unit     string
		costPrice, salePrice int64
		taxIncluded          bool
		remark, statusStr    string
		borrower, qrPayload  string
		loginDate            string
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &sku, &name, &category, &detail, &specWeight, &unit,
		&costPrice, &salePrice, &taxIncluded, &remark,
		&statusStr, &borrower, &qrPayload, &loginDate, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	status, err := product.NewStatus(statusStr)
	if err != nil {
		return nil, err
	}

	return product.ReconstructProduct(
		id, sku, name, category, detail, specWeight, unit,
		costPrice, salePrice, taxIncluded, remark,
		status, borrower, qrPayload, loginDate,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}
