package readstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"stockflow/internal/infra"
	"stockflow/internal/infra/db"
	"stockflow/internal/pkg/pgconv"
)

// ProductRow is the flat read model scanned straight out of products.
type ProductRow struct {
	ID                int64
	SKU               string
	Name              string
	Category          string
	Detail            string
	SpecWeight        string
	Unit              string
	CostPrice         int64
	SalePrice         int64
	TaxIncluded       bool
	Remark            string
	Status            string
	Borrower          string
	QRPayload         string
	LabelPrintedCount int64
	LoginDate         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const productColumns = `
id, sku, name, category, detail, spec_weight, unit,
cost_price, sale_price, tax_included, remark,
status, borrower, qr_payload, label_printed_count, login_date, created_at, updated_at
`

type ProductReadStore struct{}

func NewProductReadStore() *ProductReadStore {
	return &ProductReadStore{}
}

func (s *ProductReadStore) FindByID(ctx context.Context, dbtx db.DBTX, id int64) (*ProductRow, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProductRow(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "product not found", err)
		}
		return nil, infra.WrapDBErr("failed to find product by id", err)
	}
	return p, nil
}

func (s *ProductReadStore) FindBySKU(ctx context.Context, dbtx db.DBTX, sku string) (*ProductRow, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
	p, err := scanProductRow(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "product not found", err)
		}
		return nil, infra.WrapDBErr("failed to find product by sku", err)
	}
	return p, nil
}

func (s *ProductReadStore) FindBySKUs(ctx context.Context, dbtx db.DBTX, skus []string) ([]ProductRow, error) {
	rows, err := dbtx.Query(ctx, `SELECT `+productColumns+` FROM products WHERE sku = ANY($1)`, skus)
	if err != nil {
		return nil, infra.WrapDBErr("failed to find products by skus", err)
	}
	defer rows.Close()

	var result []ProductRow
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, infra.WrapDBErr("failed to scan product row", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapDBErr("failed to read product rows", err)
	}
	return result, nil
}

// Search filters by a keyword over sku/name/category/detail, optionally
// hiding sold products, newest first with offset pagination.
const searchProductsQuery = `
SELECT ` + productColumns + `
FROM products
WHERE ($1 = '' OR sku ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%'
       OR category ILIKE '%' || $1 || '%' OR detail ILIKE '%' || $1 || '%')
  AND (NOT $2 OR status <> 'sold')
ORDER BY id DESC
LIMIT $3 OFFSET $4
`

func (s *ProductReadStore) Search(ctx context.Context, dbtx db.DBTX, keyword string, excludeSold bool, limit, offset int32) ([]ProductRow, error) {
	rows, err := dbtx.Query(ctx, searchProductsQuery, keyword, excludeSold, limit, offset)
	if err != nil {
		return nil, infra.WrapDBErr("failed to search products", err)
	}
	defer rows.Close()

	var result []ProductRow
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, infra.WrapDBErr("failed to scan product row", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapDBErr("failed to read product rows", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProductRow(row rowScanner) (*ProductRow, error) {
	var (
		p         ProductRow
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.Detail, &p.SpecWeight, &p.Unit,
		&p.CostPrice, &p.SalePrice, &p.TaxIncluded, &p.Remark,
		&p.Status, &p.Borrower, &p.QRPayload, &p.LabelPrintedCount, &p.LoginDate,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	p.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &p, nil
}
