package repository

import (
	"context"

	"stockflow/internal/infra"
	"stockflow/internal/infra/db"
)

type WarehouseRepository struct{}

func NewWarehouseRepository() *WarehouseRepository {
	return &WarehouseRepository{}
}

func (r *WarehouseRepository) Create(ctx context.Context, dbtx db.DBTX, code, name string) (int64, error) {
	var id int64
	err := dbtx.QueryRow(ctx,
		`INSERT INTO warehouses (code, name) VALUES ($1, $2) RETURNING id`,
		code, name,
	).Scan(&id)
	if err != nil {
		return 0, infra.WrapDBErr("failed to create warehouse", err)
	}
	return id, nil
}
