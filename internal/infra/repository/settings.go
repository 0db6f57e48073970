package repository

import (
	"context"

	"stockflow/internal/infra"
	"stockflow/internal/infra/db"
)

type SettingsRepository struct{}

func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

const setSettingQuery = `
INSERT INTO settings (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = excluded.value
`

func (r *SettingsRepository) Set(ctx context.Context, dbtx db.DBTX, key, value string) error {
	if _, err := dbtx.Exec(ctx, setSettingQuery, key, value); err != nil {
		return infra.WrapDBErr("failed to set setting", err)
	}
	return nil
}

const setSettingIfAbsentQuery = `
INSERT INTO settings (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO NOTHING
`

func (r *SettingsRepository) SetIfAbsent(ctx context.Context, dbtx db.DBTX, key, value string) (bool, error) {
	tag, err := dbtx.Exec(ctx, setSettingIfAbsentQuery, key, value)
	if err != nil {
		return false, infra.WrapDBErr("failed to set setting", err)
	}
	return tag.RowsAffected() > 0, nil
}
