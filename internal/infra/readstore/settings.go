package readstore

import (
	"context"

	"stockflow/internal/infra"
	"stockflow/internal/infra/db"
	"stockflow/internal/pkg/pgconv"
)

type SettingsReadStore struct{}

func NewSettingsReadStore() *SettingsReadStore {
	return &SettingsReadStore{}
}

func (s *SettingsReadStore) Get(ctx context.Context, dbtx db.DBTX, key string) (string, error) {
	var value string
	err := dbtx.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return "", infra.NewRepoErr(infra.KindNotFound, "setting not found", err)
		}
		return "", infra.WrapDBErr("failed to get setting", err)
	}
	return value, nil
}
