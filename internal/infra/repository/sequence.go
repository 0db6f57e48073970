package repository

import (
	"context"

	"stockflow/internal/infra"
	"stockflow/internal/infra/db"
	"stockflow/internal/usecase/shared"
)

// The upsert increments under the row lock, so concurrent transactions
// serialize per scope and every caller sees a distinct value. The first
// allocation writes next=2 and RETURNING next-1 hands back 1.
const nextSequenceQuery = `
INSERT INTO sequences (scope, next)
VALUES ($1, 2)
ON CONFLICT (scope) DO UPDATE SET next = sequences.next + 1
RETURNING next - 1
`

type SequenceRepository struct{}

func NewSequenceRepository() *SequenceRepository {
	return &SequenceRepository{}
}

func (r *SequenceRepository) Next(ctx context.Context, dbtx db.DBTX, scope string) (int64, error) {
	if scope == "" {
		return 0, shared.ErrEmptyScope
	}

	var n int64
	if err := dbtx.QueryRow(ctx, nextSequenceQuery, scope).Scan(&n); err != nil {
		return 0, infra.WrapDBErr("failed to allocate sequence number", err)
	}
	return n, nil
}
