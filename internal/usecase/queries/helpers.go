package queries

import "stockflow/internal/infra"

func isNotFound(err error) bool {
	return infra.IsKind(err, infra.KindNotFound)
}
