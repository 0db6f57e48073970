package queries

import (
	"context"

	"github.com/google/uuid"

	"stockflow/internal/infra/db"
	"stockflow/internal/infra/readstore"
	"stockflow/internal/pkg/errs"
	"stockflow/internal/usecase/shared"
)

var (
	ErrUserNotFound = errs.New("user not found")
	ErrUserInactive = errs.New("user inactive")
)

type UserQueries interface {
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error)
}

type userQueriesImpl struct {
	uow   shared.UnitOfWork
	store *readstore.UserReadStore
}

func NewUserQueries(uow shared.UnitOfWork) UserQueries {
	return &userQueriesImpl{
		uow:   uow,
		store: readstore.NewUserReadStore(),
	}
}

func (q *userQueriesImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error) {
	var view *AuthorizedUserView
	err := q.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		row, err := q.store.FindByID(ctx, dbtx, userID)
		if err != nil {
			return err
		}
		view = &AuthorizedUserView{
			ID:       row.ID,
			Email:    row.Email,
			Role:     row.Role,
			IsActive: row.IsActive,
		}
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !view.IsActive {
		return nil, ErrUserInactive
	}

	return view, nil
}
