package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/internal/repository/pgdb/converter"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/tr"
)

// StoreRepo реализует репозиторий витрин продавцов поверх PostgreSQL.
type StoreRepo struct {
	pool *pgxpool.Pool
	conv converter.StoreConverter
}

func NewStoreRepo(pool *pgxpool.Pool, conv converter.StoreConverter) *StoreRepo {
	return &StoreRepo{
		pool: pool,
		conv: conv,
	}
}

// CodeExists проверяет занятость локального кода витрины.
func (r *StoreRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM stores WHERE code = $1)`

	var exists bool
	if err := tr.Executor(ctx, r.pool).QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return exists, nil
}

// GetByCode возвращает витрину по локальному коду.
func (r *StoreRepo) GetByCode(ctx context.Context, code string) (*domain.Store, error) {
	query := `
		SELECT id, owner_id, name, code, website_id, store_group_id, store_view_id, root_category_id, created_at
		FROM stores
		WHERE code = $1
	`

	var model converter.StoreModel
	err := tr.Executor(ctx, r.pool).QueryRow(ctx, query, code).Scan(
		&model.ID, &model.OwnerID, &model.Name, &model.Code,
		&model.WebsiteID, &model.StoreGroupID, &model.StoreViewID,
		&model.RootCategoryID, &model.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrStoreNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(&model), nil
}

// Create сохраняет витрину. Вызывается только после полного успеха
// создания на удалённой платформе.
func (r *StoreRepo) Create(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	query := `
		INSERT INTO stores (owner_id, name, code, website_id, store_group_id, store_view_id, root_category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, owner_id, name, code, website_id, store_group_id, store_view_id, root_category_id, created_at
	`

	var model converter.StoreModel
	err := tr.Executor(ctx, r.pool).QueryRow(ctx, query,
		store.OwnerID, store.Name, store.Code,
		store.WebsiteID, store.StoreGroupID, store.StoreViewID, store.RootCategoryID,
	).Scan(
		&model.ID, &model.OwnerID, &model.Name, &model.Code,
		&model.WebsiteID, &model.StoreGroupID, &model.StoreViewID,
		&model.RootCategoryID, &model.CreatedAt,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.ToEntity(&model), nil
}
