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

// EntryRepo реализует репозиторий записей каталога поверх PostgreSQL.
type EntryRepo struct {
	pool *pgxpool.Pool
	conv converter.EntryConverter
}

func NewEntryRepo(pool *pgxpool.Pool, conv converter.EntryConverter) *EntryRepo {
	return &EntryRepo{
		pool: pool,
		conv: conv,
	}
}

// UpsertBatch идемпотентно создаёт или обновляет записи по артикулу.
// Статус синхронизации существующей записи не затрагивается: обновление
// никогда не откатывает результат модерации обратно в pending_review.
func (r *EntryRepo) UpsertBatch(ctx context.Context, entries []*domain.CatalogEntry) error {
	executor := tr.Executor(ctx, r.pool)

	query := `
		INSERT INTO catalog_entries
			(sku, name, description, price, stock_quantity, category, brand, source_url, attributes, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (sku)
		DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			stock_quantity = EXCLUDED.stock_quantity,
			category = EXCLUDED.category,
			brand = EXCLUDED.brand,
			source_url = EXCLUDED.source_url,
			attributes = EXCLUDED.attributes,
			images = EXCLUDED.images,
			updated_at = NOW()
	`

	for _, entry := range entries {
		attributes, err := r.conv.AttributesToJSON(entry.Attributes)
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		images, err := r.conv.ImagesToJSON(entry.Images)
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		_, err = executor.Exec(ctx, query,
			entry.Sku, entry.Name, entry.Description, entry.Price, entry.StockQuantity,
			entry.Category, entry.Brand, entry.SourceURL, attributes, images,
		)
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	return nil
}

// GetBySku возвращает запись каталога по артикулу.
func (r *EntryRepo) GetBySku(ctx context.Context, sku string) (*domain.CatalogEntry, error) {
	query := `
		SELECT id, sku, name, description, price, stock_quantity, category, brand,
			source_url, attributes, images, sync_status, sync_error_message,
			created_at, updated_at
		FROM catalog_entries
		WHERE sku = $1
	`

	var model converter.CatalogEntryModel
	err := tr.Executor(ctx, r.pool).QueryRow(ctx, query, sku).Scan(
		&model.ID, &model.Sku, &model.Name, &model.Description, &model.Price,
		&model.StockQuantity, &model.Category, &model.Brand, &model.SourceURL,
		&model.Attributes, &model.Images, &model.SyncStatus, &model.SyncErrorMessage,
		&model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrEntryNotFound)
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	entry, err := r.conv.ToEntity(&model)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return entry, nil
}

// UpdateSyncStatus записывает результат прогона синхронизации.
func (r *EntryRepo) UpdateSyncStatus(ctx context.Context, sku string, status domain.SyncStatus, errMsg string) error {
	query := `
		UPDATE catalog_entries
		SET sync_status = $2,
			sync_error_message = NULLIF($3, ''),
			updated_at = NOW()
		WHERE sku = $1
	`

	tag, err := tr.Executor(ctx, r.pool).Exec(ctx, query, sku, string(status), errMsg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrEntryNotFound)
	}

	return nil
}
