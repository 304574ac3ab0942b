package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/internal/repository/pgdb/converter"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/tr"
)

// CategoryMappingRepo реализует репозиторий соответствий категорий.
// Признак is_mapped пересчитывается в SQL при каждой записи и никогда
// не принимается от вызывающей стороны.
type CategoryMappingRepo struct {
	pool *pgxpool.Pool
	conv converter.MappingConverter
}

func NewCategoryMappingRepo(pool *pgxpool.Pool, conv converter.MappingConverter) *CategoryMappingRepo {
	return &CategoryMappingRepo{
		pool: pool,
		conv: conv,
	}
}

// GetOrCreate возвращает соответствие по имени категории, регистрируя
// незаполненную строку при первой встрече имени.
func (r *CategoryMappingRepo) GetOrCreate(ctx context.Context, sourceName string) (*domain.CategoryMapping, error) {
	query := `
		INSERT INTO category_mappings (source_name)
		VALUES ($1)
		ON CONFLICT (source_name)
		DO UPDATE SET source_name = EXCLUDED.source_name
		RETURNING id, source_name, magento_category_id, is_mapped, created_at, updated_at
	`

	var model converter.CategoryMappingModel
	err := tr.Executor(ctx, r.pool).QueryRow(ctx, query, sourceName).Scan(
		&model.ID, &model.SourceName, &model.MagentoCategoryID,
		&model.IsMapped, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.CategoryToEntity(&model), nil
}

// Save задаёт или сбрасывает удалённый идентификатор категории.
func (r *CategoryMappingRepo) Save(ctx context.Context, mapping *domain.CategoryMapping) (*domain.CategoryMapping, error) {
	query := `
		INSERT INTO category_mappings (source_name, magento_category_id, is_mapped)
		VALUES ($1, $2, $2 IS NOT NULL)
		ON CONFLICT (source_name)
		DO UPDATE SET
			magento_category_id = EXCLUDED.magento_category_id,
			is_mapped = EXCLUDED.magento_category_id IS NOT NULL,
			updated_at = NOW()
		RETURNING id, source_name, magento_category_id, is_mapped, created_at, updated_at
	`

	var model converter.CategoryMappingModel
	err := tr.Executor(ctx, r.pool).QueryRow(ctx, query, mapping.SourceName, mapping.MagentoCategoryID).Scan(
		&model.ID, &model.SourceName, &model.MagentoCategoryID,
		&model.IsMapped, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.CategoryToEntity(&model), nil
}

// List возвращает все соответствия категорий.
func (r *CategoryMappingRepo) List(ctx context.Context) ([]domain.CategoryMapping, error) {
	query := `
		SELECT id, source_name, magento_category_id, is_mapped, created_at, updated_at
		FROM category_mappings
		ORDER BY source_name
	`

	rows, err := tr.Executor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.CategoryMapping, 0)
	for rows.Next() {
		var model converter.CategoryMappingModel
		if err := rows.Scan(
			&model.ID, &model.SourceName, &model.MagentoCategoryID,
			&model.IsMapped, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *r.conv.CategoryToEntity(&model))
	}

	return result, nil
}
