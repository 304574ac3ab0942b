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

// AttributeMappingRepo реализует репозиторий соответствий атрибутов.
type AttributeMappingRepo struct {
	pool *pgxpool.Pool
	conv converter.MappingConverter
}

func NewAttributeMappingRepo(pool *pgxpool.Pool, conv converter.MappingConverter) *AttributeMappingRepo {
	return &AttributeMappingRepo{
		pool: pool,
		conv: conv,
	}
}

// GetOrCreate возвращает соответствие по метке атрибута, регистрируя
// незаполненную строку при первой встрече метки.
func (r *AttributeMappingRepo) GetOrCreate(ctx context.Context, sourceLabel string) (*domain.AttributeMapping, error) {
	query := `
		INSERT INTO attribute_mappings (source_label)
		VALUES ($1)
		ON CONFLICT (source_label)
		DO UPDATE SET source_label = EXCLUDED.source_label
		RETURNING id, source_label, magento_attribute_code, magento_attribute_type,
			is_mapped, created_at, updated_at
	`

	var model converter.AttributeMappingModel
	err := tr.Executor(ctx, r.pool).QueryRow(ctx, query, sourceLabel).Scan(
		&model.ID, &model.SourceLabel, &model.MagentoAttributeCode,
		&model.MagentoAttributeType, &model.IsMapped, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.AttributeToEntity(&model), nil
}

// Save задаёт или сбрасывает код и тип удалённого атрибута.
// is_mapped истинен только при заполненных коде и типе.
func (r *AttributeMappingRepo) Save(ctx context.Context, mapping *domain.AttributeMapping) (*domain.AttributeMapping, error) {
	query := `
		INSERT INTO attribute_mappings (source_label, magento_attribute_code, magento_attribute_type, is_mapped)
		VALUES ($1, $2, $3, $2 IS NOT NULL AND $3 <> '')
		ON CONFLICT (source_label)
		DO UPDATE SET
			magento_attribute_code = EXCLUDED.magento_attribute_code,
			magento_attribute_type = EXCLUDED.magento_attribute_type,
			is_mapped = EXCLUDED.magento_attribute_code IS NOT NULL AND EXCLUDED.magento_attribute_type <> '',
			updated_at = NOW()
		RETURNING id, source_label, magento_attribute_code, magento_attribute_type,
			is_mapped, created_at, updated_at
	`

	var model converter.AttributeMappingModel
	err := tr.Executor(ctx, r.pool).QueryRow(ctx, query,
		mapping.SourceLabel, mapping.MagentoAttributeCode, mapping.MagentoAttributeType,
	).Scan(
		&model.ID, &model.SourceLabel, &model.MagentoAttributeCode,
		&model.MagentoAttributeType, &model.IsMapped, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return r.conv.AttributeToEntity(&model), nil
}

// List возвращает все соответствия атрибутов.
func (r *AttributeMappingRepo) List(ctx context.Context) ([]domain.AttributeMapping, error) {
	query := `
		SELECT id, source_label, magento_attribute_code, magento_attribute_type,
			is_mapped, created_at, updated_at
		FROM attribute_mappings
		ORDER BY source_label
	`

	rows, err := tr.Executor(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.AttributeMapping, 0)
	for rows.Next() {
		var model converter.AttributeMappingModel
		if err := rows.Scan(
			&model.ID, &model.SourceLabel, &model.MagentoAttributeCode,
			&model.MagentoAttributeType, &model.IsMapped, &model.CreatedAt, &model.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *r.conv.AttributeToEntity(&model))
	}

	return result, nil
}
