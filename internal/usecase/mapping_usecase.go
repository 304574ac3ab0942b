package usecase

import (
	"context"
	"strings"

	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

// MappingUseCase ведёт таблицы соответствий категорий и атрибутов источника
// сущностям удалённой платформы и решает, допускается ли запись к синхронизации.
type MappingUseCase struct {
	categoryRepo  CategoryMappingRepository
	attributeRepo AttributeMappingRepository
	logger        logger.Logger
}

func NewMappingUC(
	categoryRepo CategoryMappingRepository,
	attributeRepo AttributeMappingRepository,
	logger logger.Logger,
) *MappingUseCase {
	return &MappingUseCase{
		categoryRepo:  categoryRepo,
		attributeRepo: attributeRepo,
		logger:        logger,
	}
}

// Resolve сверяет категорию и метки атрибутов записи с таблицами соответствий.
// Отсутствующие строки создаются с пустым соответствием, чтобы оператор
// увидел их и заполнил. Метки сравниваются после обрезки пробелов.
func (m *MappingUseCase) Resolve(ctx context.Context, categoryName string, attributeLabels []string) (*MappingResolution, error) {
	const op = "MappingUseCase.Resolve"

	resolution := &MappingResolution{
		Attributes: make(map[string]ResolvedAttribute, len(attributeLabels)),
	}

	// Пустая категория не регистрируется: строка соответствия без имени
	// источника бессмысленна для оператора
	if trimmedName := strings.TrimSpace(categoryName); trimmedName == "" {
		resolution.UnmappedCategory = true
	} else {
		categoryMapping, err := m.categoryRepo.GetOrCreate(ctx, trimmedName)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		if categoryMapping.IsMapped {
			resolution.CategoryID = *categoryMapping.MagentoCategoryID
		} else {
			resolution.UnmappedCategory = true
		}
	}

	seen := make(map[string]struct{}, len(attributeLabels))
	for _, label := range attributeLabels {
		trimmed := strings.TrimSpace(label)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		attributeMapping, err := m.attributeRepo.GetOrCreate(ctx, trimmed)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		if attributeMapping.IsMapped {
			resolution.Attributes[trimmed] = ResolvedAttribute{
				Code: *attributeMapping.MagentoAttributeCode,
				Type: attributeMapping.MagentoAttributeType,
			}
		} else {
			resolution.UnmappedLabels = append(resolution.UnmappedLabels, trimmed)
		}
	}

	return resolution, nil
}

// ListCategoryMappings возвращает все соответствия категорий.
func (m *MappingUseCase) ListCategoryMappings(ctx context.Context) ([]CategoryMappingInfo, error) {
	const op = "MappingUseCase.ListCategoryMappings"

	mappings, err := m.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]CategoryMappingInfo, 0, len(mappings))
	for i := range mappings {
		result = append(result, NewCategoryMappingInfo(&mappings[i]))
	}

	return result, nil
}

// SaveCategoryMapping задаёт или сбрасывает соответствие категории.
// Признак isMapped выводится из заполненности идентификатора и
// никогда не принимается извне.
func (m *MappingUseCase) SaveCategoryMapping(ctx context.Context, req *SaveCategoryMappingReq) (*CategoryMappingInfo, error) {
	const op = "MappingUseCase.SaveCategoryMapping"

	sourceName := strings.TrimSpace(req.SourceName)
	if sourceName == "" {
		return nil, e.Wrap(op, e.ErrNameRequired)
	}

	saved, err := m.categoryRepo.Save(ctx, &domain.CategoryMapping{
		SourceName:        sourceName,
		MagentoCategoryID: req.MagentoCategoryID,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	info := NewCategoryMappingInfo(saved)
	return &info, nil
}

// ListAttributeMappings возвращает все соответствия атрибутов.
func (m *MappingUseCase) ListAttributeMappings(ctx context.Context) ([]AttributeMappingInfo, error) {
	const op = "MappingUseCase.ListAttributeMappings"

	mappings, err := m.attributeRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]AttributeMappingInfo, 0, len(mappings))
	for i := range mappings {
		result = append(result, NewAttributeMappingInfo(&mappings[i]))
	}

	return result, nil
}

// SaveAttributeMapping задаёт или сбрасывает соответствие атрибута.
func (m *MappingUseCase) SaveAttributeMapping(ctx context.Context, req *SaveAttributeMappingReq) (*AttributeMappingInfo, error) {
	const op = "MappingUseCase.SaveAttributeMapping"

	sourceLabel := strings.TrimSpace(req.SourceLabel)
	if sourceLabel == "" {
		return nil, e.Wrap(op, e.ErrNameRequired)
	}

	attributeType := req.MagentoAttributeType
	switch attributeType {
	case "":
		attributeType = domain.AttributeTypeSelect
	case domain.AttributeTypeSelect, domain.AttributeTypeText, domain.AttributeTypeTextarea:
	default:
		return nil, e.Wrap(op, e.ErrStatusBadRequest)
	}

	saved, err := m.attributeRepo.Save(ctx, &domain.AttributeMapping{
		SourceLabel:          sourceLabel,
		MagentoAttributeCode: req.MagentoAttributeCode,
		MagentoAttributeType: attributeType,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	info := NewAttributeMappingInfo(saved)
	return &info, nil
}
