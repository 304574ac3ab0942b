package converter

import (
	"encoding/json"

	"github.com/storeforge/backend/internal/domain"
)

// attributeJSON — элемент JSONB-массива атрибутов записи каталога.
type attributeJSON struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// EntryConverter преобразует записи каталога между domain и моделью PostgreSQL.
type EntryConverter struct{}

func (EntryConverter) ToEntity(model *CatalogEntryModel) (*domain.CatalogEntry, error) {
	var rawAttributes []attributeJSON
	if len(model.Attributes) > 0 {
		if err := json.Unmarshal(model.Attributes, &rawAttributes); err != nil {
			return nil, err
		}
	}

	attributes := make([]domain.AttributeValue, 0, len(rawAttributes))
	for _, attr := range rawAttributes {
		attributes = append(attributes, domain.AttributeValue{Label: attr.Label, Value: attr.Value})
	}

	var images []string
	if len(model.Images) > 0 {
		if err := json.Unmarshal(model.Images, &images); err != nil {
			return nil, err
		}
	}

	errorMessage := ""
	if model.SyncErrorMessage != nil {
		errorMessage = *model.SyncErrorMessage
	}

	return &domain.CatalogEntry{
		ID:               model.ID,
		Sku:              model.Sku,
		Name:             model.Name,
		Description:      model.Description,
		Price:            model.Price,
		StockQuantity:    model.StockQuantity,
		Category:         model.Category,
		Brand:            model.Brand,
		SourceURL:        model.SourceURL,
		Attributes:       attributes,
		Images:           images,
		SyncStatus:       domain.SyncStatus(model.SyncStatus),
		SyncErrorMessage: errorMessage,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}, nil
}

// AttributesToJSON сериализует атрибуты с сохранением порядка поступления.
func (EntryConverter) AttributesToJSON(attributes []domain.AttributeValue) ([]byte, error) {
	raw := make([]attributeJSON, 0, len(attributes))
	for _, attr := range attributes {
		raw = append(raw, attributeJSON{Label: attr.Label, Value: attr.Value})
	}

	return json.Marshal(raw)
}

func (EntryConverter) ImagesToJSON(images []string) ([]byte, error) {
	if images == nil {
		images = []string{}
	}

	return json.Marshal(images)
}

// MappingConverter преобразует соответствия категорий и атрибутов.
type MappingConverter struct{}

func (MappingConverter) CategoryToEntity(model *CategoryMappingModel) *domain.CategoryMapping {
	return &domain.CategoryMapping{
		ID:                model.ID,
		SourceName:        model.SourceName,
		MagentoCategoryID: model.MagentoCategoryID,
		IsMapped:          model.IsMapped,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func (MappingConverter) AttributeToEntity(model *AttributeMappingModel) *domain.AttributeMapping {
	return &domain.AttributeMapping{
		ID:                   model.ID,
		SourceLabel:          model.SourceLabel,
		MagentoAttributeCode: model.MagentoAttributeCode,
		MagentoAttributeType: model.MagentoAttributeType,
		IsMapped:             model.IsMapped,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}

// StoreConverter преобразует витрины продавцов.
type StoreConverter struct{}

func (StoreConverter) ToEntity(model *StoreModel) *domain.Store {
	return &domain.Store{
		ID:             model.ID,
		OwnerID:        model.OwnerID,
		Name:           model.Name,
		Code:           model.Code,
		WebsiteID:      model.WebsiteID,
		StoreGroupID:   model.StoreGroupID,
		StoreViewID:    model.StoreViewID,
		RootCategoryID: model.RootCategoryID,
		CreatedAt:      model.CreatedAt,
	}
}

// TaskConverter преобразует задачи очереди.
type TaskConverter struct{}

func (TaskConverter) ToEntity(model *SyncTaskModel) *domain.SyncTask {
	lastError := ""
	if model.LastError != nil {
		lastError = *model.LastError
	}

	return &domain.SyncTask{
		ID:          model.ID,
		Type:        domain.TaskType(model.TaskType),
		Payload:     model.Payload,
		Status:      domain.TaskStatus(model.Status),
		Attempts:    model.Attempts,
		MaxAttempts: model.MaxAttempts,
		RunAfter:    model.RunAfter,
		LastError:   lastError,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// LedgerConverter преобразует счета и движения средств.
type LedgerConverter struct{}

func (LedgerConverter) AccountToEntity(model *BankAccountModel) *domain.BankAccount {
	return &domain.BankAccount{
		ID:        model.ID,
		OwnerID:   model.OwnerID,
		Balance:   model.Balance,
		Currency:  model.Currency,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func (LedgerConverter) TransactionToEntity(model *TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:        model.ID,
		AccountID: model.AccountID,
		Kind:      model.Kind,
		Amount:    model.Amount,
		Reference: model.Reference,
		CreatedAt: model.CreatedAt,
	}
}
