package converter

import "github.com/storeforge/backend/internal/usecase"

// AttributeRedisModel — пара «метка → значение» атрибута в кэше.
type AttributeRedisModel struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// EntryInfoRedisModel — представление записи каталога в Redis.
type EntryInfoRedisModel struct {
	Sku              string                `json:"sku"`
	Name             string                `json:"name"`
	Description      string                `json:"description"`
	Price            int64                 `json:"price"`
	StockQuantity    int                   `json:"stock_quantity"`
	Category         string                `json:"category"`
	Brand            string                `json:"brand"`
	Attributes       []AttributeRedisModel `json:"attributes"`
	Images           []string              `json:"images"`
	SyncStatus       string                `json:"sync_status"`
	SyncErrorMessage string                `json:"sync_error_message"`
}

// EntryInfoConverter преобразует записи каталога между usecase и моделью Redis.
type EntryInfoConverter struct{}

func (EntryInfoConverter) ToRedisModel(info *usecase.EntryInfo) *EntryInfoRedisModel {
	attributes := make([]AttributeRedisModel, 0, len(info.Attributes))
	for _, attr := range info.Attributes {
		attributes = append(attributes, AttributeRedisModel{Label: attr.Label, Value: attr.Value})
	}

	return &EntryInfoRedisModel{
		Sku:              info.Sku,
		Name:             info.Name,
		Description:      info.Description,
		Price:            info.Price,
		StockQuantity:    info.StockQuantity,
		Category:         info.Category,
		Brand:            info.Brand,
		Attributes:       attributes,
		Images:           info.Images,
		SyncStatus:       info.SyncStatus,
		SyncErrorMessage: info.SyncErrorMessage,
	}
}

func (EntryInfoConverter) ToUseCase(model *EntryInfoRedisModel) *usecase.EntryInfo {
	attributes := make([]usecase.AttributeValueReq, 0, len(model.Attributes))
	for _, attr := range model.Attributes {
		attributes = append(attributes, usecase.AttributeValueReq{Label: attr.Label, Value: attr.Value})
	}

	return &usecase.EntryInfo{
		Sku:              model.Sku,
		Name:             model.Name,
		Description:      model.Description,
		Price:            model.Price,
		StockQuantity:    model.StockQuantity,
		Category:         model.Category,
		Brand:            model.Brand,
		Attributes:       attributes,
		Images:           model.Images,
		SyncStatus:       model.SyncStatus,
		SyncErrorMessage: model.SyncErrorMessage,
	}
}
