package usecase

import (
	"time"

	"github.com/storeforge/backend/internal/domain"
)

// CATALOG USECASE

// IngestRecord — одна запись пакета импорта в сыром виде.
type IngestRecord struct {
	Sku           string
	Name          string
	Description   string
	Price         string // десятичная строка, например "1499.90"
	StockQuantity int
	Category      string
	Brand         string
	SourceURL     string
	Attributes    []AttributeValueReq
	Images        []string
}

// AttributeValueReq — пара «метка → значение» в порядке поступления.
type AttributeValueReq struct {
	Label string
	Value string
}

// IngestReq — запрос на пакетный импорт записей каталога.
type IngestReq struct {
	Records []IngestRecord
}

// IngestRes — результат импорта: число принятых записей.
type IngestRes struct {
	Accepted int
}

// EntryInfo — DTO записи каталога для внешнего использования.
type EntryInfo struct {
	Sku              string
	Name             string
	Description      string
	Price            int64
	StockQuantity    int
	Category         string
	Brand            string
	Attributes       []AttributeValueReq
	Images           []string
	SyncStatus       string
	SyncErrorMessage string
}

// MAPPING USECASE

// MappingResolution — результат сверки записи с таблицами соответствий.
// Незаполненные соответствия синхронизацию не блокируют: категория без
// соответствия просто не попадает в полезную нагрузку, атрибут — пропускается.
type MappingResolution struct {
	CategoryID       int64
	Attributes       map[string]ResolvedAttribute // ключ — обрезанная метка источника
	UnmappedCategory bool
	UnmappedLabels   []string
}

// ResolvedAttribute — код и тип атрибута на удалённой платформе.
type ResolvedAttribute struct {
	Code string
	Type string
}

type CategoryMappingInfo struct {
	ID                int64
	SourceName        string
	MagentoCategoryID *int64
	IsMapped          bool
}

type AttributeMappingInfo struct {
	ID                   int64
	SourceLabel          string
	MagentoAttributeCode *string
	MagentoAttributeType string
	IsMapped             bool
}

type SaveCategoryMappingReq struct {
	SourceName        string
	MagentoCategoryID *int64
}

type SaveAttributeMappingReq struct {
	SourceLabel          string
	MagentoAttributeCode *string
	MagentoAttributeType string
}

// STORE USECASE

// ProvisionStoreReq — запрос на создание витрины продавца.
type ProvisionStoreReq struct {
	OwnerID int64
	Name    string
}

type StoreInfo struct {
	ID           int64
	Name         string
	Code         string
	WebsiteID    int64
	StoreGroupID int64
	StoreViewID  int64
}

// NOTIFICATION USECASE

// NotifyReq — запрос на отправку уведомления по одному или нескольким каналам.
type NotifyReq struct {
	Channels      []string
	Recipient     string
	Subject       string
	Body          string
	PatternCode   string
	PatternParams map[string]string
	Provider      string // необязательный явный выбор SMS-провайдера
}

// LEDGER USECASE

type LedgerOpReq struct {
	OwnerID   int64
	Amount    int64
	Reference string
}

// PaymentVerifyReq — запрос на подтверждение платежа у шлюза
// с последующим зачислением на счёт владельца.
type PaymentVerifyReq struct {
	OwnerID int64
	RefID   string // идентификатор платежа, выданный шлюзом
	Amount  int64
}

// PaymentReceipt — ответ шлюза на подтверждение платежа.
type PaymentReceipt struct {
	RefID      string
	Amount     int64
	CardNumber string
}

type AccountInfo struct {
	ID       int64
	OwnerID  int64
	Balance  int64
	Currency string
}

type TransactionInfo struct {
	ID        int64
	Kind      string
	Amount    int64
	Reference string
	CreatedAt time.Time
}

// INFRASTRUCTURE

// RemoteProduct — продукт в представлении удалённой платформы.
type RemoteProduct struct {
	ID  int64
	Sku string
}

// RemoteAttribute — значение пользовательского атрибута для полезной нагрузки.
type RemoteAttribute struct {
	Code  string
	Value string
}

// RemoteProductReq — платформонезависимая полезная нагрузка продукта.
type RemoteProductReq struct {
	Sku              string
	Name             string
	Price            int64
	StockQuantity    int
	CategoryIDs      []int64
	CustomAttributes []RemoteAttribute
}

// MediaUploadReq — запрос на загрузку одного изображения продукта.
type MediaUploadReq struct {
	EntryName string
	Index     int
	Data      []byte
	MimeType  string
}

// FetchedImage — скачанное изображение источника.
type FetchedImage struct {
	Data     []byte
	MimeType string
	Size     int64
}

// BlobStat — размер и тип содержимого объекта в хранилище.
type BlobStat struct {
	Size        int64
	ContentType string
}

type RemoteWebsite struct {
	ID   int64
	Code string
}

// EntrySyncedEvent — событие об успешной синхронизации записи.
type EntrySyncedEvent struct {
	Sku        string
	RemoteID   int64
	OccurredAt time.Time
}

// TASK PAYLOADS

// ProductSyncPayload — полезная нагрузка задачи синхронизации продукта.
type ProductSyncPayload struct {
	Sku string `json:"sku"`
}

// ImageUploadReq — полезная нагрузка задачи загрузки изображения.
// Path — ключ копии изображения в объектном хранилище, а не URL источника:
// источник скачивается один раз при импорте.
type ImageUploadReq struct {
	Sku       string `json:"sku"`
	EntryName string `json:"entry_name"`
	Path      string `json:"path"`
	Index     int    `json:"index"`
}

// MAPPERS

func NewEntryInfo(entry *domain.CatalogEntry) *EntryInfo {
	attributes := make([]AttributeValueReq, 0, len(entry.Attributes))
	for _, attr := range entry.Attributes {
		attributes = append(attributes, AttributeValueReq{Label: attr.Label, Value: attr.Value})
	}

	return &EntryInfo{
		Sku:              entry.Sku,
		Name:             entry.Name,
		Description:      entry.Description,
		Price:            entry.Price,
		StockQuantity:    entry.StockQuantity,
		Category:         entry.Category,
		Brand:            entry.Brand,
		Attributes:       attributes,
		Images:           entry.Images,
		SyncStatus:       string(entry.SyncStatus),
		SyncErrorMessage: entry.SyncErrorMessage,
	}
}

func NewCategoryMappingInfo(mapping *domain.CategoryMapping) CategoryMappingInfo {
	return CategoryMappingInfo{
		ID:                mapping.ID,
		SourceName:        mapping.SourceName,
		MagentoCategoryID: mapping.MagentoCategoryID,
		IsMapped:          mapping.IsMapped,
	}
}

func NewAttributeMappingInfo(mapping *domain.AttributeMapping) AttributeMappingInfo {
	return AttributeMappingInfo{
		ID:                   mapping.ID,
		SourceLabel:          mapping.SourceLabel,
		MagentoAttributeCode: mapping.MagentoAttributeCode,
		MagentoAttributeType: mapping.MagentoAttributeType,
		IsMapped:             mapping.IsMapped,
	}
}

func NewStoreInfo(store *domain.Store) *StoreInfo {
	return &StoreInfo{
		ID:           store.ID,
		Name:         store.Name,
		Code:         store.Code,
		WebsiteID:    store.WebsiteID,
		StoreGroupID: store.StoreGroupID,
		StoreViewID:  store.StoreViewID,
	}
}

func NewAccountInfo(account *domain.BankAccount) *AccountInfo {
	return &AccountInfo{
		ID:       account.ID,
		OwnerID:  account.OwnerID,
		Balance:  account.Balance,
		Currency: account.Currency,
	}
}

func NewTransactionInfo(tx *domain.Transaction) TransactionInfo {
	return TransactionInfo{
		ID:        tx.ID,
		Kind:      tx.Kind,
		Amount:    tx.Amount,
		Reference: tx.Reference,
		CreatedAt: tx.CreatedAt,
	}
}

func NewEntrySyncedEvent(sku string, remoteID int64) *EntrySyncedEvent {
	return &EntrySyncedEvent{
		Sku:        sku,
		RemoteID:   remoteID,
		OccurredAt: time.Now().UTC(),
	}
}
