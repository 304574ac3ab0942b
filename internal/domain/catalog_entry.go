package domain

import "time"

// SyncStatus описывает состояние записи каталога в жизненном цикле синхронизации.
type SyncStatus string

const (
	StatusPendingReview SyncStatus = "pending_review"
	StatusApproved      SyncStatus = "approved"
	StatusRejected      SyncStatus = "rejected"
	StatusSynced        SyncStatus = "synced"
	StatusSyncFailed    SyncStatus = "sync_failed"
)

// AttributeValue — пара «метка атрибута → значение» в порядке поступления из источника.
type AttributeValue struct {
	Label string
	Value string
}

// CatalogEntry описывает запись каталога, собранную из внешнего источника.
type CatalogEntry struct {
	ID               int64
	Sku              string
	Name             string
	Description      string
	Price            int64 // Цена хранится в минорных единицах
	StockQuantity    int
	Category         string
	Brand            string
	SourceURL        string
	Attributes       []AttributeValue
	Images           []string
	SyncStatus       SyncStatus
	SyncErrorMessage string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

func NewCatalogEntry(sku, name string, price int64) *CatalogEntry {
	return &CatalogEntry{
		Sku:        sku,
		Name:       name,
		Price:      price,
		SyncStatus: StatusPendingReview,
	}
}
