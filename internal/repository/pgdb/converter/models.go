package converter

import "time"

// CatalogEntryModel представляет запись таблицы catalog_entries в PostgreSQL.
// Атрибуты и изображения хранятся как JSONB с сохранением порядка.
type CatalogEntryModel struct {
	ID               int64      `db:"id"`
	Sku              string     `db:"sku"`
	Name             string     `db:"name"`
	Description      string     `db:"description"`
	Price            int64      `db:"price"`
	StockQuantity    int        `db:"stock_quantity"`
	Category         string     `db:"category"`
	Brand            string     `db:"brand"`
	SourceURL        string     `db:"source_url"`
	Attributes       []byte     `db:"attributes"`
	Images           []byte     `db:"images"`
	SyncStatus       string     `db:"sync_status"`
	SyncErrorMessage *string    `db:"sync_error_message"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at"`
}

// CategoryMappingModel представляет запись таблицы category_mappings.
type CategoryMappingModel struct {
	ID                int64      `db:"id"`
	SourceName        string     `db:"source_name"`
	MagentoCategoryID *int64     `db:"magento_category_id"`
	IsMapped          bool       `db:"is_mapped"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         *time.Time `db:"updated_at"`
}

// AttributeMappingModel представляет запись таблицы attribute_mappings.
type AttributeMappingModel struct {
	ID                   int64      `db:"id"`
	SourceLabel          string     `db:"source_label"`
	MagentoAttributeCode *string    `db:"magento_attribute_code"`
	MagentoAttributeType string     `db:"magento_attribute_type"`
	IsMapped             bool       `db:"is_mapped"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            *time.Time `db:"updated_at"`
}

// StoreModel представляет запись таблицы stores.
type StoreModel struct {
	ID             int64     `db:"id"`
	OwnerID        int64     `db:"owner_id"`
	Name           string    `db:"name"`
	Code           string    `db:"code"`
	WebsiteID      int64     `db:"website_id"`
	StoreGroupID   int64     `db:"store_group_id"`
	StoreViewID    int64     `db:"store_view_id"`
	RootCategoryID int64     `db:"root_category_id"`
	CreatedAt      time.Time `db:"created_at"`
}

// SyncTaskModel представляет запись таблицы sync_tasks.
type SyncTaskModel struct {
	ID          int64      `db:"id"`
	TaskType    string     `db:"task_type"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	Attempts    int        `db:"attempts"`
	MaxAttempts int        `db:"max_attempts"`
	RunAfter    time.Time  `db:"run_after"`
	LastError   *string    `db:"last_error"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

// BankAccountModel представляет запись таблицы bank_accounts.
type BankAccountModel struct {
	ID        int64      `db:"id"`
	OwnerID   int64      `db:"owner_id"`
	Balance   int64      `db:"balance"`
	Currency  string     `db:"currency"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// TransactionModel представляет запись таблицы transactions.
type TransactionModel struct {
	ID        int64     `db:"id"`
	AccountID int64     `db:"account_id"`
	Kind      string    `db:"kind"`
	Amount    int64     `db:"amount"`
	Reference string    `db:"reference"`
	CreatedAt time.Time `db:"created_at"`
}
