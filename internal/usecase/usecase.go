package usecase

import "context"

type CatalogUC interface {
	IngestRecords(ctx context.Context, req *IngestReq) (*IngestRes, error)
	GetEntry(ctx context.Context, sku string) (*EntryInfo, error)
	ReviewEntry(ctx context.Context, sku, status string) (*EntryInfo, error)
	RequestSync(ctx context.Context, sku string) error
}

type SyncUC interface {
	SyncEntry(ctx context.Context, sku string) error
}

type MediaUC interface {
	UploadEntryImage(ctx context.Context, req *ImageUploadReq) error
}

type MappingResolver interface {
	Resolve(ctx context.Context, categoryName string, attributeLabels []string) (*MappingResolution, error)
}

type MappingUC interface {
	MappingResolver
	ListCategoryMappings(ctx context.Context) ([]CategoryMappingInfo, error)
	SaveCategoryMapping(ctx context.Context, req *SaveCategoryMappingReq) (*CategoryMappingInfo, error)
	ListAttributeMappings(ctx context.Context) ([]AttributeMappingInfo, error)
	SaveAttributeMapping(ctx context.Context, req *SaveAttributeMappingReq) (*AttributeMappingInfo, error)
}

type StoreUC interface {
	ProvisionStore(ctx context.Context, req *ProvisionStoreReq) (*StoreInfo, error)
	CustomerCount(ctx context.Context, code string) (int64, error)
}

type NotificationUC interface {
	Dispatch(ctx context.Context, req *NotifyReq) error
	SmsCredit(ctx context.Context) (float64, error)
}

type LedgerUC interface {
	Deposit(ctx context.Context, req *LedgerOpReq) (*AccountInfo, error)
	Withdraw(ctx context.Context, req *LedgerOpReq) (*AccountInfo, error)
	VerifyPayment(ctx context.Context, req *PaymentVerifyReq) (*AccountInfo, error)
	Balance(ctx context.Context, ownerID int64) (*AccountInfo, error)
	Transactions(ctx context.Context, ownerID int64, limit int) ([]TransactionInfo, error)
}
