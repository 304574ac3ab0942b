package usecase

import (
	"context"
	"time"

	"github.com/storeforge/backend/internal/domain"
)

type EntryRepository interface {
	UpsertBatch(ctx context.Context, entries []*domain.CatalogEntry) error
	GetBySku(ctx context.Context, sku string) (*domain.CatalogEntry, error)
	UpdateSyncStatus(ctx context.Context, sku string, status domain.SyncStatus, errMsg string) error
}

type CategoryMappingRepository interface {
	GetOrCreate(ctx context.Context, sourceName string) (*domain.CategoryMapping, error)
	Save(ctx context.Context, mapping *domain.CategoryMapping) (*domain.CategoryMapping, error)
	List(ctx context.Context) ([]domain.CategoryMapping, error)
}

type AttributeMappingRepository interface {
	GetOrCreate(ctx context.Context, sourceLabel string) (*domain.AttributeMapping, error)
	Save(ctx context.Context, mapping *domain.AttributeMapping) (*domain.AttributeMapping, error)
	List(ctx context.Context) ([]domain.AttributeMapping, error)
}

type StoreRepository interface {
	CodeExists(ctx context.Context, code string) (bool, error)
	GetByCode(ctx context.Context, code string) (*domain.Store, error)
	Create(ctx context.Context, store *domain.Store) (*domain.Store, error)
}

type TaskRepository interface {
	Enqueue(ctx context.Context, task *domain.SyncTask) error
	ClaimBatch(ctx context.Context, limit int) ([]domain.SyncTask, error)
	MarkDone(ctx context.Context, id int64) error
	Reschedule(ctx context.Context, id int64, runAfter time.Time, lastError string) error
	MarkFailed(ctx context.Context, id int64, lastError string) error
}

type LedgerRepository interface {
	GetAccountByOwner(ctx context.Context, ownerID int64) (*domain.BankAccount, error)
	GetAccountForUpdate(ctx context.Context, ownerID int64) (*domain.BankAccount, error)
	GetOrCreateAccountForUpdate(ctx context.Context, ownerID int64) (*domain.BankAccount, error)
	UpdateBalance(ctx context.Context, accountID int64, balance int64) error
	InsertTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, accountID int64, limit int) ([]domain.Transaction, error)
}

type CacheRepository interface {
	GetEntry(ctx context.Context, sku string) (*EntryInfo, error)
	SetEntry(ctx context.Context, entry *EntryInfo) error
	DeleteEntry(ctx context.Context, sku string) error
}
