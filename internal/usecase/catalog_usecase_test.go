package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogUC(entryRepo *fakeEntryRepo, taskRepo *fakeTaskRepo, cacheRepo *fakeCacheRepo, trm *fakeTrManager, batchSize int) *CatalogUseCase {
	fetcher := &fakeFetcher{image: &FetchedImage{Data: []byte("jpeg-bytes"), MimeType: "image/jpeg", Size: 10}}
	return NewCatalogUC(entryRepo, taskRepo, cacheRepo, fetcher, newFakeBlobStorage(),
		trm, &cfg.WorkerCfg{IngestBatchSize: batchSize, ImageSizeLimit: 10 << 20}, testLogger{})
}

func validRecord(sku string) IngestRecord {
	return IngestRecord{
		Sku:   sku,
		Name:  "Widget " + sku,
		Price: "99.90",
	}
}

func TestIngestRecords_EmptyBatch(t *testing.T) {
	uc := newCatalogUC(newFakeEntryRepo(), &fakeTaskRepo{}, newFakeCacheRepo(), &fakeTrManager{}, 500)

	_, err := uc.IngestRecords(context.Background(), &IngestReq{})

	assert.ErrorIs(t, err, e.ErrNoRecords)
}

func TestIngestRecords_ValidationRejectsWholeBatch(t *testing.T) {
	entryRepo := newFakeEntryRepo()
	uc := newCatalogUC(entryRepo, &fakeTaskRepo{}, newFakeCacheRepo(), &fakeTrManager{}, 500)

	_, err := uc.IngestRecords(context.Background(), &IngestReq{Records: []IngestRecord{
		validRecord("sku-1"),
		{Sku: "sku-2", Name: "Bad", Price: "not-a-price"},
		validRecord("sku-3"),
	}})

	assert.ErrorIs(t, err, e.ErrInvalidPrice)
	assert.Empty(t, entryRepo.upserted, "no record may reach the database when any record is invalid")
}

func TestIngestRecords_SplitsIntoFixedSizeBatches(t *testing.T) {
	entryRepo := newFakeEntryRepo()
	trm := &fakeTrManager{}
	uc := newCatalogUC(entryRepo, &fakeTaskRepo{}, newFakeCacheRepo(), trm, 2)

	res, err := uc.IngestRecords(context.Background(), &IngestReq{Records: []IngestRecord{
		validRecord("sku-1"), validRecord("sku-2"), validRecord("sku-3"),
		validRecord("sku-4"), validRecord("sku-5"),
	}})

	require.NoError(t, err)
	assert.Equal(t, 5, res.Accepted)
	assert.Equal(t, 3, trm.calls)
	require.Len(t, entryRepo.upserted, 3)
	assert.Len(t, entryRepo.upserted[0], 2)
	assert.Len(t, entryRepo.upserted[2], 1)
}

func TestIngestRecords_ParsesPriceToMinorUnits(t *testing.T) {
	entryRepo := newFakeEntryRepo()
	uc := newCatalogUC(entryRepo, &fakeTaskRepo{}, newFakeCacheRepo(), &fakeTrManager{}, 500)

	record := validRecord("sku-1")
	record.Price = "1499.90"

	_, err := uc.IngestRecords(context.Background(), &IngestReq{Records: []IngestRecord{record}})

	require.NoError(t, err)
	assert.Equal(t, int64(149990), entryRepo.entries["sku-1"].Price)
}

func TestIngestRecords_PriceValidation(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		stock   int
		wantErr error
	}{
		{name: "negative price", price: "-5.00", wantErr: e.ErrInvalidPrice},
		{name: "too many decimals", price: "10.999", wantErr: e.ErrPricePrecision},
		{name: "negative stock", price: "10.00", stock: -1, wantErr: e.ErrNegativeStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newCatalogUC(newFakeEntryRepo(), &fakeTaskRepo{}, newFakeCacheRepo(), &fakeTrManager{}, 500)

			record := validRecord("sku-1")
			record.Price = tt.price
			record.StockQuantity = tt.stock

			_, err := uc.IngestRecords(context.Background(), &IngestReq{Records: []IngestRecord{record}})

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIngestRecords_InvalidatesCache(t *testing.T) {
	cacheRepo := newFakeCacheRepo()
	cacheRepo.entries["sku-1"] = &EntryInfo{Sku: "sku-1"}
	uc := newCatalogUC(newFakeEntryRepo(), &fakeTaskRepo{}, cacheRepo, &fakeTrManager{}, 500)

	_, err := uc.IngestRecords(context.Background(), &IngestReq{Records: []IngestRecord{validRecord("sku-1")}})

	require.NoError(t, err)
	assert.Contains(t, cacheRepo.deleted, "sku-1")
}

func TestIngestRecords_DownloadsImagesToBlobStorage(t *testing.T) {
	entryRepo := newFakeEntryRepo()
	fetcher := &fakeFetcher{image: &FetchedImage{Data: []byte("png-bytes"), MimeType: "image/png", Size: 9}}
	blobs := newFakeBlobStorage()
	uc := NewCatalogUC(entryRepo, &fakeTaskRepo{}, newFakeCacheRepo(), fetcher, blobs,
		&fakeTrManager{}, &cfg.WorkerCfg{IngestBatchSize: 500, ImageSizeLimit: 10 << 20}, testLogger{})

	record := validRecord("sku-1")
	record.Images = []string{"http://img.example/photos/main.png"}

	_, err := uc.IngestRecords(context.Background(), &IngestReq{Records: []IngestRecord{record}})

	require.NoError(t, err)
	require.Len(t, entryRepo.entries["sku-1"].Images, 1)

	key := entryRepo.entries["sku-1"].Images[0]
	assert.True(t, strings.HasPrefix(key, "products/sku-1-"), "key: %s", key)
	assert.True(t, strings.HasSuffix(key, ".png"), "key: %s", key)
	assert.Equal(t, []byte("png-bytes"), blobs.objects[key])
}

func TestIngestRecords_SkipsFailedImageDownload(t *testing.T) {
	entryRepo := newFakeEntryRepo()
	fetcher := &fakeFetcher{err: e.ErrImageTooLarge}
	blobs := newFakeBlobStorage()
	uc := NewCatalogUC(entryRepo, &fakeTaskRepo{}, newFakeCacheRepo(), fetcher, blobs,
		&fakeTrManager{}, &cfg.WorkerCfg{IngestBatchSize: 500, ImageSizeLimit: 10 << 20}, testLogger{})

	record := validRecord("sku-1")
	record.Images = []string{"http://img.example/huge.jpg"}

	res, err := uc.IngestRecords(context.Background(), &IngestReq{Records: []IngestRecord{record}})

	// Запись принимается и без копий изображений
	require.NoError(t, err)
	assert.Equal(t, 1, res.Accepted)
	assert.Empty(t, entryRepo.entries["sku-1"].Images)
	assert.Empty(t, blobs.objects)
}

func TestGetEntry_CacheHit(t *testing.T) {
	cacheRepo := newFakeCacheRepo()
	cacheRepo.entries["sku-1"] = &EntryInfo{Sku: "sku-1", Name: "Cached"}
	entryRepo := newFakeEntryRepo()
	uc := newCatalogUC(entryRepo, &fakeTaskRepo{}, cacheRepo, &fakeTrManager{}, 500)

	info, err := uc.GetEntry(context.Background(), "sku-1")

	require.NoError(t, err)
	assert.Equal(t, "Cached", info.Name)
}

func TestGetEntry_CacheMissFallsBackToRepo(t *testing.T) {
	entry := domain.NewCatalogEntry("sku-1", "Widget", 9990)
	uc := newCatalogUC(newFakeEntryRepo(entry), &fakeTaskRepo{}, newFakeCacheRepo(), &fakeTrManager{}, 500)

	info, err := uc.GetEntry(context.Background(), "sku-1")

	require.NoError(t, err)
	assert.Equal(t, "Widget", info.Name)
	assert.Equal(t, string(domain.StatusPendingReview), info.SyncStatus)
}

func TestGetEntry_EmptySku(t *testing.T) {
	uc := newCatalogUC(newFakeEntryRepo(), &fakeTaskRepo{}, newFakeCacheRepo(), &fakeTrManager{}, 500)

	_, err := uc.GetEntry(context.Background(), "  ")

	assert.ErrorIs(t, err, e.ErrSkuRequired)
}

func TestReviewEntry_ApproveMakesEntrySyncable(t *testing.T) {
	entry := domain.NewCatalogEntry("sku-1", "Widget", 9990)
	entryRepo := newFakeEntryRepo(entry)
	taskRepo := &fakeTaskRepo{}
	uc := newCatalogUC(entryRepo, taskRepo, newFakeCacheRepo(), &fakeTrManager{}, 500)

	info, err := uc.ReviewEntry(context.Background(), "sku-1", "approved")

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), info.SyncStatus)

	// Одобренная запись проходит постановку в очередь синхронизации
	require.NoError(t, uc.RequestSync(context.Background(), "sku-1"))
	assert.Len(t, taskRepo.tasks, 1)
}

func TestReviewEntry_Reject(t *testing.T) {
	entry := domain.NewCatalogEntry("sku-1", "Widget", 9990)
	cacheRepo := newFakeCacheRepo()
	cacheRepo.entries["sku-1"] = &EntryInfo{Sku: "sku-1"}
	uc := newCatalogUC(newFakeEntryRepo(entry), &fakeTaskRepo{}, cacheRepo, &fakeTrManager{}, 500)

	info, err := uc.ReviewEntry(context.Background(), "sku-1", "rejected")

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRejected), info.SyncStatus)
	assert.Contains(t, cacheRepo.deleted, "sku-1")
}

func TestReviewEntry_InvalidStatus(t *testing.T) {
	entry := domain.NewCatalogEntry("sku-1", "Widget", 9990)
	entryRepo := newFakeEntryRepo(entry)
	uc := newCatalogUC(entryRepo, &fakeTaskRepo{}, newFakeCacheRepo(), &fakeTrManager{}, 500)

	_, err := uc.ReviewEntry(context.Background(), "sku-1", "synced")

	assert.ErrorIs(t, err, e.ErrInvalidReviewStatus)
	assert.Empty(t, entryRepo.statusWrites)
}

func TestReviewEntry_UnknownSku(t *testing.T) {
	uc := newCatalogUC(newFakeEntryRepo(), &fakeTaskRepo{}, newFakeCacheRepo(), &fakeTrManager{}, 500)

	_, err := uc.ReviewEntry(context.Background(), "missing", "approved")

	assert.ErrorIs(t, err, e.ErrEntryNotFound)
}

func TestRequestSync_RejectsUnmoderatedEntry(t *testing.T) {
	entry := domain.NewCatalogEntry("sku-1", "Widget", 9990)
	taskRepo := &fakeTaskRepo{}
	uc := newCatalogUC(newFakeEntryRepo(entry), taskRepo, newFakeCacheRepo(), &fakeTrManager{}, 500)

	err := uc.RequestSync(context.Background(), "sku-1")

	assert.ErrorIs(t, err, e.ErrEntryNotApproved)
	assert.Empty(t, taskRepo.tasks)
}

func TestRequestSync_EnqueuesTask(t *testing.T) {
	entry := domain.NewCatalogEntry("sku-1", "Widget", 9990)
	entry.SyncStatus = domain.StatusApproved
	taskRepo := &fakeTaskRepo{}
	uc := newCatalogUC(newFakeEntryRepo(entry), taskRepo, newFakeCacheRepo(), &fakeTrManager{}, 500)

	err := uc.RequestSync(context.Background(), "sku-1")

	require.NoError(t, err)
	require.Len(t, taskRepo.tasks, 1)

	task := taskRepo.tasks[0]
	assert.Equal(t, domain.TaskProductSync, task.Type)
	assert.Equal(t, 1, task.MaxAttempts)

	var payload ProductSyncPayload
	require.NoError(t, json.Unmarshal(task.Payload, &payload))
	assert.Equal(t, "sku-1", payload.Sku)
}

func TestRequestSync_AllowsResyncAfterFailure(t *testing.T) {
	entry := domain.NewCatalogEntry("sku-1", "Widget", 9990)
	entry.SyncStatus = domain.StatusSyncFailed
	taskRepo := &fakeTaskRepo{}
	uc := newCatalogUC(newFakeEntryRepo(entry), taskRepo, newFakeCacheRepo(), &fakeTrManager{}, 500)

	err := uc.RequestSync(context.Background(), "sku-1")

	require.NoError(t, err)
	assert.Len(t, taskRepo.tasks, 1)
}
