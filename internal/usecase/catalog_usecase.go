package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

// CatalogUseCase реализует пакетный импорт записей каталога, модерацию
// и постановку задач синхронизации в очередь.
type CatalogUseCase struct {
	entryRepo EntryRepository
	taskRepo  TaskRepository
	cacheRepo CacheRepository
	fetcher   ImageFetcher
	blobs     BlobStorage
	trManager trm.Manager
	workerCfg *cfg.WorkerCfg
	logger    logger.Logger
}

func NewCatalogUC(
	entryRepo EntryRepository,
	taskRepo TaskRepository,
	cacheRepo CacheRepository,
	fetcher ImageFetcher,
	blobs BlobStorage,
	trManager trm.Manager,
	workerCfg *cfg.WorkerCfg,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		entryRepo: entryRepo,
		taskRepo:  taskRepo,
		cacheRepo: cacheRepo,
		fetcher:   fetcher,
		blobs:     blobs,
		trManager: trManager,
		workerCfg: workerCfg,
		logger:    logger,
	}
}

// IngestRecords принимает пакет записей каталога. Записи проверяются целиком
// до первой записи в базу; затем пакет пишется порциями фиксированного
// размера, каждая порция — одна транзакция «всё или ничего».
func (c *CatalogUseCase) IngestRecords(ctx context.Context, req *IngestReq) (*IngestRes, error) {
	const op = "CatalogUseCase.IngestRecords"

	if len(req.Records) == 0 {
		return nil, e.Wrap(op, e.ErrNoRecords)
	}

	entries := make([]*domain.CatalogEntry, 0, len(req.Records))
	for i := range req.Records {
		entry, err := c.validateRecord(&req.Records[i])
		if err != nil {
			return nil, e.Wrap(op, fmt.Errorf("record %d (sku %q): %w", i, req.Records[i].Sku, err))
		}

		entry.Images = c.downloadImages(ctx, entry.Sku, req.Records[i].Images)
		entries = append(entries, entry)
	}

	batchSize := c.workerCfg.IngestBatchSize
	for offset := 0; offset < len(entries); offset += batchSize {
		end := offset + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[offset:end]

		err := c.trManager.Do(ctx, func(ctx context.Context) error {
			return c.entryRepo.UpsertBatch(ctx, batch)
		})
		if err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	// Сброс кэша обновлённых записей, лучшим усилием
	for _, entry := range entries {
		if err := c.cacheRepo.DeleteEntry(ctx, entry.Sku); err != nil {
			c.logger.Warnf("Failed to invalidate entry cache. sku: %s, error: %v", entry.Sku, err)
		}
	}

	return &IngestRes{Accepted: len(entries)}, nil
}

// GetEntry возвращает запись каталога по артикулу, сначала заглядывая в кэш.
func (c *CatalogUseCase) GetEntry(ctx context.Context, sku string) (*EntryInfo, error) {
	const op = "CatalogUseCase.GetEntry"

	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, e.Wrap(op, e.ErrSkuRequired)
	}

	if cached, err := c.cacheRepo.GetEntry(ctx, sku); err == nil && cached != nil {
		return cached, nil
	}

	entry, err := c.entryRepo.GetBySku(ctx, sku)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	info := NewEntryInfo(entry)

	// Фоновое добавление записи в кэш
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := c.cacheRepo.SetEntry(bgCtx, info); err != nil {
			c.logger.Warnf("Failed to cache entry in background: %v", e.Wrap(op, err))
		}
	}()

	return info, nil
}

// ReviewEntry фиксирует решение модератора по записи: approved или rejected.
// Решение по уже синхронизированной записи не перезаписывает её статус назад.
func (c *CatalogUseCase) ReviewEntry(ctx context.Context, sku, status string) (*EntryInfo, error) {
	const op = "CatalogUseCase.ReviewEntry"

	var reviewed domain.SyncStatus
	switch status {
	case string(domain.StatusApproved):
		reviewed = domain.StatusApproved
	case string(domain.StatusRejected):
		reviewed = domain.StatusRejected
	default:
		return nil, e.Wrap(op, e.ErrInvalidReviewStatus)
	}

	entry, err := c.entryRepo.GetBySku(ctx, strings.TrimSpace(sku))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := c.entryRepo.UpdateSyncStatus(ctx, entry.Sku, reviewed, ""); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := c.cacheRepo.DeleteEntry(ctx, entry.Sku); err != nil {
		c.logger.Warnf("Failed to invalidate entry cache. sku: %s, error: %v", entry.Sku, err)
	}

	entry.SyncStatus = reviewed
	entry.SyncErrorMessage = ""
	c.logger.Infof("entry reviewed. sku: %s, status: %s", entry.Sku, reviewed)

	return NewEntryInfo(entry), nil
}

// RequestSync ставит задачу синхронизации записи в очередь.
// Синхронизируются только записи, прошедшие модерацию.
func (c *CatalogUseCase) RequestSync(ctx context.Context, sku string) error {
	const op = "CatalogUseCase.RequestSync"

	entry, err := c.entryRepo.GetBySku(ctx, strings.TrimSpace(sku))
	if err != nil {
		return e.Wrap(op, err)
	}

	switch entry.SyncStatus {
	case domain.StatusApproved, domain.StatusSynced, domain.StatusSyncFailed:
	default:
		return e.Wrap(op, e.ErrEntryNotApproved)
	}

	payload, err := json.Marshal(ProductSyncPayload{Sku: entry.Sku})
	if err != nil {
		return e.Wrap(op, err)
	}

	task := domain.NewSyncTask(domain.TaskProductSync, payload, 1)
	if err := c.taskRepo.Enqueue(ctx, task); err != nil {
		return e.Wrap(op, err)
	}

	c.logger.Infof("sync task enqueued. sku: %s", entry.Sku)
	return nil
}

// validateRecord проверяет запись импорта и приводит её к доменной модели.
func (c *CatalogUseCase) validateRecord(record *IngestRecord) (*domain.CatalogEntry, error) {
	sku := strings.TrimSpace(record.Sku)
	if sku == "" {
		return nil, e.ErrSkuRequired
	}

	name := strings.TrimSpace(record.Name)
	if name == "" {
		return nil, e.ErrNameRequired
	}

	price, err := parsePrice(record.Price)
	if err != nil {
		return nil, err
	}

	if record.StockQuantity < 0 {
		return nil, e.ErrNegativeStock
	}

	entry := domain.NewCatalogEntry(sku, name, price)
	entry.Description = record.Description
	entry.StockQuantity = record.StockQuantity
	entry.Category = strings.TrimSpace(record.Category)
	entry.Brand = strings.TrimSpace(record.Brand)
	entry.SourceURL = record.SourceURL

	entry.Attributes = make([]domain.AttributeValue, 0, len(record.Attributes))
	for _, attr := range record.Attributes {
		entry.Attributes = append(entry.Attributes, domain.AttributeValue{
			Label: attr.Label,
			Value: attr.Value,
		})
	}

	return entry, nil
}

// downloadImages скачивает изображения источника в объектное хранилище
// и возвращает ключи сохранённых копий. Неудачная загрузка пропускает
// изображение, не срывая импорт записи.
func (c *CatalogUseCase) downloadImages(ctx context.Context, sku string, sources []string) []string {
	keys := make([]string, 0, len(sources))
	for _, source := range sources {
		if strings.TrimSpace(source) == "" {
			continue
		}

		image, err := c.fetcher.Fetch(ctx, source, c.workerCfg.ImageSizeLimit)
		if err != nil {
			c.logger.Warnf("Failed to download source image, skipping. sku: %s, url: %s, error: %v", sku, source, err)
			continue
		}

		key := imageObjectKey(sku, source)
		if err := c.blobs.Put(ctx, key, image.Data, image.MimeType); err != nil {
			c.logger.Warnf("Failed to store image copy, skipping. sku: %s, key: %s, error: %v", sku, key, err)
			continue
		}

		keys = append(keys, key)
	}

	return keys
}

// imageObjectKey строит ключ копии изображения вида products/{sku}-{uuid}{ext}.
func imageObjectKey(sku, source string) string {
	ext := ".jpg"
	if parsed, err := url.Parse(source); err == nil {
		if sourceExt := path.Ext(parsed.Path); sourceExt != "" {
			ext = sourceExt
		}
	}

	return fmt.Sprintf("products/%s-%s%s", sku, uuid.NewString(), ext)
}

// parsePrice переводит десятичную строку цены в минорные единицы.
func parsePrice(raw string) (int64, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if price.IsNegative() {
		return 0, e.ErrInvalidPrice
	}

	if price.Exponent() < -2 {
		return 0, e.ErrPricePrecision
	}

	return price.Shift(2).IntPart(), nil
}
