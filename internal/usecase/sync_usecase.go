package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

// SyncUseCase публикует записи каталога на удалённую платформу: зондирует
// существование продукта по артикулу, собирает полезную нагрузку с учётом
// таблиц соответствий и раскладывает загрузку изображений по фоновым задачам.
type SyncUseCase struct {
	entryRepo   EntryRepository
	taskRepo    TaskRepository
	cacheRepo   CacheRepository
	mappingGate MappingResolver
	platform    PlatformClient
	sessions    AttributeSessionFactory
	producer    EventProducer
	workerCfg   *cfg.WorkerCfg
	logger      logger.Logger
}

func NewSyncUC(
	entryRepo EntryRepository,
	taskRepo TaskRepository,
	cacheRepo CacheRepository,
	mappingGate MappingResolver,
	platform PlatformClient,
	sessions AttributeSessionFactory,
	producer EventProducer,
	workerCfg *cfg.WorkerCfg,
	logger logger.Logger,
) *SyncUseCase {
	return &SyncUseCase{
		entryRepo:   entryRepo,
		taskRepo:    taskRepo,
		cacheRepo:   cacheRepo,
		mappingGate: mappingGate,
		platform:    platform,
		sessions:    sessions,
		producer:    producer,
		workerCfg:   workerCfg,
		logger:      logger,
	}
}

// SyncEntry выполняет один прогон синхронизации записи. Статус записи
// обновляется ровно один раз за прогон: Synced при успехе, SyncFailed
// с текстом ошибки при неудаче.
func (s *SyncUseCase) SyncEntry(ctx context.Context, sku string) error {
	const op = "SyncUseCase.SyncEntry"

	entry, err := s.entryRepo.GetBySku(ctx, sku)
	if err != nil {
		return e.Wrap(op, err)
	}

	switch entry.SyncStatus {
	case domain.StatusApproved, domain.StatusSynced, domain.StatusSyncFailed:
	default:
		return e.Wrap(op, e.ErrEntryNotApproved)
	}

	remote, err := s.performSync(ctx, entry)
	if err != nil {
		if updErr := s.entryRepo.UpdateSyncStatus(ctx, entry.Sku, domain.StatusSyncFailed, err.Error()); updErr != nil {
			s.logger.Errorf(updErr, "failed to record sync failure. sku: %s", entry.Sku)
		}
		s.invalidateCache(ctx, entry.Sku)

		return e.Wrap(op, err)
	}

	if err := s.entryRepo.UpdateSyncStatus(ctx, entry.Sku, domain.StatusSynced, ""); err != nil {
		return e.Wrap(op, err)
	}
	s.invalidateCache(ctx, entry.Sku)

	// Загрузка изображений уходит в фоновые задачи и не задерживает результат
	s.enqueueImageTasks(ctx, entry)

	if err := s.producer.PublishEntrySynced(ctx, NewEntrySyncedEvent(entry.Sku, remote.ID)); err != nil {
		s.logger.Warnf("Failed to publish synced event. sku: %s, error: %v", entry.Sku, err)
	}

	return nil
}

// performSync собирает полезную нагрузку и создаёт либо обновляет продукт.
func (s *SyncUseCase) performSync(ctx context.Context, entry *domain.CatalogEntry) (*RemoteProduct, error) {
	// Зондирование существования: только 404 означает «продукта нет»,
	// любая другая ошибка прерывает прогон.
	exists := true
	if _, err := s.platform.GetProductBySku(ctx, entry.Sku); err != nil {
		if !errors.Is(err, e.ErrRemoteNotFound) {
			return nil, err
		}
		exists = false
	}

	labels := make([]string, 0, len(entry.Attributes))
	for _, attr := range entry.Attributes {
		labels = append(labels, attr.Label)
	}

	resolution, err := s.mappingGate.Resolve(ctx, entry.Category, labels)
	if err != nil {
		return nil, err
	}

	req := &RemoteProductReq{
		Sku:              entry.Sku,
		Name:             entry.Name,
		Price:            entry.Price,
		StockQuantity:    entry.StockQuantity,
		CustomAttributes: s.buildCustomAttributes(ctx, entry, resolution),
	}

	if resolution.UnmappedCategory {
		if strings.TrimSpace(entry.Category) != "" {
			s.logger.Infof("category not mapped yet, syncing without category link. sku: %s, category: %s",
				entry.Sku, entry.Category)
		}
	} else {
		req.CategoryIDs = []int64{resolution.CategoryID}
	}

	if exists {
		return s.platform.UpdateProduct(ctx, entry.Sku, req)
	}

	return s.platform.CreateProduct(ctx, req)
}

// buildCustomAttributes формирует пользовательские атрибуты полезной нагрузки.
// Описание включается всегда; атрибуты без соответствия или с пустым значением
// пропускаются с записью в лог, один проблемный атрибут не срывает прогон.
func (s *SyncUseCase) buildCustomAttributes(ctx context.Context, entry *domain.CatalogEntry, resolution *MappingResolution) []RemoteAttribute {
	session := s.sessions.NewSession()

	attributes := make([]RemoteAttribute, 0, len(entry.Attributes)+1)
	attributes = append(attributes, RemoteAttribute{Code: "description", Value: entry.Description})

	for _, attr := range entry.Attributes {
		label := strings.TrimSpace(attr.Label)
		value := strings.TrimSpace(attr.Value)
		if label == "" || value == "" {
			continue
		}

		resolved, ok := resolution.Attributes[label]
		if !ok {
			s.logger.Infof("attribute not mapped yet, skipping. sku: %s, label: %s", entry.Sku, label)
			continue
		}

		if err := session.EnsureAttribute(ctx, resolved.Code, label, resolved.Type); err != nil {
			s.logger.Warnf("Failed to provision attribute, skipping. sku: %s, code: %s, error: %v",
				entry.Sku, resolved.Code, err)
			continue
		}

		if resolved.Type == domain.AttributeTypeSelect {
			optionID, err := session.OptionID(ctx, resolved.Code, value)
			if err != nil {
				s.logger.Warnf("Failed to resolve option, skipping attribute. sku: %s, code: %s, value: %s, error: %v",
					entry.Sku, resolved.Code, value, err)
				continue
			}
			attributes = append(attributes, RemoteAttribute{Code: resolved.Code, Value: optionID})
			continue
		}

		attributes = append(attributes, RemoteAttribute{Code: resolved.Code, Value: value})
	}

	return attributes
}

// enqueueImageTasks ставит по одной задаче загрузки на каждое изображение.
func (s *SyncUseCase) enqueueImageTasks(ctx context.Context, entry *domain.CatalogEntry) {
	for i, imagePath := range entry.Images {
		if strings.TrimSpace(imagePath) == "" {
			continue
		}

		payload, err := json.Marshal(ImageUploadReq{
			Sku:       entry.Sku,
			EntryName: entry.Name,
			Path:      imagePath,
			Index:     i,
		})
		if err != nil {
			s.logger.Errorf(err, "failed to marshal image task payload. sku: %s, index: %d", entry.Sku, i)
			continue
		}

		task := domain.NewSyncTask(domain.TaskImageUpload, payload, s.workerCfg.ImageMaxAttempts)
		if err := s.taskRepo.Enqueue(ctx, task); err != nil {
			s.logger.Errorf(err, "failed to enqueue image task. sku: %s, index: %d", entry.Sku, i)
		}
	}
}

func (s *SyncUseCase) invalidateCache(ctx context.Context, sku string) {
	if err := s.cacheRepo.DeleteEntry(ctx, sku); err != nil {
		s.logger.Warnf("Failed to invalidate entry cache. sku: %s, error: %v", sku, err)
	}
}
