package usecase

import (
	"context"
	"errors"

	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

// MediaUseCase обрабатывает фоновые задачи загрузки изображений продукта.
// Каждое изображение обрабатывается независимо: неудача одного не влияет
// на соседние изображения того же продукта.
type MediaUseCase struct {
	platform  PlatformClient
	blobs     BlobStorage
	workerCfg *cfg.WorkerCfg
	logger    logger.Logger
}

func NewMediaUC(
	platform PlatformClient,
	blobs BlobStorage,
	workerCfg *cfg.WorkerCfg,
	logger logger.Logger,
) *MediaUseCase {
	return &MediaUseCase{
		platform:  platform,
		blobs:     blobs,
		workerCfg: workerCfg,
		logger:    logger,
	}
}

// UploadEntryImage читает копию изображения из объектного хранилища
// и передаёт её удалённой платформе. Размер проверяется до чтения
// содержимого. Возврат nil при отсутствии продукта или превышении
// лимита размера — осознанный: повторные попытки в этих случаях
// бессмысленны.
func (m *MediaUseCase) UploadEntryImage(ctx context.Context, req *ImageUploadReq) error {
	const op = "MediaUseCase.UploadEntryImage"

	// Продукт мог не синхронизироваться: тогда задача терминальна
	if _, err := m.platform.GetProductBySku(ctx, req.Sku); err != nil {
		if errors.Is(err, e.ErrRemoteNotFound) {
			m.logger.Warnf("product absent on remote, dropping image task. sku: %s, index: %d", req.Sku, req.Index)
			return nil
		}

		return e.Wrap(op, err)
	}

	stat, err := m.blobs.Stat(ctx, req.Path)
	if err != nil {
		return e.Wrap(op, err)
	}

	if stat.Size > m.workerCfg.ImageSizeLimit {
		m.logger.Warnf("image exceeds size limit, dropping. sku: %s, path: %s, size: %d", req.Sku, req.Path, stat.Size)
		return nil
	}

	data, err := m.blobs.Get(ctx, req.Path)
	if err != nil {
		return e.Wrap(op, err)
	}

	mediaID, err := m.platform.UploadProductMedia(ctx, req.Sku, &MediaUploadReq{
		EntryName: req.EntryName,
		Index:     req.Index,
		Data:      data,
		MimeType:  stat.ContentType,
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	m.logger.Infof("image uploaded. sku: %s, index: %d, media_id: %d", req.Sku, req.Index, mediaID)
	return nil
}
