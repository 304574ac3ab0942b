package minio

import (
	"bytes"
	"context"
	"io"

	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/e"
)

// BlobRepo хранит копии изображений каталога поверх MinIO.
type BlobRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewBlobRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *BlobRepo {
	return &BlobRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Put сохраняет объект под указанным ключом.
func (b *BlobRepo) Put(ctx context.Context, key string, data []byte, contentType string) error {
	reader := bytes.NewReader(data)

	_, err := b.mc.PutObject(ctx, b.cfg.BucketName, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Get возвращает содержимое объекта по ключу.
func (b *BlobRepo) Get(ctx context.Context, key string) ([]byte, error) {
	object, err := b.mc.GetObject(ctx, b.cfg.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return data, nil
}

// Stat возвращает размер и тип содержимого объекта без чтения данных.
func (b *BlobRepo) Stat(ctx context.Context, key string) (*usecase.BlobStat, error) {
	info, err := b.mc.StatObject(ctx, b.cfg.BucketName, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &usecase.BlobStat{
		Size:        info.Size,
		ContentType: info.ContentType,
	}, nil
}
