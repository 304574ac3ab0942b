package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/internal/repository/redis/converter"
	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/clients"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

// CacheRepo кэширует записи каталога по артикулу.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.EntryInfoConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.EntryInfoConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetEntry возвращает закэшированную запись либо nil при промахе.
func (r *CacheRepo) GetEntry(ctx context.Context, sku string) (*usecase.EntryInfo, error) {
	data, err := r.client.Client.Get(ctx, entryKey(sku)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil // cache miss
		}

		r.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.EntryInfoRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		r.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		if err := r.client.Client.Del(context.Background(), entryKey(sku)).Err(); err != nil {
			r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil
	}

	if model.Sku != sku {
		r.logger.Warnf("Cache sku mismatch: key_sku: %s, model_sku: %s", sku, model.Sku)
		if err := r.client.Client.Del(context.Background(), entryKey(sku)).Err(); err != nil {
			r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, nil
	}

	return r.conv.ToUseCase(&model), nil
}

// SetEntry кэширует запись с TTL из конфигурации.
func (r *CacheRepo) SetEntry(ctx context.Context, entry *usecase.EntryInfo) error {
	data, err := json.Marshal(r.conv.ToRedisModel(entry))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.client.Client.Set(ctx, entryKey(entry.Sku), data, r.cfg.EntryTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteEntry удаляет запись из кэша.
func (r *CacheRepo) DeleteEntry(ctx context.Context, sku string) error {
	if err := r.client.Client.Del(ctx, entryKey(sku)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func entryKey(sku string) string {
	return "entry:" + sku
}
