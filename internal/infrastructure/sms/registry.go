package sms

import (
	"fmt"

	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

// constructors — реестр провайдеров по псевдониму. Новый провайдер
// добавляется регистрацией конструктора, диспетчер не меняется.
var constructors = map[string]func(*cfg.SmsProviderCfg, logger.Logger) usecase.SmsStrategy{
	"farazsms": func(c *cfg.SmsProviderCfg, l logger.Logger) usecase.SmsStrategy { return NewFarazSms(c, l) },
	"smsir":    func(c *cfg.SmsProviderCfg, l logger.Logger) usecase.SmsStrategy { return NewSmsIr(c, l) },
}

// BuildProviders собирает стратегии для всех настроенных провайдеров.
func BuildProviders(smsCfg *cfg.SmsCfg, logger logger.Logger) (map[string]usecase.SmsStrategy, error) {
	providers := make(map[string]usecase.SmsStrategy, len(smsCfg.Providers))

	for alias, providerCfg := range smsCfg.Providers {
		constructor, ok := constructors[alias]
		if !ok {
			return nil, fmt.Errorf("%w: %s", e.ErrUnknownProvider, alias)
		}
		providers[alias] = constructor(providerCfg, logger)
	}

	return providers, nil
}
