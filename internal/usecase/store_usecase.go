package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/internal/domain"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

const codeGenerationLimit = 100

// StoreUseCase создаёт витрину продавца на удалённой платформе: сайт,
// группу магазинов и представление магазина. Частичного успеха нет —
// любой фатальный шаг прерывает создание целиком, локальная запись
// сохраняется только после полного успеха.
type StoreUseCase struct {
	storeRepo  StoreRepository
	platform   PlatformClient
	magentoCfg *cfg.MagentoCfg
	logger     logger.Logger
}

func NewStoreUC(
	storeRepo StoreRepository,
	platform PlatformClient,
	magentoCfg *cfg.MagentoCfg,
	logger logger.Logger,
) *StoreUseCase {
	return &StoreUseCase{
		storeRepo:  storeRepo,
		platform:   platform,
		magentoCfg: magentoCfg,
		logger:     logger,
	}
}

// ProvisionStore создаёт витрину продавца.
func (s *StoreUseCase) ProvisionStore(ctx context.Context, req *ProvisionStoreReq) (*StoreInfo, error) {
	const op = "StoreUseCase.ProvisionStore"

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, e.Wrap(op, e.ErrNameRequired)
	}

	code, err := s.generateCode(ctx, name)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Повторное создание сайта с тем же кодом не фатально:
	// дальше сайт в любом случае ищется по коду
	if _, err := s.platform.CreateWebsite(ctx, code, name); err != nil {
		if !errors.Is(err, e.ErrAlreadyExists) {
			return nil, e.Wrap(op, err)
		}
		s.logger.Infof("website already exists, resolving by code. code: %s", code)
	}

	websiteID, err := s.findWebsiteByCode(ctx, code)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	groupID, err := s.platform.CreateStoreGroup(ctx, websiteID, code+"_group", name, s.magentoCfg.RootCategoryID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	viewID, err := s.platform.CreateStoreView(ctx, websiteID, groupID, code+"_view", name)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	store := domain.NewStore(req.OwnerID, name, code)
	store.WebsiteID = websiteID
	store.StoreGroupID = groupID
	store.StoreViewID = viewID
	store.RootCategoryID = s.magentoCfg.RootCategoryID

	saved, err := s.storeRepo.Create(ctx, store)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.logger.Infof("store provisioned. code: %s, website: %d, group: %d, view: %d",
		code, websiteID, groupID, viewID)

	return NewStoreInfo(saved), nil
}

// CustomerCount возвращает число покупателей, зарегистрированных
// на сайте витрины.
func (s *StoreUseCase) CustomerCount(ctx context.Context, code string) (int64, error) {
	const op = "StoreUseCase.CustomerCount"

	code = strings.TrimSpace(code)
	if code == "" {
		return 0, e.Wrap(op, e.ErrStoreNotFound)
	}

	store, err := s.storeRepo.GetByCode(ctx, code)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	count, err := s.platform.CountCustomersByWebsite(ctx, store.WebsiteID)
	if err != nil {
		return 0, e.Wrap(op, err)
	}

	return count, nil
}

// findWebsiteByCode разыскивает сайт по коду после попытки создания.
// Отсутствие сайта на этом шаге фатально: слепое продолжение запрещено.
func (s *StoreUseCase) findWebsiteByCode(ctx context.Context, code string) (int64, error) {
	websites, err := s.platform.ListWebsites(ctx)
	if err != nil {
		return 0, err
	}

	for _, website := range websites {
		if website.Code == code {
			return website.ID, nil
		}
	}

	return 0, e.ErrWebsiteNotFound
}

// generateCode подбирает уникальный локальный код витрины вида xxxx_name.
// Это цикл ухода от коллизий, а не криптографическая гарантия.
func (s *StoreUseCase) generateCode(ctx context.Context, name string) (string, error) {
	base := normalizeCode(name)

	for i := 0; i < codeGenerationLimit; i++ {
		code := randomPrefix() + "_" + base

		exists, err := s.storeRepo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}

		if !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique store code for %q", name)
}

// normalizeCode приводит имя к виду, допустимому в коде витрины.
func normalizeCode(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return b.String()
}

func randomPrefix() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"

	prefix := make([]byte, 4)
	for i := range prefix {
		prefix[i] = letters[rand.Intn(len(letters))]
	}

	return string(prefix)
}
