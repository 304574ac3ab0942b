package magento

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jimlawless/whereami"
	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/e"
)

// CreateWebsite создаёт сайт на платформе. Повторное создание с тем же
// кодом транслируется в e.ErrAlreadyExists, решение о продолжении
// принимает вызывающая сторона.
func (c *Client) CreateWebsite(ctx context.Context, code, name string) (int64, error) {
	payload := websitePayload{
		Website: websiteData{
			Code:           code,
			Name:           name,
			DefaultGroupID: 0,
		},
	}

	var resp websiteResponse
	if err := c.do(ctx, http.MethodPost, "store/websites", payload, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, "already exists") {
			return 0, e.Wrap(whereami.WhereAmI(), e.ErrAlreadyExists)
		}

		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return resp.ID, nil
}

// ListWebsites возвращает все сайты платформы.
func (c *Client) ListWebsites(ctx context.Context) ([]usecase.RemoteWebsite, error) {
	var resp []websiteResponse
	if err := c.do(ctx, http.MethodGet, "store/websites", nil, &resp); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	websites := make([]usecase.RemoteWebsite, 0, len(resp))
	for _, website := range resp {
		websites = append(websites, usecase.RemoteWebsite{ID: website.ID, Code: website.Code})
	}

	return websites, nil
}

// CreateStoreGroup создаёт группу магазинов под указанным сайтом.
func (c *Client) CreateStoreGroup(ctx context.Context, websiteID int64, code, name string, rootCategoryID int64) (int64, error) {
	payload := storeGroupPayload{
		Group: storeGroupData{
			WebsiteID:      websiteID,
			RootCategoryID: rootCategoryID,
			DefaultStoreID: 0,
			Name:           name,
			Code:           code,
		},
	}

	var resp storeGroupResponse
	if err := c.do(ctx, http.MethodPost, "store/storeGroups", payload, &resp); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return resp.ID, nil
}

// CreateStoreView создаёт представление магазина под сайтом и группой.
func (c *Client) CreateStoreView(ctx context.Context, websiteID, groupID int64, code, name string) (int64, error) {
	payload := storeViewPayload{
		Store: storeViewData{
			WebsiteID: websiteID,
			GroupID:   groupID,
			Name:      name,
			Code:      code,
			IsActive:  1,
			SortOrder: 0,
		},
	}

	var resp storeViewResponse
	if err := c.do(ctx, http.MethodPost, "store/storeViews", payload, &resp); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return resp.ID, nil
}
