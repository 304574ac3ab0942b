package magento

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/e"
)

const (
	productStatusEnabled  = 1
	productVisibilityBoth = 4
	productTypeSimple     = "simple"
	mediaTypeImage        = "image"
)

// GetProductBySku зондирует существование продукта по артикулу.
func (c *Client) GetProductBySku(ctx context.Context, sku string) (*usecase.RemoteProduct, error) {
	var resp productResponse
	if err := c.do(ctx, http.MethodGet, "products/"+url.PathEscape(sku), nil, &resp); err != nil {
		return nil, err
	}

	return &usecase.RemoteProduct{ID: resp.ID, Sku: resp.Sku}, nil
}

// CreateProduct создаёт продукт на платформе.
func (c *Client) CreateProduct(ctx context.Context, req *usecase.RemoteProductReq) (*usecase.RemoteProduct, error) {
	payload := productPayload{Product: c.mapProduct(req)}

	var resp productResponse
	if err := c.do(ctx, http.MethodPost, "products", payload, &resp); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &usecase.RemoteProduct{ID: resp.ID, Sku: resp.Sku}, nil
}

// UpdateProduct обновляет существующий продукт. Флаг saveOptions обязателен
// при обновлении, иначе платформа теряет опции select-атрибутов.
func (c *Client) UpdateProduct(ctx context.Context, sku string, req *usecase.RemoteProductReq) (*usecase.RemoteProduct, error) {
	payload := productPayload{Product: c.mapProduct(req), SaveOptions: true}

	var resp productResponse
	if err := c.do(ctx, http.MethodPut, "products/"+url.PathEscape(sku), payload, &resp); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &usecase.RemoteProduct{ID: resp.ID, Sku: resp.Sku}, nil
}

// UploadProductMedia загружает одно изображение продукта в base64.
// Роли {image, small_image, thumbnail} получает только изображение
// с нулевой позицией.
func (c *Client) UploadProductMedia(ctx context.Context, sku string, req *usecase.MediaUploadReq) (int64, error) {
	types := []string{}
	if req.Index == 0 {
		types = []string{"image", "small_image", "thumbnail"}
	}

	payload := mediaPayload{
		Entry: mediaEntry{
			MediaType: mediaTypeImage,
			Label:     fmt.Sprintf("%s - Image %d", req.EntryName, req.Index+1),
			Position:  req.Index + 1,
			Disabled:  false,
			Types:     types,
			Content: mediaContent{
				Base64EncodedData: base64.StdEncoding.EncodeToString(req.Data),
				Type:              req.MimeType,
				Name:              fmt.Sprintf("%s-%d%s", url.PathEscape(sku), req.Index+1, extFromMime(req.MimeType)),
			},
		},
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "products/"+url.PathEscape(sku)+"/media", payload, &raw); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	id, err := parseMediaID(raw)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return id, nil
}

// CountCustomersByWebsite возвращает число покупателей сайта
// через поиск с фильтром по website_id.
func (c *Client) CountCustomersByWebsite(ctx context.Context, websiteID int64) (int64, error) {
	query := url.Values{}
	query.Set("searchCriteria[filter_groups][0][filters][0][field]", "website_id")
	query.Set("searchCriteria[filter_groups][0][filters][0][value]", strconv.FormatInt(websiteID, 10))
	query.Set("searchCriteria[filter_groups][0][filters][0][condition_type]", "eq")
	query.Set("searchCriteria[pageSize]", "1")

	var resp customerSearchResponse
	if err := c.do(ctx, http.MethodGet, "customers/search?"+query.Encode(), nil, &resp); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return resp.TotalCount, nil
}

func (c *Client) mapProduct(req *usecase.RemoteProductReq) productData {
	customAttributes := make([]customAttribute, 0, len(req.CustomAttributes))
	for _, attr := range req.CustomAttributes {
		customAttributes = append(customAttributes, customAttribute{
			AttributeCode: attr.Code,
			Value:         attr.Value,
		})
	}

	categoryLinks := make([]categoryLink, 0, len(req.CategoryIDs))
	for _, id := range req.CategoryIDs {
		categoryLinks = append(categoryLinks, categoryLink{
			Position:   0,
			CategoryID: strconv.FormatInt(id, 10),
		})
	}

	return productData{
		Sku:            req.Sku,
		Name:           req.Name,
		Price:          decimal.New(req.Price, -2).InexactFloat64(),
		Status:         productStatusEnabled,
		Visibility:     productVisibilityBoth,
		TypeID:         productTypeSimple,
		AttributeSetID: c.cfg.AttributeSetID,
		ExtensionAttributes: extensionAttributes{
			StockItem: stockItem{
				Qty:       req.StockQuantity,
				IsInStock: req.StockQuantity > 0,
			},
			CategoryLinks: categoryLinks,
		},
		CustomAttributes: customAttributes,
	}
}

// parseMediaID разбирает идентификатор медиа-записи: платформа возвращает
// его то строкой, то числом.
func parseMediaID(raw json.RawMessage) (int64, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strconv.ParseInt(asString, 10, 64)
	}

	var asInt int64
	if err := json.Unmarshal(raw, &asInt); err != nil {
		return 0, err
	}

	return asInt, nil
}

func extFromMime(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
