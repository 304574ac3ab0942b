package magento

// Структуры полезных нагрузок REST API платформы.

type productPayload struct {
	Product     productData `json:"product"`
	SaveOptions bool        `json:"saveOptions,omitempty"`
}

type productData struct {
	Sku                 string              `json:"sku"`
	Name                string              `json:"name"`
	Price               float64             `json:"price"`
	Status              int                 `json:"status"`
	Visibility          int                 `json:"visibility"`
	TypeID              string              `json:"type_id"`
	AttributeSetID      int64               `json:"attribute_set_id"`
	ExtensionAttributes extensionAttributes `json:"extension_attributes"`
	CustomAttributes    []customAttribute   `json:"custom_attributes,omitempty"`
}

type extensionAttributes struct {
	StockItem     stockItem      `json:"stock_item"`
	CategoryLinks []categoryLink `json:"category_links,omitempty"`
}

type stockItem struct {
	Qty       int  `json:"qty"`
	IsInStock bool `json:"is_in_stock"`
}

type categoryLink struct {
	Position   int    `json:"position"`
	CategoryID string `json:"category_id"`
}

type customAttribute struct {
	AttributeCode string `json:"attribute_code"`
	Value         string `json:"value"`
}

type productResponse struct {
	ID  int64  `json:"id"`
	Sku string `json:"sku"`
}

type mediaPayload struct {
	Entry mediaEntry `json:"entry"`
}

type mediaEntry struct {
	MediaType string       `json:"media_type"`
	Label     string       `json:"label"`
	Position  int          `json:"position"`
	Disabled  bool         `json:"disabled"`
	Types     []string     `json:"types"`
	Content   mediaContent `json:"content"`
}

type mediaContent struct {
	Base64EncodedData string `json:"base64_encoded_data"`
	Type              string `json:"type"`
	Name              string `json:"name"`
}

type attributePayload struct {
	Attribute attributeData `json:"attribute"`
}

type attributeData struct {
	AttributeCode        string `json:"attribute_code"`
	FrontendInput        string `json:"frontend_input"`
	DefaultFrontendLabel string `json:"default_frontend_label"`
	Scope                string `json:"scope"`
	IsRequired           bool   `json:"is_required"`
}

type attributeResponse struct {
	AttributeID   int64             `json:"attribute_id"`
	AttributeCode string            `json:"attribute_code"`
	Options       []attributeOption `json:"options"`
}

type attributeOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type optionPayload struct {
	Option attributeOption `json:"option"`
}

type attributeGroupList struct {
	Items []struct {
		AttributeGroupID string `json:"attribute_group_id"`
	} `json:"items"`
}

type assignAttributePayload struct {
	AttributeSetID   int64  `json:"attributeSetId"`
	AttributeGroupID string `json:"attributeGroupId"`
	AttributeCode    string `json:"attributeCode"`
	SortOrder        int    `json:"sortOrder"`
}

type websitePayload struct {
	Website websiteData `json:"website"`
}

type websiteData struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	DefaultGroupID int64  `json:"default_group_id"`
}

type websiteResponse struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type storeGroupPayload struct {
	Group storeGroupData `json:"group"`
}

type storeGroupData struct {
	WebsiteID      int64  `json:"website_id"`
	RootCategoryID int64  `json:"root_category_id"`
	DefaultStoreID int64  `json:"default_store_id"`
	Name           string `json:"name"`
	Code           string `json:"code"`
}

type storeGroupResponse struct {
	ID int64 `json:"id"`
}

type storeViewPayload struct {
	Store storeViewData `json:"store"`
}

type storeViewData struct {
	WebsiteID int64  `json:"website_id"`
	GroupID   int64  `json:"group_id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	IsActive  int    `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

type storeViewResponse struct {
	ID int64 `json:"id"`
}

type customerSearchResponse struct {
	TotalCount int64 `json:"total_count"`
}
