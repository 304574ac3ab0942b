package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, logger: logger}
}

type ingestRecordRequest struct {
	Sku           string                `json:"sku"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	Price         string                `json:"price"`
	StockQuantity int                   `json:"stock_quantity"`
	Category      string                `json:"category"`
	Brand         string                `json:"brand"`
	SourceURL     string                `json:"source_url"`
	Attributes    []attributeValueModel `json:"attributes"`
	Images        []string              `json:"images"`
}

type attributeValueModel struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ingestRequest struct {
	Records []ingestRecordRequest `json:"records"`
}

type ingestResponse struct {
	Accepted int `json:"accepted"`
}

type entryResponse struct {
	Sku              string                `json:"sku"`
	Name             string                `json:"name"`
	Description      string                `json:"description"`
	Price            int64                 `json:"price"`
	StockQuantity    int                   `json:"stock_quantity"`
	Category         string                `json:"category"`
	Brand            string                `json:"brand"`
	Attributes       []attributeValueModel `json:"attributes"`
	Images           []string              `json:"images"`
	SyncStatus       string                `json:"sync_status"`
	SyncErrorMessage string                `json:"sync_error_message,omitempty"`
}

// ingestRecords
//
//	@Summary		Пакетный импорт записей каталога
//	@Description	Принимает пакет записей, валидирует их целиком и сохраняет частями в транзакциях
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ingestRequest	true	"Записи для импорта"
//	@Success		200		{object}	ingestResponse	"Число принятых записей"
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/catalog/ingest [post]
func (h *CatalogHandler) ingestRecords(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.catalogUsecase.IngestRecords(r.Context(), toIngestReq(&req))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, ingestResponse{Accepted: res.Accepted})
}

// getEntry
//
//	@Summary		Получение записи каталога
//	@Description	Возвращает запись каталога по артикулу, сперва проверяя кэш
//	@Tags			catalog
//	@Produce		json
//	@Param			sku	path		string			true	"Артикул"
//	@Success		200	{object}	entryResponse	"Запись каталога"
//	@Failure		404	{object}	ErrorResponse	"Запись не найдена"
//	@Router			/catalog/{sku} [get]
func (h *CatalogHandler) getEntry(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	entry, err := h.catalogUsecase.GetEntry(r.Context(), sku)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toEntryResponse(entry))
}

// requestSync
//
//	@Summary		Запрос синхронизации записи
//	@Description	Ставит задачу на синхронизацию одобренной записи с удалённой платформой
//	@Tags			catalog
//	@Produce		json
//	@Param			sku	path		string					true	"Артикул"
//	@Success		202	{object}	map[string]interface{}	"Задача поставлена"
//	@Failure		404	{object}	ErrorResponse			"Запись не найдена"
//	@Failure		409	{object}	ErrorResponse			"Запись не одобрена"
//	@Router			/catalog/{sku}/sync [post]
func (h *CatalogHandler) requestSync(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	if err := h.catalogUsecase.RequestSync(r.Context(), sku); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusAccepted, map[string]interface{}{
		"Queued": true,
	})
}

type reviewRequest struct {
	Status string `json:"status"` // approved или rejected
}

// reviewEntry
//
//	@Summary		Модерация записи каталога
//	@Description	Переводит запись в статус approved или rejected по решению администратора
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			sku		path		string			true	"Артикул"
//	@Param			request	body		reviewRequest	true	"Новый статус"
//	@Success		200		{object}	entryResponse	"Запись после модерации"
//	@Failure		400		{object}	ErrorResponse	"Недопустимый статус"
//	@Failure		404		{object}	ErrorResponse	"Запись не найдена"
//	@Router			/catalog/{sku}/status [patch]
func (h *CatalogHandler) reviewEntry(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	entry, err := h.catalogUsecase.ReviewEntry(r.Context(), sku, req.Status)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toEntryResponse(entry))
}

func toIngestReq(req *ingestRequest) *usecase.IngestReq {
	records := make([]usecase.IngestRecord, 0, len(req.Records))
	for _, record := range req.Records {
		attributes := make([]usecase.AttributeValueReq, 0, len(record.Attributes))
		for _, attr := range record.Attributes {
			attributes = append(attributes, usecase.AttributeValueReq{Label: attr.Label, Value: attr.Value})
		}

		records = append(records, usecase.IngestRecord{
			Sku:           record.Sku,
			Name:          record.Name,
			Description:   record.Description,
			Price:         record.Price,
			StockQuantity: record.StockQuantity,
			Category:      record.Category,
			Brand:         record.Brand,
			SourceURL:     record.SourceURL,
			Attributes:    attributes,
			Images:        record.Images,
		})
	}

	return &usecase.IngestReq{Records: records}
}

func toEntryResponse(entry *usecase.EntryInfo) entryResponse {
	attributes := make([]attributeValueModel, 0, len(entry.Attributes))
	for _, attr := range entry.Attributes {
		attributes = append(attributes, attributeValueModel{Label: attr.Label, Value: attr.Value})
	}

	return entryResponse{
		Sku:              entry.Sku,
		Name:             entry.Name,
		Description:      entry.Description,
		Price:            entry.Price,
		StockQuantity:    entry.StockQuantity,
		Category:         entry.Category,
		Brand:            entry.Brand,
		Attributes:       attributes,
		Images:           entry.Images,
		SyncStatus:       entry.SyncStatus,
		SyncErrorMessage: entry.SyncErrorMessage,
	}
}
