package http

import (
	"net/http"

	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

type MappingHandler struct {
	mappingUsecase usecase.MappingUC
	logger         logger.Logger
}

func NewMappingHandler(mappingUsecase usecase.MappingUC, logger logger.Logger) *MappingHandler {
	return &MappingHandler{mappingUsecase: mappingUsecase, logger: logger}
}

type categoryMappingResponse struct {
	ID                int64  `json:"id"`
	SourceName        string `json:"source_name"`
	MagentoCategoryID *int64 `json:"magento_category_id"`
	IsMapped          bool   `json:"is_mapped"`
}

type attributeMappingResponse struct {
	ID                   int64   `json:"id"`
	SourceLabel          string  `json:"source_label"`
	MagentoAttributeCode *string `json:"magento_attribute_code"`
	MagentoAttributeType string  `json:"magento_attribute_type"`
	IsMapped             bool    `json:"is_mapped"`
}

type saveCategoryMappingRequest struct {
	SourceName        string `json:"source_name"`
	MagentoCategoryID *int64 `json:"magento_category_id"`
}

type saveAttributeMappingRequest struct {
	SourceLabel          string  `json:"source_label"`
	MagentoAttributeCode *string `json:"magento_attribute_code"`
	MagentoAttributeType string  `json:"magento_attribute_type"`
}

// listCategoryMappings
//
//	@Summary		Список соответствий категорий
//	@Description	Возвращает все соответствия категорий источника категориям удалённой платформы
//	@Tags			mappings
//	@Produce		json
//	@Success		200	{array}	categoryMappingResponse	"Соответствия категорий"
//	@Router			/mappings/categories [get]
func (h *MappingHandler) listCategoryMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.mappingUsecase.ListCategoryMappings(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]categoryMappingResponse, 0, len(mappings))
	for _, m := range mappings {
		result = append(result, categoryMappingResponse{
			ID:                m.ID,
			SourceName:        m.SourceName,
			MagentoCategoryID: m.MagentoCategoryID,
			IsMapped:          m.IsMapped,
		})
	}

	WriteSuccess(w, http.StatusOK, result)
}

// saveCategoryMapping
//
//	@Summary		Сохранение соответствия категории
//	@Description	Привязывает категорию источника к идентификатору категории удалённой платформы
//	@Tags			mappings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		saveCategoryMappingRequest	true	"Соответствие категории"
//	@Success		200		{object}	categoryMappingResponse		"Сохранённое соответствие"
//	@Failure		400		{object}	ErrorResponse				"Ошибка валидации"
//	@Router			/mappings/categories [put]
func (h *MappingHandler) saveCategoryMapping(w http.ResponseWriter, r *http.Request) {
	var req saveCategoryMappingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	mapping, err := h.mappingUsecase.SaveCategoryMapping(r.Context(), &usecase.SaveCategoryMappingReq{
		SourceName:        req.SourceName,
		MagentoCategoryID: req.MagentoCategoryID,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, categoryMappingResponse{
		ID:                mapping.ID,
		SourceName:        mapping.SourceName,
		MagentoCategoryID: mapping.MagentoCategoryID,
		IsMapped:          mapping.IsMapped,
	})
}

// listAttributeMappings
//
//	@Summary		Список соответствий атрибутов
//	@Description	Возвращает все соответствия меток атрибутов источника кодам удалённой платформы
//	@Tags			mappings
//	@Produce		json
//	@Success		200	{array}	attributeMappingResponse	"Соответствия атрибутов"
//	@Router			/mappings/attributes [get]
func (h *MappingHandler) listAttributeMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := h.mappingUsecase.ListAttributeMappings(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]attributeMappingResponse, 0, len(mappings))
	for _, m := range mappings {
		result = append(result, attributeMappingResponse{
			ID:                   m.ID,
			SourceLabel:          m.SourceLabel,
			MagentoAttributeCode: m.MagentoAttributeCode,
			MagentoAttributeType: m.MagentoAttributeType,
			IsMapped:             m.IsMapped,
		})
	}

	WriteSuccess(w, http.StatusOK, result)
}

// saveAttributeMapping
//
//	@Summary		Сохранение соответствия атрибута
//	@Description	Привязывает метку атрибута источника к коду и типу атрибута удалённой платформы
//	@Tags			mappings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		saveAttributeMappingRequest	true	"Соответствие атрибута"
//	@Success		200		{object}	attributeMappingResponse	"Сохранённое соответствие"
//	@Failure		400		{object}	ErrorResponse				"Ошибка валидации"
//	@Router			/mappings/attributes [put]
func (h *MappingHandler) saveAttributeMapping(w http.ResponseWriter, r *http.Request) {
	var req saveAttributeMappingRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	mapping, err := h.mappingUsecase.SaveAttributeMapping(r.Context(), &usecase.SaveAttributeMappingReq{
		SourceLabel:          req.SourceLabel,
		MagentoAttributeCode: req.MagentoAttributeCode,
		MagentoAttributeType: req.MagentoAttributeType,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, attributeMappingResponse{
		ID:                   mapping.ID,
		SourceLabel:          mapping.SourceLabel,
		MagentoAttributeCode: mapping.MagentoAttributeCode,
		MagentoAttributeType: mapping.MagentoAttributeType,
		IsMapped:             mapping.IsMapped,
	})
}
