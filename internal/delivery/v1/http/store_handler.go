package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

type StoreHandler struct {
	storeUsecase usecase.StoreUC
	logger       logger.Logger
}

func NewStoreHandler(storeUsecase usecase.StoreUC, logger logger.Logger) *StoreHandler {
	return &StoreHandler{storeUsecase: storeUsecase, logger: logger}
}

type provisionStoreRequest struct {
	OwnerID int64  `json:"owner_id"`
	Name    string `json:"name"`
}

type storeResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	WebsiteID    int64  `json:"website_id"`
	StoreGroupID int64  `json:"store_group_id"`
	StoreViewID  int64  `json:"store_view_id"`
}

// provisionStore
//
//	@Summary		Создание витрины продавца
//	@Description	Создаёт сайт, группу магазинов и представление на удалённой платформе, затем сохраняет витрину
//	@Tags			stores
//	@Accept			json
//	@Produce		json
//	@Param			request	body		provisionStoreRequest	true	"Данные витрины"
//	@Success		201		{object}	storeResponse			"Созданная витрина"
//	@Failure		400		{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		502		{object}	ErrorResponse			"Ошибка удалённой платформы"
//	@Router			/stores [post]
func (h *StoreHandler) provisionStore(w http.ResponseWriter, r *http.Request) {
	var req provisionStoreRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	store, err := h.storeUsecase.ProvisionStore(r.Context(), &usecase.ProvisionStoreReq{
		OwnerID: req.OwnerID,
		Name:    req.Name,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, storeResponse{
		ID:           store.ID,
		Name:         store.Name,
		Code:         store.Code,
		WebsiteID:    store.WebsiteID,
		StoreGroupID: store.StoreGroupID,
		StoreViewID:  store.StoreViewID,
	})
}

type customerCountResponse struct {
	Count int64 `json:"count"`
}

// customerCount
//
//	@Summary		Число покупателей витрины
//	@Description	Возвращает число покупателей, привязанных к сайту витрины на удалённой платформе
//	@Tags			stores
//	@Produce		json
//	@Param			code	path		string					true	"Локальный код витрины"
//	@Success		200		{object}	customerCountResponse	"Число покупателей"
//	@Failure		404		{object}	ErrorResponse			"Витрина не найдена"
//	@Failure		502		{object}	ErrorResponse			"Ошибка удалённой платформы"
//	@Router			/stores/{code}/customers [get]
func (h *StoreHandler) customerCount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	count, err := h.storeUsecase.CustomerCount(r.Context(), code)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, customerCountResponse{Count: count})
}
