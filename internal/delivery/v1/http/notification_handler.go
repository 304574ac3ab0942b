package http

import (
	"net/http"

	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

type NotificationHandler struct {
	notificationUsecase usecase.NotificationUC
	logger              logger.Logger
}

func NewNotificationHandler(notificationUsecase usecase.NotificationUC, logger logger.Logger) *NotificationHandler {
	return &NotificationHandler{notificationUsecase: notificationUsecase, logger: logger}
}

type notifyRequest struct {
	Channels      []string          `json:"channels"`
	Recipient     string            `json:"recipient"`
	Subject       string            `json:"subject"`
	Body          string            `json:"body"`
	PatternCode   string            `json:"pattern_code"`
	PatternParams map[string]string `json:"pattern_params"`
	Provider      string            `json:"provider"`
}

type creditResponse struct {
	Credit float64 `json:"credit"`
}

// dispatch
//
//	@Summary		Отправка уведомления
//	@Description	Отправляет уведомление по указанным каналам: SMS с перебором провайдеров и/или email
//	@Tags			notifications
//	@Accept			json
//	@Produce		json
//	@Param			request	body		notifyRequest			true	"Уведомление"
//	@Success		200		{object}	map[string]interface{}	"Уведомление отправлено"
//	@Failure		400		{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		502		{object}	ErrorResponse			"Все провайдеры недоступны"
//	@Router			/notifications [post]
func (h *NotificationHandler) dispatch(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	err := h.notificationUsecase.Dispatch(r.Context(), &usecase.NotifyReq{
		Channels:      req.Channels,
		Recipient:     req.Recipient,
		Subject:       req.Subject,
		Body:          req.Body,
		PatternCode:   req.PatternCode,
		PatternParams: req.PatternParams,
		Provider:      req.Provider,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"Sent": true,
	})
}

// smsCredit
//
//	@Summary		Остаток SMS-кредита
//	@Description	Возвращает остаток кредита провайдера SMS по умолчанию
//	@Tags			notifications
//	@Produce		json
//	@Success		200	{object}	creditResponse	"Остаток кредита"
//	@Failure		502	{object}	ErrorResponse	"Провайдер недоступен"
//	@Router			/notifications/sms/credit [get]
func (h *NotificationHandler) smsCredit(w http.ResponseWriter, r *http.Request) {
	credit, err := h.notificationUsecase.SmsCredit(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, creditResponse{Credit: credit})
}
