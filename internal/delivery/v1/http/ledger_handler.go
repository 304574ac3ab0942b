package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

type LedgerHandler struct {
	ledgerUsecase usecase.LedgerUC
	logger        logger.Logger
}

func NewLedgerHandler(ledgerUsecase usecase.LedgerUC, logger logger.Logger) *LedgerHandler {
	return &LedgerHandler{ledgerUsecase: ledgerUsecase, logger: logger}
}

type ledgerOpRequest struct {
	Amount    string `json:"amount"` // десятичная строка, например "250.00"
	Reference string `json:"reference"`
}

type accountResponse struct {
	ID       int64  `json:"id"`
	OwnerID  int64  `json:"owner_id"`
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

type transactionResponse struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Amount    int64     `json:"amount"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

// deposit
//
//	@Summary		Пополнение счёта
//	@Description	Зачисляет сумму на счёт владельца и записывает движение средств
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Param			ownerID	path		int				true	"Идентификатор владельца"
//	@Param			request	body		ledgerOpRequest	true	"Сумма и назначение"
//	@Success		200		{object}	accountResponse	"Счёт после операции"
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		404		{object}	ErrorResponse	"Счёт не найден"
//	@Router			/accounts/{ownerID}/deposit [post]
func (h *LedgerHandler) deposit(w http.ResponseWriter, r *http.Request) {
	h.applyOperation(w, r, h.ledgerUsecase.Deposit)
}

// withdraw
//
//	@Summary		Списание со счёта
//	@Description	Списывает сумму со счёта владельца, отклоняя операцию при нехватке средств
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Param			ownerID	path		int				true	"Идентификатор владельца"
//	@Param			request	body		ledgerOpRequest	true	"Сумма и назначение"
//	@Success		200		{object}	accountResponse	"Счёт после операции"
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		404		{object}	ErrorResponse	"Счёт не найден"
//	@Failure		409		{object}	ErrorResponse	"Недостаточно средств"
//	@Router			/accounts/{ownerID}/withdraw [post]
func (h *LedgerHandler) withdraw(w http.ResponseWriter, r *http.Request) {
	h.applyOperation(w, r, h.ledgerUsecase.Withdraw)
}

// balance
//
//	@Summary		Баланс счёта
//	@Description	Возвращает текущее состояние счёта владельца
//	@Tags			accounts
//	@Produce		json
//	@Param			ownerID	path		int				true	"Идентификатор владельца"
//	@Success		200		{object}	accountResponse	"Счёт"
//	@Failure		404		{object}	ErrorResponse	"Счёт не найден"
//	@Router			/accounts/{ownerID}/balance [get]
func (h *LedgerHandler) balance(w http.ResponseWriter, r *http.Request) {
	ownerID, err := parseOwnerID(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	account, err := h.ledgerUsecase.Balance(r.Context(), ownerID)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toAccountResponse(account))
}

// transactions
//
//	@Summary		Движения по счёту
//	@Description	Возвращает последние движения по счёту владельца, новые первыми
//	@Tags			accounts
//	@Produce		json
//	@Param			ownerID	path		int						true	"Идентификатор владельца"
//	@Param			limit	query		int						false	"Максимум записей"
//	@Success		200		{array}		transactionResponse		"Движения средств"
//	@Failure		404		{object}	ErrorResponse			"Счёт не найден"
//	@Router			/accounts/{ownerID}/transactions [get]
func (h *LedgerHandler) transactions(w http.ResponseWriter, r *http.Request) {
	ownerID, err := parseOwnerID(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.logger.Warnf("%d %s: limit: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), raw)
			WriteError(w, e.ErrStatusBadRequest)
			return
		}
	}

	transactions, err := h.ledgerUsecase.Transactions(r.Context(), ownerID, limit)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]transactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		result = append(result, transactionResponse{
			ID:        tx.ID,
			Kind:      tx.Kind,
			Amount:    tx.Amount,
			Reference: tx.Reference,
			CreatedAt: tx.CreatedAt,
		})
	}

	WriteSuccess(w, http.StatusOK, result)
}

type verifyPaymentRequest struct {
	RefID  string `json:"ref_id"`
	Amount string `json:"amount"` // десятичная строка, например "250.00"
}

// verifyPayment
//
//	@Summary		Подтверждение платежа
//	@Description	Сверяет платёж с платёжным шлюзом и зачисляет подтверждённую сумму на счёт владельца
//	@Tags			accounts
//	@Accept			json
//	@Produce		json
//	@Param			ownerID	path		int						true	"Идентификатор владельца"
//	@Param			request	body		verifyPaymentRequest	true	"Идентификатор платежа и сумма"
//	@Success		200		{object}	accountResponse			"Счёт после зачисления"
//	@Failure		400		{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		409		{object}	ErrorResponse			"Платёж не подтверждён шлюзом"
//	@Router			/accounts/{ownerID}/payments/verify [post]
func (h *LedgerHandler) verifyPayment(w http.ResponseWriter, r *http.Request) {
	ownerID, err := parseOwnerID(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	var req verifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	amount, err := parseMoney(req.Amount)
	if err != nil {
		h.logger.Warnf("%d %s: amount: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), req.Amount)
		WriteError(w, err)
		return
	}

	account, err := h.ledgerUsecase.VerifyPayment(r.Context(), &usecase.PaymentVerifyReq{
		OwnerID: ownerID,
		RefID:   req.RefID,
		Amount:  amount,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toAccountResponse(account))
}

func (h *LedgerHandler) applyOperation(w http.ResponseWriter, r *http.Request,
	operation func(ctx context.Context, req *usecase.LedgerOpReq) (*usecase.AccountInfo, error)) {
	ownerID, err := parseOwnerID(r)
	if err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	var req ledgerOpRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	amount, err := parseMoney(req.Amount)
	if err != nil {
		h.logger.Warnf("%d %s: amount: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), req.Amount)
		WriteError(w, err)
		return
	}

	account, err := operation(r.Context(), &usecase.LedgerOpReq{
		OwnerID:   ownerID,
		Amount:    amount,
		Reference: req.Reference,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toAccountResponse(account))
}

func parseOwnerID(r *http.Request) (int64, error) {
	ownerID, err := strconv.ParseInt(chi.URLParam(r, "ownerID"), 10, 64)
	if err != nil {
		return 0, e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return ownerID, nil
}

func toAccountResponse(account *usecase.AccountInfo) accountResponse {
	return accountResponse{
		ID:       account.ID,
		OwnerID:  account.OwnerID,
		Balance:  account.Balance,
		Currency: account.Currency,
	}
}
