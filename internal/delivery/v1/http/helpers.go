package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storeforge/backend/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrSkuRequired),
		errors.Is(err, e.ErrNameRequired),
		errors.Is(err, e.ErrRecipientRequired),
		errors.Is(err, e.ErrChannelRequired),
		errors.Is(err, e.ErrUnsupportedChannel),
		errors.Is(err, e.ErrUnknownProvider),
		errors.Is(err, e.ErrNoRecords),
		errors.Is(err, e.ErrInvalidPrice),
		errors.Is(err, e.ErrPricePrecision),
		errors.Is(err, e.ErrNegativeStock),
		errors.Is(err, e.ErrAmountMustBePositive),
		errors.Is(err, e.ErrSmsContentType),
		errors.Is(err, e.ErrEmailContentType),
		errors.Is(err, e.ErrInvalidReviewStatus),
		errors.Is(err, e.ErrPaymentRefRequired),
		errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, rootMessage(err)
	case errors.Is(err, e.ErrEntryNotFound),
		errors.Is(err, e.ErrStoreNotFound),
		errors.Is(err, e.ErrAccountNotFound):
		return http.StatusNotFound, rootMessage(err)
	case errors.Is(err, e.ErrEntryNotApproved),
		errors.Is(err, e.ErrPaymentNotVerified),
		errors.Is(err, e.ErrInsufficientBalance):
		return http.StatusConflict, rootMessage(err)
	case errors.Is(err, e.ErrAllProvidersFailed),
		errors.Is(err, e.ErrRemoteAuth),
		errors.Is(err, e.ErrWebsiteNotFound):
		return http.StatusBadGateway, rootMessage(err)
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

// rootMessage отдаёт наружу только хвост цепочки ошибок,
// без внутренних префиксов операций.
func rootMessage(err error) string {
	msg := err.Error()
	if idx := strings.LastIndex(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}

	return msg
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return nil
}

// parseMoney переводит десятичную строку суммы в минорные единицы.
func parseMoney(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, e.ErrInvalidPrice
	}

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.IsNegative() {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return 0, e.ErrPricePrecision
	}

	return d.Shift(2).IntPart(), nil
}
