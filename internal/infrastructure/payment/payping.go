package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/internal/usecase"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

// PayPing — клиент платёжного шлюза PayPing. Отвечает только
// за подтверждение платежа; зачисление на счёт выполняет вызывающий.
type PayPing struct {
	httpClient *http.Client
	cfg        *cfg.PaymentCfg
	logger     logger.Logger
}

func NewPayPing(cfg *cfg.PaymentCfg, logger logger.Logger) *PayPing {
	return &PayPing{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger,
	}
}

// VerifyPayment подтверждает платёж по его идентификатору и сумме.
// Отказ шлюза (4xx) означает неподтверждённый платёж; прочие ошибки —
// недоступность шлюза.
func (p *PayPing) VerifyPayment(ctx context.Context, refID string, amount int64) (*usecase.PaymentReceipt, error) {
	if p.cfg.Token == "" {
		return nil, e.Wrap("payping token is not configured", e.ErrRemoteAuth)
	}

	payload, err := json.Marshal(map[string]any{
		"refId":  refID,
		"amount": amount,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v1/pay/verify", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, fmt.Errorf("%w: payping status %d: %s", e.ErrPaymentNotVerified, resp.StatusCode, string(body))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("payping verify endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Amount     int64  `json:"amount"`
		CardNumber string `json:"cardNumber"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	p.logger.Infof("payment verified. ref: %s, amount: %d", refID, parsed.Amount)

	return &usecase.PaymentReceipt{
		RefID:      refID,
		Amount:     parsed.Amount,
		CardNumber: parsed.CardNumber,
	}, nil
}
