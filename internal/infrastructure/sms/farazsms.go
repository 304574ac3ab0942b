package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

const smsRequestTimeout = 15 * time.Second

// FarazSms — стратегия отправки через провайдера FarazSMS.
// Любая ошибка доставки оборачивается в e.ErrSending, чтобы диспетчер
// мог перейти к следующему провайдеру.
type FarazSms struct {
	httpClient *http.Client
	cfg        *cfg.SmsProviderCfg
	logger     logger.Logger
}

func NewFarazSms(cfg *cfg.SmsProviderCfg, logger logger.Logger) *FarazSms {
	return &FarazSms{
		httpClient: &http.Client{Timeout: smsRequestTimeout},
		cfg:        cfg,
		logger:     logger,
	}
}

func (f *FarazSms) Name() string { return "farazsms" }

func (f *FarazSms) Send(ctx context.Context, recipient, body string) error {
	payload := map[string]any{
		"recipient": []string{recipient},
		"sender":    f.cfg.Sender,
		"message":   body,
	}

	if err := f.post(ctx, f.cfg.URL, payload); err != nil {
		return fmt.Errorf("%w: farazsms: %v", e.ErrSending, err)
	}

	f.logger.Infof("sms sent via farazsms. recipient: %s", recipient)
	return nil
}

func (f *FarazSms) SendPattern(ctx context.Context, recipient, patternCode string, params map[string]string) error {
	payload := map[string]any{
		"recipient":    []string{recipient},
		"sender":       f.cfg.Sender,
		"pattern_code": patternCode,
		"variable":     params,
	}

	if err := f.post(ctx, f.cfg.URL+"/pattern", payload); err != nil {
		return fmt.Errorf("%w: farazsms pattern %s: %v", e.ErrSending, patternCode, err)
	}

	f.logger.Infof("pattern sms sent via farazsms. recipient: %s, pattern: %s", recipient, patternCode)
	return nil
}

func (f *FarazSms) Credit(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.URL+"/credit", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("apikey", f.cfg.ApiKey)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("farazsms credit endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Data struct {
			Credit float64 `json:"credit"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, err
	}

	return parsed.Data.Credit, nil
}

func (f *FarazSms) post(ctx context.Context, url string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("apikey", f.cfg.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
