package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

// SmsIr — стратегия отправки через провайдера SMS.IR.
type SmsIr struct {
	httpClient *http.Client
	cfg        *cfg.SmsProviderCfg
	logger     logger.Logger
}

func NewSmsIr(cfg *cfg.SmsProviderCfg, logger logger.Logger) *SmsIr {
	return &SmsIr{
		httpClient: &http.Client{Timeout: smsRequestTimeout},
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *SmsIr) Name() string { return "smsir" }

func (s *SmsIr) Send(ctx context.Context, recipient, body string) error {
	payload := map[string]any{
		"lineNumber":  s.cfg.Sender,
		"messageText": body,
		"mobiles":     []string{recipient},
	}

	if err := s.post(ctx, s.cfg.URL+"/bulk", payload); err != nil {
		return fmt.Errorf("%w: smsir: %v", e.ErrSending, err)
	}

	s.logger.Infof("sms sent via smsir. recipient: %s", recipient)
	return nil
}

func (s *SmsIr) SendPattern(ctx context.Context, recipient, patternCode string, params map[string]string) error {
	parameters := make([]map[string]string, 0, len(params))
	for name, value := range params {
		parameters = append(parameters, map[string]string{"name": name, "value": value})
	}

	payload := map[string]any{
		"mobile":     recipient,
		"templateId": patternCode,
		"parameters": parameters,
	}

	if err := s.post(ctx, s.cfg.URL+"/verify", payload); err != nil {
		return fmt.Errorf("%w: smsir pattern %s: %v", e.ErrSending, patternCode, err)
	}

	s.logger.Infof("pattern sms sent via smsir. recipient: %s, pattern: %s", recipient, patternCode)
	return nil
}

func (s *SmsIr) Credit(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL+"/credit", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("x-api-key", s.cfg.ApiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("smsir credit endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Data float64 `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, err
	}

	return parsed.Data, nil
}

func (s *SmsIr) post(ctx context.Context, url string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", s.cfg.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
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
