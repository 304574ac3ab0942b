package magento

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/pkg/e"
	"github.com/storeforge/backend/pkg/logger"
)

// APIError — ответ платформы со статусом вне 2xx.
// Тело ответа сохраняется для диагностики.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (a *APIError) Error() string {
	return fmt.Sprintf("remote api error: status %d: %s", a.StatusCode, a.Message)
}

// Client — REST-клиент удалённой коммерц-платформы. Bearer-токен кэшируется
// на весь процесс и обновляется лениво по истечении срока жизни.
type Client struct {
	httpClient *http.Client
	cfg        *cfg.MagentoCfg
	logger     logger.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg *cfg.MagentoCfg, logger logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger,
	}
}

// getToken возвращает кэшированный токен либо запрашивает новый.
// Ошибка получения токена фатальна для всего прогона синхронизации.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	if c.cfg.Username == "" || c.cfg.Password == "" {
		return "", fmt.Errorf("%w: credentials are not configured", e.ErrRemoteAuth)
	}

	body, err := json.Marshal(map[string]string{
		"username": c.cfg.Username,
		"password": c.cfg.Password,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", e.ErrRemoteAuth, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/rest/V1/integration/admin/token", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", e.ErrRemoteAuth, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", e.ErrRemoteAuth, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", e.ErrRemoteAuth, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned %d: %s", e.ErrRemoteAuth, resp.StatusCode, string(respBody))
	}

	// Эндпоинт возвращает токен как JSON-строку
	var token string
	if err := json.Unmarshal(respBody, &token); err != nil {
		return "", fmt.Errorf("%w: %v", e.ErrRemoteAuth, err)
	}

	c.token = token
	c.tokenExpiry = time.Now().Add(c.cfg.TokenTTL)
	c.logger.Debugf("admin token refreshed, valid until %s", c.tokenExpiry.Format(time.RFC3339))

	return token, nil
}

// do выполняет аутентифицированный запрос к REST API платформы.
// 404 транслируется в e.ErrRemoteNotFound, прочие статусы вне 2xx — в APIError.
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	token, err := c.getToken(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+"/rest/V1/"+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s", e.ErrRemoteNotFound, method, path)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Токен мог быть отозван раньше срока; сбрасываем кэш
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()

		return fmt.Errorf("%w: %s %s returned 401", e.ErrRemoteAuth, method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(respBody),
			Body:       string(respBody),
		}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return err
		}
	}

	return nil
}

// extractMessage достаёт поле message из тела ошибки платформы.
func extractMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Message == "" {
		return strings.TrimSpace(string(body))
	}

	return parsed.Message
}
